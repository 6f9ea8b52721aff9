package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/simulation/policies.csv", "#,A")
	writeFile(t, root, "data/simulation/dilemmas/Zoo.txt", "[dilemma]")
	writeFile(t, root, "data/simulation/dilemmas/Airport.txt", "[dilemma]")
	writeFile(t, root, "data/simulation/dilemmas/notes.md", "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data/simulation/dilemmas/sub.txt"), 0o755))

	ctx := context.Background()
	src := NewDir(root)

	text, err := src.FetchText(ctx, "data/simulation/policies.csv")
	require.NoError(t, err)
	assert.Equal(t, "#,A", text)

	_, err = src.FetchText(ctx, "data/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.FetchText(ctx, "../outside.csv")
	assert.Error(t, err)

	names, err := src.List(ctx, "data/simulation/dilemmas", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Airport.txt", "Zoo.txt"}, names)

	_, err = src.List(ctx, "nope", ".txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/game/data/simulation/dilemmas/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="../">Parent</a>
			<a href="Zoo.txt">Zoo.txt</a>
			<a href="/game/data/simulation/dilemmas/Airport.txt?x=1">Airport</a>
			<a href="Bus%20Lanes.txt">Bus Lanes</a>
			<a href="Zoo.txt">dup</a>
			<a href="readme.md">readme</a>
		</body></html>`))
	})
	mux.HandleFunc("/game/data/simulation/policies.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#,A"))
	})
	mux.HandleFunc("/game/data/broken.csv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src, err := NewHTTP(srv.URL+"/game", 0)
	require.NoError(t, err)
	ctx := context.Background()

	text, err := src.FetchText(ctx, "data/simulation/policies.csv")
	require.NoError(t, err)
	assert.Equal(t, "#,A", text)

	_, err = src.FetchText(ctx, "data/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.FetchText(ctx, "data/broken.csv")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)

	names, err := src.List(ctx, "data/simulation/dilemmas", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Airport.txt", "Bus Lanes.txt", "Zoo.txt"}, names)
}

func TestNewHTTP_RejectsScheme(t *testing.T) {
	_, err := NewHTTP("ftp://example.com", 0)
	assert.Error(t, err)
}

func TestHTTP_URL(t *testing.T) {
	src, err := NewHTTP("https://example.com/d4/", 0)
	require.NoError(t, err)

	u, err := src.URL("data/simulation/sliders.csv")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/d4/data/simulation/sliders.csv", u)

	u, err = src.URL("data/simulation/dilemmas/")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u, "/dilemmas/"))
}

func TestListingLinks(t *testing.T) {
	links, err := ListingLinks(strings.NewReader(`<a href="a.txt"></a><a></a><a href="b.csv"></a>`), ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, links)
}
