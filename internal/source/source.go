// Package source retrieves raw game data text from a directory or a web
// server. Parsers never see a Source; they receive the fetched text.
package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// ErrNotFound is returned when a path does not exist in the source.
var ErrNotFound = errors.New("not found")

// Source is the retrieval collaborator consumed by the loader.
type Source interface {
	// FetchText returns the content at path, or an error wrapping ErrNotFound.
	FetchText(ctx context.Context, path string) (string, error)

	// List returns the file names directly under dir ending in ext, sorted.
	List(ctx context.Context, dir, ext string) ([]string, error)

	// String describes the source for logs and reports.
	String() string
}

// StatusError is an unexpected HTTP response status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// cleanRel normalizes a slash-separated relative path and rejects paths that
// escape the source root.
func cleanRel(p string) (string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	clean := path.Clean("/" + p)[1:]
	if clean == "" {
		clean = "."
	}
	if strings.HasPrefix(p, "..") || strings.Contains(p, "/../") || strings.HasSuffix(p, "/..") {
		return "", fmt.Errorf("path %q escapes the source root", p)
	}
	return clean, nil
}

// filterNames keeps base names ending in ext, deduplicated and sorted.
func filterNames(names []string, ext string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = path.Base(strings.ReplaceAll(n, `\`, "/"))
		if !strings.HasSuffix(n, ext) || n == ext || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
