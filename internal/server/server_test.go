package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/Jocowski/democracy-mod-maker/internal/modpack"
	"github.com/Jocowski/democracy-mod-maker/internal/source"
	"github.com/Jocowski/democracy-mod-maker/internal/state"
	"github.com/Jocowski/democracy-mod-maker/internal/testutil"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/table"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		loader.DefaultPoliciesPath:   "header\n#,Bus Lanes,,none,,,,,,TRANSPORT\n#,Carbon Tax,,none,,,,,,TAX\n",
		loader.DefaultSlidersPath:    "#,TaxRate,PERCENTAGE,0,50\n#,Steps,DISCRETE,0\n",
		loader.DefaultSimulationPath: "#,GDP,ECONOMY,0.5,0,1,HIGHGOOD,gdp\n",
		loader.DefaultDilemmasDir + "/Airport.txt": "[dilemma]\nname=Airport\n[option1]\nOnImplement=CreateGrudge(A,1,2)\n",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func setupServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	root := t.TempDir()
	writeCorpus(t, root)

	logger := testutil.NewTestLogger(t)
	store, err := state.Open(context.Background(), state.MemoryPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := New(Config{
		Loader: loader.New(loader.Config{Source: source.NewDir(root), Logger: logger}),
		Store:  store,
		Logger: logger,
	})
	require.NoError(t, s.Reload(context.Background()))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, root
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func send(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCatalogEndpoints(t *testing.T) {
	_, ts, _ := setupServer(t)

	var policies loader.Page[core.Policy]
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/policies?q=tax", &policies))
	assert.Equal(t, 1, policies.Total)
	assert.Equal(t, "Carbon Tax", policies.Items[0].Name)
	assert.Equal(t, loader.DefaultPageSize, policies.PageSize)

	var sliders loader.Page[core.Slider]
	getJSON(t, ts.URL+"/api/sliders?page=1&page_size=1", &sliders)
	assert.Equal(t, 2, sliders.Total)
	assert.Len(t, sliders.Items, 1)

	var huge loader.Page[core.Slider]
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/sliders?page=4611686018427387905&page_size=2", &huge))
	assert.Empty(t, huge.Items)
	assert.Equal(t, 2, huge.Total)

	var sim loader.Page[core.SimulationVariable]
	getJSON(t, ts.URL+"/api/simulation", &sim)
	assert.Equal(t, 1, sim.Total)

	var d core.Dilemma
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/dilemmas/Airport", &d))
	require.Len(t, d.Options, 1)
	assert.Equal(t, core.EffectList{core.GrudgeEffect{Target: "A", Value1: "1", Value2: "2"}}, d.Options[0].Effects)

	var e errorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/dilemmas/Nope", &e))

	var report loader.Report
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/report", &report))
	assert.Equal(t, 1, report.Dilemmas)

	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", nil))
}

func TestModWorkflow(t *testing.T) {
	_, ts, _ := setupServer(t)

	// empty workspace cannot be exported
	resp := send(t, http.MethodPost, ts.URL+"/api/mod/export", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "nothing to export", e.Error)

	resp = send(t, http.MethodPost, ts.URL+"/api/mod/policies", map[string]any{
		"name":       "Free Wifi",
		"department": "PUBLICSERVICES",
		"opposites":  []string{"Internet Tax", "Tax,Credits"},
		"max_cost":   12.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/mod/policies", map[string]any{"name": "Free Wifi"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/mod/policies", map[string]any{"slider": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/mod/policies", map[string]any{"name": `Bad "quote"`})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/mod/policies", map[string]any{"name": "Temp"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = send(t, http.MethodDelete, ts.URL+"/api/mod/policies/Temp", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = send(t, http.MethodDelete, ts.URL+"/api/mod/policies/Temp", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = send(t, http.MethodPut, ts.URL+"/api/mod/meta", modpack.Meta{Name: "Connected", Author: "Me"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/mod/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), modpack.DefaultFilename)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	files, err := modpack.Extract(data)
	require.NoError(t, err)

	policies := table.ParsePolicies(files[modpack.PoliciesPath])
	require.Len(t, policies, 1)
	assert.Equal(t, "Free Wifi", policies[0].Name)
	assert.Equal(t, []string{"Internet Tax", "Tax,Credits"}, policies[0].Opposites)
	assert.Equal(t, core.FunctionLinear, policies[0].CostFunction)

	meta, err := modpack.ParseMeta(files[modpack.ConfigPath])
	require.NoError(t, err)
	assert.Equal(t, "Connected", meta.Name)
	assert.NotEmpty(t, meta.GUID)

	// the generated GUID is kept for later exports
	var stored modpack.Meta
	getJSON(t, ts.URL+"/api/mod/meta", &stored)
	assert.Equal(t, meta.GUID, stored.GUID)
}

func TestUpdateModPolicy_Rename(t *testing.T) {
	_, ts, _ := setupServer(t)

	resp := send(t, http.MethodPost, ts.URL+"/api/mod/policies", map[string]any{"name": "Old"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = send(t, http.MethodPut, ts.URL+"/api/mod/policies/Old", map[string]any{"name": "New", "flags": "UNCANCELLABLE"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Items []state.AuthoredPolicy `json:"items"`
		Total int                    `json:"total"`
	}
	getJSON(t, ts.URL+"/api/mod/policies", &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "New", list.Items[0].Policy.Name)
	assert.Equal(t, core.Flag("UNCANCELLABLE"), list.Items[0].Policy.Flags)
}

func TestEvents_Reload(t *testing.T) {
	s, ts, root := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), "data: ") {
				return lines.Text()
			}
		}
		return ""
	}

	assert.Equal(t, `data: {"version":1}`, next())

	require.Eventually(t, func() bool { return s.Notifier().Len() == 1 }, time.Second, 10*time.Millisecond)

	writeCorpus(t, root)
	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, `data: {"version":2}`, next())
}

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe()
	assert.Equal(t, 1, n.Len())

	n.Broadcast(1)
	n.Broadcast(2)
	assert.Equal(t, uint64(2), <-ch, "only the latest version is pending")

	n.Unsubscribe(ch)
	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())
	_, ok := <-ch
	assert.False(t, ok)
}

func TestIsDataEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write csv", event: fsnotify.Event{Name: "data/simulation/policies.csv", Op: fsnotify.Write}, want: true},
		{name: "create dilemma", event: fsnotify.Event{Name: "dilemmas/Airport.txt", Op: fsnotify.Create}, want: true},
		{name: "remove dilemma", event: fsnotify.Event{Name: "dilemmas/Airport.txt", Op: fsnotify.Remove}, want: true},
		{name: "rename csv", event: fsnotify.Event{Name: "sliders.csv", Op: fsnotify.Rename}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: "policies.csv", Op: fsnotify.Chmod}, want: false},
		{name: "editor swap file", event: fsnotify.Event{Name: "policies.csv.swp", Op: fsnotify.Write}, want: false},
		{name: "directory", event: fsnotify.Event{Name: "dilemmas", Op: fsnotify.Create}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDataEvent(tt.event))
		})
	}
}

func TestWatch_ReloadsOnDataChange(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root)

	logger, _ := testutil.NewCaptureLogger()
	s := New(Config{
		Loader:   loader.New(loader.Config{Source: source.NewDir(root), Logger: logger}),
		Watch:    true,
		WatchDir: root,
		Logger:   logger,
	})
	require.NoError(t, s.Reload(context.Background()))
	_, _, start := s.Catalog()

	watcher, err := s.newWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.runWatcher(ctx, watcher) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// A burst of writes is debounced into a single reload.
	policies := filepath.Join(root, filepath.FromSlash(loader.DefaultPoliciesPath))
	for _, body := range []string{
		"header\n#,Bus Lanes\n",
		"header\n#,Bus Lanes\n#,Carbon Tax\n",
		"header\n#,Bus Lanes\n#,Carbon Tax\n#,Rail Subsidy\n",
	} {
		require.NoError(t, os.WriteFile(policies, []byte(body), 0o644))
	}

	require.Eventually(t, func() bool {
		_, _, v := s.Catalog()
		return v > start
	}, 5*time.Second, 20*time.Millisecond)

	time.Sleep(3 * reloadDebounce)
	cat, _, v := s.Catalog()
	assert.Equal(t, start+1, v, "one reload for the burst")
	assert.Len(t, cat.Policies, 3)

	// Files the loader does not read are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o644))
	time.Sleep(3 * reloadDebounce)
	_, _, after := s.Catalog()
	assert.Equal(t, v, after)
}
