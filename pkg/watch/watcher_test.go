package watch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/rawfile"
	"github.com/gnana997/brandkit/pkg/sampler/samplertest"
)

type recorder struct {
	mu      sync.Mutex
	results []rawfile.BuildResult
	ch      chan rawfile.BuildResult
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan rawfile.BuildResult, 64)}
}

func (r *recorder) record(res rawfile.BuildResult) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
	r.ch <- res
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *recorder) wait(t *testing.T) rawfile.BuildResult {
	t.Helper()
	select {
	case res := <-r.ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a build")
		return rawfile.BuildResult{}
	}
}

func startWatcher(t *testing.T, root string, opts Options) (*Watcher, *recorder) {
	t.Helper()
	rec := newRecorder()
	opts.OnBuild = rec.record
	if opts.Debounce == 0 {
		opts.Debounce = 50 * time.Millisecond
	}

	w, err := New(kit.NewAssembler(kit.DefaultPolicy()), opts, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(root))
	t.Cleanup(func() { _ = w.Stop() })
	return w, rec
}

func writeRaw(t *testing.T, path string) {
	t.Helper()
	b, err := json.Marshal(map[string]any{"light": samplertest.LightPage(), "dark": samplertest.DarkPage()})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func TestWatcher_BuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{})

	src := filepath.Join(dir, "home.raw.json")
	writeRaw(t, src)

	res := rec.wait(t)
	require.NoError(t, res.Err)
	assert.Equal(t, src, res.Source)
	assert.True(t, res.DarkModeDetected)

	b, err := os.ReadFile(filepath.Join(dir, "home.kit.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"active": "light"`)
}

func TestWatcher_Debounces(t *testing.T) {
	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{Debounce: 300 * time.Millisecond})

	src := filepath.Join(dir, "home.raw.json")
	for i := 0; i < 5; i++ {
		writeRaw(t, src)
	}

	rec.wait(t)
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestWatcher_IgnoresOutputAndExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{})

	writeRaw(t, filepath.Join(dir, "node_modules", "pkg", "x.raw.json"))
	writeRaw(t, filepath.Join(dir, "other.kit.json"))
	writeRaw(t, filepath.Join(dir, "notes.json"))

	time.Sleep(400 * time.Millisecond)
	assert.Zero(t, rec.count())
	assert.NoFileExists(t, filepath.Join(dir, "node_modules", "pkg", "x.kit.json"))
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{})

	src := filepath.Join(dir, "pages", "pricing.raw.json")
	writeRaw(t, src)

	res := rec.wait(t)
	require.NoError(t, res.Err)
	assert.Equal(t, src, res.Source)
	assert.FileExists(t, filepath.Join(dir, "pages", "pricing.kit.json"))
}

func TestWatcher_InitialBuildAndRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "home.raw.json")
	writeRaw(t, src)

	w, rec := startWatcher(t, dir, Options{InitialBuild: true, Workers: 2})

	// The initial build runs inside Start.
	assert.Equal(t, 1, rec.count())
	out := filepath.Join(dir, "home.kit.json")
	assert.FileExists(t, out)

	require.NoError(t, os.Remove(src))
	require.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return os.IsNotExist(err)
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool { return w.Stats().Removed == 1 }, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_BadFileReported(t *testing.T) {
	dir := t.TempDir()
	w, rec := startWatcher(t, dir, Options{})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.raw.json"), []byte("{"), 0o644))

	res := rec.wait(t)
	assert.Error(t, res.Err)
	assert.NoFileExists(t, filepath.Join(dir, "broken.kit.json"))
	assert.Equal(t, int64(1), w.Stats().Failed)
}

func TestWatcher_Lifecycle(t *testing.T) {
	w, err := New(kit.NewAssembler(kit.DefaultPolicy()), DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Error(t, w.Start(filepath.Join(t.TempDir(), "missing")))
	assert.False(t, w.Stats().IsRunning)
	assert.Error(t, w.Start(t.TempDir()), "a watcher starts once")

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	w2, err := New(kit.NewAssembler(kit.DefaultPolicy()), DefaultOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, w2.Start(t.TempDir()))
	assert.True(t, w2.Stats().IsRunning)
	require.NoError(t, w2.Stop())
	assert.False(t, w2.Stats().IsRunning)
	assert.Error(t, w2.Start(t.TempDir()))
}

func TestNew_InvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.Discover.Include = []string{"[bad"}
	_, err := New(kit.NewAssembler(kit.DefaultPolicy()), opts, nil)
	assert.Error(t, err)
}
