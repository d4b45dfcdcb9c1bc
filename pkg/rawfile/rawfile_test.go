package rawfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/sampler/samplertest"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func TestDecode_Bare(t *testing.T) {
	b, err := json.Marshal(samplertest.LightPage())
	require.NoError(t, err)

	p, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "example.com", p.Light.Meta.Host)
	assert.Len(t, p.Light.Samples, 9)
	assert.Nil(t, p.Dark)
}

func TestDecode_Pair(t *testing.T) {
	light, dark := samplertest.LightPage(), samplertest.DarkPage()
	b, err := json.Marshal(map[string]any{"light": light, "dark": dark})
	require.NoError(t, err)

	p, err := Decode(b)
	require.NoError(t, err)
	require.NotNil(t, p.Dark)
	assert.True(t, p.Dark.PrefersDark)
	assert.False(t, p.Light.PrefersDark)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{}`))
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Decode([]byte(`{"samples":[]}`))
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.raw.json")
	writeJSON(t, path, samplertest.LightPage())

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Example", p.Light.Meta.Title)

	_, err = Load(filepath.Join(dir, "missing.raw.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.raw.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Load(empty)
	assert.Error(t, err)
}

func TestKitPath(t *testing.T) {
	assert.Equal(t, "a/home.kit.json", KitPath("a/home.raw.json"))
	assert.Equal(t, "home.kit.json", KitPath("home.json"))
	assert.Equal(t, "home.txt.kit.json", KitPath("home.txt"))
	assert.True(t, IsKitFile(KitPath("x.raw.json")))
	assert.False(t, IsKitFile("x.raw.json"))
}

func TestWriteKit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.kit.json")

	dark := samplertest.DarkPage()
	pair := kit.AssembleVariants(samplertest.LightPage(), &dark)
	require.NoError(t, WriteKit(path, pair))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		Active   string          `json:"active"`
		Variants kit.VariantPair `json:"variants"`
		Kit      kit.Kit         `json:"kit"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "light", got.Active)
	assert.Equal(t, "#FFFFFF", got.Kit.Palette.Background)
	require.NotNil(t, got.Variants.Dark)

	// Rewriting identical content leaves the file alone.
	st1, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, WriteKit(path, pair))
	st2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, st1.ModTime(), st2.ModTime())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	page := samplertest.LightPage()
	writeJSON(t, filepath.Join(dir, "home.raw.json"), page)
	writeJSON(t, filepath.Join(dir, "sub", "pricing.raw.json"), page)
	writeJSON(t, filepath.Join(dir, "sub", "pricing.kit.json"), page)
	writeJSON(t, filepath.Join(dir, "node_modules", "x.raw.json"), page)
	writeJSON(t, filepath.Join(dir, "notes.json"), page)

	files, err := Discover(dir, DefaultDiscoverConfig())
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"home.raw.json", "sub/pricing.raw.json"}, rel)
}

func TestDiscover_InvalidPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), DiscoverConfig{Include: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestDiscoverConfig_Match(t *testing.T) {
	cfg := DefaultDiscoverConfig()
	assert.True(t, cfg.Match("a/b/home.raw.json"))
	assert.False(t, cfg.Match("a/home.kit.json"))
	assert.False(t, cfg.Match("node_modules/home.raw.json"))
	assert.False(t, cfg.Match("home.json"))
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	page := samplertest.LightPage()
	a := filepath.Join(dir, "a.raw.json")
	b := filepath.Join(dir, "nested", "b.raw.json")
	writeJSON(t, a, page)
	writeJSON(t, b, page)

	files, err := Expand([]string{dir, a}, DefaultDiscoverConfig())
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = Expand([]string{filepath.Join(dir, "*.raw.json")}, DefaultDiscoverConfig())
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = Expand([]string{filepath.Join(dir, "nope-*.json")}, DefaultDiscoverConfig())
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.raw.json")
	writeJSON(t, path, map[string]any{"light": samplertest.LightPage(), "dark": samplertest.DarkPage()})

	res := Build(path, kit.NewAssembler(kit.DefaultPolicy()))
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(dir, "home.kit.json"), res.Output)
	assert.True(t, res.DarkModeDetected)
	assert.FileExists(t, res.Output)
}

func TestBuilder_BuildAll(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"c", "a", "b"} {
		p := filepath.Join(dir, name+".raw.json")
		writeJSON(t, p, samplertest.LightPage())
		files = append(files, p)
	}
	bad := filepath.Join(dir, "bad.raw.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	files = append(files, bad)

	b := NewBuilder(kit.NewAssembler(kit.DefaultPolicy()), 2, nil)
	assert.Equal(t, 2, b.Workers())

	results := b.BuildAll(context.Background(), files)
	require.Len(t, results, 4)

	var sources []string
	for _, r := range results {
		sources = append(sources, filepath.Base(r.Source))
	}
	assert.Equal(t, []string{"a.raw.json", "b.raw.json", "bad.raw.json", "c.raw.json"}, sources)
	assert.Error(t, results[2].Err)
	assert.NoError(t, results[0].Err)
	assert.FileExists(t, filepath.Join(dir, "c.kit.json"))

	assert.Equal(t, BuildStats{Submitted: 4, Built: 3, Failed: 1}, b.Stats())
}

func TestBuilder_Cancelled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.raw.json")
	writeJSON(t, p, samplertest.LightPage())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBuilder(kit.NewAssembler(kit.DefaultPolicy()), 1, nil).BuildAll(ctx, []string{p})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "a.kit.json"))
}
