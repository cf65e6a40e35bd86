package laymix

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/setanarut/laymix/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEndToEnd(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "hero.png"), 2, 2, opaqueRed)
	writePNG(t, filepath.Join(in, "hero_clothes_a.png"), 2, 2, transparent)
	writePNG(t, filepath.Join(in, "hero_clothes_b.png"), 2, 2, transparent)
	writePNG(t, filepath.Join(in, "hero_hat_a.png"), 2, 2, transparent)

	m, log := newTestMixer(t, Options{Prefixes: []string{"clothes", "hat"}})

	n, err := m.Run([]string{in})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"hero_0.png", "hero_1.png"}, listPNGs(t, m.Options().SaveDir))
	assert.True(t, log.has("INFO", "made 2 images total"))

	out := readPNG(t, filepath.Join(m.Options().SaveDir, "hero_0.png"))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba8(out.At(0, 0)))
}

func TestRunKeepNames(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "hero.png"), 2, 2, opaqueRed)
	writePNG(t, filepath.Join(in, "hero_clothes_a.png"), 2, 2, transparent)
	writePNG(t, filepath.Join(in, "hero_hat_a.png"), 2, 2, transparent)

	m, _ := newTestMixer(t, Options{Prefixes: []string{"clothes", "hat"}, KeepNames: true, IncludeBackground: true})

	n, err := m.Run([]string{in})
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.ElementsMatch(t, []string{
		"hero_0_clothes_a_hat_a.png",
		"hero_1_clothes_a.png",
		"hero_2_hat_a.png",
		"hero_3.png",
	}, listPNGs(t, m.Options().SaveDir))
}

func TestRunNoFiles(t *testing.T) {
	m, log := newTestMixer(t, Options{})

	_, err := m.Run([]string{t.TempDir()})

	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Equal(t, 1, log.count("ERROR"))
}

func TestRunMissingInputOnly(t *testing.T) {
	m, log := newTestMixer(t, Options{})

	_, err := m.Run([]string{filepath.Join(t.TempDir(), "missing")})

	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Equal(t, 2, log.count("ERROR"))
}

func TestRunNoMatches(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "hero.png"), 2, 2, opaqueRed)
	writePNG(t, filepath.Join(in, "villain_hat.png"), 2, 2, transparent)

	m, log := newTestMixer(t, Options{Prefixes: []string{"hat"}})

	n, err := m.Run([]string{in})

	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Zero(t, n)
	assert.True(t, log.has("WARN", "hero.png"))
	assert.Empty(t, listPNGs(t, m.Options().SaveDir))
}

func TestRunSkipsBackgroundsWithoutLayers(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "hero.png"), 2, 2, opaqueRed)
	writePNG(t, filepath.Join(in, "hero_hat.png"), 2, 2, transparent)
	writePNG(t, filepath.Join(in, "lonely.png"), 2, 2, opaqueRed)

	m, _ := newTestMixer(t, Options{Prefixes: []string{"hat"}})

	n, err := m.Run([]string{in})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"hero_0.png"}, listPNGs(t, m.Options().SaveDir))
}

func TestRunLockedSaveDir(t *testing.T) {
	m, _ := newTestMixer(t, Options{})

	lock, err := utils.LockDir(m.Options().SaveDir)
	require.NoError(t, err)
	defer lock.Unlock()

	_, err = m.Run([]string{t.TempDir()})
	assert.ErrorIs(t, err, utils.ErrLocked)
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "no prefixes", opts: Options{SaveDir: "x", Delimiter: "_"}},
		{name: "no delimiter", opts: Options{Prefixes: []string{"a"}, SaveDir: "x"}},
		{name: "no savedir", opts: Options{Prefixes: []string{"a"}, Delimiter: "_"}},
		{name: "bad glob", opts: Options{Prefixes: []string{"a"}, SaveDir: "x", Delimiter: "_", Exclude: []string{"{a"}}},
		{name: "bad matte", opts: Options{Prefixes: []string{"a"}, SaveDir: "x", Delimiter: "_", Matte: "#12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewCreatesSaveDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	opts := DefaultOptions()
	opts.Prefixes = []string{"hat", "hat", "clothes"}
	opts.SaveDir = dir

	m, err := New(opts, nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, []string{"hat", "clothes"}, m.prefixes)

	_, err = New(opts, nil)
	assert.NoError(t, err, "creating an existing save dir is fine")
}
