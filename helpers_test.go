package laymix

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) LogDebug(m string) { l.entries = append(l.entries, "DEBUG "+m) }
func (l *recordingLogger) LogInfo(m string)  { l.entries = append(l.entries, "INFO "+m) }
func (l *recordingLogger) LogWarn(m string)  { l.entries = append(l.entries, "WARN "+m) }
func (l *recordingLogger) LogError(m string) { l.entries = append(l.entries, "ERROR "+m) }

func (l *recordingLogger) count(level string) int {
	n := 0
	for _, e := range l.entries {
		if strings.HasPrefix(e, level+" ") {
			n++
		}
	}
	return n
}

func (l *recordingLogger) has(level, substr string) bool {
	for _, e := range l.entries {
		if strings.HasPrefix(e, level+" ") && strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// newTestMixer builds a Mixer saving into a fresh temp dir.
func newTestMixer(t *testing.T, opts Options) (*Mixer, *recordingLogger) {
	t.Helper()
	if opts.SaveDir == "" {
		opts.SaveDir = filepath.Join(t.TempDir(), "results")
	}
	if opts.Delimiter == "" {
		opts.Delimiter = "_"
	}
	if len(opts.Prefixes) == 0 {
		opts.Prefixes = []string{"layer"}
	}
	log := &recordingLogger{}
	m, err := New(opts, log)
	require.NoError(t, err)
	return m, log
}

// writePNG writes a w x h image filled with c to path, creating parents.
func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return writeImage(t, path, img)
}

func writeImage(t *testing.T, path string, img image.Image) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func listPNGs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	return names
}

func rgba8(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

var (
	opaqueRed   = color.NRGBA{R: 255, A: 255}
	opaqueBlue  = color.NRGBA{B: 255, A: 255}
	transparent = color.NRGBA{}
)

// layerFiles writes n tiny layers named "<stem><i>.png" into dir.
func layerFiles(t *testing.T, dir, stem string, n int) []string {
	t.Helper()
	files := make([]string, n)
	for i := 0; i < n; i++ {
		files[i] = writePNG(t, filepath.Join(dir, fmt.Sprintf("%s%d.png", stem, i)), 2, 2, transparent)
	}
	return files
}

func choicesOf(paths ...string) []Choice {
	out := make([]Choice, len(paths))
	for i, p := range paths {
		out[i] = LayerChoice(p)
	}
	return out
}
