// Package laymix groups image files into backgrounds and named layer groups
// by filename, then renders every combination of layers over each background.
package laymix

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/setanarut/laymix/utils"
)

var (
	// ErrNoFiles is returned by Run when the inputs hold no files at all.
	ErrNoFiles = errors.New("no input files found")
	// ErrNoMatches is returned by Run when no background has a matching layer.
	ErrNoMatches = errors.New("no background matches the configured prefixes")
)

const (
	DefaultImageDir = "images"
	DefaultSaveDir  = "results"
)

// Logger receives progress messages from a Mixer.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogInfo(string)  {}
func (nopLogger) LogWarn(string)  {}
func (nopLogger) LogError(string) {}

type Options struct {
	// Group identifiers. A file whose name contains (or, with ExactMatch,
	// equals) a prefix belongs to that layer group. Duplicates are ignored.
	Prefixes []string
	// Directory receiving the generated PNGs. Created if absent.
	SaveDir string
	// Adds a "no layer" choice to every group, so combinations may omit it.
	IncludeBackground bool
	// Offers every layer of a group to every background instead of only the
	// layers whose names contain the background name.
	ApplyToAll bool
	// Match names exactly (with or without extension) instead of by substring.
	ExactMatch bool
	// Appends the distinctive part of each used layer name to output names.
	KeepNames bool
	// Separates the background name from the rest of an output name.
	Delimiter string
	// Doublestar globs for input files to skip.
	Exclude []string
	// Optional "#rrggbb" color to flatten outputs onto. Empty keeps alpha.
	Matte string
}

func DefaultOptions() Options {
	return Options{
		SaveDir:   DefaultSaveDir,
		Delimiter: "_",
	}
}

func (o Options) Validate() error {
	if len(o.Prefixes) == 0 {
		return fmt.Errorf("at least one prefix is required")
	}
	if o.SaveDir == "" {
		return fmt.Errorf("save directory cannot be empty")
	}
	if o.Delimiter == "" {
		return fmt.Errorf("delimiter cannot be empty")
	}
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	if _, err := utils.ParseMatte(o.Matte); err != nil {
		return err
	}
	return nil
}

// Mixer runs one laymix job. It is not safe for concurrent use.
type Mixer struct {
	opts     Options
	prefixes []string
	matte    color.Color
	log      Logger
	load     func(path string) (image.Image, error)
	save     func(img image.Image, filename string) error
}

// New validates opts and creates the save directory. A nil log discards all
// messages.
func New(opts Options, log Logger) (*Mixer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	matte, err := utils.ParseMatte(opts.Matte)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.SaveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory %s: %w", opts.SaveDir, err)
	}
	return &Mixer{
		opts:     opts,
		prefixes: uniquePrefixes(opts.Prefixes),
		matte:    matte,
		log:      log,
		load:     utils.ReadImage,
		save:     utils.SaveImage,
	}, nil
}

// Options returns the options the Mixer was created with.
func (m *Mixer) Options() Options {
	return m.opts
}

// Run collects items (DefaultImageDir when empty), builds constructors and
// renders all of them. It returns the total number of images written.
func (m *Mixer) Run(items []string) (int, error) {
	lock, err := utils.LockDir(m.opts.SaveDir)
	if err != nil {
		return 0, err
	}
	defer lock.Unlock()

	if len(items) == 0 {
		items = []string{DefaultImageDir}
	}
	m.log.LogDebug(fmt.Sprintf("Got following prefixes to parse: %v", m.prefixes))

	files := m.CollectAll(items)
	if len(files) == 0 {
		m.log.LogError("Got no images! Run this tool with -h to find how to use it")
		return 0, ErrNoFiles
	}

	m.log.LogInfo("Sorting images into layer groups by filenames")
	constructors := m.MakeConstructors(files)
	if len(constructors) == 0 {
		m.log.LogError("None of provided images match provided prefixes!")
		return 0, ErrNoMatches
	}

	m.log.LogInfo("Building images (it may take some time)")
	total := 0
	for _, c := range constructors {
		n, err := m.Generate(c)
		total += n
		if err != nil {
			return total, fmt.Errorf("build %s: %w", c.Name, err)
		}
	}

	m.log.LogInfo(fmt.Sprintf("Finished: made %d images total in %s", total, filepath.Clean(m.opts.SaveDir)))
	return total, nil
}

func uniquePrefixes(prefixes []string) []string {
	seen := make(map[string]bool, len(prefixes))
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
