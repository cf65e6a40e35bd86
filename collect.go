package laymix

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// CollectAll runs Collect for every path and concatenates the results.
// Duplicates across inputs are kept.
func (m *Mixer) CollectAll(paths []string) []string {
	var files []string
	for _, p := range paths {
		files = append(files, m.Collect(p)...)
	}
	return files
}

// Collect returns path itself when it is a file, or every file below it when
// it is a directory. Paths that cannot be read are logged and yield nothing.
func (m *Mixer) Collect(path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		m.log.LogError(fmt.Sprintf("Unable to process %s: %v", path, err))
		return nil
	}
	if !info.IsDir() {
		m.log.LogDebug(fmt.Sprintf("%s itself is a file, returning", path))
		if m.excluded(filepath.Base(path)) {
			return nil
		}
		return []string{path}
	}
	files := m.walk(path, path)
	m.log.LogDebug(fmt.Sprintf("Got %d files in %s", len(files), path))
	return files
}

func (m *Mixer) walk(root, dir string) []string {
	m.log.LogDebug(fmt.Sprintf("Attempting to parse directory %s", dir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.log.LogError(fmt.Sprintf("Unable to process %s: %v", dir, err))
		return nil
	}

	var files []string
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			files = append(files, m.walk(root, p)...)
			continue
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		if m.excluded(rel) {
			continue
		}
		files = append(files, p)
	}
	return files
}

// excluded reports whether an Exclude glob matches rel, a path relative to
// the collected input, or its base name.
func (m *Mixer) excluded(rel string) bool {
	slashed := filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, pattern := range m.opts.Exclude {
		matched, _ := doublestar.Match(pattern, slashed)
		if !matched {
			matched, _ = doublestar.Match(pattern, base)
		}
		if matched {
			m.log.LogDebug(fmt.Sprintf("Skipping %s, excluded by %q", rel, pattern))
			return true
		}
	}
	return false
}
