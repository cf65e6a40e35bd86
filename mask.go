package laymix

import (
	"path/filepath"
	"strings"
)

// FilterByMask returns the files whose base name contains mask, ignoring case.
// With exact set, the base name itself or the base name without its extension
// must equal mask instead. An empty mask matches every file in substring mode.
// Input order is preserved.
func FilterByMask(files []string, mask string, exact bool) []string {
	mask = strings.ToLower(mask)
	var filtered []string
	for _, f := range files {
		name := strings.ToLower(filepath.Base(f))
		if exact {
			if name == mask || trimExt(name) == mask {
				filtered = append(filtered, f)
			}
			continue
		}
		if strings.Contains(name, mask) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// BaseName is the file name of path without directory and extension.
func BaseName(path string) string {
	return trimExt(filepath.Base(path))
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
