package laymix

import "slices"

// Group is the set of files matching one prefix across the whole input.
type Group struct {
	Prefix string
	Files  []string
}

// Classify matches every prefix against all files. Files matching no prefix
// are backgrounds, returned in input order. A file matching several prefixes
// belongs to each of those groups.
func Classify(files []string, prefixes []string, exact bool) ([]Group, []string) {
	groups := make([]Group, 0, len(prefixes))
	matched := make(map[string]bool)
	for _, prefix := range uniquePrefixes(prefixes) {
		members := FilterByMask(files, prefix, exact)
		for _, f := range members {
			matched[f] = true
		}
		groups = append(groups, Group{Prefix: prefix, Files: members})
	}

	var backgrounds []string
	for _, f := range files {
		if !matched[f] {
			backgrounds = append(backgrounds, f)
		}
	}
	return groups, backgrounds
}

// Contains reports whether path is one of the group's files.
func (g Group) Contains(path string) bool {
	return slices.Contains(g.Files, path)
}
