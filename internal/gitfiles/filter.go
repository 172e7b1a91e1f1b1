// pattern: Functional Core

package gitfiles

import (
	"path/filepath"
	"slices"
	"strings"
)

// DefaultIgnore holds directory names that never form projects.
var DefaultIgnore = []string{"src"}

// Filter cleans raw git output lines relative to root. Empty lines, the root
// itself, paths escaping root and paths with an ignored segment are dropped.
// Duplicates keep their first position.
func Filter(root string, paths, ignore []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs := filepath.Join(root, p)
		if abs == filepath.Clean(root) {
			continue
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = filepath.ToSlash(rel)
		if hasIgnoredSegment(rel, ignore) {
			continue
		}
		if seen[rel] {
			continue
		}
		seen[rel] = true
		out = append(out, rel)
	}
	return out
}

func hasIgnoredSegment(rel string, ignore []string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if slices.Contains(ignore, seg) {
			return true
		}
	}
	return false
}
