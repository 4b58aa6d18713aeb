package engine

import (
	"fmt"
	"path"
	"path/filepath"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// excludeMatcher matches root-relative paths against a rule's exclusion
// globs. A nil matcher excludes nothing.
type excludeMatcher struct {
	patterns []string
}

// compileExcludes validates the rule's exclusion patterns. A pattern that
// fails to parse is skipped and reported; the remaining patterns still take
// effect. An empty pattern list yields a nil matcher and no problems.
func compileExcludes(globs []string) (*excludeMatcher, []string) {
	if len(globs) == 0 {
		return nil, nil
	}

	var problems []string
	patterns := make([]string, 0, len(globs))
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			problems = append(problems, fmt.Sprintf("invalid exclude glob %q", g))
			continue
		}
		patterns = append(patterns, g)
	}

	if len(patterns) == 0 {
		return nil, problems
	}
	return &excludeMatcher{patterns: patterns}, problems
}

// matches reports whether the relative path is excluded. Patterns are tried
// against the whole relative path and against the entry's base name, so
// "*.bak" prunes matching entries at any depth.
func (m *excludeMatcher) matches(rel string) bool {
	if m == nil || rel == "" {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// relativeTo returns path relative to root for glob matching, or "" for the
// root itself.
func relativeTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." {
		return ""
	}
	return rel
}
