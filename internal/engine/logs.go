package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/burrowtool/burrow/internal/config"
)

// scanLogsRule selects log-like files under the rule's roots, optionally
// restricted to files not modified within the configured number of days.
// Directories are never recorded by this strategy.
func scanLogsRule(rule config.Rule, home string) RuleScan {
	scan := RuleScan{Rule: rule}

	exclude, problems := compileExcludes(rule.ExcludeGlobs)
	for _, p := range problems {
		scan.addProblem("%s", p)
	}

	var cutoff time.Time
	hasCutoff := false
	if rule.OlderThanDays > 0 {
		cutoff = ageCutoff(time.Now(), rule.OlderThanDays)
		hasCutoff = true
	}

	for _, root := range rule.ExpandedPaths(home) {
		info, err := os.Lstat(root)
		if err != nil {
			if !os.IsNotExist(err) {
				scan.addProblem("stat %s: %v", root, err)
			}
			continue
		}

		// A root that is itself a single file gets the same predicate chain
		// without a tree walk.
		if !info.IsDir() {
			if !info.Mode().IsRegular() || !isLogName(filepath.Base(root)) {
				continue
			}
			if exclude.matches(filepath.Base(root)) {
				continue
			}
			if hasCutoff && info.ModTime().After(cutoff) {
				continue
			}
			scan.addFile(root, info.Size())
			continue
		}

		rootDev := deviceOf(info)
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				scan.addProblem("walk %s: %v", p, err)
				return nil
			}
			if p == root {
				return nil
			}
			if exclude.matches(relativeTo(root, p)) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				dirInfo, err := d.Info()
				if err != nil {
					scan.addProblem("stat %s: %v", p, err)
					return fs.SkipDir
				}
				if deviceOf(dirInfo) != rootDev {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !isLogName(d.Name()) {
				return nil
			}
			fileInfo, err := d.Info()
			if err != nil {
				// Unknown mtime means the file cannot qualify.
				scan.addProblem("stat %s: %v", p, err)
				return nil
			}
			if hasCutoff && fileInfo.ModTime().After(cutoff) {
				return nil
			}
			scan.addFile(p, fileInfo.Size())
			return nil
		})
	}

	return scan
}

// isLogName reports whether a file name looks like a log. Matching is
// case-insensitive.
func isLogName(name string) bool {
	n := strings.ToLower(name)
	if n == "xsession-errors" || strings.HasPrefix(n, "xsession-errors.") {
		return true
	}
	if strings.HasSuffix(n, ".log") || strings.Contains(n, ".log.") {
		return true
	}
	return strings.HasSuffix(n, ".err") || strings.HasSuffix(n, ".error")
}

// ageCutoff computes the instant before which a file counts as old enough,
// saturating instead of overflowing for absurd thresholds. The boundary is
// inclusive: a file modified exactly at the cutoff qualifies.
func ageCutoff(now time.Time, days int) time.Time {
	d := time.Duration(days) * 24 * time.Hour
	if d < 0 || d/(24*time.Hour) != time.Duration(days) {
		// Saturate on overflow: the cutoff moves to the distant past and no
		// real file qualifies.
		return time.Time{}
	}
	return now.Add(-d)
}
