package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CleanReport aggregates the outcome of applying one or more scans.
type CleanReport struct {
	FilesRemoved int
	DirsRemoved  int
	BytesFreed   int64
	Errors       int
	Problems     []string
}

func (r *CleanReport) addProblem(format string, args ...any) {
	r.Errors++
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Apply deletes everything the scans recorded, in scan order. It is a
// best-effort sweep: a failure on one path never aborts the rest, and a path
// that is already gone is silently skipped, which makes a second pass over
// stale scan data a no-op.
func Apply(scans []RuleScan) CleanReport {
	var report CleanReport
	for i := range scans {
		applyScan(&scans[i], &report)
	}
	return report
}

func applyScan(scan *RuleScan, report *CleanReport) {
	for _, path := range scan.Files {
		// Size is captured before removal, without following symlinks.
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			report.addProblem("stat %s: %v", path, err)
			continue
		}
		size := info.Size()
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			report.addProblem("remove %s: %v", path, err)
			continue
		}
		report.FilesRemoved++
		report.BytesFreed += size
	}

	// Deepest directories first so children are attempted before their
	// ancestors. Removal is never recursive: a directory that still has
	// contents fails and survives.
	dirs := make([]string, len(scan.Dirs))
	copy(dirs, scan.Dirs)
	sort.SliceStable(dirs, func(i, j int) bool {
		return pathDepth(dirs[i]) > pathDepth(dirs[j])
	})
	for _, dir := range dirs {
		if err := os.Remove(dir); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			report.addProblem("remove %s: %v", dir, err)
			continue
		}
		report.DirsRemoved++
	}
}

func pathDepth(p string) int {
	return strings.Count(filepath.Clean(p), string(filepath.Separator))
}
