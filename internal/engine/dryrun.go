package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/burrowtool/burrow/internal/config"
)

// reportFileName is the fixed dry-run report name under the user's home.
const reportFileName = "burrow-dry-run.txt"

// DryRunReport mirrors RuleScan counts aggregated across all scans.
type DryRunReport struct {
	FilesListed int
	DirsListed  int
	BytesListed int64
	Errors      int
}

// DryRunOutput is a rendered preview of what Apply would delete.
type DryRunOutput struct {
	Report  DryRunReport
	Details string
}

// DryRun renders each scan's entries to text. Folders-choice downloads
// scans are summarized to their top-level paired directories so recursive
// folder contents do not flood the report; everything else lists verbatim.
func DryRun(scans []RuleScan) DryRunOutput {
	var report DryRunReport
	var b strings.Builder

	fmt.Fprintln(&b, "Dry-run details (no files will be deleted):")
	fmt.Fprintln(&b, "Note: directories are only removed if empty after file removal.")
	for i := range scans {
		scan := &scans[i]
		fmt.Fprintf(&b, "Rule: %s (%s)\n", scan.Rule.Label, scan.Rule.ID)
		switch {
		case len(scan.Files) == 0 && len(scan.Dirs) == 0:
			fmt.Fprintln(&b, "  (no entries)")
		default:
			topDirs := summarizedDirs(scan)
			if len(topDirs) > 0 {
				for _, f := range scan.Files {
					if !underAny(f, topDirs) {
						fmt.Fprintf(&b, "  file: %s\n", f)
					}
				}
				for _, d := range topDirs {
					fmt.Fprintf(&b, "  dir: %s\n", d)
					fmt.Fprintln(&b, "    (contents omitted)")
				}
			} else {
				for _, f := range scan.Files {
					fmt.Fprintf(&b, "  file: %s\n", f)
				}
				for _, d := range scan.Dirs {
					fmt.Fprintf(&b, "  dir: %s\n", d)
				}
			}
		}
		for _, p := range scan.Problems {
			fmt.Fprintf(&b, "  error: %s\n", p)
		}
		report.FilesListed += len(scan.Files)
		report.DirsListed += len(scan.Dirs)
		report.BytesListed += scan.Bytes
		report.Errors += scan.Errors
	}

	return DryRunOutput{Report: report, Details: b.String()}
}

// summarizedDirs returns the minimal top-level directory set for a
// folders-choice downloads scan. Other scans (including archives-choice
// downloads scans, which record no directories) list verbatim.
func summarizedDirs(scan *RuleScan) []string {
	if scan.Rule.Kind != config.KindDownloads {
		return nil
	}
	return topLevelDirs(scan.Dirs)
}

// topLevelDirs drops every directory already nested under another recorded
// directory. The result is sorted.
func topLevelDirs(dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}
	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)

	// Ancestors sort before their descendants, so a nested directory always
	// finds its containing top (or one of its ancestors' tops) already kept.
	var top []string
	for _, d := range sorted {
		if underAny(d, top) {
			continue
		}
		top = append(top, d)
	}
	return top
}

func underAny(path string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ReportPath returns the fixed dry-run report location for a home directory.
func ReportPath(home string) string {
	return filepath.Join(home, reportFileName)
}

// WriteReport persists the rendered dry-run details, overwriting any prior
// report, and returns the path written.
func WriteReport(home, details string) (string, error) {
	path := ReportPath(home)
	if err := os.WriteFile(path, []byte(details), 0o644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	return path, nil
}

// RemoveReport deletes a previously written report. A report that was never
// written, or is already gone, is not an error.
func RemoveReport(home string) error {
	if err := os.Remove(ReportPath(home)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
