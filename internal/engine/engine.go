// Package engine evaluates cleanup rules against the live filesystem and
// deletes what a scan recorded. Scans are read-only; nothing is removed
// until Apply is called with the scans the caller selected.
package engine

import (
	"fmt"
	"os"

	"github.com/burrowtool/burrow/internal/config"
)

// DownloadsChoice selects which side of an archive/folder pair a downloads
// rule treats as cleanup matter.
type DownloadsChoice int

const (
	ChoiceNone DownloadsChoice = iota
	ChoiceArchives
	ChoiceFolders
)

// ParseDownloadsChoice parses the CLI flag value.
func ParseDownloadsChoice(s string) (DownloadsChoice, error) {
	switch s {
	case "archives":
		return ChoiceArchives, nil
	case "folders":
		return ChoiceFolders, nil
	default:
		return ChoiceNone, fmt.Errorf("invalid downloads choice %q (want archives or folders)", s)
	}
}

func (c DownloadsChoice) String() string {
	switch c {
	case ChoiceArchives:
		return "archives"
	case ChoiceFolders:
		return "folders"
	default:
		return "none"
	}
}

// ScanOptions carries caller-resolved options that affect scanning.
type ScanOptions struct {
	DownloadsChoice DownloadsChoice
}

// RuleScan is the materialized result of evaluating one rule. It owns a copy
// of the originating rule so it stays self-describing even if the caller's
// rule list changes afterwards. Bytes is the sum of sizes of exactly the
// paths in Files; directories never contribute size.
type RuleScan struct {
	Rule     config.Rule
	Bytes    int64
	Entries  int
	Files    []string
	Dirs     []string
	Errors   int
	Problems []string
}

func (s *RuleScan) addProblem(format string, args ...any) {
	s.Errors++
	s.Problems = append(s.Problems, fmt.Sprintf(format, args...))
}

func (s *RuleScan) addFile(path string, size int64) {
	s.Bytes += size
	s.Entries++
	s.Files = append(s.Files, path)
}

// ScanRules evaluates each rule in order and returns one scan per rule.
func ScanRules(rules []config.Rule, home string, opts ScanOptions) []RuleScan {
	scans := make([]RuleScan, 0, len(rules))
	for _, rule := range rules {
		scans = append(scans, ScanRule(rule, home, opts))
	}
	return scans
}

// ScanRule routes a rule to the scan strategy selected by its kind.
func ScanRule(rule config.Rule, home string, opts ScanOptions) RuleScan {
	switch rule.Kind {
	case config.KindDownloads:
		return scanDownloadsRule(rule, home, opts.DownloadsChoice)
	case config.KindLogs:
		return scanLogsRule(rule, home)
	default:
		return scanPathsRule(rule, home)
	}
}

func scanPathsRule(rule config.Rule, home string) RuleScan {
	scan := RuleScan{Rule: rule}

	exclude, problems := compileExcludes(rule.ExcludeGlobs)
	for _, p := range problems {
		scan.addProblem("%s", p)
	}

	for _, root := range rule.ExpandedPaths(home) {
		if _, err := os.Lstat(root); os.IsNotExist(err) {
			continue
		}
		scanRoot(root, exclude, &scan)
	}

	return scan
}
