package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/burrowtool/burrow/internal/config"
)

// archiveSuffixes are the recognized archive endings for downloads pairing.
// Matching is case-insensitive.
var archiveSuffixes = []string{
	".tar.gz", ".tgz", ".tar.xz", ".tar.zst", ".zip", ".7z", ".rar",
}

// scanDownloadsRule pairs archives with same-named extracted folders in a
// flat directory listing. Without a resolved choice the scan stays empty;
// the caller is expected to have prompted upstream. Archives or folders
// without a counterpart are left alone.
func scanDownloadsRule(rule config.Rule, home string, choice DownloadsChoice) RuleScan {
	scan := RuleScan{Rule: rule}
	if choice == ChoiceNone {
		return scan
	}

	for _, root := range rule.ExpandedPaths(home) {
		info, err := os.Lstat(root)
		if err != nil {
			if !os.IsNotExist(err) {
				scan.addProblem("stat %s: %v", root, err)
			}
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			scan.addProblem("read %s: %v", root, err)
			continue
		}

		type archive struct {
			base string
			path string
			size int64
		}
		var archives []archive
		folders := make(map[string]string)

		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(root, name)
			if entry.Type()&os.ModeSymlink != 0 {
				continue
			}
			if entry.IsDir() {
				folders[name] = path
				continue
			}
			if !entry.Type().IsRegular() {
				continue
			}
			base, ok := archiveBaseName(name)
			if !ok {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				scan.addProblem("stat %s: %v", path, err)
				continue
			}
			archives = append(archives, archive{base: base, path: path, size: info.Size()})
		}

		seenDirs := make(map[string]bool)
		for _, a := range archives {
			dirPath, ok := folders[a.base]
			if !ok {
				continue
			}
			switch choice {
			case ChoiceArchives:
				scan.addFile(a.path, a.size)
			case ChoiceFolders:
				// Each paired directory is walked at most once, with no
				// exclusions applied at this nested level.
				if seenDirs[dirPath] {
					continue
				}
				seenDirs[dirPath] = true
				scanRoot(dirPath, nil, &scan)
				scan.Dirs = append(scan.Dirs, dirPath)
			}
		}
	}

	return scan
}

// archiveBaseName strips a recognized archive suffix from the file name.
// Returns false when no suffix matches or stripping leaves nothing.
func archiveBaseName(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, suffix := range archiveSuffixes {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		base := name[:len(name)-len(suffix)]
		if base == "" {
			return "", false
		}
		return base, true
	}
	return "", false
}
