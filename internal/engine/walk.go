package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// scanRoot enumerates all descendants of root, classifying each as file or
// directory and accumulating byte totals for files. The root itself is never
// part of the result. Traversal never follows symbolic links and never
// descends into a different filesystem device. Per-entry failures are
// recorded on the scan and the walk continues.
func scanRoot(root string, exclude *excludeMatcher, scan *RuleScan) {
	info, err := os.Lstat(root)
	if err != nil {
		scan.addProblem("stat %s: %v", root, err)
		return
	}

	// A root that is itself a regular file or symlink is recorded directly
	// rather than opened as a directory.
	if !info.IsDir() {
		if info.Mode().IsRegular() || info.Mode()&fs.ModeSymlink != 0 {
			if !exclude.matches(filepath.Base(root)) {
				scan.addFile(root, info.Size())
			}
		}
		return
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
				// Excluded directories are pruned, not just omitted.
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
				// Mount point encountered mid-walk: not descended into.
				return fs.SkipDir
			}
			scan.Dirs = append(scan.Dirs, p)
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// Leaf symlinks are neither followed nor recorded.
			return nil
		}
		fileInfo, err := d.Info()
		if err != nil {
			scan.addProblem("stat %s: %v", p, err)
			return nil
		}
		scan.addFile(p, fileInfo.Size())
		return nil
	})
}

func deviceOf(info fs.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Dev)
	}
	return 0
}
