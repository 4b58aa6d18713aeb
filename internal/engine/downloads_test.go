package engine

import (
	"testing"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/testutil"
)

func downloadsRule(root string) config.Rule {
	return config.Rule{
		ID:    "test-downloads",
		Label: "Test downloads",
		Kind:  config.KindDownloads,
		Paths: []string{root},
	}
}

func TestArchiveBaseName(t *testing.T) {
	tests := []struct {
		name     string
		wantBase string
		wantOK   bool
	}{
		{"project.tar.gz", "project", true},
		{"project.tgz", "project", true},
		{"project.tar.xz", "project", true},
		{"project.tar.zst", "project", true},
		{"project.zip", "project", true},
		{"project.7z", "project", true},
		{"project.rar", "project", true},
		{"Project.TAR.GZ", "Project", true}, // case-insensitive suffix, original-case base
		{"project.tar", "", false},
		{"project.txt", "", false},
		{"project", "", false},
		{".zip", "", false}, // stripping must leave a non-empty base
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ok := archiveBaseName(tt.name)
			if ok != tt.wantOK || base != tt.wantBase {
				t.Errorf("archiveBaseName(%q) = (%q, %v), want (%q, %v)",
					tt.name, base, ok, tt.wantBase, tt.wantOK)
			}
		})
	}
}

func TestScanDownloadsNoChoice(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("dl/project.tar.gz", 100)
	f.CreateDir("dl/project")

	scan := scanDownloadsRule(downloadsRule(f.Path("dl")), f.Root, ChoiceNone)

	if scan.Entries != 0 || len(scan.Files) != 0 || len(scan.Dirs) != 0 {
		t.Errorf("scan without a choice must be empty, got %+v", scan)
	}
}

func TestScanDownloadsArchivesChoice(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("dl/project.tar.gz", 100)
	f.CreateFileSized("dl/project/extracted.txt", 50)
	f.CreateFileSized("dl/lonely.zip", 30) // no matching folder
	f.CreateDir("dl/orphan")               // no matching archive
	f.CreateFileSized("dl/notes.txt", 10)  // not an archive

	scan := scanDownloadsRule(downloadsRule(f.Path("dl")), f.Root, ChoiceArchives)

	if len(scan.Files) != 1 || scan.Files[0] != f.Path("dl/project.tar.gz") {
		t.Errorf("Files = %v, want only the paired archive", scan.Files)
	}
	if scan.Bytes != 100 {
		t.Errorf("Bytes = %d, want 100", scan.Bytes)
	}
	if len(scan.Dirs) != 0 {
		t.Errorf("archives choice must never record directories, got %v", scan.Dirs)
	}
}

func TestScanDownloadsFoldersChoice(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("dl/project.tar.gz", 100)
	f.CreateFileSized("dl/project/bin/tool", 40)
	f.CreateFileSized("dl/project/readme.md", 5)
	f.CreateFileSized("dl/lonely.zip", 30)

	scan := scanDownloadsRule(downloadsRule(f.Path("dl")), f.Root, ChoiceFolders)

	if scan.Bytes != 45 {
		t.Errorf("Bytes = %d, want 45 (folder contents only)", scan.Bytes)
	}
	if len(scan.Files) != 2 {
		t.Errorf("Files = %v, want the folder's two files", scan.Files)
	}

	// The paired directory itself is recorded alongside its subdirectories.
	wantDirs := map[string]bool{
		f.Path("dl/project"):     true,
		f.Path("dl/project/bin"): true,
	}
	if len(scan.Dirs) != len(wantDirs) {
		t.Fatalf("Dirs = %v, want %d entries", scan.Dirs, len(wantDirs))
	}
	for _, d := range scan.Dirs {
		if !wantDirs[d] {
			t.Errorf("unexpected dir recorded: %s", d)
		}
	}
}

func TestScanDownloadsFolderWalkedOnce(t *testing.T) {
	f := testutil.NewFixture(t)
	// Two archives with the same base pair to the same folder.
	f.CreateFileSized("dl/project.tar.gz", 100)
	f.CreateFileSized("dl/project.zip", 80)
	f.CreateFileSized("dl/project/data.bin", 40)

	scan := scanDownloadsRule(downloadsRule(f.Path("dl")), f.Root, ChoiceFolders)

	if scan.Bytes != 40 {
		t.Errorf("Bytes = %d, want 40 (folder counted once)", scan.Bytes)
	}
	if len(scan.Dirs) != 1 {
		t.Errorf("Dirs = %v, want the folder recorded once", scan.Dirs)
	}
}

func TestScanDownloadsSymlinkedChildrenIgnored(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("elsewhere/real.tar.gz", 100)
	f.CreateDir("elsewhere/real")
	f.CreateSymlink(f.Path("elsewhere/real.tar.gz"), "dl/fake.tar.gz")
	f.CreateSymlink(f.Path("elsewhere/real"), "dl/fake")

	scan := scanDownloadsRule(downloadsRule(f.Path("dl")), f.Root, ChoiceArchives)

	if scan.Entries != 0 {
		t.Errorf("symlinked children must be invisible to pairing, got %+v", scan)
	}
}

func TestScanDownloadsMissingRootSkipped(t *testing.T) {
	f := testutil.NewFixture(t)

	scan := scanDownloadsRule(downloadsRule(f.Path("no-such-dir")), f.Root, ChoiceArchives)

	if scan.Errors != 0 || scan.Entries != 0 {
		t.Errorf("missing root must be skipped silently, got %+v", scan)
	}
}
