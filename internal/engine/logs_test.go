package engine

import (
	"testing"
	"time"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/testutil"
)

func logsRule(root string, olderThanDays int) config.Rule {
	return config.Rule{
		ID:            "test-logs",
		Label:         "Test logs",
		Kind:          config.KindLogs,
		Paths:         []string{root},
		OlderThanDays: olderThanDays,
	}
}

func TestIsLogName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"xsession-errors", true},
		{"xsession-errors.old", true},
		{"app.log", true},
		{"APP.LOG", true},
		{"app.log.1", true},
		{"app.log.2.gz", true},
		{"daemon.err", true},
		{"daemon.error", true},
		{"notes.txt", false},
		{"logbook", false},
		{"catalog", false},
		{"my-xsession-errors", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLogName(tt.name); got != tt.want {
				t.Errorf("isLogName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAgeCutoff(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	got := ageCutoff(now, 7)
	want := now.Add(-7 * 24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("ageCutoff(7) = %v, want %v", got, want)
	}

	// Absurd thresholds saturate instead of overflowing.
	if got := ageCutoff(now, 300_000); !got.IsZero() {
		t.Errorf("overflowing cutoff = %v, want zero time", got)
	}
}

func TestScanLogsAgeFilter(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithAge("logs/old.log", make([]byte, 100), 10*24*time.Hour)
	f.CreateFileWithAge("logs/fresh.log", make([]byte, 50), 1*24*time.Hour)
	f.CreateFileWithAge("logs/old.txt", make([]byte, 25), 10*24*time.Hour)

	scan := scanLogsRule(logsRule(f.Path("logs"), 7), f.Root)

	if len(scan.Files) != 1 || scan.Files[0] != f.Path("logs/old.log") {
		t.Errorf("Files = %v, want only the old log", scan.Files)
	}
	if scan.Bytes != 100 {
		t.Errorf("Bytes = %d, want 100", scan.Bytes)
	}
}

func TestScanLogsNoAgeFilter(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("logs/fresh.log", 50)
	f.CreateFileSized("logs/sub/other.err", 20)

	scan := scanLogsRule(logsRule(f.Path("logs"), 0), f.Root)

	if len(scan.Files) != 2 {
		t.Errorf("Files = %v, want both logs regardless of age", scan.Files)
	}
	if scan.Bytes != 70 {
		t.Errorf("Bytes = %d, want 70", scan.Bytes)
	}
}

func TestScanLogsNeverRecordsDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("logs/nested/deep/app.log", 10)

	scan := scanLogsRule(logsRule(f.Path("logs"), 0), f.Root)

	if len(scan.Dirs) != 0 {
		t.Errorf("Dirs = %v, want none", scan.Dirs)
	}
	if len(scan.Files) != 1 {
		t.Errorf("Files = %v, want the nested log", scan.Files)
	}
}

func TestScanLogsRootAsFile(t *testing.T) {
	f := testutil.NewFixture(t)
	logPath := f.CreateFileSized("standalone.log", 30)
	txtPath := f.CreateFileSized("standalone.txt", 30)

	scan := scanLogsRule(logsRule(logPath, 0), f.Root)
	if len(scan.Files) != 1 || scan.Files[0] != logPath {
		t.Errorf("Files = %v, want the standalone log", scan.Files)
	}

	scan = scanLogsRule(logsRule(txtPath, 0), f.Root)
	if len(scan.Files) != 0 {
		t.Errorf("non-log root recorded: %v", scan.Files)
	}
}

func TestScanLogsExcludeGlobs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("logs/app.log", 10)
	f.CreateFileSized("logs/keep.log", 20)

	rule := logsRule(f.Path("logs"), 0)
	rule.ExcludeGlobs = []string{"keep.log"}

	scan := scanLogsRule(rule, f.Root)

	if len(scan.Files) != 1 || scan.Files[0] != f.Path("logs/app.log") {
		t.Errorf("Files = %v, want only the non-excluded log", scan.Files)
	}
}
