// Package snapshot creates pre-clean filesystem snapshots through external
// volume-management tools when the system supports them.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Provider identifies a supported snapshot mechanism.
type Provider int

const (
	ProviderBtrfs Provider = iota
	ProviderTimeshiftBtrfs
)

// Support describes a detected snapshot capability.
type Support struct {
	Label    string
	Provider Provider
	// Source is the subvolume to snapshot; only set for ProviderBtrfs.
	Source string
}

// Outcome reports a created snapshot.
type Outcome struct {
	Provider string
	Location string
}

func (o Outcome) String() string {
	if o.Location != "" {
		return fmt.Sprintf("%s snapshot at %s", o.Provider, o.Location)
	}
	return fmt.Sprintf("%s snapshot created", o.Provider)
}

// Detect probes for snapshot support, preferring a btrfs home subvolume
// over timeshift. Returns nil when neither is usable.
func Detect(home string) *Support {
	if s := detectBtrfs(home); s != nil {
		return s
	}
	return detectTimeshiftBtrfs()
}

// Create makes a snapshot using the detected provider.
func Create(support *Support) (*Outcome, error) {
	switch support.Provider {
	case ProviderBtrfs:
		return createBtrfsSnapshot(support.Source)
	case ProviderTimeshiftBtrfs:
		return createTimeshiftSnapshot()
	default:
		return nil, fmt.Errorf("unknown snapshot provider %d", support.Provider)
	}
}

func detectBtrfs(home string) *Support {
	if _, err := exec.LookPath("btrfs"); err != nil {
		return nil
	}
	if _, err := os.Stat(home); err != nil {
		return nil
	}

	// Only a home that is itself a subvolume can be snapshotted directly.
	cmd := exec.Command("btrfs", "subvolume", "show", home)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return nil
	}

	return &Support{
		Label:    "Btrfs (home)",
		Provider: ProviderBtrfs,
		Source:   home,
	}
}

func detectTimeshiftBtrfs() *Support {
	if _, err := exec.LookPath("timeshift"); err != nil {
		return nil
	}

	for _, path := range []string{"/etc/timeshift/timeshift.json", "/etc/timeshift.json"} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if timeshiftBtrfsEnabled(data) {
			return &Support{
				Label:    "Timeshift (Btrfs)",
				Provider: ProviderTimeshiftBtrfs,
			}
		}
	}

	return nil
}

// timeshiftBtrfsEnabled reports whether a timeshift config indicates btrfs
// mode. Falls back to a raw substring check when the JSON does not parse.
func timeshiftBtrfsEnabled(data []byte) bool {
	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err == nil {
		for _, key := range []string{"snapshot_type", "backup_type", "mode"} {
			if value, ok := cfg[key].(string); ok {
				if strings.Contains(strings.ToLower(value), "btrfs") {
					return true
				}
			}
		}
	}
	return strings.Contains(strings.ToLower(string(data)), "btrfs")
}

func createBtrfsSnapshot(source string) (*Outcome, error) {
	snapshotDir := filepath.Join(source, ".local/share/burrow/snapshots")
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", snapshotDir, err)
	}

	dest := filepath.Join(snapshotDir, fmt.Sprintf("burrow-clean-%d", time.Now().Unix()))
	cmd := exec.Command("btrfs", "subvolume", "snapshot", "-r", source, dest)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("btrfs snapshot command failed: %w", err)
	}

	return &Outcome{Provider: "Btrfs", Location: dest}, nil
}

func createTimeshiftSnapshot() (*Outcome, error) {
	cmd := exec.Command("timeshift", "--create", "--comments", "Burrow clean", "--tags", "O")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("timeshift snapshot command failed: %w", err)
	}

	return &Outcome{Provider: "Timeshift"}, nil
}
