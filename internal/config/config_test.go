package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := GetDefault()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Rules) == 0 {
		t.Fatal("default config has no rules")
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	original := GetDefault()
	if err := Save(original, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version != original.Version {
		t.Errorf("Version = %d, want %d", loaded.Version, original.Version)
	}
	if len(loaded.Rules) != len(original.Rules) {
		t.Fatalf("Rules = %d, want %d", len(loaded.Rules), len(original.Rules))
	}
	for i, rule := range loaded.Rules {
		if rule.ID != original.Rules[i].ID {
			t.Errorf("rule %d id = %q, want %q", i, rule.ID, original.Rules[i].ID)
		}
		if rule.Kind != original.Rules[i].Kind {
			t.Errorf("rule %q kind = %q, want %q", rule.ID, rule.Kind, original.Rules[i].Kind)
		}
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("version: [not-an-int\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	valid := Rule{ID: "r1", Label: "Rule", Kind: KindPaths}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{Version: 1, Rules: []Rule{valid}}, false},
		{"bad version", Config{Version: 2, Rules: []Rule{valid}}, true},
		{"missing id", Config{Version: 1, Rules: []Rule{{Label: "L", Kind: KindPaths}}}, true},
		{"duplicate id", Config{Version: 1, Rules: []Rule{valid, valid}}, true},
		{"missing label", Config{Version: 1, Rules: []Rule{{ID: "r1", Kind: KindPaths}}}, true},
		{"unknown kind", Config{Version: 1, Rules: []Rule{{ID: "r1", Label: "L", Kind: "weird"}}}, true},
		{
			"negative age",
			Config{Version: 1, Rules: []Rule{{ID: "r1", Label: "L", Kind: KindLogs, OlderThanDays: -1}}},
			true,
		},
		{
			"logs kind with age",
			Config{Version: 1, Rules: []Rule{{ID: "r1", Label: "L", Kind: KindLogs, OlderThanDays: 14}}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchesDistro(t *testing.T) {
	tests := []struct {
		name    string
		distros []string
		ids     []string
		want    bool
	}{
		{"no distros matches everywhere", nil, []string{"arch"}, true},
		{"no distros matches unknown system", nil, nil, true},
		{"direct match", []string{"arch"}, []string{"arch"}, true},
		{"case-insensitive", []string{"Arch"}, []string{"arch"}, true},
		{"id-like match", []string{"debian"}, []string{"ubuntu", "debian"}, true},
		{"no match", []string{"fedora"}, []string{"arch"}, false},
		{"unknown system never matches gated rules", []string{"fedora"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := Rule{Distros: tt.distros}
			if got := rule.MatchesDistro(tt.ids); got != tt.want {
				t.Errorf("MatchesDistro(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}

func TestAvailableRules(t *testing.T) {
	cfg := &Config{Version: 1, Rules: []Rule{
		{ID: "all", Label: "A", Kind: KindPaths},
		{ID: "arch-only", Label: "B", Kind: KindPaths, Distros: []string{"arch"}},
		{ID: "deb-only", Label: "C", Kind: KindPaths, Distros: []string{"debian"}},
	}}

	rules := cfg.AvailableRules([]string{"arch"})
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].ID != "all" || rules[1].ID != "arch-only" {
		t.Errorf("rules = %v, %v", rules[0].ID, rules[1].ID)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("BURROW_TEST_DIR", "/var/tmp")

	tests := []struct {
		path string
		want string
	}{
		{"~", "/home/alice"},
		{"~/.cache", "/home/alice/.cache"},
		{"/absolute/path", "/absolute/path"},
		{"$BURROW_TEST_DIR/cache", "/var/tmp/cache"},
		{"~/logs/$BURROW_TEST_DIR", "/home/alice/logs//var/tmp"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ExpandPath(tt.path, "/home/alice"); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpandedPaths(t *testing.T) {
	rule := Rule{Paths: []string{"~/.cache", "/tmp/x"}}
	got := rule.ExpandedPaths("/home/bob")
	want := []string{"/home/bob/.cache", "/tmp/x"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, got[i], want[i])
		}
	}
}
