package oplog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestRecordWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	entries := []Entry{
		{Action: "scan", RuleID: "trash", Files: 3, Dirs: 1, Bytes: 4096},
		{Action: "apply", RuleID: "trash", Files: 3, Dirs: 1, Bytes: 4096, Elevated: true},
	}
	for _, e := range entries {
		if err := log.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	scanner := bufio.NewScanner(&buf)
	var decoded []Entry
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		decoded = append(decoded, e)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(decoded))
	}

	if decoded[0].Action != "scan" || decoded[0].RuleID != "trash" {
		t.Errorf("first entry = %+v", decoded[0])
	}
	if decoded[0].Time.IsZero() {
		t.Error("zero Time must be stamped at record time")
	}
	if !decoded[1].Elevated {
		t.Error("Elevated flag lost in round trip")
	}
}

func TestRecordKeepsExplicitTime(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	stamp := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	if err := log.Record(Entry{Time: stamp, Action: "dry-run"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var e Entry
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Time.Equal(stamp) {
		t.Errorf("Time = %v, want %v", e.Time, stamp)
	}
}
