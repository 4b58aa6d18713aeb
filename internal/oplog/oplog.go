// Package oplog appends an audit trail of scan and clean operations as JSON
// lines to a rotating log file under the user's state directory.
package oplog

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is one audited operation.
type Entry struct {
	Time     time.Time `json:"time"`
	Action   string    `json:"action"` // scan, dry-run, apply
	RuleID   string    `json:"rule_id,omitempty"`
	Files    int       `json:"files"`
	Dirs     int       `json:"dirs"`
	Bytes    int64     `json:"bytes"`
	Errors   int       `json:"errors"`
	Elevated bool      `json:"elevated,omitempty"`
}

// Logger serializes entries to a writer, one JSON object per line.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a logger backed by a size-capped rotating file under
// <home>/.local/state/burrow. Rotation keeps the audit trail bounded
// without dropping recent history.
func New(home string) *Logger {
	return &Logger{w: &lumberjack.Logger{
		Filename:   filepath.Join(home, ".local", "state", "burrow", "operations.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     90, // days
		Compress:   true,
	}}
}

// NewWithWriter returns a logger writing to an arbitrary writer.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Record appends one entry. A zero Time is stamped with the current time.
func (l *Logger) Record(entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return json.NewEncoder(l.w).Encode(entry)
}

// Close closes the underlying writer when it supports closing.
func (l *Logger) Close() error {
	if closer, ok := l.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
