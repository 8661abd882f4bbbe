package session

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// TimestampFormat is the ISO-8601 layout used for log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000000-07:00"

// CSVHeader is the header row of an exported activity log.
var CSVHeader = []string{"timestamp_iso", "letter"}

// LogEntry is one accepted letter and when it was accepted.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Letter    gesture.Symbol `json:"letter"`
}

// ISOTimestamp returns the entry time formatted for export.
func (e LogEntry) ISOTimestamp() string {
	return e.Timestamp.Format(TimestampFormat)
}

// ActivityLog is an append-only record of accepted letters.
type ActivityLog struct {
	entries []LogEntry
}

// NewActivityLog creates an empty log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Record appends an entry for sym at now.
func (l *ActivityLog) Record(sym gesture.Symbol, now time.Time) {
	l.entries = append(l.entries, LogEntry{Timestamp: now, Letter: sym})
}

// Entries returns a copy of all entries in chronological order.
func (l *ActivityLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *ActivityLog) Len() int {
	return len(l.entries)
}

// IsEmpty reports whether nothing has been recorded.
func (l *ActivityLog) IsEmpty() bool {
	return len(l.entries) == 0
}

// WriteCSV writes the header row and one row per entry to w.
func (l *ActivityLog) WriteCSV(w io.Writer) error {
	return WriteEntriesCSV(w, l.entries)
}

// Export returns the CSV form of the log. It does not modify the log.
func (l *ActivityLog) Export() ([]byte, error) {
	var buf bytes.Buffer
	if err := l.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteEntriesCSV writes entries as CSV with the standard header.
func WriteEntriesCSV(w io.Writer, entries []LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.ISOTimestamp(), e.Letter.String()}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
