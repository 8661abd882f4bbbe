package api

import (
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/engine"
)

// SnapshotSource supplies the most recent engine snapshot.
type SnapshotSource interface {
	Latest() (engine.Snapshot, bool)
}

// SnapshotResponse is the JSON form of an engine snapshot.
type SnapshotResponse struct {
	Time            string   `json:"time"`
	Display         string   `json:"display"`
	Count           int      `json:"count"`
	HandPresent     bool     `json:"hand_present"`
	Accepted        string   `json:"accepted,omitempty"`
	Readiness       float64  `json:"readiness"`
	Sentence        string   `json:"sentence"`
	History         []string `json:"history"`
	FPS             float64  `json:"fps"`
	LetterDelay     float64  `json:"letter_delay"`
	Window          int      `json:"window"`
	Threshold       int      `json:"threshold"`
	SpeechEnabled   bool     `json:"speech_enabled"`
	SpeechAvailable bool     `json:"speech_available"`
	LogEntries      int      `json:"log_entries"`
}

// NoticeResponse is the JSON form of an engine notice.
type NoticeResponse struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// NewSnapshotResponse converts a snapshot for the wire. LetterDelay is in seconds.
func NewSnapshotResponse(s engine.Snapshot) SnapshotResponse {
	history := make([]string, 0, len(s.History))
	for _, sym := range s.History {
		history = append(history, sym.String())
	}

	return SnapshotResponse{
		Time:            s.Time.Format(time.RFC3339Nano),
		Display:         s.Display.String(),
		Count:           s.Count,
		HandPresent:     s.HandPresent,
		Accepted:        s.Accepted.String(),
		Readiness:       s.Readiness,
		Sentence:        s.Sentence,
		History:         history,
		FPS:             s.FPS,
		LetterDelay:     s.LetterDelay.Seconds(),
		Window:          s.Window,
		Threshold:       s.Threshold,
		SpeechEnabled:   s.SpeechEnabled,
		SpeechAvailable: s.SpeechAvailable,
		LogEntries:      s.LogEntries,
	}
}

// NewNoticeResponse converts a notice for the wire.
func NewNoticeResponse(n engine.Notice) NoticeResponse {
	return NoticeResponse{
		Level:   string(n.Level),
		Message: n.Message,
		Time:    n.Time.Format(time.RFC3339Nano),
	}
}

// SnapshotHandler serves the latest snapshot.
type SnapshotHandler struct {
	source SnapshotSource
}

// NewSnapshotHandler creates a SnapshotHandler reading from source.
func NewSnapshotHandler(source SnapshotSource) *SnapshotHandler {
	return &SnapshotHandler{source: source}
}

// ServeHTTP handles GET /api/snapshot. It answers 503 until the first
// frame has been processed.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap, ok := h.source.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "No snapshot yet")
		return
	}

	writeJSON(w, http.StatusOK, NewSnapshotResponse(snap))
}
