// Package session holds the sentence being spelled and the record of
// accepted letters.
package session

import (
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultAutoClear is how long a non-empty sentence survives without activity.
const DefaultAutoClear = 40 * time.Second

// State is the authoritative sentence buffer.
type State struct {
	sentence       strings.Builder
	history        []gesture.Symbol // most recent first
	lastActivityAt time.Time
	autoClearAfter time.Duration
}

// New creates an empty session. Activity starts at now.
// A non-positive autoClearAfter falls back to DefaultAutoClear.
func New(autoClearAfter time.Duration, now time.Time) *State {
	if autoClearAfter <= 0 {
		autoClearAfter = DefaultAutoClear
	}
	return &State{
		autoClearAfter: autoClearAfter,
		lastActivityAt: now,
	}
}

// Append adds an accepted letter to the sentence.
func (s *State) Append(sym gesture.Symbol, now time.Time) {
	s.sentence.WriteByte(byte(sym))
	s.history = append([]gesture.Symbol{sym}, s.history...)
	s.lastActivityAt = now
}

// AppendSpace adds a single space unless the sentence already ends with one.
// Activity is updated either way. It reports whether a space was added.
func (s *State) AppendSpace(now time.Time) bool {
	s.lastActivityAt = now
	if strings.HasSuffix(s.sentence.String(), " ") {
		return false
	}
	s.sentence.WriteByte(' ')
	return true
}

// Backspace removes the last character, if any. Activity is updated either way.
// It reports whether a character was removed.
func (s *State) Backspace(now time.Time) bool {
	s.lastActivityAt = now
	current := s.sentence.String()
	if current == "" {
		return false
	}
	s.sentence.Reset()
	s.sentence.WriteString(current[:len(current)-1])
	return true
}

// Clear empties the sentence and history and updates activity.
func (s *State) Clear(now time.Time) {
	s.reset()
	s.lastActivityAt = now
}

// CheckAutoClear empties a non-empty sentence once it has been idle for
// longer than the auto-clear period. It reports whether it cleared.
// It must run every tick, whether or not a hand was seen.
func (s *State) CheckAutoClear(now time.Time) bool {
	if s.sentence.Len() == 0 {
		return false
	}
	if now.Sub(s.lastActivityAt) <= s.autoClearAfter {
		return false
	}
	s.reset()
	return true
}

func (s *State) reset() {
	s.sentence.Reset()
	s.history = nil
}

// Sentence returns the current sentence.
func (s *State) Sentence() string {
	return s.sentence.String()
}

// History returns the accepted letters, most recent first.
func (s *State) History() []gesture.Symbol {
	out := make([]gesture.Symbol, len(s.history))
	copy(out, s.history)
	return out
}

// LastActivity returns the time of the last activity.
func (s *State) LastActivity() time.Time {
	return s.lastActivityAt
}

// AutoClearAfter returns the idle period after which the sentence is cleared.
func (s *State) AutoClearAfter() time.Duration {
	return s.autoClearAfter
}
