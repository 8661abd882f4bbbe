package session

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func TestState_Append(t *testing.T) {
	s := New(DefaultAutoClear, at(0))

	s.Append('H', at(1))
	s.Append('I', at(2))

	if got := s.Sentence(); got != "HI" {
		t.Errorf("Sentence() = %q, want HI", got)
	}

	history := s.History()
	if len(history) != 2 || history[0] != 'I' || history[1] != 'H' {
		t.Errorf("History() = %v, want [I H] (most recent first)", history)
	}

	if !s.LastActivity().Equal(at(2)) {
		t.Errorf("LastActivity() = %v, want %v", s.LastActivity(), at(2))
	}
}

func TestState_AppendSpaceNoDoubles(t *testing.T) {
	s := New(DefaultAutoClear, at(0))
	s.Append('A', at(1))

	if !s.AppendSpace(at(2)) {
		t.Error("first AppendSpace should add a space")
	}
	if s.AppendSpace(at(3)) {
		t.Error("second AppendSpace should not add a space")
	}

	if got := s.Sentence(); got != "A " {
		t.Errorf("Sentence() = %q, want %q", got, "A ")
	}

	// Activity still moves forward on the rejected space
	if !s.LastActivity().Equal(at(3)) {
		t.Errorf("LastActivity() = %v, want %v", s.LastActivity(), at(3))
	}
}

func TestState_AppendSpaceOnEmpty(t *testing.T) {
	s := New(DefaultAutoClear, at(0))

	s.AppendSpace(at(1))
	s.AppendSpace(at(2))

	if got := s.Sentence(); got != " " {
		t.Errorf("Sentence() = %q, want single space", got)
	}
}

func TestState_Backspace(t *testing.T) {
	s := New(DefaultAutoClear, at(0))
	s.Append('A', at(1))
	s.Append('B', at(2))

	if !s.Backspace(at(3)) {
		t.Error("Backspace on non-empty sentence should remove a character")
	}
	if got := s.Sentence(); got != "A" {
		t.Errorf("Sentence() = %q, want A", got)
	}

	// History is untouched by backspace
	if len(s.History()) != 2 {
		t.Errorf("History() length = %d, want 2", len(s.History()))
	}
}

func TestState_BackspaceOnEmptyStillTouchesActivity(t *testing.T) {
	s := New(DefaultAutoClear, at(0))

	if s.Backspace(at(5)) {
		t.Error("Backspace on empty sentence should report false")
	}
	if s.Sentence() != "" {
		t.Errorf("Sentence() = %q, want empty", s.Sentence())
	}
	if !s.LastActivity().Equal(at(5)) {
		t.Errorf("LastActivity() = %v, want %v", s.LastActivity(), at(5))
	}
}

func TestState_Clear(t *testing.T) {
	s := New(DefaultAutoClear, at(0))
	s.Append('A', at(1))
	s.AppendSpace(at(2))

	s.Clear(at(3))

	if s.Sentence() != "" {
		t.Errorf("Sentence() = %q, want empty", s.Sentence())
	}
	if len(s.History()) != 0 {
		t.Errorf("History() = %v, want empty", s.History())
	}
	if !s.LastActivity().Equal(at(3)) {
		t.Errorf("LastActivity() = %v, want %v", s.LastActivity(), at(3))
	}
}

func TestState_CheckAutoClear(t *testing.T) {
	tests := []struct {
		name      string
		sentence  bool
		idle      float64
		wantClear bool
	}{
		{name: "just before limit", sentence: true, idle: 39.9, wantClear: false},
		{name: "exactly at limit", sentence: true, idle: 40, wantClear: false},
		{name: "just after limit", sentence: true, idle: 40.1, wantClear: true},
		{name: "empty sentence never clears", sentence: false, idle: 500, wantClear: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(40*time.Second, at(0))
			if tt.sentence {
				s.Append('A', at(0))
			}

			got := s.CheckAutoClear(at(tt.idle))
			if got != tt.wantClear {
				t.Errorf("CheckAutoClear() = %v, want %v", got, tt.wantClear)
			}
			if tt.wantClear && (s.Sentence() != "" || len(s.History()) != 0) {
				t.Error("auto-clear should empty sentence and history")
			}
			if !tt.wantClear && tt.sentence && s.Sentence() != "A" {
				t.Errorf("Sentence() = %q, want A", s.Sentence())
			}
		})
	}
}

func TestState_CheckAutoClearMeasuresFromLastCommand(t *testing.T) {
	s := New(40*time.Second, at(0))
	s.Append('A', at(0))

	// A space at t=30 counts as activity
	s.AppendSpace(at(30))

	if s.CheckAutoClear(at(60)) {
		t.Error("should not clear 30s after the last command")
	}
	if !s.CheckAutoClear(at(70.5)) {
		t.Error("should clear 40.5s after the last command")
	}
}

func TestNew_DefaultAutoClear(t *testing.T) {
	s := New(0, at(0))
	if s.AutoClearAfter() != DefaultAutoClear {
		t.Errorf("AutoClearAfter() = %v, want %v", s.AutoClearAfter(), DefaultAutoClear)
	}
}

func TestState_HistoryReturnsCopy(t *testing.T) {
	s := New(DefaultAutoClear, at(0))
	s.Append('A', at(1))

	h := s.History()
	h[0] = gesture.Symbol('Z')

	if s.History()[0] != 'A' {
		t.Error("modifying History() result changed session state")
	}
}
