package engine

import (
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Clock supplies the current time. The pipeline reads it once per frame.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Level is the severity of a Notice.
type Level string

// Notice levels.
const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is a short message for the user, such as an export result.
type Notice struct {
	Level   Level
	Message string
	Time    time.Time
}

// Snapshot is the render state after a frame or command.
type Snapshot struct {
	Time time.Time

	// Display is the consensus symbol, or Unknown when there is none.
	Display     gesture.Symbol
	Count       int
	HandPresent bool
	// Accepted is the letter accepted on this frame, or NoSymbol.
	Accepted  gesture.Symbol
	Readiness float64

	Sentence string
	History  []gesture.Symbol

	FPS         float64
	LetterDelay time.Duration
	Window      int
	Threshold   int

	SpeechEnabled   bool
	SpeechAvailable bool
	LogEntries      int
}

// Frame is the result of stepping the engine with one frame.
type Frame struct {
	Snapshot Snapshot
	// Notice is set when the frame triggered an auto-clear.
	Notice *Notice
}

// Result is the outcome of dispatching a command.
type Result struct {
	Quit   bool
	Notice *Notice
}
