package app

import (
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/engine"
)

// LogOutput writes accepted letters and notices to a logger. It is the
// only output in headless mode.
type LogOutput struct {
	logger zerolog.Logger
}

// NewLogOutput creates a LogOutput.
func NewLogOutput(logger zerolog.Logger) *LogOutput {
	return &LogOutput{logger: logger}
}

// Render logs frames that accepted a letter.
func (o *LogOutput) Render(snap engine.Snapshot) {
	if !snap.Accepted.IsLetter() {
		return
	}
	o.logger.Info().
		Str("letter", snap.Accepted.String()).
		Str("sentence", snap.Sentence).
		Msg("sentence updated")
}

// Notify logs a notice at its level.
func (o *LogOutput) Notify(n engine.Notice) {
	var ev *zerolog.Event
	switch n.Level {
	case engine.LevelError:
		ev = o.logger.Error()
	case engine.LevelWarn:
		ev = o.logger.Warn()
	default:
		ev = o.logger.Info()
	}
	ev.Time("at", n.Time).Msg(n.Message)
}
