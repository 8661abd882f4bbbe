// Package engine turns per-frame finger readings into an accepted sentence.
//
// An Engine owns the consensus buffer, debounce gate, session and activity
// log. It is not safe for concurrent use; a single pipeline goroutine steps
// it and applies commands between frames.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/speech"
)

// DefaultThreshold is the consensus count needed to accept a letter.
const DefaultThreshold = 3

// Exporter writes sentences and letter logs. *export.Writer satisfies it.
type Exporter interface {
	ExportSentence(ctx context.Context, sentence string, at time.Time) (string, error)
	ExportLog(ctx context.Context, entries []session.LogEntry, at time.Time) (string, error)
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Window      int
	Threshold   int
	LetterDelay time.Duration
	AutoClear   time.Duration

	Speech speech.Engine
	// SpeakLetters turns speech on at start when the engine is available.
	SpeakLetters bool

	Exporter Exporter
	Logger   zerolog.Logger
}

// Engine is the letter state machine.
type Engine struct {
	buffer    *gesture.ConsensusBuffer
	gate      *gesture.DebounceGate
	session   *session.State
	log       *session.ActivityLog
	threshold int

	speech   speech.Engine
	speechOn bool
	exporter Exporter
	exported int

	display     gesture.Symbol
	count       int
	handPresent bool
	lastFrameAt time.Time
	fps         float64

	logger zerolog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	window := opts.Window
	if window < 1 {
		window = gesture.DefaultWindow
	}
	threshold := opts.Threshold
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	delay := opts.LetterDelay
	if delay == 0 {
		delay = gesture.DefaultLetterDelay
	}

	sp := opts.Speech
	if sp == nil {
		sp = speech.Nop{}
	}

	return &Engine{
		buffer:    gesture.NewConsensusBuffer(window),
		gate:      gesture.NewDebounceGate(delay),
		session:   session.New(opts.AutoClear, time.Time{}),
		log:       session.NewActivityLog(),
		threshold: threshold,
		speech:    sp,
		speechOn:  opts.SpeakLetters && sp.Available(),
		exporter:  opts.Exporter,
		display:   gesture.Unknown,
		logger:    opts.Logger,
	}
}

// Step processes one frame. fingers is nil when no hand was seen.
func (e *Engine) Step(ctx context.Context, fingers *gesture.FingerVector, now time.Time) Frame {
	if !e.lastFrameAt.IsZero() {
		if dt := now.Sub(e.lastFrameAt); dt > 0 {
			e.fps = 1 / dt.Seconds()
		} else {
			e.fps = 0
		}
	}
	e.lastFrameAt = now

	sym := gesture.Unknown
	e.handPresent = fingers != nil
	if fingers != nil {
		sym = gesture.Classify(*fingers)
	}
	e.buffer.Push(sym)

	resolved, count := e.buffer.Resolve()
	e.count = count
	e.display = resolved
	if resolved == gesture.NoSymbol {
		e.display = gesture.Unknown
	}

	accepted := gesture.NoSymbol
	if e.gate.Evaluate(resolved, count, e.threshold, now) {
		accepted = resolved
		e.session.Append(resolved, now)
		e.log.Record(resolved, now)

		e.logger.Debug().
			Str("letter", resolved.String()).
			Int("count", count).
			Str("sentence", e.session.Sentence()).
			Msg("letter accepted")

		e.speak(ctx, resolved.String())
	}

	var notice *Notice
	if e.session.CheckAutoClear(now) {
		e.buffer.Clear()
		e.gate.Reset()
		notice = e.notify(LevelInfo, "auto-cleared sentence due to inactivity", now)
	}

	snap := e.Snapshot(now)
	snap.Accepted = accepted
	return Frame{Snapshot: snap, Notice: notice}
}

// Dispatch applies a user command.
func (e *Engine) Dispatch(ctx context.Context, cmd Command, now time.Time) Result {
	e.logger.Debug().Str("command", cmd.String()).Msg("dispatch")

	switch cmd {
	case CommandQuit:
		return Result{Quit: true}

	case CommandSpace:
		e.session.AppendSpace(now)

	case CommandBackspace:
		e.session.Backspace(now)
		e.gate.Reset()

	case CommandReset:
		e.session.Clear(now)
		e.buffer.Clear()
		e.gate.Reset()
		return Result{Notice: e.notify(LevelInfo, "sentence cleared", now)}

	case CommandExportText:
		return Result{Notice: e.exportSentence(ctx, now)}

	case CommandExportLog:
		return Result{Notice: e.exportLog(ctx, now)}

	case CommandFaster:
		d := e.gate.Faster()
		return Result{Notice: e.notify(LevelInfo, delayMessage(d), now)}

	case CommandSlower:
		d := e.gate.Slower()
		return Result{Notice: e.notify(LevelInfo, delayMessage(d), now)}

	case CommandToggleSpeech:
		if !e.speech.Available() {
			return Result{Notice: e.notify(LevelWarn, "speech unavailable", now)}
		}
		e.speechOn = !e.speechOn
		msg := "speech disabled"
		if e.speechOn {
			msg = "speech enabled"
		}
		return Result{Notice: e.notify(LevelInfo, msg, now)}

	default:
		return Result{Notice: e.notify(LevelWarn, fmt.Sprintf("%s: %s", ErrUnknownCommand, cmd), now)}
	}

	return Result{}
}

// Shutdown exports the letter log if it has entries that were never
// exported. It returns the export notice, or nil when nothing was done.
func (e *Engine) Shutdown(ctx context.Context, now time.Time) *Notice {
	if e.log.Len() <= e.exported {
		return nil
	}
	return e.exportLog(ctx, now)
}

// Snapshot returns the current render state.
func (e *Engine) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Time:            now,
		Display:         e.display,
		Count:           e.count,
		HandPresent:     e.handPresent,
		Accepted:        gesture.NoSymbol,
		Readiness:       e.gate.Readiness(now),
		Sentence:        e.session.Sentence(),
		History:         e.session.History(),
		FPS:             e.fps,
		LetterDelay:     e.gate.MinInterval(),
		Window:          e.buffer.Cap(),
		Threshold:       e.threshold,
		SpeechEnabled:   e.speechOn,
		SpeechAvailable: e.speech.Available(),
		LogEntries:      e.log.Len(),
	}
}

// Unexported returns how many log entries have not been exported yet.
func (e *Engine) Unexported() int {
	return e.log.Len() - e.exported
}

func (e *Engine) exportSentence(ctx context.Context, now time.Time) *Notice {
	if e.exporter == nil {
		return e.notify(LevelWarn, "export disabled", now)
	}

	path, err := e.exporter.ExportSentence(ctx, e.session.Sentence(), now)
	if err != nil {
		return e.exportFailed(err, now)
	}
	return e.notify(LevelInfo, "saved sentence to "+path, now)
}

func (e *Engine) exportLog(ctx context.Context, now time.Time) *Notice {
	if e.exporter == nil {
		return e.notify(LevelWarn, "export disabled", now)
	}

	entries := e.log.Entries()
	path, err := e.exporter.ExportLog(ctx, entries, now)
	if err != nil {
		return e.exportFailed(err, now)
	}
	e.exported = len(entries)
	return e.notify(LevelInfo, "saved letter log to "+path, now)
}

func (e *Engine) exportFailed(err error, now time.Time) *Notice {
	if errors.Is(err, export.ErrNothingToExport) {
		return e.notify(LevelInfo, export.ErrNothingToExport.Error(), now)
	}
	return e.notify(LevelError, err.Error(), now)
}

// speak says text when speech is on. Failures are logged and dropped.
func (e *Engine) speak(ctx context.Context, text string) {
	if !e.speechOn {
		return
	}
	if err := e.speech.Speak(ctx, text); err != nil {
		e.logger.Debug().Err(err).Str("engine", e.speech.Name()).Msg("speech failed")
	}
}

func (e *Engine) notify(level Level, msg string, now time.Time) *Notice {
	e.logger.Debug().Str("level", string(level)).Msg(msg)
	return &Notice{Level: level, Message: msg, Time: now}
}

func delayMessage(d time.Duration) string {
	return fmt.Sprintf("letter delay set to %.1fs", d.Seconds())
}
