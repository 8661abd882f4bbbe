// Package speech provides optional text-to-speech for accepted letters.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ayusman/mudra/internal/telemetry"
)

// DefaultTimeout bounds a single Speak call.
const DefaultTimeout = 5 * time.Second

// ErrUnavailable is returned by engines that cannot speak.
var ErrUnavailable = errors.New("speech unavailable")

// Engine speaks short pieces of text.
type Engine interface {
	// Name identifies the engine for logging.
	Name() string
	// Available reports whether Speak can work at all.
	Available() bool
	// Speak says text and returns once playback is done or has failed.
	Speak(ctx context.Context, text string) error
}

// DefaultProgram returns the usual speech program for the current OS.
func DefaultProgram() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak"
}

// CommandEngine speaks by running an external program with the text as
// its last argument.
type CommandEngine struct {
	program   string
	args      []string
	path      string
	timeout   time.Duration
	available bool
}

// NewCommandEngine creates an engine that runs program with args followed
// by the text. The program is looked up on PATH once; if it is missing the
// engine reports itself unavailable.
func NewCommandEngine(program string, args []string, timeout time.Duration) *CommandEngine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	e := &CommandEngine{
		program: program,
		args:    args,
		timeout: timeout,
	}

	if program != "" {
		if path, err := exec.LookPath(program); err == nil {
			e.path = path
			e.available = true
		}
	}

	return e
}

// Name returns the program name.
func (e *CommandEngine) Name() string {
	return e.program
}

// Available reports whether the program was found.
func (e *CommandEngine) Available() bool {
	return e.available
}

// Speak runs the program with a timeout.
func (e *CommandEngine) Speak(ctx context.Context, text string) error {
	if !e.available {
		return ErrUnavailable
	}

	ctx, span := telemetry.Tracer("github.com/ayusman/mudra/internal/speech").Start(ctx, "speech.Speak")
	defer span.End()
	span.SetAttributes(attribute.String("speech.engine", e.program), attribute.Int("speech.length", len(text)))

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string{}, e.args...), text)
	cmd := exec.CommandContext(ctx, e.path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("speech timeout after %s", e.timeout)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			err = fmt.Errorf("speech failed: %w, stderr: %s", err, s)
		} else {
			err = fmt.Errorf("speech failed: %w", err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Nop is an engine that is never available.
type Nop struct{}

// Name returns "none".
func (Nop) Name() string { return "none" }

// Available always returns false.
func (Nop) Available() bool { return false }

// Speak always returns ErrUnavailable.
func (Nop) Speak(context.Context, string) error { return ErrUnavailable }
