package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/speech"
)

func TestExitCode(t *testing.T) {
	readErr := &capture.CaptureError{Op: "read", DeviceID: 0, Err: capture.ErrEmptyFrame}
	openErr := fmt.Errorf("%w: %w", app.ErrOpenCamera, &capture.CaptureError{Op: "open", DeviceID: 0, Err: errors.New("busy")})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"quit", nil, 0},
		{"capture failure", readErr, 0},
		{"camera open failure", openErr, 1},
		{"other failure", errors.New("app: camera and engine are required"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err, zerolog.Nop()); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewSpeech(t *testing.T) {
	t.Run("empty command disables speech", func(t *testing.T) {
		sp := newSpeech(config.Config{SpeechCommand: ""}, zerolog.Nop())
		if _, ok := sp.(speech.Nop); !ok {
			t.Errorf("newSpeech() = %T, want speech.Nop", sp)
		}
	})

	t.Run("missing program is unavailable", func(t *testing.T) {
		sp := newSpeech(config.Config{SpeechCommand: "mudra-no-such-speech-program"}, zerolog.Nop())
		if sp.Available() {
			t.Error("missing program should be unavailable")
		}
	})
}

func TestFindWebDir(t *testing.T) {
	dataDir := t.TempDir()

	if got := findWebDir(dataDir); got != "" {
		t.Errorf("findWebDir() = %q, want empty", got)
	}

	web := filepath.Join(dataDir, "web")
	if err := os.Mkdir(web, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if got := findWebDir(dataDir); got != web {
		t.Errorf("findWebDir() = %q, want %q", got, web)
	}
}
