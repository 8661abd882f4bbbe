package config

import (
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/speech"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/signer")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"CameraID", cfg.CameraID, 0},
		{"Mirror", cfg.Mirror, true},
		{"IdleFPS", cfg.IdleFPS, 10},
		{"ActiveFPS", cfg.ActiveFPS, 30},
		{"MotionThreshold", cfg.MotionThreshold, 1.0},
		{"Window", cfg.Window, 8},
		{"Threshold", cfg.Threshold, 3},
		{"LetterDelay", cfg.LetterDelay, 3 * time.Second},
		{"AutoClear", cfg.AutoClear, 40 * time.Second},
		{"ExportDir", cfg.ExportDir, "."},
		{"Archive", cfg.Archive, true},
		{"DataDir", cfg.DataDir, "/home/signer/.mudra"},
		{"SpeechCommand", cfg.SpeechCommand, "auto"},
		{"SpeechEnabled", cfg.SpeechEnabled, false},
		{"SpeechTimeout", cfg.SpeechTimeout, 5 * time.Second},
		{"HTTPAddr", cfg.HTTPAddr, ""},
		{"UI", cfg.UI, UITerminal},
		{"LogLevel", cfg.LogLevel, "info"},
		{"OTelEnabled", cfg.OTelEnabled, true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MUDRA_CAMERA_ID", "2")
	t.Setenv("MUDRA_MIRROR", "false")
	t.Setenv("MUDRA_LETTER_DELAY", "1500ms")
	t.Setenv("MUDRA_THRESHOLD", "5")
	t.Setenv("MUDRA_UI", "headless")
	t.Setenv("MUDRA_HTTP_ADDR", "127.0.0.1:8765")
	t.Setenv("MUDRA_DATA_DIR", "/var/lib/mudra")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CameraID != 2 || cfg.Mirror {
		t.Errorf("camera settings = %d, %v", cfg.CameraID, cfg.Mirror)
	}
	if cfg.LetterDelay != 1500*time.Millisecond {
		t.Errorf("LetterDelay = %v", cfg.LetterDelay)
	}
	if cfg.Threshold != 5 {
		t.Errorf("Threshold = %d", cfg.Threshold)
	}
	if cfg.UI != UIHeadless || cfg.HTTPAddr != "127.0.0.1:8765" {
		t.Errorf("UI, HTTPAddr = %q, %q", cfg.UI, cfg.HTTPAddr)
	}
	if got, want := cfg.ArchivePath(), filepath.Join("/var/lib/mudra", "mudra.db"); got != want {
		t.Errorf("ArchivePath() = %q, want %q", got, want)
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("MUDRA_WINDOW", "eight")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Window:        8,
			Threshold:     3,
			LetterDelay:   3 * time.Second,
			AutoClear:     40 * time.Second,
			IdleFPS:       10,
			ActiveFPS:     30,
			SpeechTimeout: 5 * time.Second,
			UI:            UITerminal,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"threshold equals window", func(c *Config) { c.Threshold = 8 }, ""},
		{"minimum delay", func(c *Config) { c.LetterDelay = 500 * time.Millisecond }, ""},
		{"zero window", func(c *Config) { c.Window = 0; c.Threshold = 0 }, "window must be at least 1"},
		{"threshold above window", func(c *Config) { c.Threshold = 9 }, "threshold must be between"},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, "threshold must be between"},
		{"short delay", func(c *Config) { c.LetterDelay = 400 * time.Millisecond }, "letter delay"},
		{"no auto-clear", func(c *Config) { c.AutoClear = 0 }, "auto-clear"},
		{"zero fps", func(c *Config) { c.IdleFPS = 0 }, "fps must be positive"},
		{"bad ui", func(c *Config) { c.UI = "gui" }, "ui must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("MUDRA_UI", "tray")
	t.Setenv("MUDRA_WINDOW", "10")

	fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-ui", "headless", "-delay", "2s", "-speak"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.UI != UIHeadless {
		t.Errorf("UI = %q, want flag value headless", cfg.UI)
	}
	if cfg.Window != 10 {
		t.Errorf("Window = %d, want env value 10", cfg.Window)
	}
	if cfg.LetterDelay != 2*time.Second {
		t.Errorf("LetterDelay = %v, want 2s", cfg.LetterDelay)
	}
	if !cfg.SpeechEnabled {
		t.Error("SpeechEnabled should be set by -speak")
	}
}

func TestParse_BadFlag(t *testing.T) {
	fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})

	if _, err := Parse(fs, []string{"-window", "many"}); err == nil {
		t.Fatal("expected error for a non-numeric window")
	}
}

func TestSpeechProgram(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{SpeechAuto, speech.DefaultProgram()},
		{"espeak-ng", "espeak-ng"},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := Config{SpeechCommand: tt.command}
		if got := cfg.SpeechProgram(); got != tt.want {
			t.Errorf("SpeechProgram(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}
