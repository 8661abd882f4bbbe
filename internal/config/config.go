// Package config loads runtime settings from MUDRA_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/mudra/internal/speech"
)

// Prefix is prepended to every environment variable name.
const Prefix = "MUDRA_"

// SpeechAuto selects the platform speech program.
const SpeechAuto = "auto"

// UI modes.
const (
	UITerminal = "tui"
	UITray     = "tray"
	UIHeadless = "headless"
)

// Config holds every runtime setting.
type Config struct {
	CameraID        int     `env:"CAMERA_ID" envDefault:"0"`
	Mirror          bool    `env:"MIRROR" envDefault:"true"`
	IdleFPS         int     `env:"IDLE_FPS" envDefault:"10"`
	ActiveFPS       int     `env:"ACTIVE_FPS" envDefault:"30"`
	MotionThreshold float64 `env:"MOTION_THRESHOLD" envDefault:"1.0"`

	Window      int           `env:"WINDOW" envDefault:"8"`
	Threshold   int           `env:"THRESHOLD" envDefault:"3"`
	LetterDelay time.Duration `env:"LETTER_DELAY" envDefault:"3s"`
	AutoClear   time.Duration `env:"AUTO_CLEAR" envDefault:"40s"`

	ExportDir string `env:"EXPORT_DIR" envDefault:"."`
	Archive   bool   `env:"ARCHIVE" envDefault:"true"`
	DataDir   string `env:"DATA_DIR,expand" envDefault:"${HOME}/.mudra"`

	SpeechCommand string        `env:"SPEECH_COMMAND" envDefault:"auto"`
	SpeechEnabled bool          `env:"SPEECH_ENABLED" envDefault:"false"`
	SpeechTimeout time.Duration `env:"SPEECH_TIMEOUT" envDefault:"5s"`

	HTTPAddr string `env:"HTTP_ADDR"`
	UI       string `env:"UI" envDefault:"tui"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// Load reads the configuration from the environment. It does not validate.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Parse loads the environment and then applies command-line flags from
// args on top. Flag defaults are the environment values.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "Camera device ID")
	fs.BoolVar(&cfg.Mirror, "mirror", cfg.Mirror, "Mirror frames before detection")
	fs.IntVar(&cfg.Window, "window", cfg.Window, "Consensus window in frames")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "Frames a letter needs within the window")
	fs.DurationVar(&cfg.LetterDelay, "delay", cfg.LetterDelay, "Minimum time between letters")
	fs.DurationVar(&cfg.AutoClear, "auto-clear", cfg.AutoClear, "Clear the sentence after this much inactivity")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Directory for exported files")
	fs.BoolVar(&cfg.Archive, "archive", cfg.Archive, "Record exports in the SQLite archive")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the archive and tracker files")
	fs.BoolVar(&cfg.SpeechEnabled, "speak", cfg.SpeechEnabled, "Speak accepted letters")
	fs.StringVar(&cfg.SpeechCommand, "speech-command", cfg.SpeechCommand, "Speech program, or auto")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "Serve the HTTP API on this address")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "User interface: tui, tray or headless")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SpeechProgram resolves the "auto" speech command for the current OS.
// An empty command disables speech.
func (c Config) SpeechProgram() string {
	if c.SpeechCommand == SpeechAuto {
		return speech.DefaultProgram()
	}
	return c.SpeechCommand
}

// ArchivePath returns the export archive database path.
func (c Config) ArchivePath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// Validate checks that the settings can run the engine.
func (c Config) Validate() error {
	var errs []error

	if c.Window < 1 {
		errs = append(errs, fmt.Errorf("window must be at least 1, got %d", c.Window))
	}
	if c.Threshold < 1 || c.Threshold > c.Window {
		errs = append(errs, fmt.Errorf("threshold must be between 1 and window (%d), got %d", c.Window, c.Threshold))
	}
	if c.LetterDelay < 500*time.Millisecond {
		errs = append(errs, fmt.Errorf("letter delay must be at least 0.5s, got %s", c.LetterDelay))
	}
	if c.AutoClear <= 0 {
		errs = append(errs, fmt.Errorf("auto-clear must be positive, got %s", c.AutoClear))
	}
	if c.IdleFPS <= 0 || c.ActiveFPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got idle %d active %d", c.IdleFPS, c.ActiveFPS))
	}
	if c.SpeechTimeout <= 0 {
		errs = append(errs, fmt.Errorf("speech timeout must be positive, got %s", c.SpeechTimeout))
	}
	switch c.UI {
	case UITerminal, UITray, UIHeadless:
	default:
		errs = append(errs, fmt.Errorf("ui must be one of tui, tray, headless, got %q", c.UI))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
