// Command mudra turns finger-spelled letters seen by a camera into a sentence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/speech"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/telemetry"
)

func main() {
	os.Exit(run())
}

// run wires the program and returns the exit status: 0 after a quit or a
// capture failure, 1 when startup fails.
func run() int {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		return 1
	}

	logger, closeLog, err := logging.Setup(logging.Config{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Quiet: cfg.UI == config.UITerminal,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint: cfg.OTelEndpoint,
		Enabled:  cfg.OTelEnabled,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("flush traces")
		}
	}()

	var (
		st      *store.Store
		archive export.Archive
	)
	if cfg.Archive {
		st, err = store.New(cfg.ArchivePath())
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.ArchivePath()).Msg("open export archive")
			return 1
		}
		defer st.Close()
		archive = st.Exports()
	}

	eng := engine.New(engine.Options{
		Window:       cfg.Window,
		Threshold:    cfg.Threshold,
		LetterDelay:  cfg.LetterDelay,
		AutoClear:    cfg.AutoClear,
		Speech:       newSpeech(cfg, logger),
		SpeakLetters: cfg.SpeechEnabled,
		Exporter:     export.NewWriter(cfg.ExportDir, archive, logging.Component(logger, "export")),
		Logger:       logging.Component(logger, "engine"),
	})

	var frames *capture.FrameBuffer
	if cfg.HTTPAddr != "" {
		frames = capture.NewFrameBuffer()
	}

	a := app.New(app.Config{
		Camera:          capture.NewCamera(cfg.CameraID),
		Detector:        newDetector(cfg, logger),
		Engine:          eng,
		Mirror:          cfg.Mirror,
		IdleFPS:         cfg.IdleFPS,
		ActiveFPS:       cfg.ActiveFPS,
		MotionThreshold: cfg.MotionThreshold,
		Frames:          frames,
		Logger:          logging.Component(logger, "app"),
	})

	if cfg.HTTPAddr != "" {
		serverLogger := logging.Component(logger, "server")
		hub := server.NewHub(0, serverLogger)
		a.AddOutput(hub)

		srv := server.New(server.Config{
			StaticDir: findWebDir(cfg.DataDir),
			Store:     st,
			Commands:  a,
			Hub:       hub,
			Frames:    frames,
			Logger:    serverLogger,
		})
		go func() {
			if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
				serverLogger.Error().Err(err).Msg("http server failed")
			}
		}()
	}

	var runErr error
	switch cfg.UI {
	case config.UITray:
		runErr = runTray(ctx, a, cfg, logger)
	case config.UIHeadless:
		runErr = runHeadless(ctx, a, logger)
	default:
		runErr = runTUI(ctx, a, logger)
	}

	return exitCode(runErr, logger)
}

// exitCode maps the pipeline result to the process status. Capture
// failures were already logged by the pipeline.
func exitCode(err error, logger zerolog.Logger) int {
	if err == nil {
		return 0
	}

	var captureErr *capture.CaptureError
	if errors.As(err, &captureErr) && !errors.Is(err, app.ErrOpenCamera) {
		return 0
	}

	logger.Error().Err(err).Msg("startup failed")
	fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
	return 1
}

// newSpeech builds the speech collaborator. A missing program leaves
// speech unavailable rather than failing startup.
func newSpeech(cfg config.Config, logger zerolog.Logger) speech.Engine {
	program := cfg.SpeechProgram()
	if program == "" {
		return speech.Nop{}
	}

	sp := speech.NewCommandEngine(program, nil, cfg.SpeechTimeout)
	if !sp.Available() {
		logger.Info().Str("program", program).Msg("speech program not found, speech unavailable")
	}
	return sp
}

// newDetector starts the MediaPipe tracker, or falls back to a detector
// that never sees a hand so the rest of the program stays usable.
func newDetector(cfg config.Config, logger zerolog.Logger) detector.Detector {
	dcfg := detector.DefaultConfig()
	dcfg.DataDir = cfg.DataDir

	d, err := detector.NewMediaPipeDetector(dcfg)
	if err != nil {
		logger.Warn().Err(err).Msg("hand tracker unavailable, no hands will be detected")
		return detector.NewMockDetector()
	}
	return d
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web" and the data directory.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", filepath.Join("..", "web"), filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
