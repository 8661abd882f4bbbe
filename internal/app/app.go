// Package app runs the capture pipeline that feeds the spelling engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
)

// DefaultCommandBuffer is the capacity of the command channel.
const DefaultCommandBuffer = 16

// ErrOpenCamera wraps failures to open the camera in Run.
var ErrOpenCamera = errors.New("open camera")

// Output receives render state from the pipeline. Calls are made from the
// pipeline goroutine and must not block for long.
type Output interface {
	Render(snap engine.Snapshot)
	Notify(n engine.Notice)
}

// Config holds the pipeline's collaborators and settings.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Engine   *engine.Engine
	Clock    engine.Clock

	// Mirror flips each frame horizontally before detection.
	Mirror          bool
	IdleFPS         int
	ActiveFPS       int
	MotionThreshold float64

	// Frames, when set, receives every processed frame for streaming.
	Frames *capture.FrameBuffer

	CommandBuffer int
	Logger        zerolog.Logger
}

// App owns the engine for the lifetime of Run. Other goroutines reach it
// only through Commands and the registered outputs.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	engine   *engine.Engine
	clock    engine.Clock
	motion   *capture.MotionDetector
	rate     *capture.RateController
	commands chan engine.Command
	logger   zerolog.Logger

	mu      sync.RWMutex
	outputs []Output
	running bool
}

// New creates an App. Camera and Engine are required.
func New(config Config) *App {
	clock := config.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}

	det := config.Detector
	if det == nil {
		det = detector.NewMockDetector()
	}

	size := config.CommandBuffer
	if size <= 0 {
		size = DefaultCommandBuffer
	}

	return &App{
		config:   config,
		camera:   config.Camera,
		detector: det,
		engine:   config.Engine,
		clock:    clock,
		motion:   capture.NewMotionDetector(config.MotionThreshold),
		rate:     capture.NewRateController(config.IdleFPS, config.ActiveFPS, capture.DefaultActiveHold),
		commands: make(chan engine.Command, size),
		logger:   config.Logger,
	}
}

// Commands returns the channel user interfaces send commands on.
func (a *App) Commands() chan<- engine.Command {
	return a.commands
}

// Send queues cmd without blocking. It reports false when the queue is full.
func (a *App) Send(cmd engine.Command) bool {
	select {
	case a.commands <- cmd:
		return true
	default:
		a.logger.Warn().Str("command", cmd.String()).Msg("command queue full, dropping")
		return false
	}
}

// AddOutput registers an output. Outputs may be added while running.
func (a *App) AddOutput(o Output) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outputs = append(a.outputs, o)
}

// Running reports whether Run is in progress.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Run opens the camera and processes frames until a quit command, ctx
// cancellation or a capture failure. The letter log is exported on the
// way out if it holds unexported entries.
//
// A failure to open the camera is wrapped with ErrOpenCamera. A capture failure while
// running is returned as *capture.CaptureError after the final export.
func (a *App) Run(ctx context.Context) error {
	if a.camera == nil || a.engine == nil {
		return errors.New("app: camera and engine are required")
	}

	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return errors.New("app: already running")
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrOpenCamera, err)
	}
	a.camera.SetFPS(a.rate.Current())

	a.logger.Info().Int("fps", a.rate.Current()).Bool("mirror", a.config.Mirror).Msg("pipeline started")

	loopErr := a.loop(ctx)

	// The final export runs even when ctx was cancelled.
	if n := a.engine.Shutdown(context.WithoutCancel(ctx), a.clock.Now()); n != nil {
		a.notify(*n)
	}

	a.close()

	var captureErr *capture.CaptureError
	if errors.As(loopErr, &captureErr) {
		a.logger.Error().Err(loopErr).Msg("capture failed")
		return loopErr
	}

	a.logger.Info().Msg("pipeline stopped")
	return nil
}

func (a *App) close() {
	if err := a.camera.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close camera")
	}
	if err := a.motion.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close motion detector")
	}
	if err := a.detector.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close detector")
	}
}

func (a *App) render(snap engine.Snapshot) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, o := range a.outputs {
		o.Render(snap)
	}
}

func (a *App) notify(n engine.Notice) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, o := range a.outputs {
		o.Notify(n)
	}
}
