package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/export"
)

// stepClock advances by step on every read.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// recorder collects everything the pipeline publishes.
type recorder struct {
	mu       sync.Mutex
	snaps    []engine.Snapshot
	notices  []engine.Notice
	onRender func(engine.Snapshot)
}

func (r *recorder) Render(snap engine.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, snap)
	fn := r.onRender
	r.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (r *recorder) Notify(n engine.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) lastSentence() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return ""
	}
	return r.snaps[len(r.snaps)-1].Sentence
}

type failingCamera struct {
	capture.MockCamera
}

func (*failingCamera) Open() error {
	return &capture.CaptureError{Op: "open", DeviceID: 9, Err: errors.New("no such device")}
}

func testFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return &m
}

type harness struct {
	app       *App
	rec       *recorder
	exportDir string
	detector  *detector.MockDetector
}

func newHarness(t *testing.T, cam capture.Camera, frames *capture.FrameBuffer) *harness {
	t.Helper()

	exportDir := t.TempDir()
	eng := engine.New(engine.Options{
		Exporter: export.NewWriter(exportDir, nil, zerolog.Nop()),
		Logger:   zerolog.Nop(),
	})

	det := detector.NewMockDetector()
	rec := &recorder{}

	a := New(Config{
		Camera:    cam,
		Detector:  det,
		Engine:    eng,
		Clock:     &stepClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), step: 100 * time.Millisecond},
		Mirror:    true,
		IdleFPS:   1000,
		ActiveFPS: 1000,
		Frames:    frames,
		Logger:    zerolog.Nop(),
	})
	a.AddOutput(rec)

	return &harness{app: a, rec: rec, exportDir: exportDir, detector: det}
}

func exportedLogs(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "letters_*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

func TestApp_SpellsLetterAndQuits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{testFrame(t)}, true)
	h := newHarness(t, cam, nil)
	h.detector.SetHands(detector.FistLandmarks())

	var once sync.Once
	h.rec.onRender = func(snap engine.Snapshot) {
		if snap.Sentence == "A" {
			once.Do(func() { h.app.Send(engine.CommandQuit) })
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.app.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run() returned because of the timeout, not the quit command")
	}

	if got := h.rec.lastSentence(); got != "A" {
		t.Errorf("last sentence = %q, want A", got)
	}

	logs := exportedLogs(t, h.exportDir)
	if len(logs) != 1 {
		t.Fatalf("final export wrote %d files, want 1", len(logs))
	}
	data, _ := os.ReadFile(logs[0])
	if !strings.HasSuffix(strings.TrimSpace(string(data)), ",A") {
		t.Errorf("log content = %q", data)
	}

	if cam.IsOpen() {
		t.Error("camera should be closed after Run")
	}
	if h.app.Running() {
		t.Error("Running() should be false after Run")
	}
}

func TestApp_CaptureFailureStillExports(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	frame := testFrame(t)
	cam := capture.NewMockCamera([]*gocv.Mat{frame, frame, frame, frame, frame}, false)
	h := newHarness(t, cam, nil)
	h.detector.SetHands(detector.OpenPalmLandmarks())

	err := h.app.Run(context.Background())

	var captureErr *capture.CaptureError
	if !errors.As(err, &captureErr) {
		t.Fatalf("Run() error = %v, want *capture.CaptureError", err)
	}
	if cam.Reads() != 5 {
		t.Errorf("Reads() = %d, want 5", cam.Reads())
	}

	if logs := exportedLogs(t, h.exportDir); len(logs) != 1 {
		t.Errorf("final export wrote %d files, want 1", len(logs))
	}

	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	if len(h.rec.notices) == 0 || !strings.Contains(h.rec.notices[len(h.rec.notices)-1].Message, "letters_") {
		t.Errorf("expected export notice, got %+v", h.rec.notices)
	}
}

func TestApp_NoHandNoExport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	frame := testFrame(t)
	cam := capture.NewMockCamera([]*gocv.Mat{frame, frame, frame}, false)
	h := newHarness(t, cam, nil)

	if err := h.app.Run(context.Background()); err == nil {
		t.Fatal("Run() should report the exhausted camera")
	}

	if logs := exportedLogs(t, h.exportDir); len(logs) != 0 {
		t.Errorf("no letters were signed, but %d logs were written", len(logs))
	}
	if h.detector.Calls() != 3 {
		t.Errorf("detector called %d times, want once per frame", h.detector.Calls())
	}
}

func TestApp_CancelStops(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{testFrame(t)}, true)
	h := newHarness(t, cam, nil)

	ctx, cancel := context.WithCancel(context.Background())
	h.rec.onRender = func(engine.Snapshot) { cancel() }

	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

func TestApp_CommandsApplied(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	cam := capture.NewMockCamera([]*gocv.Mat{testFrame(t)}, true)
	h := newHarness(t, cam, nil)
	h.detector.SetHands(detector.FistLandmarks())

	var sent sync.Once
	h.rec.onRender = func(snap engine.Snapshot) {
		if snap.Sentence == "A" {
			sent.Do(func() {
				h.app.Send(engine.CommandSpace)
				h.app.Send(engine.CommandExportText)
				h.app.Send(engine.CommandQuit)
			})
		}
	}

	if err := h.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(h.exportDir, "sentence_*.txt"))
	if len(matches) != 1 {
		t.Fatalf("sentence exports = %d, want 1", len(matches))
	}
	data, _ := os.ReadFile(matches[0])
	if string(data) != "A " {
		t.Errorf("sentence file = %q, want %q", data, "A ")
	}
}

func TestApp_StreamsFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	frame := testFrame(t)
	cam := capture.NewMockCamera([]*gocv.Mat{frame, frame}, false)
	frames := capture.NewFrameBuffer()
	h := newHarness(t, cam, frames)

	h.app.Run(context.Background())

	data, seq := frames.Latest()
	if seq != 2 {
		t.Errorf("frame seq = %d, want 2", seq)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("latest frame is not a JPEG")
	}
}

func TestApp_OpenFailure(t *testing.T) {
	h := newHarness(t, &failingCamera{}, nil)

	err := h.app.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when the camera cannot open")
	}
	var captureErr *capture.CaptureError
	if !errors.Is(err, ErrOpenCamera) {
		t.Errorf("Run() error = %v, want ErrOpenCamera", err)
	}
	if !errors.As(err, &captureErr) || captureErr.Op != "open" {
		t.Errorf("Run() error = %v, want open CaptureError", err)
	}
}

func TestApp_RequiresCameraAndEngine(t *testing.T) {
	a := New(Config{Logger: zerolog.Nop()})
	if err := a.Run(context.Background()); err == nil {
		t.Error("Run() without camera and engine should fail")
	}
}

func TestApp_SendDropsWhenFull(t *testing.T) {
	a := New(Config{CommandBuffer: 1, Logger: zerolog.Nop()})

	if !a.Send(engine.CommandSpace) {
		t.Fatal("first Send() should succeed")
	}
	if a.Send(engine.CommandSpace) {
		t.Error("Send() on a full queue should report false")
	}
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewLogOutput(zerolog.New(&buf))

	out.Render(engine.Snapshot{Sentence: "HI"})
	if buf.Len() != 0 {
		t.Errorf("frames without an accepted letter should not log: %s", buf.String())
	}

	out.Render(engine.Snapshot{Accepted: 'I', Sentence: "HI"})
	if !strings.Contains(buf.String(), `"letter":"I"`) || !strings.Contains(buf.String(), `"sentence":"HI"`) {
		t.Errorf("log = %s", buf.String())
	}

	buf.Reset()
	out.Notify(engine.Notice{Level: engine.LevelError, Message: "export failed"})
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "export failed") {
		t.Errorf("log = %s", buf.String())
	}
}
