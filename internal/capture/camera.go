// Package capture reads frames from a camera and tracks motion between them.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultIdleFPS   = 10
	DefaultActiveFPS = 30
	DefaultWidth     = 640
	DefaultHeight    = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a closed camera.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device delivers an empty frame.
	ErrEmptyFrame = errors.New("captured frame is empty")
	// ErrNoFrames is returned by MockCamera when playback is exhausted.
	ErrNoFrames = errors.New("no more frames")
)

// CaptureError reports a failure to open or read the camera.
// The pipeline treats it as fatal.
type CaptureError struct {
	Op       string
	DeviceID int
	Err      error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("camera %d: %s: %v", e.DeviceID, e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Camera is a source of video frames.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame blocks until a frame is available. The caller closes the
	// returned Mat. Failures are *CaptureError.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// cameraImpl reads from a local device through OpenCV.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a Camera for the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		fps:      DefaultActiveFPS,
	}
}

// Open opens the device at 640x480.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return &CaptureError{Op: "open", DeviceID: c.deviceID, Err: err}
	}
	if !capture.IsOpened() {
		capture.Close()
		return &CaptureError{Op: "open", DeviceID: c.deviceID, Err: errors.New("device unavailable")}
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

// Close releases the device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the device.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, &CaptureError{Op: "read", DeviceID: c.deviceID, Err: ErrCameraNotOpen}
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, &CaptureError{Op: "read", DeviceID: c.deviceID, Err: errors.New("device returned no frame")}
	}

	if mat.Empty() {
		mat.Close()
		return nil, &CaptureError{Op: "read", DeviceID: c.deviceID, Err: ErrEmptyFrame}
	}

	return &mat, nil
}

// SetFPS requests a capture rate. Values <= 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the requested capture rate.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen reports whether the device is open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
