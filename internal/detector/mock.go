package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector returns preset hands. It is safe for concurrent use so tests
// can change the pose while a pipeline is running.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a MockDetector that sees no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the preset hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op.
func (m *MockDetector) Close() error {
	return nil
}

// FistLandmarks returns a closed fist: thumb tucked, every finger curled.
// It reads as 00000, the letter A.
func FistLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb folded across the palm, tip left of the IP joint
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.68}
	h.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.63}
	h.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.62}

	curled(&h, IndexMCP, 0.55)
	curled(&h, MiddleMCP, 0.50)
	curled(&h, RingMCP, 0.45)
	curled(&h, PinkyMCP, 0.40)

	return h
}

// OpenPalmLandmarks returns an open palm with the thumb out to the side.
// It reads as 11111, the letter B.
func OpenPalmLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	extended(&h, IndexMCP, 0.57)
	extended(&h, MiddleMCP, 0.50)
	extended(&h, RingMCP, 0.43)
	extended(&h, PinkyMCP, 0.36)

	return h
}

// PoseLandmarks builds a hand with the given fingers extended.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := FistLandmarks()

	if thumb {
		h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65}
		h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60}
	}

	fingers := []struct {
		up  bool
		mcp int
		x   float64
	}{
		{index, IndexMCP, 0.57},
		{middle, MiddleMCP, 0.50},
		{ring, RingMCP, 0.43},
		{pinky, PinkyMCP, 0.36},
	}
	for _, f := range fingers {
		if f.up {
			extended(&h, f.mcp, f.x)
		}
	}

	return h
}

// extended places a finger's four joints in a straight line pointing up.
// mcp is the finger's MCP index; PIP, DIP and tip follow it.
func extended(h *HandLandmarks, mcp int, x float64) {
	h.Points[mcp] = Point3D{X: x, Y: 0.68}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.55}
	h.Points[mcp+2] = Point3D{X: x, Y: 0.45}
	h.Points[mcp+3] = Point3D{X: x, Y: 0.35}
}

// curled folds a finger so its tip sits below the PIP joint.
func curled(h *HandLandmarks, mcp int, x float64) {
	h.Points[mcp] = Point3D{X: x, Y: 0.70, Z: -0.02}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.68, Z: -0.05}
	h.Points[mcp+2] = Point3D{X: x - 0.03, Y: 0.70, Z: -0.04}
	h.Points[mcp+3] = Point3D{X: x - 0.05, Y: 0.72, Z: -0.02}
}
