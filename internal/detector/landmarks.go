// Package detector tracks hands in camera frames and reads which fingers
// are extended.
package detector

import "github.com/ayusman/mudra/internal/gesture"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position. X and Y are normalized image
// coordinates; Y grows downward.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one tracked hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// fingerJoints pairs each non-thumb fingertip with its PIP joint.
var fingerJoints = [...]struct{ tip, pip int }{
	{IndexTip, IndexPIP},
	{MiddleTip, MiddlePIP},
	{RingTip, RingPIP},
	{PinkyTip, PinkyPIP},
}

// Fingers reports which fingers are extended on a mirrored frame.
//
// The thumb counts as extended when its tip is right of the IP joint.
// Every other finger counts as extended when its tip is above its PIP joint.
func (h *HandLandmarks) Fingers() gesture.FingerVector {
	var v gesture.FingerVector

	v[gesture.Thumb] = h.Points[ThumbTip].X > h.Points[ThumbIP].X
	for i, j := range fingerJoints {
		v[gesture.Index+i] = h.Points[j.tip].Y < h.Points[j.pip].Y
	}

	return v
}

// Extended returns the number of extended fingers.
func (h *HandLandmarks) Extended() int {
	n := 0
	for _, up := range h.Fingers() {
		if up {
			n++
		}
	}
	return n
}
