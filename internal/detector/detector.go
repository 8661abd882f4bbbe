package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrServiceNotFound is returned when the hand tracking script cannot be located.
var ErrServiceNotFound = errors.New("mediapipe_service.py not found")

// Detector finds hands in a video frame.
type Detector interface {
	// Detect returns the hands found in frame, or an empty slice.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds hand tracking options.
type Config struct {
	// MaxHands is the maximum number of hands to track. Only the first is
	// used for spelling.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64

	// DataDir is searched for scripts/ and venv/ after the working directory.
	DataDir string
}

// DefaultConfig returns the tracking options used for spelling.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.7,
	}
}

// FirstHand returns the first detected hand, or nil when there is none.
func FirstHand(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}
