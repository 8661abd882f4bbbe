package capture

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// FrameBuffer holds the most recent processed frame as JPEG so HTTP
// clients can watch the feed without touching the camera.
type FrameBuffer struct {
	mu      sync.RWMutex
	jpeg    []byte
	seq     uint64
	updated chan struct{}
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{updated: make(chan struct{})}
}

// Store encodes frame as JPEG and publishes it.
func (b *FrameBuffer) Store(frame *gocv.Mat) error {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory that Close frees
	data := append([]byte(nil), buf.GetBytes()...)
	b.Publish(data)
	return nil
}

// Publish replaces the latest frame with already encoded JPEG bytes.
func (b *FrameBuffer) Publish(jpeg []byte) {
	b.mu.Lock()
	b.jpeg = jpeg
	b.seq++
	close(b.updated)
	b.updated = make(chan struct{})
	b.mu.Unlock()
}

// Latest returns the latest frame and its sequence number. The sequence
// is 0 before the first frame.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

// Next waits for a frame newer than after.
func (b *FrameBuffer) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		b.mu.RLock()
		jpeg, seq, ch := b.jpeg, b.seq, b.updated
		b.mu.RUnlock()

		if seq > after {
			return jpeg, seq, nil
		}

		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-ch:
		}
	}
}
