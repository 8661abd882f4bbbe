package app

import (
	"context"
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
)

// loop processes frames until quit, cancellation or a capture error.
//
// Each iteration:
//  1. Read a frame (blocking) and take the time once
//  2. Mirror it, measure motion and adjust the capture rate
//  3. Detect the first hand and read its fingers
//  4. Step the engine and render the result
//  5. Apply at most one pending command
//  6. Wait out the rest of the frame period
func (a *App) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		started := time.Now()

		quit, err := a.tick(ctx)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		wait := a.rate.Interval() - time.Since(started)
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// tick runs one pipeline iteration. It reports whether a quit command
// was applied.
func (a *App) tick(ctx context.Context) (bool, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		var captureErr *capture.CaptureError
		if !errors.As(err, &captureErr) {
			err = &capture.CaptureError{Op: "read", DeviceID: -1, Err: err}
		}
		return false, err
	}
	defer frame.Close()

	now := a.clock.Now()

	if a.config.Mirror {
		gocv.Flip(*frame, frame, 1)
	}

	motion := a.motion.Detect(frame)
	if fps, changed := a.rate.Update(motion.Moving, now); changed {
		a.camera.SetFPS(fps)
		a.logger.Debug().Int("fps", fps).Float64("changed", motion.Changed).Msg("capture rate changed")
	}

	var fingers *gesture.FingerVector
	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.logger.Warn().Err(err).Msg("hand detection failed")
	}
	if hand := detector.FirstHand(hands); hand != nil {
		v := hand.Fingers()
		fingers = &v
	}

	result := a.engine.Step(ctx, fingers, now)
	a.render(result.Snapshot)
	if result.Notice != nil {
		a.notify(*result.Notice)
	}

	if a.config.Frames != nil {
		annotate(frame, result.Snapshot)
		if err := a.config.Frames.Store(frame); err != nil {
			a.logger.Debug().Err(err).Msg("store stream frame")
		}
	}

	select {
	case cmd := <-a.commands:
		r := a.engine.Dispatch(ctx, cmd, now)
		if r.Notice != nil {
			a.notify(*r.Notice)
		}
		if r.Quit {
			return true, nil
		}
		a.render(a.engine.Snapshot(now))
	default:
	}

	return false, nil
}
