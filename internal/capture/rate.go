package capture

import "time"

// DefaultActiveHold is how long the active rate is kept after motion stops.
const DefaultActiveHold = 2 * time.Second

// RateController picks the capture rate from recent motion: the active
// rate while the hand moves and for a short hold afterwards, the idle
// rate otherwise.
type RateController struct {
	idle       int
	active     int
	hold       time.Duration
	current    int
	lastMotion time.Time
}

// NewRateController creates a controller that starts at the idle rate.
func NewRateController(idle, active int, hold time.Duration) *RateController {
	if idle <= 0 {
		idle = DefaultIdleFPS
	}
	if active <= 0 {
		active = DefaultActiveFPS
	}
	if hold < 0 {
		hold = 0
	}
	return &RateController{
		idle:    idle,
		active:  active,
		hold:    hold,
		current: idle,
	}
}

// Update records whether the latest frame moved and returns the rate to
// use. changed is true when the rate differs from the previous call.
func (r *RateController) Update(moving bool, now time.Time) (fps int, changed bool) {
	if moving {
		r.lastMotion = now
	}

	next := r.idle
	if !r.lastMotion.IsZero() && now.Sub(r.lastMotion) <= r.hold {
		next = r.active
	}

	changed = next != r.current
	r.current = next
	return next, changed
}

// Current returns the rate chosen by the last Update.
func (r *RateController) Current() int {
	return r.current
}

// Interval returns the frame period for the current rate.
func (r *RateController) Interval() time.Duration {
	return time.Second / time.Duration(r.current)
}
