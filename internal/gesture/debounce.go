package gesture

import "time"

// Debounce timing constants.
const (
	// DefaultLetterDelay is the minimum time between two accepted letters.
	DefaultLetterDelay = 3 * time.Second
	// MinLetterDelay is the lowest allowed letter delay.
	MinLetterDelay = 500 * time.Millisecond
	// LetterDelayStep is the amount Faster and Slower change the delay by.
	LetterDelayStep = 500 * time.Millisecond
)

// DebounceGate decides whether a resolved symbol becomes an accepted letter.
//
// A symbol is accepted only when all of the following hold:
//   - it is a real symbol (not NoSymbol or Unknown)
//   - its consensus count reaches the threshold
//   - more than the minimum interval has passed since the last acceptance
//   - it differs from the last accepted symbol
//
// The last rule means a held pose never repeats on its own; the same letter
// is accepted again only after a different one or after Reset.
type DebounceGate struct {
	minInterval    time.Duration
	lastAccepted   Symbol
	lastAcceptedAt time.Time
}

// NewDebounceGate creates a gate with the given minimum interval.
// The interval is clamped to MinLetterDelay.
func NewDebounceGate(minInterval time.Duration) *DebounceGate {
	g := &DebounceGate{}
	g.SetMinInterval(minInterval)
	return g
}

// Evaluate reports whether resolved should be accepted at now, and records
// it as the last accepted symbol if so.
func (g *DebounceGate) Evaluate(resolved Symbol, count, threshold int, now time.Time) bool {
	if resolved == NoSymbol || resolved == Unknown {
		return false
	}
	if count < threshold {
		return false
	}
	if !g.lastAcceptedAt.IsZero() && now.Sub(g.lastAcceptedAt) <= g.minInterval {
		return false
	}
	if resolved == g.lastAccepted {
		return false
	}

	g.lastAccepted = resolved
	g.lastAcceptedAt = now
	return true
}

// Readiness returns how much of the minimum interval has elapsed since the
// last acceptance, in [0, 1]. It is 1 when nothing has been accepted yet.
func (g *DebounceGate) Readiness(now time.Time) float64 {
	if g.lastAcceptedAt.IsZero() {
		return 1.0
	}
	elapsed := now.Sub(g.lastAcceptedAt)
	if elapsed <= 0 {
		return 0
	}
	r := float64(elapsed) / float64(g.minInterval)
	if r > 1 {
		return 1
	}
	return r
}

// Reset forgets the last accepted symbol and its time.
func (g *DebounceGate) Reset() {
	g.lastAccepted = NoSymbol
	g.lastAcceptedAt = time.Time{}
}

// LastAccepted returns the last accepted symbol, or NoSymbol.
func (g *DebounceGate) LastAccepted() Symbol {
	return g.lastAccepted
}

// MinInterval returns the current minimum interval between acceptances.
func (g *DebounceGate) MinInterval() time.Duration {
	return g.minInterval
}

// SetMinInterval sets the minimum interval, clamped to MinLetterDelay.
func (g *DebounceGate) SetMinInterval(d time.Duration) {
	if d < MinLetterDelay {
		d = MinLetterDelay
	}
	g.minInterval = d
}

// Faster shortens the interval by one step, never below MinLetterDelay.
func (g *DebounceGate) Faster() time.Duration {
	g.SetMinInterval(g.minInterval - LetterDelayStep)
	return g.minInterval
}

// Slower lengthens the interval by one step.
func (g *DebounceGate) Slower() time.Duration {
	g.SetMinInterval(g.minInterval + LetterDelayStep)
	return g.minInterval
}
