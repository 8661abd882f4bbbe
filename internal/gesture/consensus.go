package gesture

// DefaultWindow is the default number of recent frames considered for consensus.
const DefaultWindow = 8

// ConsensusBuffer keeps the most recent per-frame symbols and resolves
// them to a majority symbol. Index 0 is always the most recent entry.
type ConsensusBuffer struct {
	symbols  []Symbol
	capacity int
}

// NewConsensusBuffer creates a buffer holding at most capacity symbols.
// A capacity below 1 falls back to DefaultWindow.
func NewConsensusBuffer(capacity int) *ConsensusBuffer {
	if capacity < 1 {
		capacity = DefaultWindow
	}
	return &ConsensusBuffer{
		symbols:  make([]Symbol, 0, capacity),
		capacity: capacity,
	}
}

// Push inserts sym at the front, evicting the oldest entry when full.
// Frames without a hand should push Unknown so every frame counts.
func (b *ConsensusBuffer) Push(sym Symbol) {
	if len(b.symbols) < b.capacity {
		b.symbols = append(b.symbols, NoSymbol)
	}
	// Shift right by one, dropping the last element if at capacity
	copy(b.symbols[1:], b.symbols[:len(b.symbols)-1])
	b.symbols[0] = sym
}

// Resolve returns the most frequent non-Unknown symbol and its count.
// It returns (NoSymbol, 0) when the buffer holds no letters.
//
// Ties go to the symbol whose first occurrence is closest to the front,
// i.e. the one seen most recently.
func (b *ConsensusBuffer) Resolve() (Symbol, int) {
	var (
		order  []Symbol
		counts = make(map[Symbol]int, len(b.symbols))
	)

	for _, sym := range b.symbols {
		if sym == Unknown || sym == NoSymbol {
			continue
		}
		if counts[sym] == 0 {
			order = append(order, sym)
		}
		counts[sym]++
	}

	best, bestCount := NoSymbol, 0
	for _, sym := range order {
		// Strictly greater keeps the earlier (more recent) symbol on ties
		if counts[sym] > bestCount {
			best, bestCount = sym, counts[sym]
		}
	}

	return best, bestCount
}

// Clear removes all entries.
func (b *ConsensusBuffer) Clear() {
	b.symbols = b.symbols[:0]
}

// Len returns the number of buffered symbols.
func (b *ConsensusBuffer) Len() int {
	return len(b.symbols)
}

// Cap returns the buffer capacity.
func (b *ConsensusBuffer) Cap() int {
	return b.capacity
}

// Symbols returns a copy of the buffered symbols, most recent first.
func (b *ConsensusBuffer) Symbols() []Symbol {
	out := make([]Symbol, len(b.symbols))
	copy(out, b.symbols)
	return out
}
