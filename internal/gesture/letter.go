// Package gesture provides letter recognition from hand poses and the
// temporal filters that turn per-frame letters into stable events.
package gesture

import "fmt"

// Symbol is a single recognized letter, the Unknown marker, or NoSymbol.
type Symbol byte

const (
	// NoSymbol means no symbol could be resolved.
	NoSymbol Symbol = 0
	// Unknown marks a frame whose hand pose did not map to a letter,
	// or a frame without a hand.
	Unknown Symbol = '?'
)

// String returns the symbol as text. NoSymbol renders as an empty string.
func (s Symbol) String() string {
	if s == NoSymbol {
		return ""
	}
	return string(rune(s))
}

// MarshalText encodes the symbol as its text form.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a one-character symbol. Empty text is NoSymbol.
func (s *Symbol) UnmarshalText(text []byte) error {
	switch len(text) {
	case 0:
		*s = NoSymbol
	case 1:
		*s = Symbol(text[0])
	default:
		return fmt.Errorf("invalid symbol %q", text)
	}
	return nil
}

// IsLetter reports whether the symbol is one of A-Z.
func (s Symbol) IsLetter() bool {
	return s >= 'A' && s <= 'Z'
}

// Finger indices within a FingerVector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// FingerVector holds the extension state of each finger, thumb first.
type FingerVector [NumFingers]bool

// String renders the vector as five binary digits, e.g. "10011".
func (v FingerVector) String() string {
	b := make([]byte, NumFingers)
	for i, up := range v {
		if up {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// ParseFingerVector parses five binary digits into a FingerVector.
// It returns false if s is not exactly five characters of '0' or '1'.
func ParseFingerVector(s string) (FingerVector, bool) {
	var v FingerVector
	if len(s) != NumFingers {
		return v, false
	}
	for i := 0; i < NumFingers; i++ {
		switch s[i] {
		case '1':
			v[i] = true
		case '0':
		default:
			return FingerVector{}, false
		}
	}
	return v, true
}

// letterTable maps finger patterns to letters.
var letterTable = map[string]Symbol{
	"00000": 'A', "11111": 'B', "10000": 'C', "11000": 'D',
	"11100": 'E', "11110": 'F', "00001": 'G', "00011": 'H',
	"00111": 'I', "01111": 'J', "10001": 'K', "10011": 'L',
	"10111": 'M', "00101": 'N', "11001": 'O', "11011": 'P',
	"11101": 'Q', "01000": 'R', "01011": 'S', "00010": 'T',
	"01010": 'U', "10100": 'V', "10101": 'W', "10010": 'X',
	"01001": 'Y', "01101": 'Z',
}

// Classify maps a finger vector to its letter, or Unknown if the pattern
// is not in the table.
func Classify(v FingerVector) Symbol {
	if sym, ok := letterTable[v.String()]; ok {
		return sym
	}
	return Unknown
}

// Table returns a copy of the pattern-to-letter mapping.
func Table() map[string]Symbol {
	out := make(map[string]Symbol, len(letterTable))
	for k, v := range letterTable {
		out[k] = v
	}
	return out
}
