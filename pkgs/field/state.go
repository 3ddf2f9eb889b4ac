package field

import "github.com/latticec/wfc/pkgs/token"

// StateID uniquely identifies an EntropyState within a field. IDs are
// monotonic and never reused, which keeps propagation traces stable
// even after a state is eliminated (spec.md §3 lifecycles).
type StateID uint64

// StateKind tags the concrete interpretation a state represents.
type StateKind int

const (
	// TokenState is a candidate interpretation anchored to a scanned
	// token; Payload is a *token.Token.
	TokenState StateKind = iota
	// PatternState is a candidate interpretation installed by the
	// pattern library for a grammar production.
	PatternState
)

// State is a single candidate interpretation occupying one cell
// (spec.md §3, EntropyState).
type State struct {
	ID         StateID
	Kind       StateKind
	Label      string
	Payload    *token.Token // non-nil for TokenState
	Weight     int          // probability weight in [0, 100]
	eliminated bool
}

// Eliminated reports whether the state has been removed from
// consideration. Elimination is monotone for the lifetime of a field:
// once true, it is never set back to false (spec.md §4.3).
func (s *State) Eliminated() bool { return s.eliminated }

// Eliminate marks the state eliminated. It is a no-op if already
// eliminated, preserving monotonicity.
func (s *State) Eliminate() { s.eliminated = true }
