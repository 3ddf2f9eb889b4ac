package field

import (
	"math"

	"github.com/latticec/wfc/pkgs/token"
)

// CellID is a dense identifier assigned in scanner order, unique
// within a field. Cell identifiers occupy the contiguous range
// [0, N) for a field with N cells (spec.md §3 invariants).
type CellID int

// Cell is an ordered set of candidate states for one source position
// (spec.md §3, EntropyCell).
type Cell struct {
	ID       CellID
	Position token.Position
	states   []*State
}

// States returns the cell's states in creation order. Callers must
// not retain the slice across a call that appends a new state to the
// same cell.
func (c *Cell) States() []*State { return c.states }

// Live returns the non-eliminated states, in creation order.
func (c *Cell) Live() []*State {
	live := make([]*State, 0, len(c.states))
	for _, s := range c.states {
		if !s.Eliminated() {
			live = append(live, s)
		}
	}
	return live
}

// LiveCount returns the number of non-eliminated states without
// allocating.
func (c *Cell) LiveCount() int {
	n := 0
	for _, s := range c.states {
		if !s.Eliminated() {
			n++
		}
	}
	return n
}

// Collapsed reports whether the cell holds exactly one non-eliminated
// state (spec.md §3, the `collapsed` predicate).
func (c *Cell) Collapsed() bool { return c.LiveCount() == 1 }

// Contradiction reports whether every state has been eliminated.
func (c *Cell) Contradiction() bool { return c.LiveCount() == 0 }

// CollapsedState returns the cell's sole live state and true, or the
// zero value and false if the cell is not collapsed. An eliminated
// state is never returned here (spec.md §3 invariants).
func (c *Cell) CollapsedState() (*State, bool) {
	var found *State
	count := 0
	for _, s := range c.states {
		if !s.Eliminated() {
			found = s
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return nil, false
}

// StateByID looks up one of the cell's states by identifier.
func (c *Cell) StateByID(id StateID) (*State, bool) {
	for _, s := range c.states {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Entropy is a monotone function of the cell's live-state count,
// weighted by probability (spec.md §4.2). Collapsed cells report zero.
// Uses Shannon entropy over normalised weights, falling back to
// uniform weighting when every live state carries weight zero.
func (c *Cell) Entropy() float64 {
	live := c.Live()
	if len(live) <= 1 {
		return 0
	}

	total := 0
	for _, s := range live {
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}
	if total == 0 {
		return 0
	}

	h := 0.0
	for _, s := range live {
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		p := float64(w) / float64(total)
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
