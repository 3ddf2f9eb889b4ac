// Package field implements the entropy field: the dense array of
// cells and the constraint set attached to them (spec.md §4.2).
package field

import (
	"fmt"

	"github.com/latticec/wfc/pkgs/token"
)

// Constraint is the field's view of a constraint: enough to validate
// cell-list membership without importing the constraint package
// (which itself depends on field). Concrete constraint kinds and
// validators live in pkgs/constraint; this is the narrow interface
// the field needs to store and iterate them.
type Constraint interface {
	ID() int
	Cells() []CellID
}

// Field owns a dense ordered array of cells and the constraints
// installed over them (spec.md §3, EntropyField). Cell creation is
// append-only during seeding; once Seal is called the cell count is
// fixed and AddState/Seed calls fail.
type Field struct {
	cells       []*Cell
	constraints []Constraint
	nextStateID StateID
	sealed      bool

	firstContradiction CellID
	hasContradiction   bool
}

// New creates an empty field ready for seeding.
func New() *Field {
	return &Field{firstContradiction: -1}
}

// Seed appends a new cell for a token at the given position and
// returns its identifier. Cell identifiers are assigned densely from
// zero in the order cells are seeded (spec.md §3 invariants).
func (f *Field) Seed(pos token.Position) (CellID, error) {
	if f.sealed {
		return 0, fmt.Errorf("field: cannot seed cell after sealing")
	}
	id := CellID(len(f.cells))
	f.cells = append(f.cells, &Cell{ID: id, Position: pos})
	return id, nil
}

// Seal transitions the field from seeding to running. After Seal,
// AddState and Seed fail.
func (f *Field) Seal() { f.sealed = true }

// Sealed reports whether seeding has ended.
func (f *Field) Sealed() bool { return f.sealed }

// AddState adds a candidate state to the given cell. Fails once the
// field has transitioned out of seeding (spec.md §4.2).
func (f *Field) AddState(cell CellID, kind StateKind, label string, payload *token.Token, weight int) (*State, error) {
	if f.sealed {
		return nil, fmt.Errorf("field: cannot add state after sealing")
	}
	c, err := f.cellAt(cell)
	if err != nil {
		return nil, err
	}
	st := &State{ID: f.nextStateID, Kind: kind, Label: label, Payload: payload, Weight: weight}
	f.nextStateID++
	c.states = append(c.states, st)
	return st, nil
}

// AddConstraint installs a constraint. Fails if any referenced cell
// does not exist in this field (spec.md §4.2, §3 invariants).
func (f *Field) AddConstraint(c Constraint) error {
	for _, id := range c.Cells() {
		if _, err := f.cellAt(id); err != nil {
			return fmt.Errorf("field: constraint %d: %w", c.ID(), err)
		}
	}
	f.constraints = append(f.constraints, c)
	return nil
}

func (f *Field) cellAt(id CellID) (*Cell, error) {
	if int(id) < 0 || int(id) >= len(f.cells) {
		return nil, fmt.Errorf("field: cell %d does not exist (cell count %d)", id, len(f.cells))
	}
	return f.cells[id], nil
}

// Cell returns the cell with the given identifier.
func (f *Field) Cell(id CellID) (*Cell, error) { return f.cellAt(id) }

// Cells returns every cell in identifier order.
func (f *Field) Cells() []*Cell { return f.cells }

// Constraints returns every installed constraint in insertion order —
// the order propagation invokes them in (spec.md §5, "stable,
// insertion order").
func (f *Field) Constraints() []Constraint { return f.constraints }

// CellCount returns the number of cells currently in the field.
func (f *Field) CellCount() int { return len(f.cells) }

// FullyCollapsed reports whether every cell holds exactly one
// non-eliminated state.
func (f *Field) FullyCollapsed() bool {
	for _, c := range f.cells {
		if !c.Collapsed() {
			return false
		}
	}
	return true
}

// HasContradiction reports whether some cell has zero non-eliminated
// states. This scans every cell; RecordContradiction/FirstContradiction
// below are the fast path the driver uses once it has already found one.
func (f *Field) HasContradiction() bool {
	for _, c := range f.cells {
		if c.Contradiction() {
			return true
		}
	}
	return false
}

// RecordContradiction remembers the first contradictory cell, if one
// is not already recorded. Subsequent calls are no-ops, implementing
// "at most one contradiction... the first failing cell in source
// order is the primary diagnostic" (spec.md §7).
func (f *Field) RecordContradiction(id CellID) {
	if !f.hasContradiction {
		f.hasContradiction = true
		f.firstContradiction = id
	}
}

// FirstContradiction returns the first recorded contradictory cell's
// position, if any.
func (f *Field) FirstContradiction() (token.Position, bool) {
	if !f.hasContradiction {
		return token.Position{}, false
	}
	return f.cells[f.firstContradiction].Position, true
}

// FirstContradictionCell returns the first recorded contradictory
// cell itself, if any — callers that need more than its position (for
// example, to name the eliminated candidate kinds in a diagnostic) use
// this instead of FirstContradiction.
func (f *Field) FirstContradictionCell() (*Cell, bool) {
	if !f.hasContradiction {
		return nil, false
	}
	return f.cells[f.firstContradiction], true
}

// MinEntropyCell returns the cell with the fewest live, non-collapsed
// states, breaking ties by smallest cell identifier (spec.md §4.2,
// §4.6). Returns false if every cell is already collapsed or
// contradictory.
func (f *Field) MinEntropyCell() (*Cell, bool) {
	var best *Cell
	bestCount := -1
	for _, c := range f.cells {
		n := c.LiveCount()
		if n < 2 {
			continue // collapsed or contradictory: not an observation candidate
		}
		if best == nil || n < bestCount {
			best = c
			bestCount = n
		}
	}
	return best, best != nil
}
