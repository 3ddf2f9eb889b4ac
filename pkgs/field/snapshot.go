package field

// CellSnapshot is the cbor-serialisable view of one cell, used by
// internal/trace to dump a field's propagation state deterministically
// (SPEC_FULL.md §4.2).
type CellSnapshot struct {
	ID        int              `cbor:"id"`
	Line      int              `cbor:"line"`
	Column    int              `cbor:"column"`
	Collapsed bool             `cbor:"collapsed"`
	States    []StateSnapshot  `cbor:"states"`
}

// StateSnapshot is the cbor-serialisable view of one state.
type StateSnapshot struct {
	ID         uint64 `cbor:"id"`
	Label      string `cbor:"label"`
	Weight     int    `cbor:"weight"`
	Eliminated bool   `cbor:"eliminated"`
}

// Snapshot captures the field's current state for tracing. It never
// mutates the field and is safe to call at any point during
// propagation or after termination.
func (f *Field) Snapshot() []CellSnapshot {
	out := make([]CellSnapshot, 0, len(f.cells))
	for _, c := range f.cells {
		cs := CellSnapshot{
			ID:        int(c.ID),
			Line:      c.Position.Line,
			Column:    c.Position.Column,
			Collapsed: c.Collapsed(),
		}
		for _, s := range c.states {
			cs.States = append(cs.States, StateSnapshot{
				ID:         uint64(s.ID),
				Label:      s.Label,
				Weight:     s.Weight,
				Eliminated: s.Eliminated(),
			})
		}
		out = append(out, cs)
	}
	return out
}
