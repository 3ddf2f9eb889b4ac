package constraint

import "github.com/latticec/wfc/pkgs/field"

// structuralTokens is the fixed set from spec.md §4.3 whose adjacency
// tolerance is relaxed to 500 bytes instead of the general 200.
var structuralTokens = map[string]bool{
	";": true, "}": true, "{": true, ")": true,
}

const (
	generalAdjacencyBound    = 200
	structuralAdjacencyBound = 500
)

// AdjacencyContext overrides the default byte-gap bounds (spec.md
// §4.3). A constraint installed with a nil context uses the spec's
// built-in 200/500 bounds; internal/config lets an operator retune
// them without touching core code.
type AdjacencyContext struct {
	GeneralBound    int
	StructuralBound int
}

func primaryTokenText(c *field.Cell) string {
	for _, s := range c.Live() {
		if s.Kind == field.TokenState && s.Payload != nil {
			return s.Payload.Text
		}
	}
	return ""
}

// Adjacency validates one consecutive cell pair (a, b) in source
// order: a state in a survives only if a.end_offset <= b.start_offset
// and the gap is within the applicable bound. A cell at the last
// token position is exempt from having a successor at all
// (spec.md §4.3).
func Adjacency(c *Constraint, f *field.Field) bool {
	cells := c.Cells()
	if len(cells) != 2 {
		return true
	}
	a, b := cells[0], cells[1]

	if int(a) == f.CellCount()-1 {
		return true // last token: exempt from the has-successor requirement
	}

	cellA, errA := f.Cell(a)
	cellB, errB := f.Cell(b)
	if errA != nil || errB != nil {
		return true
	}
	if cellA.LiveCount() == 0 {
		return true // nothing left to validate in a: vacuously satisfied
	}

	general, structural := generalAdjacencyBound, structuralAdjacencyBound
	if ctx, ok := c.Context().(*AdjacencyContext); ok && ctx != nil {
		general, structural = ctx.GeneralBound, ctx.StructuralBound
	}
	bound := general
	if structuralTokens[primaryTokenText(cellA)] || structuralTokens[primaryTokenText(cellB)] {
		bound = structural
	}

	gap := cellB.Position.Offset - cellA.Position.End()
	compatible := gap >= 0 && gap <= bound
	if compatible {
		return true
	}

	for _, s := range cellA.Live() {
		s.Eliminate()
	}
	if cellA.Contradiction() {
		f.RecordContradiction(a)
		return false
	}
	return true
}
