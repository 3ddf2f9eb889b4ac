package constraint

import (
	"github.com/latticec/wfc/pkgs/diag"
	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

// SequenceContext is the opaque context payload a sequence constraint
// carries: a diagnostics sink used to surface the lenient-ordering
// warning described in spec.md §9 without changing the result.
type SequenceContext struct {
	Diagnostics *diag.Bag
}

func sequenceOK(p1, p2 token.Position) bool {
	if p1.Line != p2.Line {
		return p1.Line < p2.Line
	}
	return p1.Offset < p2.Offset
}

// Sequence validates an ordered triple (a, b, c): source position must
// strictly increase by line, then by byte offset within a line. When
// all three cells are collapsed, a violation is a hard failure
// (forces a contradiction). While any cell remains uncollapsed, an
// out-of-order reading is lenient — recorded as an info diagnostic but
// not treated as unsatisfiable, per the open question in spec.md §9.
func Sequence(c *Constraint, f *field.Field) bool {
	cells := c.Cells()
	if len(cells) != 3 {
		return true
	}
	cellA, errA := f.Cell(cells[0])
	cellB, errB := f.Cell(cells[1])
	cellC, errC := f.Cell(cells[2])
	if errA != nil || errB != nil || errC != nil {
		return true
	}

	ordered := sequenceOK(cellA.Position, cellB.Position) && sequenceOK(cellB.Position, cellC.Position)
	if ordered {
		return true
	}

	allCollapsed := cellA.Collapsed() && cellB.Collapsed() && cellC.Collapsed()
	if allCollapsed {
		if st, ok := cellC.CollapsedState(); ok {
			st.Eliminate()
		}
		f.RecordContradiction(cellC.ID)
		return false
	}

	if ctx, ok := c.Context().(*SequenceContext); ok && ctx.Diagnostics != nil {
		ctx.Diagnostics.Add(diag.Diagnostic{
			Severity: diag.Info,
			Category: diag.Syntax,
			Position: cellA.Position,
			Message:  "sequence out of order while cells remain uncollapsed; treated as lenient",
		})
	}
	return true
}
