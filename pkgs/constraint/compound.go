package constraint

import "github.com/latticec/wfc/pkgs/field"

// CompoundOperators is the fixed set of two-character compound
// operators from spec.md §4.3 that must win over a decomposed
// one-character-at-a-time reading whenever the two bytes are source
// adjacent.
var CompoundOperators = map[string]bool{
	"++": true, "--": true, "&&": true, "||": true,
	"==": true, "<=": true, ">=": true, "!=": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true,
	"<<": true, ">>": true,
}

// CompoundContext names the two alternative states installed in the
// operator cell by the seeding stage: CompoundState is the
// maximal-munch reading (e.g. "++"), DecomposedState is the
// one-character-at-a-time alternative the constraint must suppress.
type CompoundContext struct {
	CompoundState   field.StateID
	DecomposedState field.StateID
}

// Compound enforces that the decomposed single-character reading of a
// known compound operator never survives once the compound reading is
// present — "prevents a valid one-character interpretation from
// surviving when the compound is the intended lexeme" (spec.md §4.3).
func Compound(c *Constraint, f *field.Field) bool {
	cells := c.Cells()
	if len(cells) != 1 {
		return true
	}
	cell, err := f.Cell(cells[0])
	if err != nil {
		return true
	}
	ctx, ok := c.Context().(*CompoundContext)
	if !ok {
		return true
	}

	compound, hasCompound := cell.StateByID(ctx.CompoundState)
	decomposed, hasDecomposed := cell.StateByID(ctx.DecomposedState)
	if !hasCompound || !hasDecomposed {
		return true
	}

	if !compound.Eliminated() {
		decomposed.Eliminate()
	}

	if cell.Contradiction() {
		f.RecordContradiction(cell.ID)
		return false
	}
	return true
}
