package wfc

import (
	"github.com/latticec/wfc/pkgs/constraint"
	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/periscope"
	"github.com/latticec/wfc/pkgs/token"
)

// seedResult is everything the seeding stage produces for the
// remaining driver stages to consume.
type seedResult struct {
	field     *field.Field
	periscope *periscope.Periscope
	tokenAt   []*token.Token // parallel to the cells, in cell order
}

// seedField builds one cell per surviving token (spec.md §4.6 step 1),
// installing a single candidate state for its own reading and, for
// tokens whose text is a known compound operator, a second
// decomposed-reading state in the same cell (spec.md §4.3). No other
// alternate readings are seeded: the pattern library is not consulted
// here, so an identifier never gets a contextual-keyword candidate.
func seedField(tokens []token.Token, cfg *Config, store *constraint.Store) *seedResult {
	f := field.New()
	res := &seedResult{field: f}

	kept := make([]*token.Token, 0, len(tokens))
	for i := range tokens {
		t := &tokens[i]
		if cfg.stripTrivia && t.IsTrivia() {
			continue
		}
		kept = append(kept, t)
	}

	// Empty input: the scanner always yields a trailing EOF token even
	// when there is nothing to lex. spec.md §8 states the field for
	// empty input has zero cells, not one for a lone EOF, so a token
	// list with no non-EOF survivor seeds no cells at all.
	hasNonEOF := false
	for _, t := range kept {
		if t.Kind != token.EOF {
			hasNonEOF = true
			break
		}
	}
	if !hasNonEOF {
		kept = kept[:0]
	}

	res.tokenAt = make([]*token.Token, 0, len(kept))
	for _, t := range kept {
		id, err := f.Seed(t.Position)
		if err != nil {
			continue // field never fails during seeding before Seal
		}
		res.tokenAt = append(res.tokenAt, t)

		primary, _ := f.AddState(id, field.TokenState, t.Kind.String(), t, 10)

		if t.Kind == token.Operator {
			if _, isCompound := constraint.CompoundOperators[t.Text]; isCompound && len(t.Text) == 2 {
				decomposed := &token.Token{
					Kind:     token.Operator,
					Text:     t.Text[:1],
					Position: token.Position{FileID: t.Position.FileID, Line: t.Position.Line, Column: t.Position.Column, Offset: t.Position.Offset, Length: 1},
				}
				alt, _ := f.AddState(id, field.TokenState, "decomposed-operator", decomposed, 1)
				if primary != nil && alt != nil {
					_, _ = store.Install(f, constraint.KindSyntax, []field.CellID{id},
						&constraint.CompoundContext{CompoundState: primary.ID, DecomposedState: alt.ID},
						constraint.Compound, "compound-operator@"+t.Text)
				}
			}
		}
	}

	f.Seal()

	p := periscope.New(f)
	for i, t := range res.tokenAt {
		p.Register(t, field.CellID(i))
	}
	res.periscope = p
	return res
}
