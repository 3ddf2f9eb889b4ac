package wfc

import (
	"fmt"

	"github.com/latticec/wfc/pkgs/diag"
	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

// Extract walks a fully (or, with Relaxed, partially) collapsed field
// in cell order and returns the collapsed token stream (spec.md
// §4.7). Without Relaxed, a non-collapsed cell is an error — callers
// should only call Extract after Compile reports no contradiction and
// the field reports FullyCollapsed. With Relaxed, a cell left with
// more than one live state is skipped and reported as a warning
// diagnostic rather than guessed at; a cell with no surviving state at
// all is still an error in either mode, since there is nothing to
// report a position for.
func Extract(f *field.Field, opts ...ExtractOpt) ([]token.Token, []diag.Diagnostic, error) {
	cfg := &ExtractConfig{}
	for _, o := range opts {
		o(cfg)
	}

	var diags []diag.Diagnostic
	out := make([]token.Token, 0, f.CellCount())
	for _, cell := range f.Cells() {
		st, ok := cell.CollapsedState()
		if !ok {
			if !cfg.relaxed {
				return nil, nil, fmt.Errorf("wfc: cell %d is not collapsed (%d live states)", cell.ID, cell.LiveCount())
			}
			if cell.LiveCount() == 0 {
				return nil, nil, fmt.Errorf("wfc: cell %d has no surviving state to extract", cell.ID)
			}
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Warning,
				Category: diag.Semantic,
				Position: cell.Position,
				Message:  fmt.Sprintf("cell %d left uncollapsed (%d candidate states); skipped in relaxed extraction", cell.ID, cell.LiveCount()),
			})
			continue
		}
		if st.Kind != field.TokenState || st.Payload == nil {
			continue
		}
		tok := *st.Payload
		if cfg.withoutWhitespace && tok.Kind == token.Whitespace {
			continue
		}
		if cfg.withoutComments && tok.Kind == token.Comment {
			continue
		}
		out = append(out, tok)
	}
	return out, diags, nil
}
