package pattern

import "github.com/latticec/wfc/pkgs/field"

// leafMatch records that a TokenMatch leaf matched at a particular
// cell. Ambiguous is true when the leaf was reached under a Choice
// ancestor — the validator only prunes states for unambiguous leaves,
// since eliminating based on one untaken branch of a Choice would not
// be monotone-safe once a later propagation pass picks another branch.
type leafMatch struct {
	Cell      field.CellID
	Leaf      *Pattern
	Ambiguous bool
}

// matchAt attempts to match p against cells starting at position pos,
// using the field's CURRENT live states (so it narrows as propagation
// eliminates candidates). It returns the position just past the match
// and the leaves it touched, or ok=false.
func matchAt(reg *Registry, f *field.Field, p *Pattern, cells []field.CellID, pos int, ambiguous bool) (int, []leafMatch, bool) {
	switch p.Kind {
	case TokenMatch:
		if pos >= len(cells) {
			return pos, nil, false
		}
		cell, err := f.Cell(cells[pos])
		if err != nil {
			return pos, nil, false
		}
		if cellMatchesToken(cell, p) {
			return pos + 1, []leafMatch{{Cell: cells[pos], Leaf: p, Ambiguous: ambiguous}}, true
		}
		return pos, nil, false

	case Sequence:
		cur := pos
		var leaves []leafMatch
		for _, child := range p.Children {
			next, ls, ok := matchAt(reg, f, child, cells, cur, ambiguous)
			if !ok {
				return pos, nil, false
			}
			leaves = append(leaves, ls...)
			cur = next
		}
		return cur, leaves, true

	case Choice:
		for _, child := range p.Children {
			if next, ls, ok := matchAt(reg, f, child, cells, pos, true); ok {
				return next, ls, true
			}
		}
		return pos, nil, false

	case Optional:
		if next, ls, ok := matchAt(reg, f, p.Child, cells, pos, ambiguous); ok {
			return next, ls, true
		}
		return pos, nil, true

	case Repeat:
		cur := pos
		var leaves []leafMatch
		for {
			next, ls, ok := matchAt(reg, f, p.Child, cells, cur, ambiguous)
			if !ok || next == cur {
				break
			}
			leaves = append(leaves, ls...)
			cur = next
		}
		return cur, leaves, true

	case RepeatOne:
		first, ls0, ok := matchAt(reg, f, p.Child, cells, pos, ambiguous)
		if !ok {
			return pos, nil, false
		}
		cur := first
		leaves := append([]leafMatch{}, ls0...)
		for {
			next, ls, ok := matchAt(reg, f, p.Child, cells, cur, ambiguous)
			if !ok || next == cur {
				break
			}
			leaves = append(leaves, ls...)
			cur = next
		}
		return cur, leaves, true

	case Reference:
		target, ok := reg.Lookup(p.Name)
		if !ok {
			return pos, nil, false
		}
		return matchAt(reg, f, target, cells, pos, ambiguous)

	default:
		return pos, nil, false
	}
}

func cellMatchesToken(cell *field.Cell, p *Pattern) bool {
	for _, st := range cell.Live() {
		if st.Kind != field.TokenState || st.Payload == nil {
			continue
		}
		if st.Payload.Kind != p.TokenKind {
			continue
		}
		if p.Literal != "" && st.Payload.Text != p.Literal {
			continue
		}
		return true
	}
	return false
}

// MatchFrom reports whether p matches some prefix of cells[pos:], and
// if so how many cells it consumed. Used at seed time to enumerate
// candidate windows.
func MatchFrom(reg *Registry, f *field.Field, p *Pattern, cells []field.CellID, pos int) (consumed int, ok bool) {
	end, _, matched := matchAt(reg, f, p, cells, pos, false)
	if !matched {
		return 0, false
	}
	return end - pos, true
}
