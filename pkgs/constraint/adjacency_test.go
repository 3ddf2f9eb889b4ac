package constraint

import (
	"testing"

	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

func seedTokenCell(t *testing.T, f *field.Field, text string, offset, length int) field.CellID {
	t.Helper()
	id, err := f.Seed(token.Position{Offset: offset, Length: length})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	tok := &token.Token{Kind: token.Identifier, Text: text, Position: token.Position{Offset: offset, Length: length}}
	if _, err := f.AddState(id, field.TokenState, "primary", tok, 10); err != nil {
		t.Fatalf("AddState: %v", err)
	}
	return id
}

func TestAdjacencyWithinBoundSurvives(t *testing.T) {
	f := field.New()
	a := seedTokenCell(t, f, "x", 0, 1)
	b := seedTokenCell(t, f, "y", 1, 1)
	f.Seal()

	c := New(0, KindSyntax, []field.CellID{a, b}, nil, Adjacency, "adjacency")
	if !c.Validate(f) {
		t.Fatal("Adjacency should be satisfied for directly adjacent tokens")
	}
	cellA, _ := f.Cell(a)
	if cellA.Contradiction() {
		t.Error("cell a should not be eliminated")
	}
}

func TestAdjacencyBeyondGeneralBoundEliminates(t *testing.T) {
	f := field.New()
	a := seedTokenCell(t, f, "x", 0, 1)
	b := seedTokenCell(t, f, "y", 1+generalAdjacencyBound+1, 1) // gap = bound+1
	f.Seal()

	c := New(0, KindSyntax, []field.CellID{a, b}, nil, Adjacency, "adjacency")
	c.Validate(f)
	cellA, _ := f.Cell(a)
	if !cellA.Contradiction() {
		t.Error("cell a's only state should be eliminated once the gap exceeds the general bound")
	}
}

func TestAdjacencyStructuralTokenGetsWiderBound(t *testing.T) {
	f := field.New()
	a := seedTokenCell(t, f, ";", 0, 1)
	gap := generalAdjacencyBound + 50 // beyond general, within structural
	b := seedTokenCell(t, f, "y", 1+gap, 1)
	f.Seal()

	c := New(0, KindSyntax, []field.CellID{a, b}, nil, Adjacency, "adjacency")
	if !c.Validate(f) {
		t.Fatal("Adjacency should allow a wider gap after a structural token")
	}
}

func TestAdjacencyLastCellIsExempt(t *testing.T) {
	f := field.New()
	a := seedTokenCell(t, f, "x", 0, 1)
	f.Seal()

	c := New(0, KindSyntax, []field.CellID{a, a}, nil, Adjacency, "adjacency")
	if !c.Validate(f) {
		t.Error("the last cell in the field should be exempt from the has-successor requirement")
	}
}

func TestAdjacencyContextOverridesBounds(t *testing.T) {
	f := field.New()
	a := seedTokenCell(t, f, "x", 0, 1)
	b := seedTokenCell(t, f, "y", 10, 1)
	f.Seal()

	ctx := &AdjacencyContext{GeneralBound: 5, StructuralBound: 5}
	c := New(0, KindSyntax, []field.CellID{a, b}, ctx, Adjacency, "adjacency")
	c.Validate(f)
	cellA, _ := f.Cell(a)
	if !cellA.Contradiction() {
		t.Error("a tighter AdjacencyContext bound should cause elimination for a gap the default bound would accept")
	}
}
