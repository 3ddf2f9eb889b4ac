package field

import (
	"testing"

	"github.com/latticec/wfc/pkgs/token"
)

type fakeConstraint struct {
	id    int
	cells []CellID
}

func (c *fakeConstraint) ID() int        { return c.id }
func (c *fakeConstraint) Cells() []CellID { return c.cells }

func seedTwoCellField(t *testing.T) *Field {
	t.Helper()
	f := New()
	for i := 0; i < 2; i++ {
		if _, err := f.Seed(token.Position{Offset: i}); err != nil {
			t.Fatalf("Seed: %v", err)
		}
	}
	return f
}

func TestSeedDenseCellIDs(t *testing.T) {
	f := New()
	for i := 0; i < 3; i++ {
		id, err := f.Seed(token.Position{})
		if err != nil {
			t.Fatalf("Seed: %v", err)
		}
		if id != CellID(i) {
			t.Errorf("Seed #%d returned CellID %d, want %d", i, id, i)
		}
	}
	if f.CellCount() != 3 {
		t.Errorf("CellCount() = %d, want 3", f.CellCount())
	}
}

func TestSeedFailsAfterSeal(t *testing.T) {
	f := New()
	f.Seal()
	if _, err := f.Seed(token.Position{}); err == nil {
		t.Error("Seed after Seal should fail")
	}
}

func TestAddStateFailsAfterSeal(t *testing.T) {
	f := seedTwoCellField(t)
	f.Seal()
	if _, err := f.AddState(0, TokenState, "x", nil, 1); err == nil {
		t.Error("AddState after Seal should fail")
	}
}

func TestCollapsedAndContradiction(t *testing.T) {
	f := seedTwoCellField(t)
	s1, _ := f.AddState(0, TokenState, "a", nil, 1)
	s2, _ := f.AddState(0, TokenState, "b", nil, 1)
	f.Seal()

	cell, _ := f.Cell(0)
	if cell.Collapsed() {
		t.Error("cell with two live states reports Collapsed")
	}
	s2.Eliminate()
	if !cell.Collapsed() {
		t.Error("cell with one live state does not report Collapsed")
	}
	if st, ok := cell.CollapsedState(); !ok || st.ID != s1.ID {
		t.Errorf("CollapsedState() = %v, %v; want %v, true", st, ok, s1.ID)
	}

	s1.Eliminate()
	if !cell.Contradiction() {
		t.Error("cell with zero live states does not report Contradiction")
	}
	if _, ok := cell.CollapsedState(); ok {
		t.Error("CollapsedState() should fail once every state is eliminated")
	}
}

func TestEliminationIsMonotone(t *testing.T) {
	f := seedTwoCellField(t)
	s, _ := f.AddState(0, TokenState, "a", nil, 1)
	f.Seal()
	s.Eliminate()
	s.Eliminate() // idempotent
	if !s.Eliminated() {
		t.Error("state should remain eliminated")
	}
}

func TestAddConstraintRejectsUnknownCell(t *testing.T) {
	f := seedTwoCellField(t)
	f.Seal()
	c := &fakeConstraint{id: 0, cells: []CellID{0, 5}}
	if err := f.AddConstraint(c); err == nil {
		t.Error("AddConstraint should fail when a referenced cell does not exist")
	}
}

func TestConstraintsInsertionOrder(t *testing.T) {
	f := seedTwoCellField(t)
	f.Seal()
	c0 := &fakeConstraint{id: 0, cells: []CellID{0}}
	c1 := &fakeConstraint{id: 1, cells: []CellID{1}}
	_ = f.AddConstraint(c0)
	_ = f.AddConstraint(c1)
	got := f.Constraints()
	if len(got) != 2 || got[0].ID() != 0 || got[1].ID() != 1 {
		t.Errorf("Constraints() = %v, want insertion order [0, 1]", got)
	}
}

func TestFullyCollapsed(t *testing.T) {
	collapsed := seedTwoCellField(t)
	collapsed.AddState(0, TokenState, "a", nil, 1)
	collapsed.AddState(1, TokenState, "b", nil, 1)
	collapsed.Seal()
	if !collapsed.FullyCollapsed() {
		t.Error("two single-state cells should already be FullyCollapsed")
	}

	superposed := seedTwoCellField(t)
	superposed.AddState(0, TokenState, "a", nil, 1)
	superposed.AddState(0, TokenState, "b", nil, 1)
	superposed.AddState(1, TokenState, "c", nil, 1)
	superposed.Seal()
	if superposed.FullyCollapsed() {
		t.Error("a cell with two live states should not be FullyCollapsed")
	}
}

func TestRecordContradictionKeepsFirst(t *testing.T) {
	f := seedTwoCellField(t)
	f.Seal()
	f.RecordContradiction(1)
	f.RecordContradiction(0) // should not overwrite
	pos, ok := f.FirstContradiction()
	if !ok {
		t.Fatal("FirstContradiction should report a recorded contradiction")
	}
	cell1, _ := f.Cell(1)
	if pos != cell1.Position {
		t.Errorf("FirstContradiction position = %+v, want cell 1's position %+v", pos, cell1.Position)
	}
}

func TestMinEntropyCellTiesBreakBySmallestID(t *testing.T) {
	f := New()
	for i := 0; i < 3; i++ {
		f.Seed(token.Position{})
	}
	for cell := CellID(0); cell < 3; cell++ {
		f.AddState(cell, TokenState, "a", nil, 1)
		f.AddState(cell, TokenState, "b", nil, 1)
	}
	f.Seal()
	// Collapse cell 0 so it drops out of contention; cells 1 and 2 tie
	// at two live states each.
	c0, _ := f.Cell(0)
	c0.Live()[1].Eliminate()

	best, ok := f.MinEntropyCell()
	if !ok {
		t.Fatal("MinEntropyCell found nothing")
	}
	if best.ID != 1 {
		t.Errorf("MinEntropyCell() = cell %d, want cell 1 (smallest tied id)", best.ID)
	}
}

func TestMinEntropyCellNoneWhenAllCollapsed(t *testing.T) {
	f := seedTwoCellField(t)
	f.AddState(0, TokenState, "a", nil, 1)
	f.AddState(1, TokenState, "b", nil, 1)
	f.Seal()
	if _, ok := f.MinEntropyCell(); ok {
		t.Error("MinEntropyCell should find nothing once every cell is collapsed")
	}
}

func TestEntropyZeroWhenCollapsedOrEmpty(t *testing.T) {
	f := seedTwoCellField(t)
	f.Seal()
	cell, _ := f.Cell(0)
	if got := cell.Entropy(); got != 0 {
		t.Errorf("Entropy() of an empty cell = %v, want 0", got)
	}
}

func TestStateByID(t *testing.T) {
	f := seedTwoCellField(t)
	s, _ := f.AddState(0, TokenState, "a", nil, 1)
	f.Seal()
	cell, _ := f.Cell(0)
	got, ok := cell.StateByID(s.ID)
	if !ok || got.ID != s.ID {
		t.Errorf("StateByID(%d) = %v, %v", s.ID, got, ok)
	}
	if _, ok := cell.StateByID(s.ID + 99); ok {
		t.Error("StateByID should fail for an unknown id")
	}
}
