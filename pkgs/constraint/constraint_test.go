package constraint

import (
	"testing"

	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

func TestStoreAssignsDenseIDs(t *testing.T) {
	f := field.New()
	f.Seed(token.Position{})
	f.Seed(token.Position{})
	f.Seal()

	s := NewStore()
	c0, err := s.Install(f, KindSyntax, []field.CellID{0}, nil, nil, "first")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	c1, err := s.Install(f, KindSyntax, []field.CellID{1}, nil, nil, "second")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if c0.ID() != 0 || c1.ID() != 1 {
		t.Errorf("constraint ids = %d, %d; want 0, 1", c0.ID(), c1.ID())
	}
}

func TestValidateDefaultsToSatisfiedWithNoValidator(t *testing.T) {
	c := New(0, KindSyntax, nil, nil, nil, "no-op")
	if !c.Validate(nil) {
		t.Error("a constraint with no validator should always be satisfied")
	}
}
