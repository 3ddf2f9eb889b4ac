package periscope

import (
	"testing"

	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

func fieldWithCells(t *testing.T, n int) *field.Field {
	t.Helper()
	f := field.New()
	for i := 0; i < n; i++ {
		if _, err := f.Seed(token.Position{Offset: i}); err != nil {
			t.Fatalf("Seed: %v", err)
		}
	}
	f.Seal()
	return f
}

func TestRegisterAndResolve(t *testing.T) {
	f := fieldWithCells(t, 3)
	p := New(f)
	tok := &token.Token{Text: "x"}
	p.Register(tok, 1)

	got, ok := p.Resolve(tok)
	if !ok || got != 1 {
		t.Errorf("Resolve() = %v, %v; want 1, true", got, ok)
	}
}

func TestResolveUnknownTokenFails(t *testing.T) {
	f := fieldWithCells(t, 3)
	p := New(f)
	if _, ok := p.Resolve(&token.Token{Text: "unknown"}); ok {
		t.Error("Resolve of an unregistered token should fail")
	}
}

func TestNormalizeWithinRangePassesThrough(t *testing.T) {
	f := fieldWithCells(t, 5) // max id = 4
	p := New(f)
	id, ok := p.Normalize(2)
	if !ok || id != 2 {
		t.Errorf("Normalize(2) = %v, %v; want 2, true", id, ok)
	}
}

func TestNormalizeClampsUpToTwiceMax(t *testing.T) {
	f := fieldWithCells(t, 5) // max id = 4
	p := New(f)
	id, ok := p.Normalize(7) // 4 < 7 <= 8
	if !ok || id != 4 {
		t.Errorf("Normalize(7) = %v, %v; want 4 (clamped to max), true", id, ok)
	}
	id, ok = p.Normalize(8) // exactly 2*max
	if !ok || id != 4 {
		t.Errorf("Normalize(8) = %v, %v; want 4, true", id, ok)
	}
}

func TestNormalizeWrapsBeyondTwiceMax(t *testing.T) {
	f := fieldWithCells(t, 5) // max id = 4, cell_count = 5
	p := New(f)
	id, ok := p.Normalize(11) // 11 > 2*4=8; 11 mod 5 = 1
	if !ok || id != 1 {
		t.Errorf("Normalize(11) = %v, %v; want 1, true", id, ok)
	}
}

func TestNormalizeFailsWithZeroCells(t *testing.T) {
	f := field.New()
	f.Seal()
	p := New(f)
	if _, ok := p.Normalize(0); ok {
		t.Error("Normalize should fail when the field has zero cells")
	}
}

func TestContractGrantRevokeAndValidate(t *testing.T) {
	f := fieldWithCells(t, 1)
	p := New(f)

	if p.ValidateConstraints(1, 1, GuaranteeCellLive) {
		t.Fatal("ValidateConstraints should fail soft with no contract granted")
	}
	if p.SoftFailures() != 1 {
		t.Errorf("SoftFailures() = %d, want 1", p.SoftFailures())
	}

	p.GrantContract(1, 1, GuaranteeCellLive|GuaranteeStable)
	if !p.ValidateConstraints(1, 1, GuaranteeCellLive) {
		t.Error("ValidateConstraints should succeed once a covering contract is granted")
	}

	p.Revoke(1, 1)
	if p.ValidateConstraints(1, 1, GuaranteeCellLive) {
		t.Error("ValidateConstraints should fail soft after the contract is revoked")
	}
	if p.SoftFailures() != 2 {
		t.Errorf("SoftFailures() = %d, want 2", p.SoftFailures())
	}
}

func TestValidateConstraintsRequiresAllBits(t *testing.T) {
	f := fieldWithCells(t, 1)
	p := New(f)
	p.GrantContract(2, 2, GuaranteeCellLive)
	if p.ValidateConstraints(2, 2, GuaranteeCellLive|GuaranteeRegionLive) {
		t.Error("ValidateConstraints should fail when the contract does not cover every required bit")
	}
}

func TestDefaultValidatorAlwaysTrue(t *testing.T) {
	if !DefaultValidator(nil) {
		t.Error("DefaultValidator should always report satisfied")
	}
}
