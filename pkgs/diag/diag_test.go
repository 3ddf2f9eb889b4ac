package diag

import (
	"strings"
	"testing"

	"github.com/latticec/wfc/pkgs/token"
)

func TestDiagnosticError(t *testing.T) {
	d := Diagnostic{
		Severity: Error,
		Category: Lexical,
		Position: token.Position{Line: 3, Column: 5},
		Message:  "unterminated string",
	}
	got := d.Error()
	if !strings.Contains(got, "3:5") || !strings.Contains(got, "unterminated string") {
		t.Errorf("Error() = %q, missing position or message", got)
	}
	if strings.Contains(got, "did you mean") {
		t.Errorf("Error() = %q, unexpected suggestion text with no Suggestion set", got)
	}
}

func TestDiagnosticErrorWithSuggestion(t *testing.T) {
	d := Diagnostic{Severity: Info, Message: "near-miss keyword", Suggestion: "return"}
	got := d.Error()
	if !strings.Contains(got, `did you mean "return"?`) {
		t.Errorf("Error() = %q, want suggestion rendered", got)
	}
}

func TestBagHasErrors(t *testing.T) {
	var b Bag
	if b.HasErrors() {
		t.Fatal("empty bag reports HasErrors")
	}
	b.Add(Diagnostic{Severity: Info})
	if b.HasErrors() {
		t.Fatal("Info-only bag reports HasErrors")
	}
	b.Add(Diagnostic{Severity: Error})
	if !b.HasErrors() {
		t.Fatal("bag with an Error diagnostic does not report HasErrors")
	}
}

func TestBagFirst(t *testing.T) {
	var b Bag
	b.Add(Diagnostic{Severity: Info, Message: "first"})
	b.Add(Diagnostic{Severity: Error, Message: "second"})
	b.Add(Diagnostic{Severity: Error, Message: "third"})

	d, ok := b.First(Error)
	if !ok {
		t.Fatal("First(Error) found nothing")
	}
	if d.Message != "second" {
		t.Errorf("First(Error).Message = %q, want %q (first at/above severity)", d.Message, "second")
	}

	if _, ok := b.First(Fatal); ok {
		t.Error("First(Fatal) found a diagnostic when none reached that severity")
	}
}

func TestSeverityAndCategoryStrings(t *testing.T) {
	if Severity(99).String() != "unknown" {
		t.Error("out-of-range Severity.String() should be \"unknown\"")
	}
	if Category(99).String() != "unknown" {
		t.Error("out-of-range Category.String() should be \"unknown\"")
	}
}
