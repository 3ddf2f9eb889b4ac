// Package diag defines the diagnostic taxonomy shared by the scanner,
// the WFC driver, and output extraction.
package diag

import (
	"fmt"

	"github.com/latticec/wfc/pkgs/token"
)

// Severity ranks how serious a diagnostic is.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Category classifies the subsystem a diagnostic originated from.
type Category int

const (
	Lexical Category = iota
	Syntax
	Semantic
	System
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case System:
		return "system"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported problem. It satisfies the error
// interface so it can be returned and wrapped like any other Go error.
type Diagnostic struct {
	Severity Severity
	Category Category
	Position token.Position
	Message  string

	// EliminatedKinds names the candidate kinds that were eliminated at
	// this position, for contradiction diagnostics (spec.md §6).
	EliminatedKinds []string

	// Suggestion is an optional "did you mean X?" hint.
	Suggestion string
}

func (d Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", d.Position, d.Severity, d.Message)
	if d.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", d.Suggestion)
	}
	return msg
}

// Bag collects diagnostics in report order. It is not safe for
// concurrent use — each compile owns exactly one Bag.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Items returns the diagnostics in report order.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any diagnostic at Error severity or above
// was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}

// First returns the first diagnostic at or above the given severity,
// and whether one was found. Used to pick the "primary" contradiction
// per spec.md §7 ("first failing cell in source order").
func (b *Bag) First(min Severity) (Diagnostic, bool) {
	for _, d := range b.items {
		if d.Severity >= min {
			return d, true
		}
	}
	return Diagnostic{}, false
}
