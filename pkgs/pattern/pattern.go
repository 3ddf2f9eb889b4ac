// Package pattern implements the grammar pattern library (spec.md
// §4.4): a tagged expression tree that compiles, once per source
// translation unit, into constraints installed over candidate cell
// windows.
package pattern

import "github.com/latticec/wfc/pkgs/token"

// Kind is the closed set of pattern node variants.
type Kind int

const (
	TokenMatch Kind = iota
	Sequence
	Choice
	Optional
	Repeat
	RepeatOne
	Reference
)

// Pattern is a node in the grammar expression tree (spec.md §3,
// Pattern). Node layout mirrors the teacher's concrete-syntax Node
// shape (pkgs/ast.Node) generalised to a grammar description rather
// than a parsed tree.
type Pattern struct {
	Kind      Kind
	TokenKind token.Kind // TokenMatch
	Literal   string     // TokenMatch, optional exact text
	Children  []*Pattern // Sequence, Choice
	Child     *Pattern   // Optional, Repeat, RepeatOne
	Name      string     // Reference
}

// Match builds a token-kind match, optionally pinned to an exact
// literal (empty string means any lexeme of that kind).
func Match(kind token.Kind, literal string) *Pattern {
	return &Pattern{Kind: TokenMatch, TokenKind: kind, Literal: literal}
}

// Seq builds a left-to-right sequence of sub-patterns.
func Seq(children ...*Pattern) *Pattern {
	return &Pattern{Kind: Sequence, Children: children}
}

// Choice builds a first-match alternation.
func Choice(children ...*Pattern) *Pattern {
	return &Pattern{Kind: Choice, Children: children}
}

// Opt builds a zero-or-one occurrence.
func Opt(child *Pattern) *Pattern {
	return &Pattern{Kind: Optional, Child: child}
}

// Star builds a zero-or-more greedy repetition.
func Star(child *Pattern) *Pattern {
	return &Pattern{Kind: Repeat, Child: child}
}

// Plus builds a one-or-more greedy repetition.
func Plus(child *Pattern) *Pattern {
	return &Pattern{Kind: RepeatOne, Child: child}
}

// Ref builds a named indirection through the registry.
func Ref(name string) *Pattern {
	return &Pattern{Kind: Reference, Name: name}
}
