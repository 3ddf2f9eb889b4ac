// Package constraint implements the constraint model and the built-in
// validators (spec.md §4.3): adjacency, sequence, compound-operator
// grouping, and the hook pattern-compiled constraints attach through.
package constraint

import "github.com/latticec/wfc/pkgs/field"

// Kind tags what a constraint represents.
type Kind int

const (
	KindSyntax Kind = iota
	KindSemantic
	KindRegionLifetime
	KindRegimeCompatibility
	KindPeriscope
	KindUserCustom
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindRegionLifetime:
		return "region-lifetime"
	case KindRegimeCompatibility:
		return "regime-compatibility"
	case KindPeriscope:
		return "periscope"
	case KindUserCustom:
		return "user-custom"
	default:
		return "unknown"
	}
}

// Validator inspects the cells a constraint names and eliminates
// states that violate it. It returns whether the constraint is still
// satisfiable. Validators are monotone: they must never revive an
// eliminated state (spec.md §4.3).
type Validator func(c *Constraint, f *field.Field) bool

// Constraint is a predicate over an ordered, non-empty list of cells,
// with an opaque context payload and a human-readable description
// (spec.md §3, Constraint).
type Constraint struct {
	id          int
	kind        Kind
	cells       []field.CellID
	context     any
	validator   Validator
	description string
}

// New creates a constraint. id must be unique within the field it will
// be installed on.
func New(id int, kind Kind, cells []field.CellID, context any, v Validator, description string) *Constraint {
	return &Constraint{id: id, kind: kind, cells: cells, context: context, validator: v, description: description}
}

func (c *Constraint) ID() int             { return c.id }
func (c *Constraint) Kind() Kind          { return c.kind }
func (c *Constraint) Cells() []field.CellID { return c.cells }
func (c *Constraint) Context() any        { return c.context }
func (c *Constraint) Description() string { return c.description }

// Validate runs the constraint's validator against the field.
func (c *Constraint) Validate(f *field.Field) bool {
	if c.validator == nil {
		return true
	}
	return c.validator(c, f)
}

// Store assigns dense constraint identifiers and installs constraints
// on a field, keeping the kind/validator pairing in the Constraint
// value itself so the field package stays unaware of validator logic.
type Store struct {
	nextID int
}

// NewStore creates an empty constraint-id allocator.
func NewStore() *Store { return &Store{} }

// Install allocates the next identifier, builds the constraint, and
// adds it to f.
func (s *Store) Install(f *field.Field, kind Kind, cells []field.CellID, context any, v Validator, description string) (*Constraint, error) {
	c := New(s.nextID, kind, cells, context, v, description)
	s.nextID++
	if err := f.AddConstraint(c); err != nil {
		return nil, err
	}
	return c, nil
}
