// Package periscope implements the token->cell resolver and the
// lifetime-contract registry that gates validator execution during
// propagation (spec.md §4.5). It exists so a validator can reference
// a cell indirectly, through the token that seeded it, without
// dereferencing a raw identifier that might have gone stale.
package periscope

import (
	"sync"

	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

// GuaranteeBits is a bitset of the properties a lifetime contract
// vouches for. The validator-side requirement and the contract's
// guarantee are compared with a simple bitwise AND.
type GuaranteeBits uint32

const (
	// GuaranteeCellLive promises the referenced cell still exists in
	// the field (has not been invalidated by a rebuild).
	GuaranteeCellLive GuaranteeBits = 1 << iota
	// GuaranteeRegionLive promises the owning region is still open.
	GuaranteeRegionLive
	// GuaranteeStable promises the cell's state list will not be
	// resized for the remainder of the current propagation pass.
	GuaranteeStable
)

// RegionID and ValidatorID key a lifetime contract. Both are opaque,
// caller-assigned small integers (spec.md §3, Periscope).
type RegionID int
type ValidatorID int

// Contract is a lifetime contract: (region-id, validator-id,
// guarantee-bits, valid-flag) exactly as named in spec.md §4.5.
type Contract struct {
	Region     RegionID
	Validator  ValidatorID
	Guarantees GuaranteeBits
	Valid      bool
}

type contractKey struct {
	region    RegionID
	validator ValidatorID
}

// Periscope is the process-local structure of spec.md §3: a
// token->cell-id map (with controlled aliasing) and a set of lifetime
// contracts. The mutex-guarded-map-plus-accessor shape mirrors the
// teacher's registry idiom (core/types.Registry), generalised here to
// per-field rather than per-process scope since periscopes are
// field-scoped (spec.md §4.5 purpose).
type Periscope struct {
	mu sync.RWMutex

	field     *field.Field
	byToken   map[*token.Token]field.CellID
	contracts map[contractKey]*Contract

	softFailures int
}

// New creates a periscope bound to a field. The periscope does not
// own the field; it only resolves identifiers against it.
func New(f *field.Field) *Periscope {
	return &Periscope{
		field:     f,
		byToken:   make(map[*token.Token]field.CellID),
		contracts: make(map[contractKey]*Contract),
	}
}

// Register maps a token to the cell it seeded. Many-to-one mappings
// are permitted only for deliberate token aliasing (spec.md §3); the
// caller is responsible for not creating accidental aliases.
func (p *Periscope) Register(tok *token.Token, cell field.CellID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byToken[tok] = cell
}

// Resolve looks up the cell a token was registered against, applying
// the cell-id normalisation rule of spec.md §4.5 before returning it:
// an id within range passes through; an id up to twice the max is
// clamped to the max; beyond that it is reduced modulo the cell
// count. The lookup fails outright when the field has no cells.
func (p *Periscope) Resolve(tok *token.Token) (field.CellID, bool) {
	p.mu.RLock()
	id, ok := p.byToken[tok]
	p.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return p.Normalize(id)
}

// Normalize applies the clamping table of spec.md §4.5 to a raw cell
// identifier:
//
//	id <= max           -> id
//	max < id <= 2*max   -> max
//	id > 2*max          -> id mod cell_count
//	cell_count == 0     -> lookup fails
func (p *Periscope) Normalize(id field.CellID) (field.CellID, bool) {
	count := p.field.CellCount()
	if count == 0 {
		return 0, false
	}
	max := field.CellID(count - 1)
	switch {
	case id <= max:
		return id, true
	case id <= 2*max:
		return max, true
	default:
		return field.CellID(int(id) % count), true
	}
}

// GrantContract installs or replaces an active lifetime contract for
// (region, validator).
func (p *Periscope) GrantContract(region RegionID, validator ValidatorID, guarantees GuaranteeBits) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contracts[contractKey{region, validator}] = &Contract{
		Region: region, Validator: validator, Guarantees: guarantees, Valid: true,
	}
}

// Revoke invalidates a previously granted contract. A revoked
// contract stays in the map (for diagnostics) but no longer satisfies
// ValidateConstraints.
func (p *Periscope) Revoke(region RegionID, validator ValidatorID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.contracts[contractKey{region, validator}]; ok {
		c.Valid = false
	}
}

// ValidateConstraints reports whether at least one active contract
// for (region, validator) covers the required guarantee bits
// (spec.md §4.5). When none does, it records a soft failure and
// returns false so the caller treats the constraint as vacuously
// satisfied for this iteration rather than observing possibly-stale
// state — it must NOT be treated as a contradiction.
func (p *Periscope) ValidateConstraints(region RegionID, validator ValidatorID, required GuaranteeBits) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.contracts[contractKey{region, validator}]
	if !ok || !c.Valid || c.Guarantees&required != required {
		p.softFailures++
		return false
	}
	return true
}

// SoftFailures returns the number of ValidateConstraints calls that
// fell back to the default validator since the periscope was created.
func (p *Periscope) SoftFailures() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.softFailures
}

// DefaultValidator is the fallback predicate used when a constraint
// omits its own and when ValidateConstraints fails soft: it treats
// the constraint as satisfied, deferring entirely to the surrounding
// constraints to catch any real violation (spec.md §4.5).
func DefaultValidator(*field.Field) bool { return true }
