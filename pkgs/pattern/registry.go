package pattern

import (
	"fmt"
	"sync"

	"github.com/latticec/wfc/pkgs/constraint"
	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/token"
)

// Registry is the process-wide map name -> pattern (spec.md §4.4,
// §6). Writes are only permitted before any field has been seeded —
// enforced by freezing the registry the first time Compile runs
// against it, matching spec.md §5's "optional pattern-registry
// initialised once per process and thereafter read-only." The
// teacher's decorator registry (core/types.Registry) is the idiom
// this generalises: a mutex-guarded map plus a package-level global
// reached through a constructor function.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Pattern
	frozen bool
}

// NewRegistry creates an empty, writable registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Pattern)}
}

// Register installs a named pattern. Fails once the registry has been
// frozen by a call to Compile.
func (r *Registry) Register(name string, p *Pattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("pattern: registry is frozen, cannot register %q", name)
	}
	r.byName[name] = p
	return nil
}

// Lookup resolves a registered pattern by name.
func (r *Registry) Lookup(name string) (*Pattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// Freeze prevents further registration. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide pattern registry, built once with
// the language's grammar (spec.md §4.4 production list) on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
		registerBuiltins(global)
	})
	return global
}

// registerBuiltins installs the grammar productions named in spec.md
// §4.4: program / declaration / region-decl / regime-decl / func-decl
// / var-decl / statement / block / expression / return / if / while /
// for / collapse / superpose / periscope / assignment / type /
// parameter-list / argument-list / binary / unary / primary / literal.
func registerBuiltins(r *Registry) {
	kw := func(lit string) *Pattern { return Match(token.Keyword, lit) }
	punct := func(lit string) *Pattern { return Match(token.Punctuation, lit) }
	ident := Match(token.Identifier, "")

	must := func(name string, p *Pattern) {
		if err := r.Register(name, p); err != nil {
			panic(err) // process-wide bootstrap: a failure here is a programming error
		}
	}

	must("literal", Choice(
		Match(token.IntLiteral, ""), Match(token.FloatLiteral, ""),
		Match(token.StringLiteral, ""), Match(token.CharLiteral, ""),
		kw("true"), kw("false"), kw("null"),
	))
	must("primary", Choice(ident, Ref("literal"), Seq(punct("("), Ref("expression"), punct(")"))))
	must("unary", Choice(Seq(Match(token.Operator, "-"), Ref("unary")), Seq(Match(token.Operator, "!"), Ref("unary")), Ref("primary")))
	must("binary", Seq(Ref("unary"), Star(Seq(Match(token.Operator, ""), Ref("unary")))))
	must("expression", Ref("binary"))
	must("assignment", Seq(ident, Match(token.Operator, "="), Ref("expression")))
	must("type", Choice(kw("int"), kw("float"), kw("string"), kw("char"), kw("bool"), ident))

	must("argument-list", Opt(Seq(Ref("expression"), Star(Seq(punct(","), Ref("expression"))))))
	must("parameter-list", Opt(Seq(ident, Star(Seq(punct(","), ident)))))

	must("var-decl", Seq(kw("var"), ident, Opt(Seq(punct(":"), Ref("type"))), Opt(Seq(Match(token.Operator, "="), Ref("expression"))), punct(";")))
	must("region-decl", Seq(kw("region"), ident, Ref("block")))
	must("regime-decl", Seq(kw("regime"), ident, Choice(kw("fifo"), kw("filo"), kw("seq"), kw("rand")), punct(";")))
	must("func-decl", Seq(Choice(kw("func"), kw("fn")), ident, punct("("), Ref("parameter-list"), punct(")"), Opt(Ref("block"))))

	must("return", Seq(kw("return"), Opt(Ref("expression")), punct(";")))
	must("if", Seq(kw("if"), punct("("), Ref("expression"), punct(")"), Ref("block"), Opt(Seq(kw("else"), Ref("block")))))
	must("while", Seq(kw("while"), punct("("), Ref("expression"), punct(")"), Ref("block")))
	must("for", Seq(kw("for"), punct("("), Opt(Ref("assignment")), punct(";"), Opt(Ref("expression")), punct(";"), Opt(Ref("assignment")), punct(")"), Ref("block")))

	must("collapse", Seq(kw("collapse"), ident, punct(";")))
	must("superpose", Seq(kw("superpose"), ident, punct(";")))
	must("periscope", Seq(kw("periscope"), ident, Ref("block")))

	must("statement", Choice(
		Ref("var-decl"), Ref("return"), Ref("if"), Ref("while"), Ref("for"),
		Ref("collapse"), Ref("superpose"), Ref("periscope"),
		Seq(Ref("assignment"), punct(";")), Seq(Ref("expression"), punct(";")),
		Ref("block"),
	))
	must("block", Seq(punct("{"), Star(Ref("statement")), punct("}")))

	must("declaration", Choice(Ref("var-decl"), Ref("region-decl"), Ref("regime-decl"), Ref("func-decl")))
	must("program", Star(Ref("declaration")))
}

// PatternContext is the opaque context payload a pattern constraint
// carries: the registry it was compiled against and the pattern it
// validates.
type PatternContext struct {
	Registry *Registry
	Pattern  *Pattern
	Name     string
}

// Validate re-runs the pattern match against the field's current live
// states and eliminates, in unambiguous leaves, any surviving state
// that is incompatible with the one shape that matched — the pattern
// validator of spec.md §4.3/§4.4.
func Validate(c *constraint.Constraint, f *field.Field) bool {
	ctx, ok := c.Context().(*PatternContext)
	if !ok {
		return true
	}
	cells := c.Cells()
	_, leaves, matched := matchAt(ctx.Registry, f, ctx.Pattern, cells, 0, false)
	if !matched {
		return false
	}

	contradicted := false
	for _, lm := range leaves {
		if lm.Ambiguous {
			continue
		}
		cell, err := f.Cell(lm.Cell)
		if err != nil {
			continue
		}
		for _, st := range cell.Live() {
			if st.Kind != field.TokenState || st.Payload == nil {
				continue
			}
			if st.Payload.Kind != lm.Leaf.TokenKind {
				st.Eliminate()
			} else if lm.Leaf.Literal != "" && st.Payload.Text != lm.Leaf.Literal {
				st.Eliminate()
			}
		}
		if cell.Contradiction() {
			f.RecordContradiction(cell.ID)
			contradicted = true
		}
	}
	return !contradicted
}

// Install enumerates contiguous cell windows starting at every
// position that could match the named pattern, and installs one
// constraint per matching window (spec.md §4.4).
func Install(store *constraint.Store, f *field.Field, reg *Registry, name string) error {
	reg.Freeze()
	p, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("pattern: %q is not registered", name)
	}

	all := make([]field.CellID, f.CellCount())
	for i := range all {
		all[i] = field.CellID(i)
	}

	for start := 0; start < len(all); start++ {
		consumed, ok := MatchFrom(reg, f, p, all, start)
		if !ok || consumed == 0 {
			continue
		}
		window := all[start : start+consumed]
		ctx := &PatternContext{Registry: reg, Pattern: p, Name: name}
		if _, err := store.Install(f, constraint.KindSyntax, window, ctx, Validate, fmt.Sprintf("pattern:%s@%d", name, start)); err != nil {
			return err
		}
	}
	return nil
}
