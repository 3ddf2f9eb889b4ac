// Package wfc implements the wave-function-collapse driver (spec.md
// §4.6): seeding the entropy field from a token stream and the
// pattern library, installing the built-in and pattern constraints,
// and running the propagate/observe fixed point to either full
// collapse or contradiction.
package wfc

import (
	"fmt"
	"strings"
	"time"

	"github.com/latticec/wfc/pkgs/constraint"
	"github.com/latticec/wfc/pkgs/diag"
	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/pattern"
	"github.com/latticec/wfc/pkgs/periscope"
	"github.com/latticec/wfc/pkgs/token"
)

// stalledIterationLimit is the progress guard of spec.md §4.6 FULL:
// three propagate passes in a row with zero new eliminations force an
// observation; three stalled observations in a row escalate to a
// contradiction rather than spin forever.
const stalledIterationLimit = 3

// Result is everything a Compile call produces.
type Result struct {
	Field         *field.Field
	Periscope     *periscope.Periscope
	Diagnostics   *diag.Bag
	Telemetry     *Telemetry
	DebugEvents   []DebugEvent
	Contradiction bool
}

// Compile runs the full pipeline: seed, install constraints, run the
// propagate/observe loop to a fixed point, and return the resulting
// field for extraction (spec.md §4.6).
func Compile(tokens []token.Token, reg *pattern.Registry, topLevelPattern string, opts ...Opt) (*Result, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	var telemetry *Telemetry
	var debugEvents []DebugEvent
	var startTotal time.Time
	if cfg.telemetry >= TelemetryBasic {
		telemetry = &Telemetry{TokenCount: len(tokens)}
		if cfg.telemetry >= TelemetryTiming {
			startTotal = time.Now()
		}
	}
	if cfg.debug > DebugOff {
		debugEvents = make([]DebugEvent, 0, 64)
	}
	record := func(event, context string, iteration int) {
		if cfg.debug > DebugOff {
			debugEvents = append(debugEvents, DebugEvent{Timestamp: time.Now(), Event: event, Iteration: iteration, Context: context})
		}
	}

	bag := &diag.Bag{}
	store := constraint.NewStore()

	var startSeed time.Time
	if cfg.telemetry >= TelemetryTiming {
		startSeed = time.Now()
	}
	seeded := seedField(tokens, cfg, store)
	f := seeded.field
	if cfg.telemetry >= TelemetryTiming {
		telemetry.SeedTime = time.Since(startSeed)
	}
	record("seed_complete", fmt.Sprintf("cells=%d", f.CellCount()), 0)

	installAdjacency(store, f, cfg)
	installSequenceWindows(store, f, bag)
	if reg != nil && topLevelPattern != "" {
		if err := pattern.Install(store, f, reg, topLevelPattern); err != nil {
			return nil, fmt.Errorf("wfc: installing pattern %q: %w", topLevelPattern, err)
		}
	}

	if cfg.telemetry >= TelemetryBasic {
		telemetry.ConstraintCount = len(f.Constraints())
	}

	var startPropagate time.Time
	if cfg.telemetry >= TelemetryTiming {
		startPropagate = time.Now()
	}
	iterations, contradiction := run(f, cfg, record)
	if cfg.telemetry >= TelemetryBasic {
		telemetry.IterationCount = iterations
		if cfg.telemetry >= TelemetryTiming {
			telemetry.PropagateTime = time.Since(startPropagate)
			telemetry.TotalTime = time.Since(startTotal)
		}
	}

	if contradiction {
		if cell, ok := f.FirstContradictionCell(); ok {
			kinds := eliminatedKinds(cell)
			bag.Add(diag.Diagnostic{
				Severity:        diag.Error,
				Category:        diag.Semantic,
				Position:        cell.Position,
				EliminatedKinds: kinds,
				Message:         fmt.Sprintf("no consistent interpretation survives constraint propagation; eliminated candidates: %s", strings.Join(kinds, ", ")),
			})
		} else {
			bag.Add(diag.Diagnostic{
				Severity: diag.Fatal,
				Category: diag.System,
				Message:  fmt.Sprintf("wfc: exceeded iteration bound (%d) without converging", cfg.maxIterations),
			})
		}
	}

	return &Result{
		Field:         f,
		Periscope:     seeded.periscope,
		Diagnostics:   bag,
		Telemetry:     telemetry,
		DebugEvents:   debugEvents,
		Contradiction: contradiction,
	}, nil
}

// eliminatedKinds names the distinct labels of the states eliminated
// at a contradictory cell, in state-creation order, for spec.md §6's
// "human-readable message naming the eliminated kinds at that cell".
func eliminatedKinds(cell *field.Cell) []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, s := range cell.States() {
		if !s.Eliminated() || seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		kinds = append(kinds, s.Label)
	}
	return kinds
}

// installAdjacency installs one adjacency constraint for every
// consecutive cell pair (spec.md §4.6 step 2). When cfg carries
// non-zero bound overrides (internal/config), every constraint shares
// one AdjacencyContext; otherwise each uses the built-in 200/500
// bounds via a nil context.
func installAdjacency(store *constraint.Store, f *field.Field, cfg *Config) {
	var ctx *constraint.AdjacencyContext
	if cfg.adjacencyGeneralBound > 0 || cfg.adjacencyStructuralBound > 0 {
		ctx = &constraint.AdjacencyContext{
			GeneralBound:    cfg.adjacencyGeneralBound,
			StructuralBound: cfg.adjacencyStructuralBound,
		}
	}
	n := f.CellCount()
	for i := 0; i+1 < n; i++ {
		_, _ = store.Install(f, constraint.KindSyntax,
			[]field.CellID{field.CellID(i), field.CellID(i + 1)},
			ctx, constraint.Adjacency, "adjacency")
	}
}

// installSequenceWindows installs a sequence constraint over every
// consecutive triple. A full grammar would restrict this to triples a
// registered pattern actually admits; in the absence of a
// window-admission oracle in the pattern library's public surface,
// every triple is constrained, which is conservative (sequence's
// lenient-while-uncollapsed behavior keeps this safe — see
// constraint.Sequence).
func installSequenceWindows(store *constraint.Store, f *field.Field, bag *diag.Bag) {
	n := f.CellCount()
	ctx := &constraint.SequenceContext{Diagnostics: bag}
	for i := 0; i+2 < n; i++ {
		_, _ = store.Install(f, constraint.KindSyntax,
			[]field.CellID{field.CellID(i), field.CellID(i + 1), field.CellID(i + 2)},
			ctx, constraint.Sequence, "sequence")
	}
}

// run executes the propagate/observe fixed point (spec.md §4.6 steps
// 3-5). It returns the number of iterations taken and whether the
// field ended in contradiction.
func run(f *field.Field, cfg *Config, record func(event, context string, iteration int)) (int, bool) {
	stalledPropagates := 0
	stalledObservations := 0

	for iteration := 1; iteration <= cfg.maxIterations; iteration++ {
		record("propagate_start", "", iteration)
		eliminated := propagateOnce(f)
		if cfg.onIteration != nil {
			cfg.onIteration(iteration, f.Snapshot())
		}
		if f.HasContradiction() {
			record("contradiction", "during propagate", iteration)
			return iteration, true
		}
		if f.FullyCollapsed() {
			record("fully_collapsed", "", iteration)
			return iteration, false
		}

		if eliminated == 0 {
			stalledPropagates++
		} else {
			stalledPropagates = 0
		}

		if stalledPropagates < stalledIterationLimit {
			continue
		}
		stalledPropagates = 0

		cell, ok := f.MinEntropyCell()
		if !ok {
			record("no_observation_candidate", "", iteration)
			return iteration, false
		}
		collapsed := observe(cell)
		record("observe", fmt.Sprintf("cell=%d chosen_state=%d valid=%v", cell.ID, collapsed.chosenState, collapsed.valid), iteration)

		if !collapsed.valid {
			stalledObservations++
			if stalledObservations >= stalledIterationLimit {
				f.RecordContradiction(cell.ID)
				record("contradiction", "stalled observations exhausted", iteration)
				return iteration, true
			}
		} else {
			stalledObservations = 0
		}
	}

	record("iteration_bound_exhausted", fmt.Sprintf("bound=%d", cfg.maxIterations), cfg.maxIterations)
	return cfg.maxIterations, true
}

// propagateOnce invokes every constraint's validator once, in stable
// insertion order, and reports how many eliminations happened — a
// coarse count (live-state totals before and after) sufficient to
// drive the progress guard.
func propagateOnce(f *field.Field) int {
	before := liveStateTotal(f)
	for _, c := range f.Constraints() {
		if cc, ok := c.(*constraint.Constraint); ok {
			if !cc.Validate(f) {
				break // contradiction recorded by the validator itself
			}
		}
	}
	after := liveStateTotal(f)
	return before - after
}

func liveStateTotal(f *field.Field) int {
	total := 0
	for _, c := range f.Cells() {
		total += c.LiveCount()
	}
	return total
}

type observation struct {
	valid       bool
	chosenState field.StateID
}

// observe collapses a cell to its highest-weight surviving state,
// breaking ties by smallest state identifier (spec.md §4.6 step 4).
func observe(cell *field.Cell) observation {
	live := cell.Live()
	if len(live) == 0 {
		return observation{valid: false}
	}
	best := live[0]
	for _, s := range live[1:] {
		if s.Weight > best.Weight || (s.Weight == best.Weight && s.ID < best.ID) {
			best = s
		}
	}
	for _, s := range live {
		if s.ID != best.ID {
			s.Eliminate()
		}
	}
	return observation{valid: true, chosenState: best.ID}
}
