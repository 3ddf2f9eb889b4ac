package wfc

import (
	"time"

	"github.com/latticec/wfc/pkgs/field"
)

// TelemetryLevel controls telemetry collection, production-safe at
// every tier (spec.md §4.6 FULL addition, teacher idiom:
// runtime/planner.TelemetryLevel).
type TelemetryLevel int

const (
	TelemetryOff    TelemetryLevel = iota // zero overhead (default)
	TelemetryBasic                        // counts only
	TelemetryTiming                       // counts + phase timings
)

// DebugLevel controls debug tracing; development only, never set in
// production callers.
type DebugLevel int

const (
	DebugOff      DebugLevel = iota
	DebugPaths                // iteration-level enter/exit tracing
	DebugDetailed             // records the same iteration-level events as DebugPaths
)

// Config configures a Compile call.
type Config struct {
	telemetry                TelemetryLevel
	debug                    DebugLevel
	maxIterations            int
	stripTrivia              bool
	adjacencyGeneralBound    int
	adjacencyStructuralBound int
	onIteration              func(iteration int, snapshot []field.CellSnapshot)
}

// Opt is a functional option over Config, the teacher's
// LexerOpt/ParserOpt idiom generalised to the driver.
type Opt func(*Config)

// WithTelemetry sets the telemetry collection level.
func WithTelemetry(level TelemetryLevel) Opt {
	return func(c *Config) { c.telemetry = level }
}

// WithDebug sets the debug tracing level.
func WithDebug(level DebugLevel) Opt {
	return func(c *Config) { c.debug = level }
}

// WithMaxIterations overrides the default iteration bound of 100
// (spec.md §4.6 step 5).
func WithMaxIterations(n int) Opt {
	return func(c *Config) { c.maxIterations = n }
}

// WithStripTrivia drops whitespace and comment tokens from the cells
// seeded into the field, rather than at output-extraction time. The
// scanner itself always emits trivia tokens (spec.md §4.1); this
// option is purely a seeding-stage decision (see SPEC_FULL.md §9 Q2).
func WithStripTrivia() Opt {
	return func(c *Config) { c.stripTrivia = true }
}

// WithAdjacencyBounds overrides the adjacency validator's default
// 200/500-byte gap tolerances (spec.md §4.3; internal/config's
// concrete use of this option).
func WithAdjacencyBounds(general, structural int) Opt {
	return func(c *Config) {
		c.adjacencyGeneralBound = general
		c.adjacencyStructuralBound = structural
	}
}

// WithIterationHook registers a callback invoked with a field
// snapshot after each iteration's propagate pass, before that
// iteration's observation step (if any) runs — internal/trace's
// concrete use of field.Snapshot, wired through the CLI's trace
// subcommand rather than the core packages (SPEC_FULL.md §6).
func WithIterationHook(fn func(iteration int, snapshot []field.CellSnapshot)) Opt {
	return func(c *Config) { c.onIteration = fn }
}

func defaultConfig() *Config {
	return &Config{maxIterations: 100}
}

// Telemetry holds the counts and timings collected when enabled
// (mirrors the teacher's runtime/planner.PlanTelemetry shape).
type Telemetry struct {
	TokenCount      int
	ConstraintCount int
	IterationCount  int
	SeedTime        time.Duration
	PropagateTime   time.Duration
	TotalTime       time.Duration
}

// DebugEvent records one driver-level trace point (teacher idiom:
// runtime/planner.DebugEvent).
type DebugEvent struct {
	Timestamp time.Time
	Event     string
	Iteration int
	Context   string
}

// ExtractConfig configures output extraction (spec.md §4.7).
type ExtractConfig struct {
	withoutWhitespace bool
	withoutComments   bool
	relaxed           bool
}

// ExtractOpt is a functional option over ExtractConfig.
type ExtractOpt func(*ExtractConfig)

// WithoutWhitespace drops whitespace tokens from the extracted stream.
func WithoutWhitespace() ExtractOpt {
	return func(c *ExtractConfig) { c.withoutWhitespace = true }
}

// WithoutComments drops comment tokens from the extracted stream.
func WithoutComments() ExtractOpt {
	return func(c *ExtractConfig) { c.withoutComments = true }
}

// Relaxed allows extraction to proceed from a partially collapsed
// field: a cell left with more than one live state is skipped and
// reported as a warning diagnostic instead of aborting the whole
// extraction (spec.md §4.7).
func Relaxed() ExtractOpt {
	return func(c *ExtractConfig) { c.relaxed = true }
}
