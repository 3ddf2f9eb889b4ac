package wfc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/lexer"
	"github.com/latticec/wfc/pkgs/pattern"
)

var errContradiction = errors.New("compile ended in contradiction")

func TestCompileSimpleFunctionConverges(t *testing.T) {
	// Trivia stripped at seed time: the grammar's Sequence nodes match
	// cells back-to-back and have no notion of intervening whitespace
	// (see WithStripTrivia's doc comment and SPEC_FULL.md §9 Q2).
	src := "func main() { return 1; }"
	tokens, _ := lexer.Tokenize([]byte(src))

	result, err := Compile(tokens, pattern.Global(), "program", WithStripTrivia())
	require.NoError(t, err)
	require.False(t, result.Contradiction, "valid source should converge without contradiction")
	require.True(t, result.Field.FullyCollapsed(), "a converged compile should fully collapse the field")
}

func TestCompileIsDeterministicAcrossRuns(t *testing.T) {
	src := "var x: int = 1 + 2; func f() { if (x) { return x; } }"

	first, err := compileTokenText(src)
	require.NoError(t, err)
	second, err := compileTokenText(src)
	require.NoError(t, err)

	require.Equal(t, first, second, "compiling identical input twice must yield byte-identical extracted output")
}

func compileTokenText(src string) (string, error) {
	tokens, _ := lexer.Tokenize([]byte(src))
	result, err := Compile(tokens, pattern.Global(), "program", WithStripTrivia())
	if err != nil {
		return "", err
	}
	if result.Contradiction {
		return "", errContradiction
	}
	extracted, _, err := Extract(result.Field)
	if err != nil {
		return "", err
	}
	out := ""
	for _, tok := range extracted {
		out += tok.String()
	}
	return out, nil
}

func TestCompoundOperatorWinsOverDecomposedReading(t *testing.T) {
	tokens, _ := lexer.Tokenize([]byte("++x;"))
	result, err := Compile(tokens, nil, "", WithStripTrivia())
	require.NoError(t, err)
	require.False(t, result.Contradiction)

	cell, err := result.Field.Cell(0)
	require.NoError(t, err)
	st, ok := cell.CollapsedState()
	require.True(t, ok, "the compound-operator cell should collapse to a single state")
	require.Equal(t, "++", st.Payload.Text)
}

func TestCompileRespectsMaxIterations(t *testing.T) {
	tokens, _ := lexer.Tokenize([]byte("x y z"))
	result, err := Compile(tokens, nil, "", WithMaxIterations(0))
	require.NoError(t, err)
	require.True(t, result.Contradiction, "a zero iteration bound should never converge")
}

func TestCompileCollectsTelemetryWhenRequested(t *testing.T) {
	tokens, _ := lexer.Tokenize([]byte("x"))
	result, err := Compile(tokens, nil, "", WithTelemetry(TelemetryTiming))
	require.NoError(t, err)
	require.NotNil(t, result.Telemetry)
	require.Equal(t, len(tokens), result.Telemetry.TokenCount)
}

func TestCompileOmitsTelemetryByDefault(t *testing.T) {
	tokens, _ := lexer.Tokenize([]byte("x"))
	result, err := Compile(tokens, nil, "")
	require.NoError(t, err)
	require.Nil(t, result.Telemetry)
}

func TestCompileRecordsDebugEventsWhenRequested(t *testing.T) {
	tokens, _ := lexer.Tokenize([]byte("x y"))
	result, err := Compile(tokens, nil, "", WithDebug(DebugPaths))
	require.NoError(t, err)
	require.NotEmpty(t, result.DebugEvents)
}

func TestCompileInvokesIterationHook(t *testing.T) {
	tokens, _ := lexer.Tokenize([]byte("x y"))
	calls := 0
	hook := WithIterationHook(func(iteration int, snapshot []field.CellSnapshot) {
		calls++
		require.Equal(t, len(tokens), len(snapshot))
	})
	_, err := Compile(tokens, nil, "", hook)
	require.NoError(t, err)
	require.Greater(t, calls, 0, "the iteration hook should fire at least once")
}
