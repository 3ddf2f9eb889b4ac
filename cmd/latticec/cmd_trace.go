package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticec/wfc/internal/trace"
	"github.com/latticec/wfc/pkgs/field"
	"github.com/latticec/wfc/pkgs/lexer"
	"github.com/latticec/wfc/pkgs/pattern"
	"github.com/latticec/wfc/pkgs/wfc"
)

var (
	tracePattern string
	traceOut     string
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Record a cbor propagation trace of every iteration's field snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&tracePattern, "pattern", "program", "top-level grammar pattern to constrain the parse against")
	traceCmd.Flags().StringVar(&traceOut, "out", "", "output path (default: trace-<fingerprint>.cbor in the working directory)")
}

func runTrace(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	tokens, _ := lexer.Tokenize(source)

	var snapshots []trace.Snapshot
	hook := wfc.WithIterationHook(func(iteration int, snapshot []field.CellSnapshot) {
		snapshots = append(snapshots, trace.Snapshot{Iteration: iteration, Cells: snapshot})
	})

	result, err := wfc.Compile(tokens, pattern.Global(), tracePattern, hook, wfc.WithDebug(wfc.DebugDetailed))
	if err != nil {
		return err
	}
	if result.Contradiction {
		fmt.Fprintln(os.Stderr, "warning: compile ended in contradiction; trace captured up to that point")
	}

	data, err := trace.Encode(snapshots)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}

	out := traceOut
	if out == "" {
		out = trace.FileName(trace.Fingerprint(source))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	fmt.Printf("wrote %d iteration snapshots to %s\n", len(snapshots), out)
	return nil
}
