package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/latticec/wfc/internal/config"
	"github.com/latticec/wfc/pkgs/lexer"
	"github.com/latticec/wfc/pkgs/pattern"
	"github.com/latticec/wfc/pkgs/wfc"
)

var (
	compileConfigPath string
	compilePattern    string
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile one or more sources through the WFC engine and print the collapsed tokens",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "path to a driver configuration YAML file")
	compileCmd.Flags().StringVar(&compilePattern, "pattern", "program", "top-level grammar pattern to constrain the parse against")
}

func runCompile(cmd *cobra.Command, args []string) error {
	driverCfg := config.Default()
	if compileConfigPath != "" {
		data, err := os.ReadFile(compileConfigPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		driverCfg, err = config.Load(data)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Independent files have no shared state (each gets its own
	// field.Field), so batch compilation fans them out concurrently
	// with errgroup — the core single-field/single-driver invocation
	// stays single-threaded and cooperative (SPEC_FULL.md §5).
	g := new(errgroup.Group)
	results := make([]string, len(args))
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			out, err := compileOne(path, driverCfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range args {
		if len(args) > 1 {
			fmt.Printf("=== %s ===\n", path)
		}
		fmt.Print(results[i])
	}
	return nil
}

func compileOne(path string, driverCfg config.Driver) (string, error) {
	// correlationID ties every log line for this file's compile together
	// in concurrent batch runs; it never touches cell/state/constraint
	// identifiers, which stay monotonic integers so the token-stream
	// output remains fully deterministic regardless of run order.
	correlationID := uuid.New().String()

	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	tokens, diags := lexer.Tokenize(source)
	if logger != nil {
		logger.Debug("lexed source",
			zap.String("file", path),
			zap.String("correlation_id", correlationID),
			zap.Int("tokens", len(tokens)))
	}
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	result, err := wfc.Compile(tokens, pattern.Global(), compilePattern, driverCfg.Opts()...)
	if err != nil {
		return "", err
	}
	for _, d := range result.Diagnostics.Items() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if result.Contradiction {
		if logger != nil {
			logger.Debug("compile ended in contradiction",
				zap.String("file", path),
				zap.String("correlation_id", correlationID))
		}
		return "", fmt.Errorf("compilation did not converge to a consistent parse")
	}

	extracted, extractDiags, err := wfc.Extract(result.Field, driverCfg.ExtractOpts()...)
	if err != nil {
		return "", err
	}
	for _, d := range extractDiags {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	out := ""
	for _, t := range extracted {
		out += t.String() + "\n"
	}
	return out, nil
}
