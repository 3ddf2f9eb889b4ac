package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticec/wfc/pkgs/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the raw lexer token stream for a source file, before any WFC propagation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		tokens, diags := lexer.Tokenize(source)
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		for _, t := range tokens {
			fmt.Println(t.String())
		}
		return nil
	},
}
