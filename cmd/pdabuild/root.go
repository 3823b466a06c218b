package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pdabuild",
	Short: "Compile a grammar into PDA tables",
	Long: `pdabuild compiles a resolved grammar into a compact PDA (push-down
automaton) state graph and its compressed action tables, suitable for a
table-driven parser runtime with backtracking, region-scoped lexical
ignoring, operator precedence, and commit points.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
