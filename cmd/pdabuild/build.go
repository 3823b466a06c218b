package main

import (
	"fmt"
	"os"

	"github.com/nihei9/pdabuild/pda"
	"github.com/spf13/cobra"
)

var buildFlags = struct {
	verifyParseStop bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "build <grammar>",
		Short:   "Build PDA tables from a named grammar fixture",
		Example: `  pdabuild build expr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runBuild,
	}
	cmd.Flags().BoolVar(&buildFlags.verifyParseStop, "verify-parse-stop", false, "verify parse-stop declarations are consistent")
	rootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := loadFixture(args[0])
	if err != nil {
		return err
	}

	res, err := pda.Build(g, pda.Options{VerifyParseStop: buildFlags.verifyParseStop})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "states: %v\n", len(res.Graph.States))
	fmt.Fprintf(os.Stdout, "action sets: %v\n", len(res.Tables.ActInds))
	return nil
}
