package main

import (
	"os"

	"github.com/nihei9/pdabuild/pda"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar>",
		Short:   "Build a named grammar fixture and print its PDA graph",
		Example: `  pdabuild describe expr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	g, err := loadFixture(args[0])
	if err != nil {
		return err
	}

	res, err := pda.Build(g, pda.Options{})
	if err != nil {
		return err
	}

	return res.Graph.Describe(os.Stdout, g)
}
