package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/script"
)

var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Run a command script once",
	Long:  `Runs every step of a YAML command script and prints each step's result and the final document.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := script.ParseFile(args[0])
		if err != nil {
			return err
		}
		report, err := a.runner().Run(cmd.Context(), s)
		if err != nil {
			return err
		}
		if err := report.Write(cmd.OutOrStdout()); err != nil {
			return err
		}

		strict, _ := cmd.Flags().GetBool("strict")
		if strict && !report.OK() {
			return fmt.Errorf("%s: one or more steps failed", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("strict", false, "Exit non-zero if any step fails")
}
