package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all packed artifacts from the output directory",
	Long: `Reset removes every artifact from the output directory. The next
pack rebuilds each group from its sources. Use it after a processor
upgrade, when artifacts were built with an older tool version under
the same fingerprint.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	if err := a.cache.Reset(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", a.cfg.OutDir)
	return nil
}
