package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/assetforge/assetforge/internal/format"
	"github.com/assetforge/assetforge/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which external processors were found",
	Long: `Tools prints the resolved executable for each source format that
needs one, or the candidate names that were searched when none was
found. Formats without a processor fail at pack time and are served
unconverted in development.`,
	RunE: runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tEXECUTABLE")
	for _, f := range format.Processed() {
		if exe, ok := a.registry.Resolve(f); ok {
			fmt.Fprintf(w, "%s\t%s\n", f, exe)
			continue
		}
		fmt.Fprintf(w, "%s\tnot found (searched: %s)\n", f, strings.Join(tools.Candidates(f), ", "))
	}
	return w.Flush()
}
