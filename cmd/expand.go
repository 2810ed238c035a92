package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "List the per-file references each group serves in development",
	Long: `Expand prints what each declared group resolves to in development
mode: one reference per member, with stylesheet dialect sources
converted to a plain .css sibling when the compiler is installed.
Members whose conversion fails keep their original reference.`,
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().String("group", "", "expand only the named group")
	expandCmd.Flags().Bool("tags", false, "print embeddable markup instead of bare references")
}

func runExpand(cmd *cobra.Command, args []string) error {
	viper.Set("enabled", false)

	a, err := buildApp()
	if err != nil {
		return err
	}

	only, _ := cmd.Flags().GetString("group")
	groups, err := a.groups(only)
	if err != nil {
		return err
	}

	tags, _ := cmd.Flags().GetBool("tags")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for _, g := range groups {
		if tags {
			markup, err := a.service.Tags(ctx, g)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, markup)
			continue
		}
		for _, ref := range a.service.Expand(ctx, g) {
			fmt.Fprintf(out, "%s\t%s\n", g.Name, ref)
		}
	}
	return nil
}
