package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assetforge/assetforge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Init writes a commented ` + configFileName + ` into the current
directory with a sample asset group per type. It refuses to overwrite
an existing file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(configFileName); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configFileName)
	return nil
}
