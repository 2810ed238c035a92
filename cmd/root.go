// Package cmd provides the command-line interface for assetforge.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--config, --enabled, ...)
//  2. ASSETFORGE_ environment variables (ASSETFORGE_OUT_DIR, ...)
//  3. The configuration file (.assetforge.yml in the working
//     directory, or the file named by --config)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileName = ".assetforge.yml"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetforge",
	Short: "Combine, transform, and fingerprint web assets",
	Long: `assetforge packs groups of stylesheets and scripts into single
fingerprinted artifacts for production, running each source through the
right external processor (sass, lessc, a JavaScript minifier), and
serves sources individually in development.

Quick start:
  assetforge init        Write a default .assetforge.yml
  assetforge tools       Show which external processors were found
  assetforge pack        Build every declared asset group
  assetforge serve       Development server with live reload`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .assetforge.yml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Accept underscore spellings matching the config keys
	// (--log_level works like --log-level).
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// initConfig wires viper to the config file and the ASSETFORGE_
// environment prefix.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".assetforge")
	}

	viper.SetEnvPrefix("ASSETFORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and environment cover it.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
