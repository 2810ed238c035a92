package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/assetforge/assetforge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development server with live reload",
	Long: `Serve runs a development HTTP server over the static roots. It
watches the roots for changes, re-converts edited stylesheet dialect
sources, and pushes a reload notification to connected browsers over
the /livereload websocket. Prometheus metrics are exposed on /metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "bind address")
	serveCmd.Flags().Int("port", 0, "listen port")
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	// The development server always serves sources individually.
	viper.Set("enabled", false)

	a, err := buildApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.cfg, a.runner, a.metrics, a.logger)
	return srv.Start(ctx)
}
