// Command ufoctl is the operator CLI for the sightings store: it imports the
// NUFORC CSV export, publishes it to the ingest topic and validates a store.
package main

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/ufo-sightings/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	defaultDBPath    = "data/ufo_sighting_data.db"
	defaultTopic     = "raw-ufo-sightings"
	defaultBatchSize = 500
)

var (
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ufoctl",
		Short:         "Manage the UFO sightings store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (json, text)")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newValidateCmd())

	return rootCmd
}

func newLogger() *slog.Logger {
	return observability.NewLogger(logLevel, logFormat)
}

// newMetrics registers store metrics on a private registry; the CLI never
// serves them.
func newMetrics() *observability.Metrics {
	return observability.NewMetricsWith(prometheus.NewRegistry())
}
