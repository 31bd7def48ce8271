package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/service/collector"
	"github.com/oshokin/office-controller/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// storeFile where received entries are appended.
	storeFile string
	// metricsAddress serves /metrics when set.
	metricsAddress string
	// logLevel overrides log_level from the configuration.
	logLevel string

	// rootCmd represents the base command for running the collector.
	rootCmd = &cobra.Command{
		Use:   "eventlog-server [listen-address]",
		Short: "Run the facility event log collector.",
		Long: `Starts the gRPC collector that receives mode changes, engineer requests and
fire alarms from office controllers.

The listen address comes from the argument, collector.listen_address or the
port of event_log.address, in that order. Entries are appended to a JSON-lines
file and logged.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &collector.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				StoreFile:      storeFile,
				MetricsAddress: metricsAddress,
				LogLevel:       logLevel,
			}

			return collector.Run(ctx, options)
		},
	}
)

// Execute runs the eventlog-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&storeFile, "store-file", "s", "", "path of the event log file, overrides collector.store_file")
	rootCmd.Flags().StringVarP(&metricsAddress, "metrics-address", "m", "", "address serving /metrics")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level, overrides log_level")
}
