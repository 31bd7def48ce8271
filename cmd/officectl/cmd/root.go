package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/logger"
	"github.com/oshokin/office-controller/internal/service/office"
	"github.com/oshokin/office-controller/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// officeID overrides office_id from the configuration.
	officeID string
	// logLevel overrides log_level from the configuration.
	logLevel string

	// rootCmd represents the base command for controlling a facility.
	rootCmd = &cobra.Command{
		Use:   "officectl",
		Short: "Control the operating mode of an office facility.",
		Long: `Controls the doors, lights and fire alarm of one office facility.

The facility, its simulated devices, the remote event log and the fallback
notifier are described by the configuration file. Only one officectl process
may control a facility at a time.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if _, ok := logger.ParseLogLevel(logLevel); !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			return nil
		},
	}

	// applyCmd requests mode changes in order.
	applyCmd = &cobra.Command{
		Use:   "apply MODE...",
		Short: "Request one or more mode changes.",
		Long: `Requests each mode in order and prints whether it was accepted.

Modes: open, closed, out_of_hours, fire_alarm, fire_drill.
The facility starts in the configured initial_mode (out_of_hours by default).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return office.Apply(ctx, options(), args, cmd.OutOrStdout())
		},
	}

	// reportCmd prints the status report.
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print the facility status report.",
		Long: `Prints the light, door and fire alarm status in that order.

Faulty subsystems are sent to the event log as an engineer request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return office.Report(ctx, options(), cmd.OutOrStdout())
		},
	}

	// shellCmd runs an interactive session.
	shellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Run an interactive session over one controller.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return office.Shell(ctx, options(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
)

// Execute runs the officectl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

func options() *office.Options {
	return &office.Options{
		ConfigPath: configPath,
		OfficeID:   officeID,
		LogLevel:   logLevel,
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&officeID, "office", "o", "", "office identifier, overrides office_id")
	flags.StringVar(&logLevel, "log-level", "", "log level, overrides log_level")

	rootCmd.AddCommand(applyCmd, reportCmd, shellCmd)
}
