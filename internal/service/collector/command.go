package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/eventlog"
	"github.com/oshokin/office-controller/internal/logger"
	"github.com/oshokin/office-controller/internal/metrics"
)

// Options controls the eventlog-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StoreFile overrides the JSON-lines file receiving entries.
	StoreFile string
	// MetricsAddress overrides the HTTP address serving /metrics.
	MetricsAddress string
	// LogLevel overrides log_level from the settings when specified.
	LogLevel string
}

// ErrNoListenAddress indicates missing collector configuration.
var ErrNoListenAddress = errors.New("no listen address configured")

const metricsShutdownTimeout = 5 * time.Second

// Run starts the gRPC collector and blocks until context is canceled or the
// server stops.
//
//nolint:funlen // Linear startup and shutdown sequence.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "eventlog-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	level := settings.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	if err = logger.SetLevelFromString(level); err != nil {
		return err
	}

	storeFile := settings.Collector.StoreFile
	if opts.StoreFile != "" {
		storeFile = opts.StoreFile
	}

	metricsAddress := settings.Collector.MetricsAddress
	if opts.MetricsAddress != "" {
		metricsAddress = opts.MetricsAddress
	}

	listenAddress, err := resolveListenAddress(settings, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	var (
		registry = prometheus.NewRegistry()
		recorder = metrics.NewRecorder(registry)
		svc      = newService(eventlog.NewFileStore(storeFile), recorder)
		lc       = net.ListenConfig{}
	)

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	eventlog.Register(grpcServer, eventlog.NewServer(svc))

	var metricsServer *http.Server

	if metricsAddress != "" {
		metricsServer, err = startMetrics(ctx, metricsAddress, registry)
		if err != nil {
			_ = lis.Close()

			return err
		}
	}

	logger.InfoKV(ctx, "Event log collector listening",
		"listen_address", lis.Addr().String(),
		"store_file", storeFile,
		"metrics_address", metricsAddress,
	)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()

		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
			defer cancel()

			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.WarnKV(ctx, "Metrics server shutdown failed", "error", err)
			}
		}

		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// startMetrics serves /metrics in the background.
func startMetrics(ctx context.Context, address string, registry *prometheus.Registry) (*http.Server, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen metrics on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: config.DefaultTimeout,
	}

	go func() {
		if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics server failed", "error", err)
		}
	}()

	return server, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// The override wins, then collector.listen_address, then the port of
// event_log.address so a shared settings file works for both binaries.
func resolveListenAddress(settings *config.Config, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if settings.Collector.ListenAddress != "" {
		return settings.Collector.ListenAddress, nil
	}

	if settings.EventLog.Address == "" {
		return "", ErrNoListenAddress
	}

	// Extract port from client address (e.g., "collector.example.com:8080" -> ":8080").
	_, port, err := net.SplitHostPort(settings.EventLog.Address)
	if err != nil {
		return "", fmt.Errorf("invalid event log address format %q: %w", settings.EventLog.Address, err)
	}

	return ":" + port, nil
}
