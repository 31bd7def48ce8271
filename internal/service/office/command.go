package office

import (
	"context"
	"fmt"
	"io"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/lock"
	"github.com/oshokin/office-controller/internal/logger"
)

// Options configures the officectl commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// OfficeID overrides office_id from the settings when specified.
	OfficeID string
	// LogLevel overrides log_level from the settings when specified.
	LogLevel string
}

// session is a loaded, locked and built facility.
type session struct {
	cfg      *config.Config
	facility *Facility
	lock     *lock.Lock
}

func openSession(ctx context.Context, opts *Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.OfficeID != "" {
		cfg.OfficeID = opts.OfficeID
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	if err = logger.SetLevelFromString(level); err != nil {
		return nil, err
	}

	facilityLock, err := lock.Acquire(cfg.LockDir, cfg.OfficeID)
	if err != nil {
		return nil, err
	}

	facility, err := Build(ctx, cfg)
	if err != nil {
		_ = facilityLock.Release()

		return nil, err
	}

	return &session{
		cfg:      cfg,
		facility: facility,
		lock:     facilityLock,
	}, nil
}

func (s *session) close(ctx context.Context) {
	if err := s.facility.Close(); err != nil {
		logger.WarnKV(ctx, "Failed to close event log", "error", err)
	}

	if err := s.lock.Release(); err != nil {
		logger.WarnKV(ctx, "Failed to release facility lock", "error", err)
	}
}

// Apply requests each mode in order and prints the outcome of every request
// followed by the final mode.
func Apply(ctx context.Context, opts *Options, modes []string, out io.Writer) error {
	ctx = logger.WithName(ctx, "officectl-apply")

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close(ctx)

	controller := s.facility.Controller

	for _, mode := range modes {
		if _, err = fmt.Fprintf(out, "%s: %s\n", mode, outcome(controller.SetMode(ctx, mode))); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "mode: %s\n", controller.Mode())

	return err
}

// Report prints the status report of the facility.
func Report(ctx context.Context, opts *Options, out io.Writer) error {
	ctx = logger.WithName(ctx, "officectl-report")

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close(ctx)

	report, err := s.facility.Controller.StatusReport(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, report)

	return err
}

func outcome(accepted bool) string {
	if accepted {
		return "accepted"
	}

	return "rejected"
}
