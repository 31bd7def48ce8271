package office

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/device"
	domain "github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/eventlog"
	"github.com/oshokin/office-controller/internal/logger"
	"github.com/oshokin/office-controller/internal/metrics"
	"github.com/oshokin/office-controller/internal/notify"
)

// Facility is a controller together with the collaborators it drives.
type Facility struct {
	// Controller is the mode state machine.
	Controller *domain.Controller
	// Doors is nil when the facility has no doors configured.
	Doors *device.Doors
	// Lights is nil when the facility has no lights configured.
	Lights *device.Lights
	// FireAlarm is nil when the facility has no sounders configured.
	FireAlarm *device.FireAlarm
	// Registry gathers the controller metrics.
	Registry *prometheus.Registry

	eventLog *eventlog.Client
}

// ErrInitialModeRejected is returned when the configured initial mode
// cannot be entered, e.g. because the doors failed.
var ErrInitialModeRejected = errors.New("initial mode rejected")

// Build wires a facility from validated settings and enters the configured
// initial mode.
//
//nolint:cyclop // One branch per optional collaborator.
func Build(ctx context.Context, cfg *config.Config) (*Facility, error) {
	var (
		facility = &Facility{
			Registry: prometheus.NewRegistry(),
		}
		collaborators domain.Collaborators
		err           error
	)

	if bank := cfg.Devices.Doors; bank.Count > 0 {
		if facility.Doors, err = device.NewDoors(bank.Count, bank.Faulty...); err != nil {
			return nil, fmt.Errorf("doors: %w", err)
		}

		collaborators.Doors = facility.Doors
	}

	if bank := cfg.Devices.Lights; bank.Count > 0 {
		if facility.Lights, err = device.NewLights(bank.Count, bank.Faulty...); err != nil {
			return nil, fmt.Errorf("lights: %w", err)
		}

		collaborators.Lights = facility.Lights
	}

	if bank := cfg.Devices.FireAlarm; bank.Count > 0 {
		if facility.FireAlarm, err = device.NewFireAlarm(bank.Count, bank.Faulty...); err != nil {
			return nil, fmt.Errorf("fire alarm: %w", err)
		}

		collaborators.FireAlarm = facility.FireAlarm
	}

	if collaborators.Notifier, err = notify.New(cfg.Notifier); err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	if cfg.EventLog.Address != "" {
		clientOpts := []eventlog.Option{eventlog.WithCallTimeout(cfg.EventLog.Timeout)}

		if actor, actorErr := eventlog.DetectActor(); actorErr != nil {
			logger.DebugKV(ctx, "Unable to detect actor", "error", actorErr)
		} else {
			clientOpts = append(clientOpts, eventlog.WithActor(actor))
		}

		facility.eventLog, err = eventlog.Dial(ctx, cfg.EventLog.Address, cfg.OfficeID, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("event log: %w", err)
		}

		collaborators.EventLog = facility.eventLog
	}

	opts := []domain.Option{domain.WithRecorder(metrics.NewRecorder(facility.Registry))}
	if cfg.EventLog.LogModeChanges {
		opts = append(opts, domain.WithModeChangeLog())
	}

	facility.Controller = domain.NewWithCollaborators(cfg.OfficeID, collaborators, opts...)

	if cfg.InitialMode != "" {
		initial, err := domain.ParseInitialMode(cfg.InitialMode)
		if err != nil {
			_ = facility.Close()

			return nil, err
		}

		if !facility.Controller.SetMode(ctx, initial.String()) {
			_ = facility.Close()

			return nil, fmt.Errorf("%w: %s", ErrInitialModeRejected, initial)
		}
	}

	logger.InfoKV(ctx, "Facility ready",
		"office_id", facility.Controller.Identity(),
		"mode", facility.Controller.Mode(),
		"event_log", cfg.EventLog.Address,
		"notifier", cfg.Notifier.Kind,
	)

	return facility, nil
}

// Close releases the event log connection.
func (f *Facility) Close() error {
	if f == nil || f.eventLog == nil {
		return nil
	}

	return f.eventLog.Close()
}
