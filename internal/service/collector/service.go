package collector

import (
	"context"
	"fmt"

	"github.com/oshokin/office-controller/internal/eventlog"
	"github.com/oshokin/office-controller/internal/logger"
)

// entryCounter counts received entries by kind.
type entryCounter interface {
	ObserveEntry(kind string)
}

// service stores and logs received entries.
type service struct {
	// store persists entries.
	store eventlog.Store
	// counter tracks received entries.
	counter entryCounter
}

var _ eventlog.Service = (*service)(nil)

func newService(store eventlog.Store, counter entryCounter) *service {
	return &service{
		store:   store,
		counter: counter,
	}
}

// Record appends the entry and logs it. Engineer requests and fire alarms
// are logged at warn level.
func (s *service) Record(ctx context.Context, entry eventlog.Entry) error {
	if err := s.store.Append(ctx, entry); err != nil {
		logger.ErrorKV(ctx, "Failed to persist event", "office_id", entry.Office, "kind", entry.Kind, "error", err)

		return fmt.Errorf("persist entry: %w", err)
	}

	if s.counter != nil {
		s.counter.ObserveEntry(string(entry.Kind))
	}

	kvs := []any{
		"office_id", entry.Office,
		"kind", entry.Kind,
		"message", entry.Message,
		"timestamp", entry.Timestamp,
		"actor", entry.Actor.String(),
	}

	switch entry.Kind {
	case eventlog.KindEngineerRequired, eventlog.KindFireAlarm:
		logger.WarnKV(ctx, "Facility event recorded", kvs...)
	default:
		logger.InfoKV(ctx, "Facility event recorded", kvs...)
	}

	return nil
}
