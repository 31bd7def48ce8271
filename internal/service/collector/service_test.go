package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/office-controller/internal/eventlog"
)

var errTestAppend = errors.New("test append error")

// memoryStore is a minimal in-memory Store implementation for tests.
type memoryStore struct {
	// entries holds every appended entry.
	entries []eventlog.Entry
	// appendErr is returned from Append when set.
	appendErr error
}

func (m *memoryStore) Append(_ context.Context, entry eventlog.Entry) error {
	if m.appendErr != nil {
		return m.appendErr
	}

	m.entries = append(m.entries, entry)

	return nil
}

func (m *memoryStore) Load(context.Context) ([]eventlog.Entry, error) {
	return m.entries, nil
}

// countingRecorder counts entries by kind.
type countingRecorder map[string]int

func (c countingRecorder) ObserveEntry(kind string) { c[kind]++ }

// TestService_Record persists and counts entries.
func TestService_Record(t *testing.T) {
	t.Parallel()

	var (
		store   = new(memoryStore)
		counter = make(countingRecorder)
		s       = newService(store, counter)
		entry   = eventlog.Entry{
			Kind:      eventlog.KindEngineerRequired,
			Office:    "hq",
			Message:   "Doors,",
			Timestamp: time.Unix(100, 0),
		}
	)

	require.NoError(t, s.Record(context.Background(), entry))
	require.NoError(t, s.Record(context.Background(), eventlog.Entry{Kind: eventlog.KindModeChange, Office: "hq"}))

	require.Len(t, store.entries, 2)
	require.Equal(t, entry, store.entries[0])
	require.Equal(t, 1, counter["engineer_required"])
	require.Equal(t, 1, counter["mode_change"])
}

// TestService_RecordFailure does not count unpersisted entries.
func TestService_RecordFailure(t *testing.T) {
	t.Parallel()

	counter := make(countingRecorder)
	s := newService(&memoryStore{appendErr: errTestAppend}, counter)

	err := s.Record(context.Background(), eventlog.Entry{Kind: eventlog.KindFireAlarm, Office: "hq"})
	require.ErrorIs(t, err, errTestAppend)
	require.Empty(t, counter)

	// A nil counter is tolerated.
	require.NoError(t, newService(new(memoryStore), nil).Record(
		context.Background(),
		eventlog.Entry{Kind: eventlog.KindFireAlarm, Office: "hq"},
	))
}
