package eventlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFileStore_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileStore_NotFound(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "missing.jsonl"))

	entries, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, entries)
}

// TestFileStore_AppendLoad ensures entries come back in append order.
func TestFileStore_AppendLoad(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		file  = filepath.Join(t.TempDir(), "events.jsonl")
		store = NewFileStore(file)
		ts    = time.Now().UTC().Truncate(time.Second)
	)

	want := []Entry{
		{Kind: KindModeChange, Office: "hq", Message: "out_of_hours -> open", Timestamp: ts},
		{Kind: KindFireAlarm, Office: "hq", Message: "fire alarm", Timestamp: ts.Add(time.Minute)},
	}

	for _, entry := range want {
		require.NoError(t, store.Append(ctx, entry))
	}

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, file, store.Path())

	require.Error(t, store.Append(ctx, Entry{Kind: "bogus", Office: "hq"}))
}

// TestFileStore_CorruptLine reports the failing line.
func TestFileStore_CorruptLine(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(file, []byte("{\"kind\":\"fire_alarm\",\"office\":\"hq\"}\n\nnot json\n"), 0o600))

	_, err := NewFileStore(file).Load(context.Background())
	require.ErrorContains(t, err, "line 3")
}
