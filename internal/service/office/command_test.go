package office

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/lock"
	"github.com/oshokin/office-controller/internal/logger"
)

// writeConfig saves settings into a temporary file and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "office-settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// TestApply prints each outcome and the final mode.
func TestApply(t *testing.T) {
	t.Parallel()

	opts := &Options{ConfigPath: writeConfig(t, testConfig(t))}

	var out bytes.Buffer

	modes := []string{"open", "closed", "fire_drill", "closed", "open", "out_of_hours", "closed", "bogus"}

	err := Apply(context.Background(), opts, modes, &out)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"open: accepted",
		"closed: rejected",
		"fire_drill: accepted",
		// A drill can only be left for open.
		"closed: rejected",
		"open: accepted",
		"out_of_hours: accepted",
		"closed: accepted",
		"bogus: rejected",
		"mode: closed",
		"",
	}, "\n"), out.String())
}

// TestApply_OfficeOverride uses the override for identity and lock.
func TestApply_OfficeOverride(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	opts := &Options{ConfigPath: writeConfig(t, cfg), OfficeID: "Annex"}

	held, err := lock.Acquire(cfg.LockDir, "annex")
	require.NoError(t, err)

	var out bytes.Buffer

	err = Apply(context.Background(), opts, []string{"open"}, &out)
	require.ErrorIs(t, err, lock.ErrLocked)
	require.Empty(t, out.String())

	require.NoError(t, held.Release())

	require.NoError(t, Apply(context.Background(), opts, []string{"open"}, &out))
	require.Contains(t, out.String(), "mode: open")
}

// TestReport prints the concatenated statuses.
func TestReport(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Devices.Lights.Faulty = []int{2}

	var out bytes.Buffer

	require.NoError(t, Report(context.Background(), &Options{ConfigPath: writeConfig(t, cfg)}, &out))
	require.Equal(t, "Lights,OK,OK,FAULT,Doors,OK,OK,FireAlarm,OK,\n", out.String())
}

// TestCommands_MissingConfig surfaces load errors.
func TestCommands_MissingConfig(t *testing.T) {
	t.Parallel()

	opts := &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}

	require.Error(t, Apply(context.Background(), opts, nil, new(bytes.Buffer)))
	require.Error(t, Report(context.Background(), opts, new(bytes.Buffer)))
	require.Error(t, Shell(context.Background(), opts, strings.NewReader(""), new(bytes.Buffer)))
}

// TestApply_LogsOfficeIDOnce checks no log entry repeats the office field.
func TestApply_LogsOfficeIDOnce(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	opts := &Options{ConfigPath: writeConfig(t, testConfig(t))}
	require.NoError(t, Apply(ctx, opts, []string{"open", "bogus"}, new(bytes.Buffer)))

	ready := logs.FilterMessage("Facility ready").All()
	require.Len(t, ready, 1)
	require.Equal(t, "hq", ready[0].ContextMap()["office_id"])

	for _, entry := range logs.All() {
		count := 0

		for _, field := range entry.Context {
			if field.Key == "office_id" {
				count++
			}
		}

		require.LessOrEqual(t, count, 1, entry.Message)
	}
}
