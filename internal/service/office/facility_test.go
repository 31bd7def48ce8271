package office

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/office-controller/internal/config"
	domain "github.com/oshokin/office-controller/internal/domain/office"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		OfficeID: "HQ",
		LockDir:  t.TempDir(),
		Devices: config.Devices{
			Doors:     config.Bank{Count: 2},
			Lights:    config.Bank{Count: 3},
			FireAlarm: config.Bank{Count: 1},
		},
	}
	require.NoError(t, config.Validate(cfg))

	return cfg
}

// TestBuild_InitialMode enters the configured mode with its side effects.
func TestBuild_InitialMode(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.InitialMode = "Open"

	f, err := Build(context.Background(), cfg)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, f.Close())
	}()

	require.Equal(t, "hq", f.Controller.Identity())
	require.Equal(t, domain.ModeOpen, f.Controller.Mode())
	require.True(t, f.Doors.IsOpen(0))
	require.True(t, f.Doors.IsOpen(1))
}

// TestBuild_DefaultMode starts out of hours without touching devices.
func TestBuild_DefaultMode(t *testing.T) {
	t.Parallel()

	f, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	require.Equal(t, domain.ModeOutOfHours, f.Controller.Mode())
	require.False(t, f.Doors.IsOpen(0))
	require.Nil(t, f.eventLog)

	report, err := f.Controller.StatusReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Lights,OK,OK,OK,Doors,OK,OK,FireAlarm,OK,", report)
}

// TestBuild_InitialModeRejected fails when the doors cannot lock.
func TestBuild_InitialModeRejected(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.InitialMode = "closed"
	cfg.Devices.Doors.Faulty = []int{1}

	_, err := Build(context.Background(), cfg)
	require.ErrorIs(t, err, ErrInitialModeRejected)

	cfg.InitialMode = "fire_drill"

	_, err = Build(context.Background(), cfg)
	require.ErrorIs(t, err, domain.ErrInvalidInitialMode)
}

// TestBuild_NoDevices leaves absent banks nil.
func TestBuild_NoDevices(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{OfficeID: "annex"}
	require.NoError(t, config.Validate(cfg))

	f, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, f.Doors)
	require.Nil(t, f.Lights)
	require.Nil(t, f.FireAlarm)

	// Without doors every table transition succeeds.
	require.True(t, f.Controller.SetMode(context.Background(), "closed"))

	_, err = f.Controller.StatusReport(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingDependency)
}
