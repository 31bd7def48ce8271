package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/office-controller/internal/domain/office"
)

// TestDoors_StatusAndBankActions covers status rendering and the all-or-nothing result.
func TestDoors_StatusAndBankActions(t *testing.T) {
	t.Parallel()

	doors, err := NewDoors(4, 2)
	require.NoError(t, err)
	require.Equal(t, "Doors,OK,OK,FAULT,OK,", doors.Status())

	require.False(t, doors.OpenAll(context.Background()))
	require.True(t, doors.IsOpen(0))
	require.False(t, doors.IsOpen(2))

	require.NoError(t, doors.SetFault(2, false))
	require.Equal(t, "Doors,OK,OK,OK,OK,", doors.Status())
	require.True(t, doors.OpenAll(context.Background()))
	require.True(t, doors.LockAll(context.Background()))
	require.False(t, doors.IsOpen(3))
}

// TestDoors_SingleUnit covers per-door commands including unknown and faulty units.
func TestDoors_SingleUnit(t *testing.T) {
	t.Parallel()

	doors, err := NewDoors(2, 1)
	require.NoError(t, err)

	require.True(t, doors.OpenDoor(context.Background(), 0))
	require.True(t, doors.IsOpen(0))
	require.True(t, doors.LockDoor(context.Background(), 0))
	require.False(t, doors.IsOpen(0))

	require.False(t, doors.OpenDoor(context.Background(), 1))
	require.False(t, doors.OpenDoor(context.Background(), 5))
	require.False(t, doors.LockDoor(context.Background(), -1))
	require.ErrorIs(t, doors.SetFault(9, true), ErrUnitOutOfRange)
	require.Equal(t, 2, doors.Len())
}

// TestNewBank_Validation rejects negative counts and out-of-range faulty units.
func TestNewBank_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewLights(-1)
	require.Error(t, err)

	_, err = NewFireAlarm(3, 3)
	require.ErrorIs(t, err, ErrUnitOutOfRange)

	empty, err := NewDoors(0)
	require.NoError(t, err)
	require.Equal(t, "Doors,", empty.Status())
}

// TestLights_Switching covers bank-wide and per-light switching.
func TestLights_Switching(t *testing.T) {
	t.Parallel()

	lights, err := NewLights(3)
	require.NoError(t, err)

	require.True(t, lights.SetAll(context.Background(), true))
	require.True(t, lights.IsOn(1))

	require.True(t, lights.SetLight(context.Background(), false, 1))
	require.False(t, lights.IsOn(1))
	require.True(t, lights.IsOn(2))

	require.NoError(t, lights.SetFault(0, true))
	require.Equal(t, "Lights,FAULT,OK,OK,", lights.Status())
	require.False(t, lights.SetAll(context.Background(), false))
	require.Equal(t, 3, lights.Len())
}

// TestFireAlarm_Activation verifies sounders follow SetActive.
func TestFireAlarm_Activation(t *testing.T) {
	t.Parallel()

	alarm, err := NewFireAlarm(2)
	require.NoError(t, err)
	require.False(t, alarm.Active())

	require.True(t, alarm.SetActive(context.Background(), true))
	require.True(t, alarm.Active())
	require.Equal(t, "FireAlarm,OK,OK,", alarm.Status())

	require.True(t, alarm.SetActive(context.Background(), false))
	require.False(t, alarm.Active())
}

// TestBanks_DriveController runs the controller against real banks end-to-end.
func TestBanks_DriveController(t *testing.T) {
	t.Parallel()

	doors, err := NewDoors(3)
	require.NoError(t, err)

	lights, err := NewLights(3, 1)
	require.NoError(t, err)

	alarm, err := NewFireAlarm(2)
	require.NoError(t, err)

	c := office.NewWithCollaborators("HQ", office.Collaborators{
		Doors:     doors,
		Lights:    lights,
		FireAlarm: alarm,
	})

	require.True(t, c.SetMode(context.Background(), "open"))
	require.True(t, doors.IsOpen(0))

	require.True(t, c.SetMode(context.Background(), "fire_alarm"))
	require.True(t, alarm.Active())
	require.True(t, lights.IsOn(0))

	require.True(t, c.SetMode(context.Background(), "closed"))
	require.False(t, doors.IsOpen(2))
	require.False(t, lights.IsOn(0))

	report, err := c.StatusReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Lights,OK,FAULT,OK,Doors,OK,OK,OK,FireAlarm,OK,OK,", report)

	require.NoError(t, doors.SetFault(1, true))
	require.False(t, c.SetMode(context.Background(), "closed"))
	require.Equal(t, office.ModeClosed, c.Mode())
}
