package office

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/office-controller/internal/logger"
)

// Subsystem labels used in fault lists and status texts.
const (
	SubsystemLights    = "Lights"
	SubsystemDoors     = "Doors"
	SubsystemFireAlarm = "FireAlarm"
)

// FaultMarker marks a failed unit inside a status text.
const FaultMarker = "FAULT"

// ErrMissingDependency is returned when a status report is requested without
// light, door or fire alarm control.
var ErrMissingDependency = errors.New("missing dependency")

// StatusReport returns the light, door and fire alarm status texts
// concatenated in that order. When any of them reports a fault, the faulty
// subsystems are sent to the event log as an engineer request, e.g.
// "Lights,FireAlarm,Doors,".
//
// Faults found without an event log are only logged locally.
func (c *Controller) StatusReport(ctx context.Context) (string, error) {
	var (
		lights = c.collaborators.Lights
		doors  = c.collaborators.Doors
		alarm  = c.collaborators.FireAlarm
	)

	switch {
	case lights == nil:
		return "", fmt.Errorf("%w: light control", ErrMissingDependency)
	case doors == nil:
		return "", fmt.Errorf("%w: door control", ErrMissingDependency)
	case alarm == nil:
		return "", fmt.Errorf("%w: fire alarm control", ErrMissingDependency)
	}

	var (
		lightStatus = lights.Status()
		doorStatus  = doors.Status()
		alarmStatus = alarm.Status()
		report      = lightStatus + doorStatus + alarmStatus
	)

	var faults []string

	for _, s := range []struct {
		label  string
		status string
	}{
		{SubsystemLights, lightStatus},
		{SubsystemFireAlarm, alarmStatus},
		{SubsystemDoors, doorStatus},
	} {
		if s.status != "" && strings.Contains(s.status, FaultMarker) {
			faults = append(faults, s.label)
		}
	}

	if len(faults) == 0 {
		return report, nil
	}

	c.recorder.ObserveFaults(faults)

	eventLog := c.collaborators.EventLog
	if eventLog == nil {
		logger.WarnKV(ctx, "Faults detected but no event log is configured", "office_id", c.identity, "faults", faults)

		return report, nil
	}

	if err := eventLog.LogEngineerRequired(ctx, strings.Join(faults, ",")+","); err != nil {
		return "", fmt.Errorf("log engineer required: %w", err)
	}

	return report, nil
}
