package office

import (
	"errors"
	"strings"
)

// Mode is one of the canonical facility modes.
type Mode uint8

const (
	// ModeUnknown is the zero value; it is never the mode of a Controller.
	ModeUnknown Mode = iota
	// ModeOpen means doors are open for business.
	ModeOpen
	// ModeClosed means doors are locked and lights are off.
	ModeClosed
	// ModeOutOfHours is the default mode outside business hours.
	ModeOutOfHours
	// ModeFireAlarm means a real alarm is in progress.
	ModeFireAlarm
	// ModeFireDrill means an evacuation exercise is in progress.
	ModeFireDrill
)

// ErrInvalidInitialMode is returned when a controller is created with a
// starting mode other than open, closed or out_of_hours.
var ErrInvalidInitialMode = errors.New("invalid initial mode: must be one of open, closed, out_of_hours")

//nolint:gochecknoglobals // Lookup table for the closed set of mode names.
var modeNames = map[Mode]string{
	ModeOpen:       "open",
	ModeClosed:     "closed",
	ModeOutOfHours: "out_of_hours",
	ModeFireAlarm:  "fire_alarm",
	ModeFireDrill:  "fire_drill",
}

// transitions maps a target mode to the modes it may be entered from.
// Every target lists itself, so repeating the current mode is always legal.
//
//nolint:gochecknoglobals // The legality table is fixed.
var transitions = map[Mode][]Mode{
	ModeOpen:       {ModeOutOfHours, ModeOpen, ModeFireAlarm, ModeFireDrill},
	ModeOutOfHours: {ModeOpen, ModeClosed, ModeFireAlarm, ModeOutOfHours},
	ModeClosed:     {ModeClosed, ModeOutOfHours, ModeFireAlarm},
	ModeFireAlarm:  {ModeOpen, ModeClosed, ModeOutOfHours, ModeFireAlarm},
	ModeFireDrill:  {ModeOpen, ModeClosed, ModeFireDrill, ModeOutOfHours},
}

// Modes returns the canonical modes in declaration order.
func Modes() []Mode {
	return []Mode{ModeOpen, ModeClosed, ModeOutOfHours, ModeFireAlarm, ModeFireDrill}
}

// String returns the canonical name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}

	return "unknown"
}

// IsNormal reports whether m is one of the modes a facility can rest in
// outside an emergency: open, closed or out_of_hours.
func (m Mode) IsNormal() bool {
	return m == ModeOpen || m == ModeClosed || m == ModeOutOfHours
}

// CanTransition reports whether the table allows moving from src to dst.
func CanTransition(src, dst Mode) bool {
	for _, allowed := range transitions[dst] {
		if allowed == src {
			return true
		}
	}

	return false
}

// ParseMode normalizes s (trim, lowercase) and returns the matching mode.
func ParseMode(s string) (Mode, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return ModeUnknown, false
	}

	for mode, name := range modeNames {
		if name == normalized {
			return mode, true
		}
	}

	return ModeUnknown, false
}

// ParseInitialMode parses a starting mode. Only normal modes are accepted.
func ParseInitialMode(s string) (Mode, error) {
	mode, ok := ParseMode(s)
	if !ok || !mode.IsNormal() {
		return ModeUnknown, ErrInvalidInitialMode
	}

	return mode, nil
}
