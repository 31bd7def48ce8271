package office

import "context"

// DoorControl drives every door of the facility.
type DoorControl interface {
	// Status returns the door status text, e.g. "Doors,OK,FAULT,".
	Status() string
	// OpenAll opens every door and reports whether all of them opened.
	OpenAll(ctx context.Context) bool
	// LockAll locks every door and reports whether all of them locked.
	LockAll(ctx context.Context) bool
}

// LightControl switches the facility lighting.
type LightControl interface {
	// Status returns the light status text, e.g. "Lights,OK,OK,".
	Status() string
	// SetAll switches every light on or off and reports whether all of them
	// followed.
	SetAll(ctx context.Context, on bool) bool
}

// FireAlarmControl drives the fire alarm sounders.
type FireAlarmControl interface {
	// Status returns the fire alarm status text, e.g. "FireAlarm,OK,".
	Status() string
	// SetActive sounds or silences every sounder and reports whether all of
	// them followed.
	SetActive(ctx context.Context, on bool) bool
}

// EventLog records facility events with an external log service.
// Any call may fail, e.g. when the service is unreachable.
type EventLog interface {
	LogModeChange(ctx context.Context, message string) error
	LogEngineerRequired(ctx context.Context, message string) error
	LogFireAlarm(ctx context.Context, message string) error
}

// Notifier delivers out-of-band messages to people, typically by e-mail.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Collaborators is the set of capabilities a Controller may use.
// A nil field means the capability is absent. Do not store typed nil
// pointers in these fields: a non-nil interface holding a nil pointer
// counts as present.
type Collaborators struct {
	Doors     DoorControl
	Lights    LightControl
	FireAlarm FireAlarmControl
	EventLog  EventLog
	Notifier  Notifier
}

// Recorder observes controller outcomes, e.g. for metrics.
type Recorder interface {
	// ObserveTransition is called for every parsed mode request.
	ObserveTransition(from, to Mode, accepted bool)
	// ObserveFaults is called with the fault labels of a status report.
	ObserveFaults(subsystems []string)
	// ObserveFallbackNotification is called when an alarm log failure is
	// escalated to the notifier.
	ObserveFallbackNotification()
}

// nopRecorder discards every observation.
type nopRecorder struct{}

func (nopRecorder) ObserveTransition(Mode, Mode, bool) {}

func (nopRecorder) ObserveFaults([]string) {}

func (nopRecorder) ObserveFallbackNotification() {}

// Option configures optional controller behavior.
type Option func(*Controller)

// WithRecorder attaches r to the controller. A nil r is ignored.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithModeChangeLog makes the controller report every committed transition
// to the event log as "<from> -> <to>". Failures are logged and ignored.
func WithModeChangeLog() Option {
	return func(c *Controller) {
		c.logModeChanges = true
	}
}
