package office

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/looplab/fsm"

	"github.com/oshokin/office-controller/internal/logger"
)

const (
	// IncidentRecipient receives the fallback e-mail when a fire alarm cannot be logged.
	IncidentRecipient = "smartbuilding@incidentresponse.co.uk"
	// FailedAlarmLogSubject is the subject of that fallback e-mail.
	FailedAlarmLogSubject = "failed to log alarm"
	// FireAlarmMessage is sent to the event log when the alarm is raised.
	FireAlarmMessage = "fire alarm"
)

var (
	errDoorsNotOpened = errors.New("doors did not open")
	errDoorsNotLocked = errors.New("doors did not lock")
)

// Controller is the state machine of one office.
//
// A Controller is not safe for concurrent use; hosts must serialize calls.
type Controller struct {
	// identity is the lowercase office identifier.
	identity string
	// machine holds the current mode and enforces the transition table.
	machine *fsm.FSM
	// prior is the normal mode held before the last fire alarm or drill.
	prior Mode
	// collaborators are the optional capabilities driven by transitions.
	collaborators Collaborators
	// recorder observes outcomes; never nil.
	recorder Recorder
	// logModeChanges enables event log entries for committed transitions.
	logModeChanges bool
}

// New creates a controller in out_of_hours mode without collaborators.
func New(identity string, opts ...Option) *Controller {
	return newController(identity, ModeOutOfHours, Collaborators{}, opts)
}

// NewWithMode creates a controller without collaborators starting in mode.
// The mode is trimmed and lowercased and must be open, closed or out_of_hours;
// anything else returns ErrInvalidInitialMode.
func NewWithMode(identity, mode string, opts ...Option) (*Controller, error) {
	initial, err := ParseInitialMode(mode)
	if err != nil {
		return nil, err
	}

	return newController(identity, initial, Collaborators{}, opts), nil
}

// NewWithCollaborators creates a controller in out_of_hours mode driving the
// given collaborators. Any of them may be nil.
func NewWithCollaborators(identity string, collaborators Collaborators, opts ...Option) *Controller {
	return newController(identity, ModeOutOfHours, collaborators, opts)
}

func newController(identity string, initial Mode, collaborators Collaborators, opts []Option) *Controller {
	c := &Controller{
		collaborators: collaborators,
		recorder:      nopRecorder{},
	}

	c.SetIdentity(identity)

	for _, opt := range opts {
		opt(c)
	}

	c.machine = fsm.NewFSM(
		initial.String(),
		transitionEvents(),
		fsm.Callbacks{
			"before_" + ModeOpen.String():      c.enterOpen,
			"before_" + ModeClosed.String():    c.enterClosed,
			"before_" + ModeFireAlarm.String(): c.enterFireAlarm,
			"before_" + ModeFireDrill.String(): c.enterFireDrill,
		},
	)

	return c
}

// transitionEvents compiles the transition table into one event per target
// mode, named after the target.
func transitionEvents() fsm.Events {
	events := make(fsm.Events, 0, len(transitions))

	for _, dst := range Modes() {
		sources := make([]string, 0, len(transitions[dst]))
		for _, src := range transitions[dst] {
			sources = append(sources, src.String())
		}

		events = append(events, fsm.EventDesc{
			Name: dst.String(),
			Src:  sources,
			Dst:  dst.String(),
		})
	}

	return events
}

// Identity returns the lowercase office identifier.
func (c *Controller) Identity() string {
	return c.identity
}

// SetIdentity replaces the office identifier, lowercasing it.
func (c *Controller) SetIdentity(identity string) {
	c.identity = strings.ToLower(identity)
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	mode, _ := ParseMode(c.machine.Current())

	return mode
}

// SetMode requests a change to the named mode and reports whether the office
// is now in it. Blank or unknown names, transitions missing from the table
// and failed mandatory door actions return false and leave the mode as it was.
// Repeating the current mode is allowed and re-runs its entry actions.
func (c *Controller) SetMode(ctx context.Context, requested string) bool {
	target, ok := ParseMode(requested)
	if !ok {
		logger.DebugKV(ctx, "Unknown mode requested", "office_id", c.identity, "requested", requested)

		return false
	}

	from := c.Mode()
	err := c.machine.Event(ctx, target.String())
	accepted := committed(err)

	c.recorder.ObserveTransition(from, target, accepted)

	if !accepted {
		logger.InfoKV(ctx, "Mode change rejected", "office_id", c.identity, "from", from, "to", target, "reason", err)

		return false
	}

	logger.InfoKV(ctx, "Mode changed", "office_id", c.identity, "from", from, "to", target)

	if c.logModeChanges {
		c.logModeChange(ctx, from, target)
	}

	return true
}

// committed tells whether the fsm ended in the requested mode.
// Self-transitions surface as NoTransitionError and count as success unless
// an entry action canceled them.
func committed(err error) bool {
	if err == nil {
		return true
	}

	var noTransition fsm.NoTransitionError

	return errors.As(err, &noTransition) && noTransition.Err == nil
}

// enterOpen opens all doors; a door failure cancels the transition.
func (c *Controller) enterOpen(ctx context.Context, e *fsm.Event) {
	doors := c.collaborators.Doors
	if doors == nil {
		return
	}

	if !doors.OpenAll(ctx) {
		e.Cancel(errDoorsNotOpened)
	}
}

// enterClosed locks all doors, then switches the lights off.
// Only the door failure cancels the transition.
func (c *Controller) enterClosed(ctx context.Context, e *fsm.Event) {
	if doors := c.collaborators.Doors; doors != nil && !doors.LockAll(ctx) {
		e.Cancel(errDoorsNotLocked)

		return
	}

	if lights := c.collaborators.Lights; lights != nil {
		lights.SetAll(ctx, false)
	}
}

// enterFireAlarm evacuates the building. Nothing here may cancel the
// transition: the alarm mode is entered even if every device fails.
func (c *Controller) enterFireAlarm(ctx context.Context, e *fsm.Event) {
	c.rememberPrior(e.Src)

	if doors := c.collaborators.Doors; doors != nil && !doors.OpenAll(ctx) {
		logger.WarnKV(ctx, "Doors did not all open for fire alarm", "office_id", c.identity)
	}

	if alarm := c.collaborators.FireAlarm; alarm != nil && !alarm.SetActive(ctx, true) {
		logger.WarnKV(ctx, "Fire alarm did not fully activate", "office_id", c.identity)
	}

	if lights := c.collaborators.Lights; lights != nil && !lights.SetAll(ctx, true) {
		logger.WarnKV(ctx, "Lights did not all switch on for fire alarm", "office_id", c.identity)
	}

	eventLog := c.collaborators.EventLog
	if eventLog == nil {
		return
	}

	if err := eventLog.LogFireAlarm(ctx, FireAlarmMessage); err != nil {
		logger.ErrorKV(ctx, "Failed to log fire alarm", "office_id", c.identity, "error", err)
		c.notifyIncident(ctx, err)
	}
}

func (c *Controller) enterFireDrill(_ context.Context, e *fsm.Event) {
	c.rememberPrior(e.Src)
}

// rememberPrior records src as the prior mode. Repeating an alarm or drill
// keeps the normal mode that preceded it.
func (c *Controller) rememberPrior(src string) {
	if mode, ok := ParseMode(src); ok && mode.IsNormal() {
		c.prior = mode
	}
}

// notifyIncident sends the fallback message carrying the logging error.
func (c *Controller) notifyIncident(ctx context.Context, cause error) {
	notifier := c.collaborators.Notifier
	if notifier == nil {
		logger.WarnKV(ctx, "No notifier configured, fire alarm log failure not escalated", "office_id", c.identity)

		return
	}

	c.recorder.ObserveFallbackNotification()

	if err := notifier.Send(ctx, IncidentRecipient, FailedAlarmLogSubject, cause.Error()); err != nil {
		logger.WarnKV(ctx, "Incident notification failed", "office_id", c.identity, "error", err)
	}
}

// logModeChange records a committed transition; failures are only logged.
func (c *Controller) logModeChange(ctx context.Context, from, to Mode) {
	eventLog := c.collaborators.EventLog
	if eventLog == nil {
		return
	}

	if err := eventLog.LogModeChange(ctx, fmt.Sprintf("%s -> %s", from, to)); err != nil {
		logger.WarnKV(ctx, "Failed to log mode change", "office_id", c.identity, "error", err)
	}
}
