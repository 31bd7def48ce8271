package office

import (
	"context"
	"errors"
)

var errLogUnavailable = errors.New("event log service unavailable")

// fakeDoors records door commands and answers with preset results.
type fakeDoors struct {
	// status is returned by Status.
	status string
	// openResult and lockResult are returned by OpenAll and LockAll.
	openResult bool
	lockResult bool
	// calls lists the commands received, in order.
	calls []string
}

func (f *fakeDoors) Status() string { return f.status }

func (f *fakeDoors) OpenAll(context.Context) bool {
	f.calls = append(f.calls, "open")

	return f.openResult
}

func (f *fakeDoors) LockAll(context.Context) bool {
	f.calls = append(f.calls, "lock")

	return f.lockResult
}

// fakeLights records every SetAll argument.
type fakeLights struct {
	status string
	calls  []bool
}

func (f *fakeLights) Status() string { return f.status }

func (f *fakeLights) SetAll(_ context.Context, on bool) bool {
	f.calls = append(f.calls, on)

	return true
}

// fakeAlarm records every SetActive argument.
type fakeAlarm struct {
	status string
	calls  []bool
}

func (f *fakeAlarm) Status() string { return f.status }

func (f *fakeAlarm) SetActive(_ context.Context, on bool) bool {
	f.calls = append(f.calls, on)

	return true
}

// fakeEventLog keeps logged messages per channel and can fail on demand.
type fakeEventLog struct {
	modeChanges   []string
	engineer      []string
	fireAlarms    []string
	fireAlarmErr  error
	engineerErr   error
	modeChangeErr error
}

func (f *fakeEventLog) LogModeChange(_ context.Context, message string) error {
	f.modeChanges = append(f.modeChanges, message)

	return f.modeChangeErr
}

func (f *fakeEventLog) LogEngineerRequired(_ context.Context, message string) error {
	f.engineer = append(f.engineer, message)

	return f.engineerErr
}

func (f *fakeEventLog) LogFireAlarm(_ context.Context, message string) error {
	f.fireAlarms = append(f.fireAlarms, message)

	return f.fireAlarmErr
}

// notification is one captured Notifier.Send call.
type notification struct {
	recipient string
	subject   string
	body      string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, recipient, subject, body string) error {
	f.sent = append(f.sent, notification{recipient: recipient, subject: subject, body: body})

	return f.err
}

// transition is one captured Recorder.ObserveTransition call.
type transition struct {
	from, to Mode
	accepted bool
}

type fakeRecorder struct {
	transitions []transition
	faults      [][]string
	fallbacks   int
}

func (f *fakeRecorder) ObserveTransition(from, to Mode, accepted bool) {
	f.transitions = append(f.transitions, transition{from: from, to: to, accepted: accepted})
}

func (f *fakeRecorder) ObserveFaults(subsystems []string) {
	f.faults = append(f.faults, subsystems)
}

func (f *fakeRecorder) ObserveFallbackNotification() { f.fallbacks++ }
