package office

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runShell(t *testing.T, script ...string) string {
	t.Helper()

	var (
		opts = &Options{ConfigPath: writeConfig(t, testConfig(t))}
		in   = strings.NewReader(strings.Join(script, "\n") + "\n")
		out  bytes.Buffer
	)

	require.NoError(t, Shell(context.Background(), opts, in, &out))

	return out.String()
}

// TestShell_Session drives the controller through a scripted session.
func TestShell_Session(t *testing.T) {
	t.Parallel()

	out := runShell(t,
		"show",
		"mode open",
		"",
		"MODE closed",
		"fault doors 1 on",
		"status",
		"fault doors 1 off",
		"mode fire_alarm",
		"mode open",
		"identity Annex",
		"show",
		"quit",
		"mode closed",
	)

	require.Contains(t, out, "office: hq\nmode: out_of_hours\n")
	require.Contains(t, out, "accepted (mode: open)\n")
	require.Contains(t, out, "rejected (mode: open)\n")
	require.Contains(t, out, "ok\n")
	require.Contains(t, out, "Lights,OK,OK,OK,Doors,OK,FAULT,FireAlarm,OK,\n")
	require.Contains(t, out, "accepted (mode: fire_alarm)\n")
	require.Contains(t, out, "office: annex\nmode: open\n")
	require.NotContains(t, out, "(mode: closed)")
}

// TestShell_Mistakes prints usage without ending the session.
func TestShell_Mistakes(t *testing.T) {
	t.Parallel()

	out := runShell(t,
		"mode",
		"identity",
		"fault sprinklers 0 on",
		"fault doors x on",
		"fault doors 0 maybe",
		"fault doors 9 on",
		"dance",
		"help",
	)

	require.Contains(t, out, "usage: mode <name>")
	require.Contains(t, out, "usage: identity <name>")
	require.Contains(t, out, `error: unknown device bank: "sprinklers"`)
	require.Contains(t, out, `error: unit "x"`)
	require.Contains(t, out, `fault state "maybe"`)
	require.Contains(t, out, `unknown command "dance", type help`)
	require.Contains(t, out, "commands:")
	require.Equal(t, 4, strings.Count(out, "error:"))
}

// TestShell_Metrics prints the controller counters.
func TestShell_Metrics(t *testing.T) {
	t.Parallel()

	out := runShell(t, "mode open", "mode closed", "metrics")

	require.Contains(t, out, `office_controller_transitions_total{from="out_of_hours",result="accepted",to="open"} 1`)
	require.Contains(t, out, `office_controller_transitions_total{from="open",result="rejected",to="closed"} 1`)
	require.Contains(t, out, "office_controller_fallback_notifications_total 0")
}

// TestShell_Canceled stops before reading input.
func TestShell_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := &Options{ConfigPath: writeConfig(t, testConfig(t))}

	err := Shell(ctx, opts, strings.NewReader("mode open\n"), new(bytes.Buffer))
	require.ErrorIs(t, err, context.Canceled)
}
