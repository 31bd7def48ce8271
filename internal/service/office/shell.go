package office

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/common/expfmt"

	"github.com/oshokin/office-controller/internal/logger"
)

const (
	shellPrompt = "office> "

	shellHelp = `commands:
  mode <name>                          request a mode change
  status                               print the status report
  identity <name>                      rename the office
  fault <doors|lights|fire_alarm> <unit> <on|off>
                                       mark a simulated unit faulty or healthy
  show                                 print office and mode
  metrics                              print controller metrics
  help                                 print this help
  quit                                 leave the shell`
)

var errUnknownBank = errors.New("unknown device bank")

// Shell runs a line-oriented session over one controller until quit, end of
// input or context cancellation.
func Shell(ctx context.Context, opts *Options, in io.Reader, out io.Writer) error {
	ctx = logger.WithName(ctx, "officectl-shell")

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close(ctx)

	return s.run(ctx, in, out)
}

func (s *session) run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := io.WriteString(out, shellPrompt); err != nil {
			return err
		}

		if !scanner.Scan() {
			_, _ = io.WriteString(out, "\n")

			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		quit, err := s.exec(ctx, fields, out)
		if err != nil {
			return err
		}

		if quit {
			return nil
		}
	}
}

// exec runs one command. Command mistakes are printed, only write
// failures are returned.
//
//nolint:cyclop // One case per shell command.
func (s *session) exec(ctx context.Context, fields []string, out io.Writer) (bool, error) {
	var (
		controller = s.facility.Controller
		command    = strings.ToLower(fields[0])
		args       = fields[1:]
		err        error
	)

	switch command {
	case "quit", "exit":
		return true, nil
	case "help":
		_, err = fmt.Fprintln(out, shellHelp)
	case "show":
		_, err = fmt.Fprintf(out, "office: %s\nmode: %s\n", controller.Identity(), controller.Mode())
	case "mode":
		if len(args) != 1 {
			_, err = fmt.Fprintln(out, "usage: mode <name>")

			break
		}

		accepted := controller.SetMode(ctx, args[0])
		_, err = fmt.Fprintf(out, "%s (mode: %s)\n", outcome(accepted), controller.Mode())
	case "status":
		report, reportErr := controller.StatusReport(ctx)
		if reportErr != nil {
			_, err = fmt.Fprintf(out, "error: %v\n", reportErr)

			break
		}

		_, err = fmt.Fprintln(out, report)
	case "identity":
		if len(args) != 1 {
			_, err = fmt.Fprintln(out, "usage: identity <name>")

			break
		}

		controller.SetIdentity(args[0])
		_, err = fmt.Fprintf(out, "office: %s\n", controller.Identity())
	case "fault":
		if faultErr := s.setFault(args); faultErr != nil {
			_, err = fmt.Fprintf(out, "error: %v\n", faultErr)

			break
		}

		_, err = fmt.Fprintln(out, "ok")
	case "metrics":
		err = s.writeMetrics(out)
	default:
		_, err = fmt.Fprintf(out, "unknown command %q, type help\n", command)
	}

	return false, err
}

func (s *session) setFault(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: fault <doors|lights|fire_alarm> <unit> <on|off>")
	}

	unit, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("unit %q: %w", args[1], err)
	}

	var isFaulty bool

	switch strings.ToLower(args[2]) {
	case "on":
		isFaulty = true
	case "off":
		isFaulty = false
	default:
		return fmt.Errorf("fault state %q: want on or off", args[2])
	}

	facility := s.facility

	switch strings.ToLower(args[0]) {
	case "doors":
		if facility.Doors != nil {
			return facility.Doors.SetFault(unit, isFaulty)
		}
	case "lights":
		if facility.Lights != nil {
			return facility.Lights.SetFault(unit, isFaulty)
		}
	case "fire_alarm":
		if facility.FireAlarm != nil {
			return facility.FireAlarm.SetFault(unit, isFaulty)
		}
	}

	return fmt.Errorf("%w: %q", errUnknownBank, args[0])
}

func (s *session) writeMetrics(out io.Writer) error {
	families, err := s.facility.Registry.Gather()
	if err != nil {
		_, err = fmt.Fprintf(out, "error: %v\n", err)

		return err
	}

	for _, family := range families {
		if _, err = expfmt.MetricFamilyToText(out, family); err != nil {
			return err
		}
	}

	return nil
}
