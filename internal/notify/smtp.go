package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

// deliverFunc hands a composed message to the mail server.
type deliverFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPNotifier sends notifications as plain-text e-mail.
type SMTPNotifier struct {
	from    string
	deliver deliverFunc
	now     func() time.Time
}

var _ office.Notifier = (*SMTPNotifier)(nil)

var errRecipientRequired = errors.New("recipient must be provided")

// NewSMTPNotifier creates an SMTP notifier. STARTTLS is used when the server
// offers it, PLAIN auth when a username is configured.
func NewSMTPNotifier(settings config.SMTP) (*SMTPNotifier, error) {
	host, rawPort, err := net.SplitHostPort(settings.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp address: %w", err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp port %q: %w", rawPort, err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(config.DefaultTimeout),
	}

	if settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(settings.Username),
			mail.WithPassword(settings.Password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPNotifier{
		from: settings.From,
		deliver: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
		now: time.Now,
	}, nil
}

// Send delivers one message.
func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return errRecipientRequired
	}

	msg, err := n.compose(recipient, subject, body)
	if err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	if err = n.deliver(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}

	logger.InfoKV(ctx, "Notification mailed", "recipient", recipient, "subject", subject)

	return nil
}

// compose builds the message; addresses are validated and header values
// encoded by go-mail.
func (n *SMTPNotifier) compose(recipient, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", n.from, err)
	}

	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}

	msg.Subject(subject)
	msg.SetDateWithValue(n.now())
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}
