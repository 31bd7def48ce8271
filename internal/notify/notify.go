package notify

import (
	"context"
	"fmt"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

// New builds the notifier selected by settings.Kind.
// settings must already be validated by config.Validate.
func New(settings config.Notifier) (office.Notifier, error) {
	switch settings.Kind {
	case "", config.NotifierLog:
		return NewLogNotifier(), nil
	case config.NotifierSMTP:
		n, err := NewSMTPNotifier(settings.SMTP)
		if err != nil {
			return nil, err
		}

		return n, nil
	case config.NotifierWebhook:
		n, err := NewWebhookNotifier(settings.Webhook)
		if err != nil {
			return nil, err
		}

		return n, nil
	default:
		return nil, fmt.Errorf("unsupported notifier kind %q", settings.Kind)
	}
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

var _ office.Notifier = LogNotifier{}

// NewLogNotifier returns a notifier that only logs.
func NewLogNotifier() LogNotifier {
	return LogNotifier{}
}

// Send logs the notification at warn level.
func (LogNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	logger.WarnKV(ctx, "Incident notification",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)

	return nil
}
