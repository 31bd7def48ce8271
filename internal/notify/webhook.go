package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/goccy/go-json"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

// WebhookNotifier posts notifications as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	url             string
	client          *http.Client
	maxRetries      uint64
	initialInterval time.Duration
}

var _ office.Notifier = (*WebhookNotifier)(nil)

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(n *WebhookNotifier) {
		if client != nil {
			n.client = client
		}
	}
}

// WithInitialInterval sets the first retry delay.
func WithInitialInterval(interval time.Duration) WebhookOption {
	return func(n *WebhookNotifier) {
		if interval > 0 {
			n.initialInterval = interval
		}
	}
}

// webhookPayload is the JSON body of a webhook call.
type webhookPayload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

var errUnexpectedStatus = errors.New("unexpected webhook status")

const defaultInitialInterval = 500 * time.Millisecond

// NewWebhookNotifier creates a webhook notifier.
func NewWebhookNotifier(settings config.Webhook, opts ...WebhookOption) (*WebhookNotifier, error) {
	if _, err := url.ParseRequestURI(settings.URL); err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}

	n := &WebhookNotifier{
		url:             settings.URL,
		client:          &http.Client{Timeout: config.DefaultTimeout},
		maxRetries:      settings.MaxRetries,
		initialInterval: defaultInitialInterval,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Send posts the notification, retrying transport errors and non-2xx
// responses. 4xx responses other than 429 are not retried.
func (n *WebhookNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	payload, err := json.Marshal(webhookPayload{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++

		err := n.post(ctx, payload)
		if err != nil {
			logger.DebugKV(ctx, "Webhook attempt failed", "attempt", attempt, "error", err)
		}

		return err
	}

	if err = backoff.Retry(operation, n.backOff(ctx)); err != nil {
		return fmt.Errorf("deliver webhook after %d attempts: %w", attempt, err)
	}

	logger.InfoKV(ctx, "Notification posted", "recipient", recipient, "attempts", attempt)

	return nil
}

func (n *WebhookNotifier) backOff(ctx context.Context) backoff.BackOff {
	// WithMaxRetries treats zero as unlimited.
	if n.maxRetries == 0 {
		return backoff.WithContext(new(backoff.StopBackOff), ctx)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = n.initialInterval
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, n.maxRetries), ctx)
}

func (n *WebhookNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build webhook request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		return fmt.Errorf("post webhook: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	err = fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest &&
		resp.StatusCode < http.StatusInternalServerError &&
		resp.StatusCode != http.StatusTooManyRequests {
		return backoff.Permanent(err)
	}

	return err
}
