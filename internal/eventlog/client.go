package eventlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/oshokin/office-controller/internal/config"
	"github.com/oshokin/office-controller/internal/domain/office"
)

// Client sends facility events to a remote collector.
// It satisfies office.EventLog.
type Client struct {
	// conn is the underlying gRPC connection to the collector.
	conn *grpc.ClientConn
	// facility is stamped on every entry.
	facility string
	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// now returns entry timestamps.
	now func() time.Time
	// actor is stamped on entries that carry none.
	actor *Actor
}

var _ office.EventLog = (*Client)(nil)

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithClock overrides the source of entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithActor stamps entries with the host and user running the controller.
func WithActor(actor *Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	errAddressRequired  = errors.New("address must be provided")
	errFacilityRequired = errors.New("facility must be provided")
)

// Dial prepares a gRPC connection to the collector at address.
// The connection is established lazily on the first call and uses insecure
// transport credentials.
func Dial(_ context.Context, address, facility string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	facility = strings.ToLower(strings.TrimSpace(facility))
	if facility == "" {
		return nil, errFacilityRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial event log: %w", err)
	}

	client := &Client{
		conn:        conn,
		facility:    facility,
		callTimeout: config.DefaultTimeout,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// LogModeChange records a committed transition.
func (c *Client) LogModeChange(ctx context.Context, message string) error {
	return c.record(ctx, KindModeChange, message)
}

// LogEngineerRequired records the faulty subsystems found by a status report.
func (c *Client) LogEngineerRequired(ctx context.Context, message string) error {
	return c.record(ctx, KindEngineerRequired, message)
}

// LogFireAlarm records a fire alarm activation.
func (c *Client) LogFireAlarm(ctx context.Context, message string) error {
	return c.record(ctx, KindFireAlarm, message)
}

// Record sends an arbitrary entry; a zero timestamp is filled in.
func (c *Client) Record(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = c.now()
	}

	if entry.Office == "" {
		entry.Office = c.facility
	}

	if entry.Actor == nil {
		entry.Actor = c.actor
	}

	in, err := entry.ToStruct()
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err = c.conn.Invoke(callCtx, recordFullMethod, in, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("record %s: %w", entry.Kind, err)
	}

	return nil
}

func (c *Client) record(ctx context.Context, kind Kind, message string) error {
	return c.Record(ctx, Entry{
		Kind:    kind,
		Message: message,
	})
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
