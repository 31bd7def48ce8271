package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDial_Validates verifies that Dial rejects empty addresses and facilities.
func TestDial_Validates(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "", "hq")
	require.ErrorIs(t, err, errAddressRequired)
	require.Nil(t, c)

	c, err = Dial(context.Background(), "127.0.0.1:1", " ")
	require.ErrorIs(t, err, errFacilityRequired)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_Close tolerates a nil client.
func TestClient_Close(t *testing.T) {
	t.Parallel()

	var c *Client

	require.NoError(t, c.Close())
}
