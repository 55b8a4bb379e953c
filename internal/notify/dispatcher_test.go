package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableside/internal/logger"
	"tableside/internal/models"
)

type fakeChannel struct {
	name   string
	err    error
	delay  time.Duration
	panics bool
	calls  int
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Send(ctx context.Context, msg *models.OrderNotification) error {
	c.calls++
	if c.panics {
		panic("broken channel")
	}
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.err
}

func testNotification() *models.OrderNotification {
	return &models.OrderNotification{
		OrderID:    1,
		Number:     "TBL_20260901_001",
		TableLabel: "A1",
		Headcount:  2,
		Subtotal:   360,
		Fee:        18,
		Total:      378,
		CreatedAt:  time.Now().UTC(),
		Lines:      []models.NotificationLine{{Description: "紅燒牛肉麵 x2", Quantity: 2, Amount: 360}},
	}
}

func TestDispatch_FailureIsolation(t *testing.T) {
	failing := &fakeChannel{name: "push", err: errors.New("push rejected")}
	healthy := &fakeChannel{name: "sheet"}

	d := NewDispatcher([]Channel{failing, healthy}, time.Second, logger.New("test"))
	outcomes := d.Dispatch(context.Background(), testNotification(), "req-1")

	require.Equal(t, 1, failing.calls)
	require.Equal(t, 1, healthy.calls, "a failing channel must not prevent the next channel")
	require.Error(t, outcomes["push"])
	require.NoError(t, outcomes["sheet"])
}

func TestDispatch_PanicStaysInChannel(t *testing.T) {
	broken := &fakeChannel{name: "push", panics: true}
	healthy := &fakeChannel{name: "sheet"}

	d := NewDispatcher([]Channel{broken, healthy}, time.Second, logger.New("test"))
	outcomes := d.Dispatch(context.Background(), testNotification(), "req-2")

	require.Error(t, outcomes["push"])
	require.NoError(t, outcomes["sheet"])
	require.Equal(t, 1, healthy.calls)
}

func TestDispatch_SlowChannelTimesOutAlone(t *testing.T) {
	slow := &fakeChannel{name: "push", delay: 500 * time.Millisecond}
	fast := &fakeChannel{name: "sheet"}

	d := NewDispatcher([]Channel{slow, fast}, 50*time.Millisecond, logger.New("test"))

	start := time.Now()
	outcomes := d.Dispatch(context.Background(), testNotification(), "req-3")

	require.Less(t, time.Since(start), 400*time.Millisecond, "one slow channel must not stall the dispatch")
	require.ErrorIs(t, outcomes["push"], context.DeadlineExceeded)
	require.NoError(t, outcomes["sheet"])
}

func TestDispatch_NoChannelsIsNoop(t *testing.T) {
	d := NewDispatcher(nil, time.Second, logger.New("test"))
	outcomes := d.Dispatch(context.Background(), testNotification(), "req-4")
	require.Empty(t, outcomes)
}
