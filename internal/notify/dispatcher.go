package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Dispatcher broadcasts a committed order to every configured channel.
// Channels are isolated: each attempt gets its own timeout context, and one
// channel's failure never prevents or cancels another's attempt.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	logger   *logger.Logger
}

// NewDispatcher creates a dispatcher over the given channels. timeout
// bounds each individual channel attempt.
func NewDispatcher(channels []Channel, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		logger:   log,
	}
}

// Dispatch attempts delivery on every channel once, concurrently. Failures
// are logged per channel and returned keyed by channel name for callers
// that inspect outcomes; nothing is retried and nothing propagates back to
// the order flow.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *models.OrderNotification, requestID string) map[string]error {
	outcomes := make(map[string]error, len(d.channels))
	var mu sync.Mutex

	// No shared cancel context: a failed channel must not cancel the rest.
	var group errgroup.Group
	for _, channel := range d.channels {
		channel := channel
		group.Go(func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			err := d.attempt(attemptCtx, channel, msg, requestID)

			mu.Lock()
			outcomes[channel.Name()] = err
			mu.Unlock()
			return nil
		})
	}
	group.Wait()

	return outcomes
}

// Notify makes the dispatcher usable directly as the order service's
// notifier when no message broker is configured.
func (d *Dispatcher) Notify(ctx context.Context, msg *models.OrderNotification, requestID string) {
	d.Dispatch(ctx, msg, requestID)
}

// attempt runs one channel delivery, recovering from panics so a broken
// channel implementation stays inside its own failure domain.
func (d *Dispatcher) attempt(ctx context.Context, channel Channel, msg *models.OrderNotification, requestID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panicked: %v", r)
		}
		if err != nil {
			d.logger.Error("channel_delivery_failed",
				fmt.Sprintf("Channel %s failed for order %s", channel.Name(), msg.Number),
				requestID, err, map[string]interface{}{
					"channel":      channel.Name(),
					"order_number": msg.Number,
				})
			return
		}
		d.logger.Info("channel_delivered",
			fmt.Sprintf("Channel %s delivered order %s", channel.Name(), msg.Number),
			requestID, map[string]interface{}{
				"channel":      channel.Name(),
				"order_number": msg.Number,
			})
	}()

	return channel.Send(ctx, msg)
}
