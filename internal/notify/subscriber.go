package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"tableside/internal/logger"
	"tableside/internal/messaging"
	"tableside/internal/models"
)

// Subscriber consumes committed orders from the fanout queue and runs the
// channel dispatcher for each, so slow channels live outside the order
// service process.
type Subscriber struct {
	consumer   *messaging.Consumer
	dispatcher *Dispatcher
	logger     *logger.Logger
}

// NewSubscriber creates a ledger subscriber.
func NewSubscriber(consumer *messaging.Consumer, dispatcher *Dispatcher, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer:   consumer,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// Start consumes until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	return s.consumer.StartConsuming(ctx, s.handleOrder)
}

// handleOrder decodes a committed order and dispatches it to the channels.
// Dispatch outcomes are logged inside the dispatcher; a malformed message
// is the only handler error.
func (s *Subscriber) handleOrder(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.OrderNotification
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to parse order notification: %w", err)
	}

	s.logger.Debug("order_received", fmt.Sprintf("Received committed order %s", msg.Number), requestID, map[string]interface{}{
		"order_number": msg.Number,
	})

	s.dispatcher.Dispatch(ctx, &msg, requestID)
	return nil
}
