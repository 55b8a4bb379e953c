package messaging

import (
	"context"
	"fmt"

	"tableside/internal/logger"
)

// MessageHandler defines the interface for processing messages
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer handles message consumption from RabbitMQ
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

// NewConsumer creates a new message consumer for the given queue
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming consumes messages from the queue until the context is
// cancelled, invoking handler for each delivery. A handler error rejects
// the message without requeueing; channels are never retried automatically.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	if err := c.conn.Channel().Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := c.conn.Channel().Consume(
		c.queueName,   // queue
		c.consumerTag, // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming from %s: %w", c.queueName, err)
	}

	c.logger.Info("consumer_started", fmt.Sprintf("Consuming from queue %s", c.queueName), "", map[string]interface{}{
		"queue":    c.queueName,
		"prefetch": c.prefetch,
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", c.queueName)
			}

			if err := handler(ctx, delivery.Body); err != nil {
				c.logger.Error("message_handling_failed", "Failed to handle message", "", err, map[string]interface{}{
					"queue": c.queueName,
				})
				delivery.Nack(false, false)
				continue
			}

			delivery.Ack(false)
		}
	}
}

// Close closes the underlying connection
func (c *Consumer) Close() error {
	return c.conn.Close()
}
