package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// Notify publishes the committed order to the fanout exchange. The order is
// already durable; a publish failure is logged and swallowed so it can
// never surface into the submission flow.
func (p *Publisher) Notify(ctx context.Context, msg *models.OrderNotification, requestID string) {
	if err := p.publishMessage(ctx, OrdersExchange, "", msg); err != nil {
		p.logger.Error("notification_publish_failed",
			fmt.Sprintf("Failed to publish order %s to %s", msg.Number, OrdersExchange),
			requestID, err, map[string]interface{}{
				"order_number": msg.Number,
			})
		return
	}

	p.logger.Debug("notification_published",
		fmt.Sprintf("Published order %s to %s", msg.Number, OrdersExchange),
		requestID, map[string]interface{}{
			"order_number": msg.Number,
		})
}

// publishMessage publishes one persistent JSON message.
func (p *Publisher) publishMessage(ctx context.Context, exchange, routingKey string, message interface{}) error {
	// Check if connection is alive
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
