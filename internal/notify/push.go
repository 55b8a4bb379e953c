package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tableside/internal/models"
)

const linePushEndpoint = "https://api.line.me/v2/bot/message/push"

// PushChannel sends the owner a push message through the LINE Messaging
// API whenever an order is committed.
type PushChannel struct {
	endpoint  string
	token     string
	recipient string
	client    *http.Client
}

// NewPushChannel creates a push channel for the given channel token and
// recipient ID. The HTTP client carries no timeout of its own; the
// dispatcher bounds every attempt with a per-channel context.
func NewPushChannel(token, recipient string) *PushChannel {
	return &PushChannel{
		endpoint:  linePushEndpoint,
		token:     token,
		recipient: recipient,
		client:    &http.Client{},
	}
}

func (c *PushChannel) Name() string {
	return "push"
}

type pushMessage struct {
	To       string         `json:"to"`
	Messages []pushTextItem `json:"messages"`
}

type pushTextItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send pushes a rendered order summary to the owner.
func (c *PushChannel) Send(ctx context.Context, msg *models.OrderNotification) error {
	payload := pushMessage{
		To: c.recipient,
		Messages: []pushTextItem{
			{Type: "text", Text: formatOrderText(msg)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push request returned status %d", resp.StatusCode)
	}

	return nil
}

// formatOrderText renders the order the way the owner reads it on a phone.
func formatOrderText(msg *models.OrderNotification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "新訂單 %s\n", msg.Number)
	fmt.Fprintf(&b, "桌號 %s・%d 位\n", msg.TableLabel, msg.Headcount)
	fmt.Fprintf(&b, "時間 %s\n", msg.CreatedAt.Format("15:04"))
	b.WriteString("----------------\n")
	for _, line := range msg.Lines {
		fmt.Fprintf(&b, "%s $%d\n", line.Description, line.Amount)
	}
	b.WriteString("----------------\n")
	if msg.Fee > 0 {
		fmt.Fprintf(&b, "小計 $%d，服務費 $%d\n", msg.Subtotal, msg.Fee)
	}
	fmt.Fprintf(&b, "總計 $%d", msg.Total)

	return b.String()
}
