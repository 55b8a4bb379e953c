package models

import (
	"fmt"
	"time"
)

// NotificationLine is a fully rendered order line. Channels display it as-is
// and never need to query the menu.
type NotificationLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Amount      int    `json:"amount"`
}

// OrderNotification is the denormalized view of a committed order handed to
// every notification channel.
type OrderNotification struct {
	OrderID    int                `json:"order_id"`
	Number     string             `json:"order_number"`
	TableLabel string             `json:"table_label"`
	Headcount  int                `json:"headcount"`
	Subtotal   int                `json:"subtotal"`
	Fee        int                `json:"fee"`
	Total      int                `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	Lines      []NotificationLine `json:"lines"`
}

// NewOrderNotification builds the channel payload from the committed order
// identity and the original request. Line descriptions are rendered with
// the "zh" locale, matching the ledger and owner-facing output.
func NewOrderNotification(orderID int, number string, createdAt time.Time, req *CreateOrderRequest) *OrderNotification {
	notification := &OrderNotification{
		OrderID:    orderID,
		Number:     number,
		TableLabel: req.TableLabel,
		Headcount:  req.Headcount,
		Subtotal:   req.Subtotal,
		Fee:        req.Fee,
		Total:      req.Total,
		CreatedAt:  createdAt,
		Lines:      make([]NotificationLine, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		notification.Lines = append(notification.Lines, NotificationLine{
			Description: describeLine(line),
			Quantity:    line.Quantity,
			Amount:      line.UnitPrice * line.Quantity,
		})
	}

	return notification
}

// describeLine renders one line as "name x2 (大辣, 少冰) [note]".
func describeLine(line OrderLineRequest) string {
	description := fmt.Sprintf("%s x%d", line.Name, line.Quantity)
	if rendered := RenderSelections(line.Selections, "zh"); rendered != "" {
		description += fmt.Sprintf(" (%s)", rendered)
	}
	if line.Note != "" {
		description += fmt.Sprintf(" [%s]", line.Note)
	}
	return description
}
