package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

// StatusReceived is the status every order is created with. Orders are
// append-only after creation; there is no edit or cancel flow.
const StatusReceived OrderStatus = "received"

// ValidationError describes a malformed or incomplete request field.
// It is never retried automatically; the caller must fix the request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OrderLineRequest is one cart line serialized for submission. Name and
// UnitPrice are snapshots taken when the line was added, so the order stays
// readable even if the menu item is later edited or deleted.
type OrderLineRequest struct {
	MenuItemID int        `json:"menu_item_id"`
	Name       string     `json:"name"`
	UnitPrice  int        `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	Note       string     `json:"note,omitempty"`
	Selections Selections `json:"selections,omitempty"`
}

// CreateOrderRequest represents the request to create a new order
type CreateOrderRequest struct {
	TableLabel string             `json:"table_label"`
	Headcount  int                `json:"headcount"`
	Subtotal   int                `json:"subtotal"`
	Fee        int                `json:"fee"`
	Total      int                `json:"total"`
	Lines      []OrderLineRequest `json:"lines"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	ID        int       `json:"id"`
	Number    string    `json:"order_number"`
	Status    string    `json:"status"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderLine is a persisted order line row.
type OrderLine struct {
	ID         int        `json:"id,omitempty" db:"id"`
	OrderID    int        `json:"order_id,omitempty" db:"order_id"`
	MenuItemID int        `json:"menu_item_id" db:"menu_item_id"`
	Name       string     `json:"name" db:"name"`
	Quantity   int        `json:"quantity" db:"quantity"`
	UnitPrice  int        `json:"unit_price" db:"unit_price"`
	Note       string     `json:"note,omitempty" db:"note"`
	Selections Selections `json:"selections,omitempty" db:"selections"`
}

// Order represents a persisted customer order with its lines.
type Order struct {
	ID         int         `json:"id,omitempty" db:"id"`
	Number     string      `json:"order_number" db:"number"`
	TableLabel string      `json:"table_label" db:"table_label"`
	Headcount  int         `json:"headcount" db:"headcount"`
	Subtotal   int         `json:"subtotal" db:"subtotal"`
	Fee        int         `json:"fee" db:"fee"`
	Total      int         `json:"total" db:"total"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at,omitempty" db:"created_at"`
	Lines      []OrderLine `json:"lines"`
}

// SettingsResponse is what the menu front end reads on load.
type SettingsResponse struct {
	AIEnabled          bool `json:"isAiEnabled"`
	SheetLedgerEnabled bool `json:"saveToGoogleSheet"`
}

// GenerateOrderNumber generates an order number in format TBL_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("TBL_%s_%03d", date.Format("20060102"), sequence)
}

// Validate checks the create order request. Any failure means the whole
// request is rejected; there is no partial acceptance.
func (req *CreateOrderRequest) Validate() error {
	if err := validateTableLabel(req.TableLabel); err != nil {
		return err
	}

	if err := validateHeadcount(req.Headcount); err != nil {
		return err
	}

	if err := validateLines(req.Lines); err != nil {
		return err
	}

	return validateTotals(req)
}

func validateTableLabel(label string) error {
	if label == "" {
		return &ValidationError{Field: "table_label", Message: "table label is required"}
	}
	if len(label) > 20 {
		return &ValidationError{Field: "table_label", Message: "table label must be at most 20 characters"}
	}
	return nil
}

func validateHeadcount(headcount int) error {
	if headcount < 1 {
		return &ValidationError{Field: "headcount", Message: "headcount must be at least 1"}
	}
	if headcount > 50 {
		return &ValidationError{Field: "headcount", Message: "headcount must be at most 50"}
	}
	return nil
}

func validateLines(lines []OrderLineRequest) error {
	if len(lines) == 0 {
		return &ValidationError{Field: "lines", Message: "lines cannot be empty"}
	}
	if len(lines) > 30 {
		return &ValidationError{Field: "lines", Message: "a maximum of 30 lines is allowed"}
	}

	for i, line := range lines {
		if err := validateLine(line, i); err != nil {
			return err
		}
	}
	return nil
}

func validateLine(line OrderLineRequest, index int) error {
	prefix := fmt.Sprintf("lines[%d]", index)

	if line.MenuItemID <= 0 {
		return &ValidationError{Field: prefix + ".menu_item_id", Message: "menu item id is required"}
	}
	if line.Name == "" {
		return &ValidationError{Field: prefix + ".name", Message: "item name snapshot is required"}
	}
	if len(line.Name) > 100 {
		return &ValidationError{Field: prefix + ".name", Message: "item name must be at most 100 characters"}
	}
	if line.Quantity < 1 {
		return &ValidationError{Field: prefix + ".quantity", Message: "quantity must be at least 1"}
	}
	if line.Quantity > 20 {
		return &ValidationError{Field: prefix + ".quantity", Message: "quantity must be at most 20"}
	}
	if line.UnitPrice < 0 {
		return &ValidationError{Field: prefix + ".unit_price", Message: "unit price cannot be negative"}
	}
	if len(line.Note) > 200 {
		return &ValidationError{Field: prefix + ".note", Message: "note must be at most 200 characters"}
	}

	for groupKey, valueKey := range line.Selections {
		group, ok := OptionGroupByKey(groupKey)
		if !ok {
			return &ValidationError{
				Field:   prefix + ".selections",
				Message: fmt.Sprintf("unknown customization group %q", groupKey),
			}
		}
		if !group.HasValue(valueKey) {
			return &ValidationError{
				Field:   prefix + ".selections",
				Message: fmt.Sprintf("invalid value %q for customization group %q", valueKey, groupKey),
			}
		}
	}

	return nil
}

// validateTotals checks that the client-computed amounts are internally
// consistent with the submitted lines.
func validateTotals(req *CreateOrderRequest) error {
	subtotal := 0
	for _, line := range req.Lines {
		subtotal += line.UnitPrice * line.Quantity
	}
	if req.Subtotal != subtotal {
		return &ValidationError{Field: "subtotal", Message: "subtotal does not match submitted lines"}
	}
	if req.Fee < 0 {
		return &ValidationError{Field: "fee", Message: "fee cannot be negative"}
	}
	if req.Total != req.Subtotal+req.Fee {
		return &ValidationError{Field: "total", Message: "total must equal subtotal plus fee"}
	}
	return nil
}
