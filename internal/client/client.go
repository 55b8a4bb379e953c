package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tableside/internal/cart"
	"tableside/internal/models"
	"tableside/internal/pricing"
)

// TransportError means the request never reached the service or came back
// non-2xx. The cart must be kept so the diner can retry.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order submission failed: %v", e.Err)
	}
	return fmt.Sprintf("order submission failed: status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Submitter sends assembled carts to the order service. It never mutates
// the cart: the caller clears it after a successful submission.
type Submitter struct {
	baseURL string
	client  *http.Client
}

// NewSubmitter creates a submission client for the order service at baseURL.
func NewSubmitter(baseURL string, timeout time.Duration) *Submitter {
	return &Submitter{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Submit validates locally, serializes the cart and posts it. Validation
// failures return *models.ValidationError before any network call is made;
// network and non-2xx failures return *TransportError.
func (s *Submitter) Submit(ctx context.Context, c *cart.Cart, tableLabel string, headcount int, totals pricing.Totals) (*models.CreateOrderResponse, error) {
	if c.Len() == 0 {
		return nil, &models.ValidationError{Field: "lines", Message: "cart is empty"}
	}
	if tableLabel == "" {
		return nil, &models.ValidationError{Field: "table_label", Message: "table label is required"}
	}
	if headcount < 1 {
		return nil, &models.ValidationError{Field: "headcount", Message: "headcount must be at least 1"}
	}

	req := buildRequest(c, tableLabel, headcount, totals)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	var created models.CreateOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return &created, nil
}

// buildRequest serializes cart lines into the transport shape. Each line
// carries enough detail for the service to reconstruct the order without
// the live menu.
func buildRequest(c *cart.Cart, tableLabel string, headcount int, totals pricing.Totals) *models.CreateOrderRequest {
	lines := make([]models.OrderLineRequest, 0, c.Len())
	for _, line := range c.Lines() {
		lines = append(lines, models.OrderLineRequest{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			Note:       line.Note,
			Selections: line.Selections,
		})
	}

	return &models.CreateOrderRequest{
		TableLabel: tableLabel,
		Headcount:  headcount,
		Subtotal:   totals.Subtotal,
		Fee:        totals.Fee,
		Total:      totals.Total,
		Lines:      lines,
	}
}
