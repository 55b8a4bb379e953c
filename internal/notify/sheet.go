package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tableside/internal/models"
)

// SheetChannel appends one ledger row per order to a spreadsheet through
// its webhook endpoint (an Apps Script deployment in front of the sheet).
type SheetChannel struct {
	webhookURL string
	client     *http.Client
}

// NewSheetChannel creates a spreadsheet ledger channel.
func NewSheetChannel(webhookURL string) *SheetChannel {
	return &SheetChannel{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (c *SheetChannel) Name() string {
	return "sheet"
}

type sheetRow struct {
	Values []interface{} `json:"values"`
}

// Send appends the order as one row: timestamp, number, table, headcount,
// item summary, subtotal, fee, total.
func (c *SheetChannel) Send(ctx context.Context, msg *models.OrderNotification) error {
	descriptions := make([]string, 0, len(msg.Lines))
	for _, line := range msg.Lines {
		descriptions = append(descriptions, line.Description)
	}

	row := sheetRow{
		Values: []interface{}{
			msg.CreatedAt.Format(time.RFC3339),
			msg.Number,
			msg.TableLabel,
			msg.Headcount,
			strings.Join(descriptions, "; "),
			msg.Subtotal,
			msg.Fee,
			msg.Total,
		},
	}

	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ledger request returned status %d", resp.StatusCode)
	}

	return nil
}
