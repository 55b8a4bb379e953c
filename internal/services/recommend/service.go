package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request describes the cart context sent to the recommendation
// collaborator. All fields are plain display strings; the collaborator
// never sees menu internals.
type Request struct {
	Language       string `json:"language"`
	CartItems      string `json:"cartItems"`
	AvailableItems string `json:"availableItems"`
}

type response struct {
	Recommendation string `json:"recommendation"`
}

// Service calls the opaque AI text collaborator. It is purely additive and
// never sits on the order submission path.
type Service struct {
	url    string
	client *http.Client
}

// NewService creates a recommendation client for the given collaborator URL.
func NewService(url string) *Service {
	return &Service{
		url: url,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Recommend asks the collaborator for upsell text in the diner's language.
func (s *Service) Recommend(ctx context.Context, req *Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recommendation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build recommendation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("recommendation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recommendation call returned status %d", resp.StatusCode)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode recommendation response: %w", err)
	}
	if parsed.Recommendation == "" {
		return "", fmt.Errorf("recommendation response was empty")
	}

	return parsed.Recommendation, nil
}
