package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableside/internal/cart"
	"tableside/internal/models"
	"tableside/internal/pricing"
)

var beefNoodle = models.MenuItem{
	ID:    1,
	Name:  models.LocalizedText{"zh": "紅燒牛肉麵", "en": "Beef Noodle"},
	Price: 180,
}

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	c.AddLine(beefNoodle, nil, "", 2)
	return c
}

func TestSubmit_EmptyCartFailsWithoutNetworkCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	s := NewSubmitter(server.URL, time.Second)
	_, err := s.Submit(context.Background(), cart.New(), "A1", 2, pricing.Totals{})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.False(t, called, "empty cart must never produce a network call")
}

func TestSubmit_LocalValidation(t *testing.T) {
	s := NewSubmitter("http://localhost:0", time.Second)

	_, err := s.Submit(context.Background(), filledCart(t), "", 2, pricing.Totals{})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "table_label", verr.Field)

	_, err = s.Submit(context.Background(), filledCart(t), "A1", 0, pricing.Totals{})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "headcount", verr.Field)
}

func TestSubmit_Success(t *testing.T) {
	var got models.CreateOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.CreateOrderResponse{
			ID:     12,
			Number: "TBL_20260901_012",
			Status: "received",
			Total:  378,
		})
	}))
	defer server.Close()

	c := filledCart(t)
	totals := pricing.ComputeTotals(c, 5)

	s := NewSubmitter(server.URL, time.Second)
	resp, err := s.Submit(context.Background(), c, "A1", 2, totals)

	require.NoError(t, err)
	require.Equal(t, "TBL_20260901_012", resp.Number)

	require.Equal(t, "A1", got.TableLabel)
	require.Equal(t, 2, got.Headcount)
	require.Equal(t, 360, got.Subtotal)
	require.Equal(t, 378, got.Total)
	require.Len(t, got.Lines, 1)
	require.Equal(t, "紅燒牛肉麵", got.Lines[0].Name)
	require.Equal(t, 2, got.Lines[0].Quantity)

	// The client never clears the cart; that is the caller's decision.
	require.Equal(t, 1, c.Len())
}

func TestSubmit_Non2xxIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := filledCart(t)
	s := NewSubmitter(server.URL, time.Second)
	_, err := s.Submit(context.Background(), c, "A1", 2, pricing.ComputeTotals(c, 0))

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	require.Equal(t, 1, c.Len(), "cart must survive a failed submission")
}

func TestSubmit_NetworkFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := filledCart(t)
	s := NewSubmitter(server.URL, 200*time.Millisecond)
	_, err := s.Submit(context.Background(), c, "A1", 2, pricing.ComputeTotals(c, 0))

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 1, c.Len())
}
