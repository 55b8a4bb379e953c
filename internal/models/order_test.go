package models

import (
	"errors"
	"testing"
	"time"
)

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		TableLabel: "A1",
		Headcount:  2,
		Subtotal:   360,
		Fee:        18,
		Total:      378,
		Lines: []OrderLineRequest{
			{
				MenuItemID: 1,
				Name:       "紅燒牛肉麵",
				UnitPrice:  180,
				Quantity:   2,
				Selections: Selections{"spice": "hot"},
			},
		},
	}
}

func TestValidateCreateOrderRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *CreateOrderRequest)
		wantErr bool
	}{
		{
			name:    "valid request",
			mutate:  func(req *CreateOrderRequest) {},
			wantErr: false,
		},
		{
			name:    "missing table label",
			mutate:  func(req *CreateOrderRequest) { req.TableLabel = "" },
			wantErr: true,
		},
		{
			name:    "zero headcount",
			mutate:  func(req *CreateOrderRequest) { req.Headcount = 0 },
			wantErr: true,
		},
		{
			name:    "empty lines",
			mutate:  func(req *CreateOrderRequest) { req.Lines = nil },
			wantErr: true,
		},
		{
			name:    "zero quantity line",
			mutate:  func(req *CreateOrderRequest) { req.Lines[0].Quantity = 0 },
			wantErr: true,
		},
		{
			name:    "missing name snapshot",
			mutate:  func(req *CreateOrderRequest) { req.Lines[0].Name = "" },
			wantErr: true,
		},
		{
			name:    "unknown customization group",
			mutate:  func(req *CreateOrderRequest) { req.Lines[0].Selections = Selections{"topping": "extra"} },
			wantErr: true,
		},
		{
			name:    "invalid customization value",
			mutate:  func(req *CreateOrderRequest) { req.Lines[0].Selections = Selections{"spice": "nuclear"} },
			wantErr: true,
		},
		{
			name:    "subtotal mismatch",
			mutate:  func(req *CreateOrderRequest) { req.Subtotal = 100 },
			wantErr: true,
		},
		{
			name: "total not subtotal plus fee",
			mutate: func(req *CreateOrderRequest) {
				req.Total = req.Subtotal
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Validate() returned %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestNewOrderNotification(t *testing.T) {
	req := validRequest()
	req.Lines[0].Note = "不要蔥"

	createdAt := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	msg := NewOrderNotification(7, "TBL_20260901_004", createdAt, req)

	if msg.OrderID != 7 || msg.Number != "TBL_20260901_004" {
		t.Fatalf("unexpected identity %+v", msg)
	}
	if len(msg.Lines) != 1 {
		t.Fatalf("expected 1 rendered line, got %d", len(msg.Lines))
	}
	want := "紅燒牛肉麵 x2 (大辣) [不要蔥]"
	if msg.Lines[0].Description != want {
		t.Errorf("description = %q, want %q", msg.Lines[0].Description, want)
	}
	if msg.Lines[0].Amount != 360 {
		t.Errorf("amount = %d, want 360", msg.Lines[0].Amount)
	}
}
