package pricing

import (
	"testing"

	"tableside/internal/cart"
	"tableside/internal/models"
)

var beefNoodle = models.MenuItem{
	ID:       1,
	Name:     models.LocalizedText{"zh": "紅燒牛肉麵", "en": "Beef Noodle"},
	Price:    180,
	Category: "main",
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int
		feePercent int
		want       Totals
	}{
		{
			name:       "two beef noodles with five percent fee",
			quantity:   2,
			feePercent: 5,
			want:       Totals{Subtotal: 360, Fee: 18, Total: 378},
		},
		{
			name:       "no fee",
			quantity:   3,
			feePercent: 0,
			want:       Totals{Subtotal: 540, Fee: 0, Total: 540},
		},
		{
			name:       "ten percent fee",
			quantity:   1,
			feePercent: 10,
			want:       Totals{Subtotal: 180, Fee: 18, Total: 198},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.New()
			c.AddLine(beefNoodle, nil, "", tt.quantity)

			got := ComputeTotals(c, tt.feePercent)
			if got != tt.want {
				t.Errorf("ComputeTotals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeTotals_HalfRoundsUp(t *testing.T) {
	item := models.MenuItem{ID: 9, Name: models.LocalizedText{"zh": "小菜"}, Price: 30}
	c := cart.New()
	c.AddLine(item, nil, "", 1)

	// 30 * 5% = 1.5 which rounds to 2, not 1.
	got := ComputeTotals(c, 5)
	if got.Fee != 2 {
		t.Errorf("fee = %d, want 2", got.Fee)
	}
	if got.Total != 32 {
		t.Errorf("total = %d, want 32", got.Total)
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	c := cart.New()
	c.AddLine(beefNoodle, models.Selections{}, "少油", 2)

	first := ComputeTotals(c, 7)
	second := ComputeTotals(c, 7)
	if first != second {
		t.Errorf("ComputeTotals not deterministic: %+v vs %+v", first, second)
	}
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := ComputeTotals(cart.New(), 10)
	if got != (Totals{}) {
		t.Errorf("empty cart totals = %+v, want zero", got)
	}
}
