package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tableside/internal/models"
)

var beefNoodle = models.MenuItem{
	ID:       1,
	Name:     models.LocalizedText{"zh": "紅燒牛肉麵", "en": "Beef Noodle"},
	Price:    180,
	Category: "main",
	Options:  []string{"spice", "size"},
}

var milkTea = models.MenuItem{
	ID:       2,
	Name:     models.LocalizedText{"zh": "珍珠奶茶", "en": "Bubble Milk Tea"},
	Price:    60,
	Category: "drink",
	Options:  []string{"sugar", "ice"},
}

func TestAddLine_MergesEqualConfigurations(t *testing.T) {
	c := New()

	first := c.AddLine(beefNoodle, models.Selections{"spice": "hot"}, "", 1)
	second := c.AddLine(beefNoodle, models.Selections{"spice": "hot"}, "", 2)

	require.Equal(t, 1, c.Len(), "identical configurations must merge into one line")
	require.Same(t, first, second)
	require.Equal(t, 3, first.Quantity)
}

func TestAddLine_DistinctConfigurationsStaySeparate(t *testing.T) {
	c := New()

	c.AddLine(beefNoodle, models.Selections{"spice": "hot"}, "", 1)
	c.AddLine(beefNoodle, models.Selections{"spice": "mild"}, "", 1)
	c.AddLine(beefNoodle, models.Selections{"spice": "hot"}, "不要蔥", 1)
	c.AddLine(milkTea, nil, "", 1)

	require.Equal(t, 4, c.Len())

	seen := map[string]bool{}
	for _, line := range c.Lines() {
		require.False(t, seen[line.Fingerprint], "no two lines may share a fingerprint")
		seen[line.Fingerprint] = true
	}
}

func TestAddLine_DefaultsToFirstListedValue(t *testing.T) {
	c := New()

	line := c.AddLine(milkTea, nil, "", 1)

	require.Equal(t, models.Selections{"sugar": "full", "ice": "regular"}, line.Selections)
}

func TestAddLine_DefaultsMergeWithExplicitSelection(t *testing.T) {
	c := New()

	// Explicit defaults and omitted selections resolve to the same line.
	c.AddLine(milkTea, models.Selections{"sugar": "full", "ice": "regular"}, "", 1)
	c.AddLine(milkTea, nil, "", 1)

	require.Equal(t, 1, c.Len())
	require.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestAddLine_SnapshotsNameAndPrice(t *testing.T) {
	c := New()

	line := c.AddLine(beefNoodle, nil, "", 1)

	require.Equal(t, "紅燒牛肉麵", line.Name)
	require.Equal(t, 180, line.UnitPrice)
}

func TestSetQuantity_ClampsAtZeroAndRemoves(t *testing.T) {
	c := New()
	line := c.AddLine(beefNoodle, nil, "", 2)

	c.SetQuantity(line.ID, -5)

	require.Equal(t, 0, c.Len(), "line decremented to zero must be removed")
}

func TestSetQuantity_NeverNegative(t *testing.T) {
	c := New()
	line := c.AddLine(beefNoodle, nil, "", 3)

	c.SetQuantity(line.ID, -1)
	c.SetQuantity(line.ID, -1)
	c.SetQuantity(line.ID, 2)

	require.Equal(t, 1, c.Len())
	for _, l := range c.Lines() {
		require.Greater(t, l.Quantity, 0)
	}
	require.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestSetQuantity_UnknownLineIsNoop(t *testing.T) {
	c := New()
	c.AddLine(beefNoodle, nil, "", 1)

	c.SetQuantity("missing", 5)

	require.Equal(t, 1, c.TotalQuantity())
}

func TestRemoveLine(t *testing.T) {
	c := New()
	keep := c.AddLine(beefNoodle, nil, "", 1)
	drop := c.AddLine(milkTea, nil, "", 1)

	c.RemoveLine(drop.ID)
	c.RemoveLine(drop.ID) // no-op when absent

	require.Equal(t, 1, c.Len())
	require.Equal(t, keep.ID, c.Lines()[0].ID)
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := Fingerprint(1, models.Selections{"spice": "hot", "size": "large"}, "")
	b := Fingerprint(1, models.Selections{"size": "large", "spice": "hot"}, "")
	require.Equal(t, a, b)

	require.NotEqual(t, a, Fingerprint(1, models.Selections{"spice": "hot", "size": "small"}, ""))
	require.NotEqual(t, a, Fingerprint(1, models.Selections{"spice": "hot", "size": "large"}, "note"))
	require.NotEqual(t, a, Fingerprint(2, models.Selections{"spice": "hot", "size": "large"}, ""))
}
