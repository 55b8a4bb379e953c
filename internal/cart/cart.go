package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tableside/internal/models"
)

// Line is one cart entry: a menu item with chosen customizations, a note
// and a quantity. Name and UnitPrice are snapshots taken when the line was
// added so later menu edits cannot change what the diner agreed to pay.
type Line struct {
	ID          string
	Fingerprint string
	MenuItemID  int
	Name        string
	UnitPrice   int
	Quantity    int
	Note        string
	Selections  models.Selections
}

// Cart holds the in-progress order for a single diner session. It is not
// safe for concurrent use; one cart belongs to one device.
type Cart struct {
	lines []*Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddLine adds quantity of the item with the given customizations and note.
// If a line with the same fingerprint already exists its quantity is
// incremented, so no two lines ever share a fingerprint. Missing selections
// for groups the item declares default to the first listed value.
// The affected line is returned.
func (c *Cart) AddLine(item models.MenuItem, selections models.Selections, note string, quantity int) *Line {
	if quantity < 1 {
		quantity = 1
	}

	resolved := resolveSelections(item, selections)
	fingerprint := Fingerprint(item.ID, resolved, note)

	for _, line := range c.lines {
		if line.Fingerprint == fingerprint {
			line.Quantity += quantity
			return line
		}
	}

	line := &Line{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		MenuItemID:  item.ID,
		Name:        item.Name.In("zh"),
		UnitPrice:   item.Price,
		Quantity:    quantity,
		Note:        note,
		Selections:  resolved,
	}
	c.lines = append(c.lines, line)
	return line
}

// SetQuantity adds delta to the line's quantity, clamped at zero. A line
// reaching zero is removed from the cart. Over-decrementing is not an error.
func (c *Cart) SetQuantity(lineID string, delta int) {
	for i, line := range c.lines {
		if line.ID != lineID {
			continue
		}
		line.Quantity += delta
		if line.Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// RemoveLine removes the line unconditionally. No-op if absent.
func (c *Cart) RemoveLine(lineID string) {
	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful submission.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []*Line {
	return c.lines
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// TotalQuantity returns the summed quantity across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// resolveSelections keeps the caller's choices for groups the item declares
// and fills every undeclared choice with the group's default value.
func resolveSelections(item models.MenuItem, selections models.Selections) models.Selections {
	resolved := models.Selections{}
	for _, groupKey := range item.Options {
		group, ok := models.OptionGroupByKey(groupKey)
		if !ok {
			continue
		}
		if value, chosen := selections[groupKey]; chosen && group.HasValue(value) {
			resolved[groupKey] = value
		} else {
			resolved[groupKey] = group.DefaultValue()
		}
	}
	return resolved
}

// Fingerprint derives the deterministic identity of a cart line from the
// item id, the sorted selections and the note. Two lines with the same
// fingerprint are the same logical line and must be merged.
func Fingerprint(itemID int, selections models.Selections, note string) string {
	pairs := make([]string, 0, len(selections))
	for groupKey, valueKey := range selections {
		pairs = append(pairs, groupKey+":"+valueKey)
	}
	sort.Strings(pairs)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", itemID, strings.Join(pairs, ","), note)))
	return hex.EncodeToString(sum[:16])
}
