// Package cart holds the line items a session is about to order.
package cart

import (
	"time"

	"medicare/internal/catalog"
	"medicare/internal/domain"
)

// MaxLineQuantity caps the quantity of a single line.
const MaxLineQuantity = 99

// Cart is an ordered list of lines, at most one per medicine key.
// It is owned by a single session and is not safe for concurrent use.
type Cart struct {
	lines []domain.CartLine
	keys  []string // keys[i] is the Medicine.Key of lines[i]
}

func New() *Cart { return &Cart{} }

// Add merges qty of m into the cart, keyed by m.Key() so medicines
// without an id still get a line each. A line never exceeds
// MaxLineQuantity. Expired medicines and non-positive quantities are
// rejected without changing the cart.
func (c *Cart) Add(m domain.Medicine, qty int, asOf time.Time) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if catalog.IsExpired(m, asOf) {
		return domain.ErrIneligible
	}
	key := m.Key()
	if i := c.IndexOf(key); i >= 0 {
		c.lines[i].Quantity = min(c.lines[i].Quantity+qty, MaxLineQuantity)
		return nil
	}
	c.lines = append(c.lines, domain.CartLine{
		MedicineID: m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Quantity:   min(qty, MaxLineQuantity),
		Category:   m.Category,
		ExpiryDate: m.ExpiryDate,
	})
	c.keys = append(c.keys, key)
	return nil
}

// SetQuantity replaces the quantity of line i.
func (c *Cart) SetQuantity(i, qty int) error {
	if qty < 1 || qty > MaxLineQuantity {
		return domain.ErrInvalidQuantity
	}
	if i < 0 || i >= len(c.lines) {
		return domain.ErrLineNotFound
	}
	c.lines[i].Quantity = qty
	return nil
}

// Remove deletes line i. Lines after it move up by one.
func (c *Cart) Remove(i int) error {
	if i < 0 || i >= len(c.lines) {
		return domain.ErrLineNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.lines = nil
	c.keys = nil
}

// IndexOf returns the line index for a medicine key, or -1.
func (c *Cart) IndexOf(key string) int {
	for i, k := range c.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// QuantityOf is the quantity already held for a medicine key.
func (c *Cart) QuantityOf(key string) int {
	if i := c.IndexOf(key); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Quantity is the number of units across all lines.
func (c *Cart) Quantity() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
