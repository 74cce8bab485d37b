package cart

import (
	"errors"
	"testing"
	"time"

	"medicare/internal/domain"
)

var today = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func med(id string, price float64) domain.Medicine {
	return domain.Medicine{ID: id, Name: "Med " + id, Price: price, Stock: 10, Category: "Analgesic", ExpiryDate: "2030-01-01"}
}

func TestAdd_MergesByID(t *testing.T) {
	c := New()
	if err := c.Add(med("m1", 10), 2, today); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(med("m1", 10), 3, today); err != nil {
		t.Fatalf("add again: %v", err)
	}
	lines := c.Lines()
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected one line with qty 5, got %+v", lines)
	}
}

func TestAdd_WithoutIDKeepsSeparateLines(t *testing.T) {
	c := New()
	_ = c.Add(domain.Medicine{Name: "Aspirin", Price: 10}, 2, today)
	_ = c.Add(domain.Medicine{Name: "Ibuprofen", Price: 5}, 3, today)
	if c.Len() != 2 || c.Total() != 35 {
		t.Fatalf("expected 2 lines totalling 35, got %d lines total %v", c.Len(), c.Total())
	}

	_ = c.Add(domain.Medicine{Name: "Aspirin", Price: 10}, 1, today)
	if c.Len() != 2 || c.QuantityOf("Aspirin") != 3 {
		t.Fatalf("same name should merge, got %+v", c.Lines())
	}
}

func TestAdd_CapsMergedQuantity(t *testing.T) {
	c := New()
	_ = c.Add(med("m1", 1), 60, today)
	_ = c.Add(med("m1", 1), 60, today)
	if got := c.QuantityOf("m1"); got != MaxLineQuantity {
		t.Fatalf("expected merged quantity capped at %d, got %d", MaxLineQuantity, got)
	}

	_ = c.Add(med("m2", 1), 150, today)
	if got := c.QuantityOf("m2"); got != MaxLineQuantity {
		t.Fatalf("expected new line capped at %d, got %d", MaxLineQuantity, got)
	}
	if c.QuantityOf("missing") != 0 {
		t.Fatalf("unknown key should hold nothing")
	}
}

func TestAdd_SnapshotsPrice(t *testing.T) {
	c := New()
	m := med("m1", 10)
	_ = c.Add(m, 1, today)
	m.Price = 99
	m.Name = "Renamed"
	_ = c.Add(m, 1, today)

	l := c.Lines()[0]
	if l.Price != 10 || l.Name != "Med m1" || l.ExpiryDate != "2030-01-01" || l.Category != "Analgesic" {
		t.Fatalf("line should keep the values from the first add, got %+v", l)
	}
}

func TestAdd_Rejects(t *testing.T) {
	c := New()
	if err := c.Add(med("m1", 10), 0, today); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if err := c.Add(med("m1", 10), -1, today); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	expired := med("m2", 5)
	expired.ExpiryDate = "2026-10-13"
	if err := c.Add(expired, 1, today); !errors.Is(err, domain.ErrIneligible) {
		t.Fatalf("expected ineligible, got %v", err)
	}
	if !c.Empty() {
		t.Fatalf("rejected adds must not change the cart")
	}

	// unparseable expiry is not treated as expired
	odd := med("m3", 5)
	odd.ExpiryDate = "sometime"
	if err := c.Add(odd, 1, today); err != nil {
		t.Fatalf("unparseable expiry should be addable: %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	c := New()
	_ = c.Add(med("m1", 10), 1, today)
	if err := c.SetQuantity(0, 4); err != nil {
		t.Fatalf("set: %v", err)
	}
	if c.Lines()[0].Quantity != 4 {
		t.Fatalf("quantity not updated")
	}
	if err := c.SetQuantity(0, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if err := c.SetQuantity(0, MaxLineQuantity+1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity above max, got %v", err)
	}
	if err := c.SetQuantity(3, 1); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected line not found, got %v", err)
	}
	if c.Lines()[0].Quantity != 4 {
		t.Fatalf("failed updates must not change quantity")
	}
}

func TestRemove_ShiftsIndices(t *testing.T) {
	c := New()
	_ = c.Add(med("m1", 1), 1, today)
	_ = c.Add(med("m2", 2), 1, today)
	_ = c.Add(med("m3", 3), 1, today)

	if err := c.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if c.Len() != 2 || c.IndexOf("m3") != 1 || c.IndexOf("m2") != -1 {
		t.Fatalf("unexpected lines after remove: %+v", c.Lines())
	}
	if err := c.Remove(5); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected line not found, got %v", err)
	}
}

func TestTotal(t *testing.T) {
	c := New()
	if c.Total() != 0 {
		t.Fatalf("empty cart total must be 0")
	}
	_ = c.Add(med("a", 10), 2, today)
	_ = c.Add(med("b", 5), 1, today)
	if c.Total() != 25 {
		t.Fatalf("expected 25, got %v", c.Total())
	}
	if c.Quantity() != 3 {
		t.Fatalf("expected 3 units, got %d", c.Quantity())
	}
	c.Clear()
	if !c.Empty() || c.Total() != 0 {
		t.Fatalf("clear must empty the cart")
	}
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	_ = c.Add(med("a", 10), 2, today)
	lines := c.Lines()
	lines[0].Quantity = 50
	if c.Lines()[0].Quantity != 2 {
		t.Fatalf("Lines must not expose internal state")
	}
}
