package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for expiry dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the format of order and consultation timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultCategory applies to medicines stored without a category.
const DefaultCategory = "Other"

// Medicine is a catalog entry as stored in the medicines collection.
type Medicine struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Category             string  `json:"category"`
	Price                float64 `json:"price"`
	Stock                int     `json:"stock"`
	ExpiryDate           string  `json:"expiry_date"`
	Manufacturer         string  `json:"manufacturer,omitempty"`
	RequiresPrescription bool    `json:"requires_prescription"`
}

// Key identifies a medicine for quantity selection, falling back to its name.
func (m Medicine) Key() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Name != "" {
		return m.Name
	}
	return "unknown"
}

// ExpiryKind tells how an expiry date string was interpreted.
type ExpiryKind int

const (
	ExpiryAbsent ExpiryKind = iota
	ExpiryInvalid
	ExpiryParsed
)

// Expiry is the result of parsing an expiry date.
type Expiry struct {
	Kind ExpiryKind
	Raw  string
	Date time.Time
}

// ParseExpiry classifies raw as absent, unparseable or a calendar date.
func ParseExpiry(raw string) Expiry {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Expiry{Kind: ExpiryAbsent}
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return Expiry{Kind: ExpiryInvalid, Raw: raw}
	}
	return Expiry{Kind: ExpiryParsed, Raw: raw, Date: d}
}

// CartLine is one cart entry. Price, name, category and expiry are copied
// from the catalog when the line is created and never re-synced.
type CartLine struct {
	MedicineID string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"qty"`
	Category   string  `json:"category"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() float64 { return l.Price * float64(l.Quantity) }

// Order is an immutable record of a committed cart.
type Order struct {
	ID       string     `json:"id"`
	User     string     `json:"user"`
	Items    []CartLine `json:"items"`
	Total    float64    `json:"total"`
	DateTime string     `json:"datetime"`
	Address  string     `json:"address"`
}

// Quantity sums item quantities.
func (o Order) Quantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ConsultationStatus тип статуса консультации
type ConsultationStatus string

const (
	ConsultationRequested ConsultationStatus = "Requested"
)

// Consultation is a request for a doctor to contact the user.
type Consultation struct {
	ID            string             `json:"id"`
	User          string             `json:"user"`
	Symptoms      string             `json:"symptoms"`
	PreferredTime string             `json:"preferred_time"`
	DateTime      string             `json:"datetime"`
	Status        ConsultationStatus `json:"status"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Password holds a bcrypt hash.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
