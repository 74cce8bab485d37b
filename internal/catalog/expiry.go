package catalog

import (
	"time"

	"medicare/internal/domain"
)

// ExpiringSoonDays is the window in which a medicine is flagged as expiring.
const ExpiringSoonDays = 30

// LowStockThreshold and below is reported as low stock.
const LowStockThreshold = 5

// IsExpired is true only when the expiry date parses and lies strictly
// before the calendar day of asOf. Absent or unparseable dates fail open.
func IsExpired(m domain.Medicine, asOf time.Time) bool {
	exp := domain.ParseExpiry(m.ExpiryDate)
	switch exp.Kind {
	case domain.ExpiryParsed:
		return exp.Date.Before(day(asOf))
	default:
		return false
	}
}

type ExpiryState string

const (
	ExpiryExpired      ExpiryState = "expired"
	ExpiryExpiringSoon ExpiryState = "expiring_soon"
	ExpiryFresh        ExpiryState = "fresh"
	ExpiryUnknown      ExpiryState = "unknown"
	ExpiryInvalid      ExpiryState = "invalid"
)

// ExpiryStatus describes a medicine's expiry for display. Days is the
// number of days left and is only meaningful for parsed dates.
type ExpiryStatus struct {
	State ExpiryState
	Days  int
	Date  string
}

func StatusOf(m domain.Medicine, asOf time.Time) ExpiryStatus {
	exp := domain.ParseExpiry(m.ExpiryDate)
	switch exp.Kind {
	case domain.ExpiryAbsent:
		return ExpiryStatus{State: ExpiryUnknown}
	case domain.ExpiryInvalid:
		return ExpiryStatus{State: ExpiryInvalid, Date: exp.Raw}
	}
	days := int(exp.Date.Sub(day(asOf)).Hours() / 24)
	st := ExpiryStatus{Days: days, Date: exp.Date.Format(domain.DateLayout)}
	switch {
	case days < 0:
		st.State = ExpiryExpired
	case days <= ExpiringSoonDays:
		st.State = ExpiryExpiringSoon
	default:
		st.State = ExpiryFresh
	}
	return st
}

type StockLevel string

const (
	StockOut StockLevel = "out"
	StockLow StockLevel = "low"
	StockIn  StockLevel = "in"
)

func StockLevelOf(stock int) StockLevel {
	switch {
	case stock <= 0:
		return StockOut
	case stock <= LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// day truncates t to midnight UTC of its calendar date, matching how
// expiry dates are parsed.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
