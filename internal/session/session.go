// Package session keeps the per-visitor state of the storefront: who is
// logged in, their cart and the quantities picked on the catalog page.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"medicare/internal/cart"
)

// Menu is the dashboard section a session last visited.
type Menu int

const (
	MenuMedicines Menu = iota
	MenuCart
	MenuOrders
	MenuConsult
	MenuConsultations
)

// Session is the explicit replacement for ambient page state. Handlers hold
// it locked for the duration of a request.
type Session struct {
	mu sync.Mutex

	ID           string
	User         string
	Role         string
	Cart         *cart.Cart
	Selections   map[string]int
	Address      string
	Menu         Menu
	LastActivity time.Time

	flash Flash
	// authenticated mirrors LoggedIn for the store, which reads it without
	// holding the session lock.
	authenticated atomic.Bool
}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Cart:         cart.New(),
		Selections:   make(map[string]int),
		LastActivity: now,
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) LoggedIn() bool { return s.User != "" }

// Login binds the session to a user.
func (s *Session) Login(user, role string) {
	s.User = user
	s.Role = role
	s.Menu = MenuMedicines
	s.authenticated.Store(true)
}

// ClearSelections forgets the quantities picked on the catalog page.
func (s *Session) ClearSelections() {
	s.Selections = make(map[string]int)
}

// SetFlash replaces the pending notice.
func (s *Session) SetFlash(kind, message string) {
	s.flash = Flash{Kind: kind, Message: message}
}

// TakeFlash returns the pending notice and clears it.
func (s *Session) TakeFlash() (Flash, bool) {
	f := s.flash
	s.flash = Flash{}
	return f, f.Message != ""
}

// Reset logs out and drops the cart, selections and navigation state.
func (s *Session) Reset() {
	s.User = ""
	s.Role = ""
	s.authenticated.Store(false)
	s.Cart.Clear()
	s.ClearSelections()
	s.Address = ""
	s.Menu = MenuMedicines
	s.flash = Flash{}
}
