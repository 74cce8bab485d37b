package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medicare/internal/domain"
	"medicare/internal/repository"
	"medicare/internal/session"
)

// OrderState is where a session's cart stands in the checkout flow.
type OrderState int

const (
	OrderEmpty OrderState = iota
	OrderAddressPending
	OrderCommitted
)

func (s OrderState) String() string {
	switch s {
	case OrderEmpty:
		return "empty"
	case OrderAddressPending:
		return "address_pending"
	case OrderCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// OrderService реализует оформление заказа из корзины сессии
type OrderService struct {
	orders repository.OrderRepository
	log    logrus.FieldLogger
	now    func() time.Time
	newID  func() string
}

func NewOrderService(orders repository.OrderRepository, log logrus.FieldLogger) *OrderService {
	return &OrderService{orders: orders, log: log, now: time.Now, newID: uuid.NewString}
}

// State reports Empty for a cart without lines, AddressPending otherwise.
func (s *OrderService) State(sess *session.Session) OrderState {
	if sess.Cart.Empty() {
		return OrderEmpty
	}
	return OrderAddressPending
}

// PlaceOrder commits the session cart to the order store. On any error the
// session is left exactly as it was, so the user can retry.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *session.Session, address string) (*domain.Order, error) {
	if s.State(sess) == OrderEmpty {
		return nil, domain.ErrEmptyCart
	}
	if strings.TrimSpace(address) == "" {
		return nil, domain.ErrBlankAddress
	}

	o := domain.Order{
		ID:       s.newID(),
		User:     sess.User,
		Items:    sess.Cart.Lines(),
		Total:    sess.Cart.Total(),
		DateTime: s.now().Format(domain.TimestampLayout),
		Address:  address,
	}
	if err := s.orders.Append(ctx, o); err != nil {
		s.log.WithError(err).WithField("user", sess.User).Error("order not saved")
		return nil, err
	}

	sess.Address = address
	sess.Cart.Clear()
	sess.ClearSelections()
	sess.Menu = session.MenuOrders

	s.log.WithFields(logrus.Fields{
		"user":  sess.User,
		"order": o.ID,
		"lines": len(o.Items),
		"total": o.Total,
	}).Info("order placed")
	return &o, nil
}

// History возвращает заказы пользователя в порядке оформления
func (s *OrderService) History(ctx context.Context, user string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, user)
}
