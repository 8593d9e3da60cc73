// Package checkout turns the current cart into a persisted order.
// Payment is deliberately out of scope; orders carry a placeholder
// payment method until an integration lands.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/prashant0268/shamyraweb/internal/identity"
	"golang.org/x/sync/singleflight"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Cart is the slice of the engine checkout needs: a snapshot, the total,
// and the post-order clear.
type Cart interface {
	Items() []domain.LineItem
	CartTotal() float64
	ClearCart()
}

type OrderStore interface {
	AppendOrder(ctx context.Context, order *domain.Order) (orderID string, createdAt time.Time, err error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

type Service struct {
	store OrderStore
	pub   Publisher
	log   *slog.Logger
	sfg   singleflight.Group // collapses concurrent order-history reads per user
}

// NewService builds the checkout service. pub may be nil when event
// publishing is disabled.
func NewService(store OrderStore, pub Publisher, log *slog.Logger) *Service {
	return &Service{
		store: store,
		pub:   pub,
		log:   log,
	}
}

// CreateOrder snapshots the cart into a pending order and clears the
// cart once the order is stored. The cart is left untouched on any
// failure.
func (s *Service) CreateOrder(ctx context.Context, session identity.Session, cart Cart, address domain.ShippingAddress) (*domain.Order, error) {
	if !session.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}

	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := address.Validate(); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:          session.UserID,
		Items:           items,
		Total:           cart.CartTotal(),
		Status:          domain.OrderStatusPending,
		ShippingAddress: address,
		PaymentMethod:   "pending", // placeholder until payment integration
	}

	orderID, createdAt, err := s.store.AppendOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = orderID
	order.CreatedAt = createdAt

	cart.ClearCart()

	if s.pub != nil {
		if err := s.pub.PublishOrderCreated(ctx, order); err != nil {
			// Best-effort: the order is already durable.
			s.log.Error("order event publish failed", "order_id", orderID, "error", err)
		}
	}

	s.log.Info("order created", "order_id", orderID, "user_id", session.UserID, "total", order.Total)
	return order, nil
}

// ListOrders returns the user's order history, newest first.
func (s *Service) ListOrders(ctx context.Context, session identity.Session) ([]*domain.Order, error) {
	if !session.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}

	v, err, _ := s.sfg.Do(session.UserID, func() (interface{}, error) {
		return s.store.ListOrdersByUser(ctx, session.UserID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return v.([]*domain.Order), nil
}
