package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prashant0268/shamyraweb/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// CartStore is the account-bound (remote) cart record, keyed by user ID.
// The engine saves the whole cart on every mutation, so the interface is
// a plain get/put.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
}

// OrderStore is append-only. AppendOrder assigns the order ID and the
// server-side creation time and returns both.
type OrderStore interface {
	AppendOrder(ctx context.Context, order *domain.Order) (orderID string, createdAt time.Time, err error)
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

type ProfileStore interface {
	SaveProfile(ctx context.Context, userID string, update domain.ProfileUpdate) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}
