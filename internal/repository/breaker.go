package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerCartStore shields the remote cart store behind a circuit
// breaker so a struggling database does not stall every cart save.
// ErrCartNotFound counts as success: an empty cart is a valid answer.
type BreakerCartStore struct {
	inner CartStore
	get   *gobreaker.CircuitBreaker[*domain.Cart]
	put   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerCartStore(inner CartStore) *BreakerCartStore {
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrCartNotFound)
			},
		}
	}

	return &BreakerCartStore{
		inner: inner,
		get:   gobreaker.NewCircuitBreaker[*domain.Cart](settings("cart-store-get")),
		put:   gobreaker.NewCircuitBreaker[struct{}](settings("cart-store-put")),
	}
}

func (b *BreakerCartStore) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return b.get.Execute(func() (*domain.Cart, error) {
		return b.inner.GetCart(ctx, userID)
	})
}

func (b *BreakerCartStore) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	_, err := b.put.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.UpsertCart(ctx, cart)
	})
	return err
}
