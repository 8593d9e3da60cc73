package localstore

import (
	"context"
	"errors"

	"github.com/prashant0268/shamyraweb/internal/domain"
)

// Store holds the guest (device-local) cart as a single blob per device.
// Consumers define this interface, not the Redis implementation.
type Store interface {
	Get(ctx context.Context, deviceID string) ([]domain.LineItem, error)
	Set(ctx context.Context, deviceID string, items []domain.LineItem) error
	Remove(ctx context.Context, deviceID string) error
}

var ErrNotFound = errors.New("guest cart not found")
