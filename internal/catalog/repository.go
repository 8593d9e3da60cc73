// Package catalog serves the read-only product catalog. Products are
// seeded through migrations; this scope has no write path.
package catalog

import (
	"context"
	"errors"

	"github.com/prashant0268/shamyraweb/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	ListFeatured(ctx context.Context) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	RunMigrations(migrationsPath string) error
	Close() error
}
