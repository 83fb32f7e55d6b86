package catalog

import (
	"context"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
)

// Repository is the catalog storage contract.
type Repository interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, category string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}
