package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

// imageExtensions lists the accepted product image file types.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ImageURL    string `json:"image_url" validate:"required,url"`
	Category    string `json:"category" validate:"required,min=2,max=100"`
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Category    *string `json:"category" validate:"omitempty,min=2,max=100"`
}

// Events receives catalog change notifications. Publishing is best effort.
type Events interface {
	ProductCreated(ctx context.Context, p domain.Product)
	ProductUpdated(ctx context.Context, p domain.Product)
	ProductDeleted(ctx context.Context, id string)
}

// Service implements the business logic for catalog operations.
type Service struct {
	repo   Repository
	events Events
	logger *slog.Logger
}

// NewService creates a new catalog service. events may be nil.
func NewService(repo Repository, events Events, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// GetProduct returns a single product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperrors.InvalidInput("product id is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListProducts returns the catalog, optionally restricted to one category.
func (s *Service) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SearchProducts returns products whose name contains the query, matched
// case-insensitively. An empty query returns the full catalog.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Categories returns the distinct product categories, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// CreateProduct adds a product to the catalog.
func (s *Service) CreateProduct(ctx context.Context, input *CreateProductInput) (domain.Product, error) {
	if err := validateImageURL(input.ImageURL); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	p := domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    strings.TrimSpace(input.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", created.ID),
		slog.String("name", created.Name),
		slog.Int64("price", created.Price),
	)
	if s.events != nil {
		s.events.ProductCreated(ctx, created)
	}
	return created, nil
}

// UpdateProduct applies a partial update to a product.
func (s *Service) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperrors.InvalidInput("product id is required")
	}
	if input.ImageURL != nil {
		if err := validateImageURL(*input.ImageURL); err != nil {
			return domain.Product{}, err
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		p.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.ImageURL != nil {
		p.ImageURL = *input.ImageURL
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", updated.ID))
	if s.events != nil {
		s.events.ProductUpdated(ctx, updated)
	}
	return updated, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	if s.events != nil {
		s.events.ProductDeleted(ctx, id)
	}
	return nil
}

func validateImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.InvalidInput("image_url must be an http(s) URL")
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return nil
		}
	}
	return apperrors.InvalidInput("image_url must point to a jpg, jpeg, png or webp file")
}
