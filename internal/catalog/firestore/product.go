// Package firestore implements the catalog repository on Cloud Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/database"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

const collection = "products"

// ProductRepository stores products as documents in the "products"
// collection. Document ids are the product ids.
type ProductRepository struct {
	client *firestore.Client
}

func NewProductRepository(client *firestore.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	ctx, end := database.TraceOp(ctx, "firestore", "GetProduct", collection)

	doc, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		end(err)
		if status.Code(err) == codes.NotFound {
			return domain.Product{}, apperrors.NotFound("product", id)
		}
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}

	p, err := decode(doc)
	end(err)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// List returns products ordered by creation time, newest first. An empty
// category returns the whole catalog.
func (r *ProductRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, end := database.TraceOp(ctx, "firestore", "ListProducts", collection)

	q := r.client.Collection(collection).Query
	if category != "" {
		q = q.Where("category", "==", category)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var products []domain.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			end(err)
			return nil, fmt.Errorf("iterate products: %w", err)
		}
		p, err := decode(doc)
		if err != nil {
			end(err)
			return nil, err
		}
		products = append(products, p)
	}
	end(nil)
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	ctx, end := database.TraceOp(ctx, "firestore", "CreateProduct", collection)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.client.Collection(collection).Doc(p.ID).Create(ctx, p)
	end(err)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.Product{}, apperrors.Conflict("product already exists")
		}
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	ctx, end := database.TraceOp(ctx, "firestore", "UpdateProduct", collection)

	ref := r.client.Collection(collection).Doc(p.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, p)
	})
	end(err)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Product{}, apperrors.NotFound("product", p.ID)
		}
		return domain.Product{}, fmt.Errorf("update product %s: %w", p.ID, err)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, end := database.TraceOp(ctx, "firestore", "DeleteProduct", collection)

	ref := r.client.Collection(collection).Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
	end(err)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return apperrors.NotFound("product", id)
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

func decode(doc *firestore.DocumentSnapshot) (domain.Product, error) {
	var p domain.Product
	if err := doc.DataTo(&p); err != nil {
		return domain.Product{}, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
	}
	p.ID = doc.Ref.ID
	return p, nil
}
