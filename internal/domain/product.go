package domain

import "time"

// Product is a catalog entry. Prices are in cents.
type Product struct {
	ID          string    `json:"id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description" firestore:"description"`
	Price       int64     `json:"price" firestore:"price"`
	ImageURL    string    `json:"image_url" firestore:"imageUrl"`
	Category    string    `json:"category" firestore:"category"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Snapshot returns the denormalized copy of the product captured into a cart
// line at add time.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
	}
}
