// Package main implements a standalone seed script that fills the Firestore
// product catalog with a small set of clothing items for local development.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"

	catalogfirestore "github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog/firestore"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var products = []domain.Product{
	{Name: "Basic Tee", Description: "Plain cotton tee.", Price: 1500, Category: "t-shirts", ImageURL: "https://storage.googleapis.com/loja-assets/basic-tee.jpg"},
	{Name: "Logo Tee", Description: "Cotton tee with embroidered logo.", Price: 2000, Category: "t-shirts", ImageURL: "https://storage.googleapis.com/loja-assets/logo-tee.jpg"},
	{Name: "Striped Tee", Description: "Navy and white stripes.", Price: 1800, Category: "t-shirts", ImageURL: "https://storage.googleapis.com/loja-assets/striped-tee.jpg"},
	{Name: "Zip Hoodie", Description: "Fleece-lined zip hoodie.", Price: 8000, Category: "hoodies", ImageURL: "https://storage.googleapis.com/loja-assets/zip-hoodie.jpg"},
	{Name: "Pullover Hoodie", Description: "Heavyweight pullover.", Price: 7500, Category: "hoodies", ImageURL: "https://storage.googleapis.com/loja-assets/pullover-hoodie.jpg"},
	{Name: "Slim Jeans", Description: "Stretch denim, slim fit.", Price: 12000, Category: "jeans", ImageURL: "https://storage.googleapis.com/loja-assets/slim-jeans.jpg"},
	{Name: "Relaxed Jeans", Description: "Relaxed fit, stonewashed.", Price: 11000, Category: "jeans", ImageURL: "https://storage.googleapis.com/loja-assets/relaxed-jeans.jpg"},
	{Name: "Summer Dress", Description: "Light floral print dress.", Price: 9500, Category: "dresses", ImageURL: "https://storage.googleapis.com/loja-assets/summer-dress.jpg"},
	{Name: "Denim Jacket", Description: "Classic trucker jacket.", Price: 14000, Category: "jackets", ImageURL: "https://storage.googleapis.com/loja-assets/denim-jacket.jpg"},
	{Name: "Rain Jacket", Description: "Waterproof shell with hood.", Price: 16000, Category: "jackets", ImageURL: "https://storage.googleapis.com/loja-assets/rain-jacket.jpg"},
}

func main() {
	projectID := getEnv("FIRESTORE_PROJECT_ID", "loja-de-roupas-dev")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("connect to firestore: %v", err)
	}
	defer client.Close()

	repo := catalogfirestore.NewProductRepository(client)

	now := time.Now().UTC()
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		created, err := repo.Create(ctx, p)
		if err != nil {
			log.Printf("seed %q failed: %v", p.Name, err)
			continue
		}
		log.Printf("seeded %q (%s)", created.Name, created.ID)
	}

	log.Printf("done: %d products", len(products))
}
