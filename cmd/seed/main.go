package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/container"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/internal/infrastructure/search"
	"github.com/oksasatya/storefront/internal/router"
	"github.com/oksasatya/storefront/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if cfg.StoreDriver == config.StoreMemory {
		log.Fatal("STORE_DRIVER=memory has nothing to seed")
	}

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)
	closeStores, err := container.OpenStores(ctx, cfg, logger, true)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStores()

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(ctx, addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = search.NewProductIndex(es, cfg.ESProductsIndex).EnsureIndex(ctx)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; products will not be indexed")
		} else {
			container.SetES(es)
		}
	}

	email := getenv("SEED_ADMIN_EMAIL", "admin@storefront.local")
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := &entity.User{
		Name:     "Store Admin",
		Email:    entity.NormalizeEmail(email),
		Password: hash,
		Role:     entity.RoleAdmin,
	}
	switch err := container.GetStores().Users.Create(ctx, admin); {
	case errors.Is(err, repository.ErrDuplicateEmail):
		fmt.Printf("admin already exists: email=%s\n", admin.Email)
	case err != nil:
		log.Fatalf("failed to seed admin: %v", err)
	default:
		fmt.Printf("seeded admin: id=%s email=%s password=%s\n", admin.ID, admin.Email, password)
	}

	existing, err := container.GetStores().Products.List(ctx)
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("catalog already has %d products; skipping\n", len(existing))
		return
	}
	products := router.BuildServices().Products
	for _, p := range sampleProducts() {
		if err := products.Create(ctx, &p); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
		fmt.Printf("seeded product: id=%s name=%s\n", p.ID, p.Name)
	}
}

func sampleProducts() []entity.Product {
	return []entity.Product{
		{
			Name:             "Classic Cotton Tee",
			Price:            19.99,
			OriginalPrice:    24.99,
			Description:      "Soft everyday t-shirt in heavyweight cotton.",
			Images:           []string{"https://placehold.co/600x800?text=Tee"},
			Sizes:            []string{"S", "M", "L", "XL"},
			VarietyOfProduct: []string{"crew neck"},
			Colors:           []entity.Color{{Name: "Black", Value: "#000000"}, {Name: "White", Value: "#ffffff"}},
			Category:         "t-shirts",
			IsNew:            true,
			OnSale:           true,
			Rating:           4.5,
			Reviews:          128,
			Features:         []string{"100% cotton", "Regular fit"},
			Specifications: entity.Specifications{
				Material: "Cotton", Weight: "220gsm", Fit: "Regular", Care: "Machine wash cold",
			},
		},
		{
			Name:             "Slim Denim Jeans",
			Price:            59.00,
			OriginalPrice:    59.00,
			Description:      "Stretch denim with a slim tapered leg.",
			Images:           []string{"https://placehold.co/600x800?text=Jeans"},
			Sizes:            []string{"28", "30", "32", "34"},
			VarietyOfProduct: []string{"slim", "tapered"},
			Colors:           []entity.Color{{Name: "Indigo", Value: "#3f51b5"}},
			Category:         "jeans",
			Rating:           4.2,
			Reviews:          54,
			Features:         []string{"Stretch denim", "Five pockets"},
			Specifications: entity.Specifications{
				Material: "Denim", Weight: "12oz", Fit: "Slim", Care: "Wash inside out",
			},
		},
		{
			Name:             "Hooded Fleece Sweatshirt",
			Price:            45.50,
			OriginalPrice:    65.00,
			Description:      "Brushed fleece hoodie with kangaroo pocket.",
			Images:           []string{"https://placehold.co/600x800?text=Hoodie"},
			Sizes:            []string{"S", "M", "L"},
			VarietyOfProduct: []string{"pullover"},
			Colors:           []entity.Color{{Name: "Grey", Value: "#9e9e9e"}},
			Category:         "hoodies",
			OnSale:           true,
			Rating:           4.8,
			Reviews:          301,
			Features:         []string{"Brushed interior", "Ribbed cuffs"},
			Specifications: entity.Specifications{
				Material: "Cotton blend", Weight: "320gsm", Fit: "Relaxed", Care: "Tumble dry low",
			},
		},
	}
}
