package service

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/money"
)

// SeedRepos bundles repos used by Seed.
type SeedRepos struct {
	Presets  *repository.PresetRepo
	Clients  *repository.ClientRepo
	Products *repository.ProductRepo
}

// SeedCounts is how much demo data Seed writes.
type SeedCounts struct {
	Presets  int
	Clients  int
	Products int
}

// DefaultSeedCounts fills every panel with a handful of rows.
var DefaultSeedCounts = SeedCounts{Presets: 2, Clients: 8, Products: 12}

// Seed inserts demo company profiles, clients and products. A zero seed picks a random one.
func Seed(ctx context.Context, repos SeedRepos, counts SeedCounts, seed uint64) error {
	f := gofakeit.New(seed)

	for i := 0; i < counts.Presets; i++ {
		addr := f.Address()
		_, err := repos.Presets.Insert(ctx, repository.CompanyProfile{
			CompanyName:    f.Company(),
			CompanyAddress: fmt.Sprintf("%s, %s", addr.Street, addr.City),
			CompanyEmail:   f.Email(),
			CompanyPhone:   f.Phone(),
		})
		if err != nil {
			return fmt.Errorf("seed preset: %w", err)
		}
	}
	for i := 0; i < counts.Clients; i++ {
		addr := f.Address()
		_, err := repos.Clients.Insert(ctx, repository.Client{
			Name:    f.Name(),
			Email:   f.Email(),
			Address: fmt.Sprintf("%s, %s", addr.Street, addr.City),
			Phone:   f.Phone(),
		})
		if err != nil {
			return fmt.Errorf("seed client: %w", err)
		}
	}
	for i := 0; i < counts.Products; i++ {
		_, err := repos.Products.Insert(ctx, repository.Product{
			Name:        f.ProductName(),
			Description: f.ProductDescription(),
			PriceCents:  money.FromFloat(f.Price(5, 500)),
		})
		if err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
	}
	return nil
}
