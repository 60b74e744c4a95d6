package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jask/invoicedesk/internal/database"
	"github.com/jask/invoicedesk/internal/database/repository"
)

// ProductPatch carries a partial product update.
type ProductPatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
}

// ProductService manages the product catalogue.
type ProductService struct {
	DB       *sql.DB
	Products *repository.ProductRepo
	Invoices *repository.InvoiceRepo
}

func (s *ProductService) List(ctx context.Context) ([]repository.Product, error) {
	return s.Products.List(ctx)
}

func (s *ProductService) Create(ctx context.Context, p repository.Product) (int64, error) {
	if err := validateProduct(p); err != nil {
		return 0, err
	}
	return s.Products.Insert(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, id int64, patch ProductPatch) error {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return err
	}
	apply(&p.Name, patch.Name)
	apply(&p.Description, patch.Description)
	apply(&p.PriceCents, patch.PriceCents)
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.Products.Update(ctx, p)
}

// Delete removes the product and its invoice lines, then re-totals the invoices that lost a line.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		invoices := s.Invoices.WithTx(tx)
		affected, err := invoices.IDsForProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("find invoices for product %d: %w", id, err)
		}
		if err := s.Products.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		for _, invID := range affected {
			if err := invoices.RecalculateTotal(ctx, invID); err != nil {
				return fmt.Errorf("recalculate invoice %d: %w", invID, err)
			}
		}
		return nil
	})
}

func validateProduct(p repository.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalidf("name is required")
	}
	if p.PriceCents < 0 {
		return invalidf("price must not be negative")
	}
	return nil
}
