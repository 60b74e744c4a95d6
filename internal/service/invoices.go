package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jask/invoicedesk/internal/database"
	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/money"
	"github.com/jask/invoicedesk/internal/printing"
)

// DateLayout is the only accepted invoice date format.
const DateLayout = "2006-01-02"

// InvoiceInput is the create/update payload. Company fields are a snapshot
// of the sender; on update a nil field keeps the stored value.
type InvoiceInput struct {
	ClientID       int64
	Date           string
	CompanyName    *string
	CompanyAddress *string
	CompanyEmail   *string
	CompanyPhone   *string
	Items          []ItemInput
}

type ItemInput struct {
	ProductID      int64
	Quantity       int64
	UnitPriceCents int64
}

// InvoiceService owns invoice totals: they are always recomputed from the lines.
type InvoiceService struct {
	DB       *sql.DB
	Invoices *repository.InvoiceRepo
	Clients  *repository.ClientRepo
	Products *repository.ProductRepo
	Renderer printing.Renderer
}

func (s *InvoiceService) List(ctx context.Context) ([]repository.InvoiceSummary, error) {
	return s.Invoices.List(ctx)
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (repository.Invoice, error) {
	return s.Invoices.Get(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	return s.Invoices.Delete(ctx, id)
}

// Create stores the invoice with its lines and returns the new id and total.
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (int64, int64, error) {
	if err := s.validate(ctx, in); err != nil {
		return 0, 0, err
	}
	inv := repository.Invoice{
		ClientID:   in.ClientID,
		Date:       in.Date,
		TotalCents: Total(in.Items),
	}
	apply(&inv.CompanyName, in.CompanyName)
	apply(&inv.CompanyAddress, in.CompanyAddress)
	apply(&inv.CompanyEmail, in.CompanyEmail)
	apply(&inv.CompanyPhone, in.CompanyPhone)

	var id int64
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := s.Invoices.WithTx(tx)
		if err := checkProducts(ctx, s.Products.WithTx(tx), in.Items); err != nil {
			return err
		}
		var err error
		if id, err = repo.Insert(ctx, inv); err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		return insertItems(ctx, repo, id, in.Items)
	})
	if err != nil {
		return 0, 0, err
	}
	return id, inv.TotalCents, nil
}

// Update replaces the date, the supplied company fields and every line.
func (s *InvoiceService) Update(ctx context.Context, id int64, in InvoiceInput) error {
	inv, err := s.Invoices.Get(ctx, id)
	if err != nil {
		return err
	}
	if in.ClientID == 0 {
		in.ClientID = inv.ClientID
	}
	if err := s.validate(ctx, in); err != nil {
		return err
	}
	inv.ClientID = in.ClientID
	inv.Date = in.Date
	apply(&inv.CompanyName, in.CompanyName)
	apply(&inv.CompanyAddress, in.CompanyAddress)
	apply(&inv.CompanyEmail, in.CompanyEmail)
	apply(&inv.CompanyPhone, in.CompanyPhone)
	inv.TotalCents = Total(in.Items)

	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := s.Invoices.WithTx(tx)
		if err := checkProducts(ctx, s.Products.WithTx(tx), in.Items); err != nil {
			return err
		}
		if err := repo.UpdateHeader(ctx, inv); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		return insertItems(ctx, repo, id, in.Items)
	})
}

// Total is the sum of quantity * unit price over items.
func Total(items []ItemInput) int64 {
	var total int64
	for _, it := range items {
		total += money.LineTotal(it.Quantity, it.UnitPriceCents)
	}
	return total
}

// validate runs before any transaction: sqlite has a single connection.
func (s *InvoiceService) validate(ctx context.Context, in InvoiceInput) error {
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return invalidf("date must be YYYY-MM-DD, got %q", in.Date)
	}
	if len(in.Items) == 0 {
		return invalidf("at least one item is required")
	}
	var total int64
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return invalidf("item %d: quantity must be positive", i+1)
		}
		if it.UnitPriceCents < 0 {
			return invalidf("item %d: unit_price must not be negative", i+1)
		}
		line, ok := money.CheckedLineTotal(it.Quantity, it.UnitPriceCents)
		if !ok || line > money.MaxCents-total {
			return invalidf("item %d: amount out of range", i+1)
		}
		total += line
	}
	if _, err := s.Clients.Get(ctx, in.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidf("client %d does not exist", in.ClientID)
		}
		return err
	}
	return nil
}

func checkProducts(ctx context.Context, products *repository.ProductRepo, items []ItemInput) error {
	for _, it := range items {
		if _, err := products.Get(ctx, it.ProductID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalidf("product %d does not exist", it.ProductID)
			}
			return err
		}
	}
	return nil
}

func insertItems(ctx context.Context, repo *repository.InvoiceRepo, invoiceID int64, items []ItemInput) error {
	for _, it := range items {
		err := repo.InsertItem(ctx, repository.InvoiceItem{
			InvoiceID:      invoiceID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
		if err != nil {
			return fmt.Errorf("insert item for product %d: %w", it.ProductID, err)
		}
	}
	return nil
}

// Document collects what the PDF shows for invoice id.
func (s *InvoiceService) Document(ctx context.Context, id int64) (printing.Document, error) {
	inv, err := s.Invoices.Get(ctx, id)
	if err != nil {
		return printing.Document{}, err
	}
	client, err := s.Clients.Get(ctx, inv.ClientID)
	if err != nil {
		return printing.Document{}, fmt.Errorf("load client %d: %w", inv.ClientID, err)
	}
	doc := printing.Document{
		InvoiceID:      inv.ID,
		Date:           inv.Date,
		CompanyName:    inv.CompanyName,
		CompanyAddress: inv.CompanyAddress,
		CompanyEmail:   inv.CompanyEmail,
		CompanyPhone:   inv.CompanyPhone,
		ClientName:     client.Name,
		ClientAddress:  client.Address,
		ClientEmail:    client.Email,
		TotalCents:     inv.TotalCents,
	}
	for _, it := range inv.Items {
		doc.Lines = append(doc.Lines, printing.Line{
			Description:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return doc, nil
}

// RenderPDF renders invoice id with the configured engine.
func (s *InvoiceService) RenderPDF(ctx context.Context, id int64) ([]byte, printing.Document, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, printing.Document{}, err
	}
	pdf, err := s.Renderer.Render(ctx, doc)
	if err != nil {
		return nil, printing.Document{}, fmt.Errorf("render invoice %d: %w", id, err)
	}
	return pdf, doc, nil
}
