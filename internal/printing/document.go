// Package printing renders invoices to PDF.
package printing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/config"
	"github.com/jask/invoicedesk/internal/money"
)

// Document is everything printed on an invoice.
type Document struct {
	InvoiceID      int64
	Date           string
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	ClientName     string
	ClientAddress  string
	ClientEmail    string
	Lines          []Line
	TotalCents     int64
}

// Line is one printed row.
type Line struct {
	Description    string
	Quantity       int64
	UnitPriceCents int64
}

// TotalCents is the printed line total.
func (l Line) TotalCents() int64 { return money.LineTotal(l.Quantity, l.UnitPriceCents) }

// Renderer turns a Document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// Filename is the attachment name used for downloads and email.
func Filename(invoiceID int64) string {
	return fmt.Sprintf("invoice_%d.pdf", invoiceID)
}

func headerName(doc Document) string {
	if strings.TrimSpace(doc.CompanyName) == "" {
		return "Invoice"
	}
	return doc.CompanyName
}

// New picks the renderer named by cfg.Engine. The returned func releases browser resources.
func New(cfg config.PDFConfig, log *zap.Logger) (Renderer, func(), error) {
	switch strings.ToLower(cfg.Engine) {
	case "chrome":
		r, err := NewChromeRenderer(ChromeConfig{RemoteURL: cfg.ChromeURL, CurrencyLabel: cfg.CurrencyLabel, Logger: log})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case "", "fpdf":
		return NewFPDFRenderer(cfg.CurrencyLabel), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("printing: unknown engine %q", cfg.Engine)
	}
}
