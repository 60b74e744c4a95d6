package printing

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/jask/invoicedesk/internal/money"
)

// FPDFRenderer draws the invoice directly with the core PDF fonts.
type FPDFRenderer struct {
	currency string
}

// NewFPDFRenderer uses currency as the amount prefix. Core fonts are
// cp1252 so symbols outside it (₹) are better given as a code like "INR ".
func NewFPDFRenderer(currency string) *FPDFRenderer {
	return &FPDFRenderer{currency: currency}
}

const (
	marginLeft   = 50.0
	clientIndent = 70.0
	bottomLimit  = 100.0
)

func (r *FPDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Invoice #%d", doc.InvoiceID), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width, height := pdf.GetPageSize()
	amount := func(cents int64) string { return tr(r.currency + money.Format(cents)) }
	right := func(x, y float64, s string) { pdf.Text(x-pdf.GetStringWidth(s), y, s) }

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := tr(headerName(doc))
	pdf.Text((width-pdf.GetStringWidth(title))/2, 50, title)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(marginLeft, 80, fmt.Sprintf("Invoice #%d    Date: %s", doc.InvoiceID, doc.Date))

	y := 110.0
	for _, s := range []string{doc.CompanyAddress, doc.CompanyEmail, doc.CompanyPhone} {
		if s != "" {
			pdf.Text(marginLeft, y, tr(s))
			y += 15
		}
	}

	pdf.Text(marginLeft, y+10, "Billed To:")
	y += 30
	pdf.Text(clientIndent, y, tr(doc.ClientName))
	if doc.ClientAddress != "" {
		pdf.Text(clientIndent, y+15, tr(doc.ClientAddress))
		y += 15
	}
	pdf.Text(clientIndent, y+15, tr(doc.ClientEmail))
	y += 50

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(50, y, "Description")
	pdf.Text(300, y, "Qty")
	pdf.Text(350, y, "Unit Price")
	pdf.Text(450, y, "Line Total")
	pdf.Line(50, y+2, 550, y+2)

	pdf.SetFont("Helvetica", "", 10)
	y += 20
	for _, l := range doc.Lines {
		pdf.Text(50, y, tr(l.Description))
		right(330, y, strconv.FormatInt(l.Quantity, 10))
		right(410, y, amount(l.UnitPriceCents))
		right(520, y, amount(l.TotalCents()))
		y += 15
		if y > height-bottomLimit {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 10)
			y = 50
		}
	}

	pdf.SetFont("Helvetica", "B", 12)
	right(520, y+10, "Grand Total: "+amount(doc.TotalCents))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
