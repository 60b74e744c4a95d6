package printing

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/invoicedesk/internal/config"
)

func sampleDocument() Document {
	return Document{
		InvoiceID:      42,
		Date:           "2024-03-01",
		CompanyName:    "Acme Traders",
		CompanyAddress: "12 Market Road",
		CompanyEmail:   "billing@acme.test",
		ClientName:     "Globex <Ltd>",
		ClientEmail:    "ap@globex.test",
		Lines: []Line{
			{Description: "Widget", Quantity: 3, UnitPriceCents: 1250},
			{Description: "Gadget", Quantity: 1, UnitPriceCents: 999},
		},
		TotalCents: 4749,
	}
}

func TestFPDFRendererProducesPDF(t *testing.T) {
	out, err := NewFPDFRenderer("INR ").Render(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFPDFRendererPaginatesLongInvoices(t *testing.T) {
	doc := sampleDocument()
	doc.CompanyName = ""
	doc.Lines = nil
	for i := 0; i < 120; i++ {
		doc.Lines = append(doc.Lines, Line{Description: fmt.Sprintf("Item %d", i), Quantity: 1, UnitPriceCents: 100})
	}
	out, err := NewFPDFRenderer("").Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.GreaterOrEqual(t, bytes.Count(out, []byte("/Type /Page\n")), 3)
}

func TestFPDFRendererHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFPDFRenderer("").Render(ctx, sampleDocument())
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildHTML(t *testing.T) {
	html, err := BuildHTML(sampleDocument(), "$")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Acme Traders</h1>")
	assert.Contains(t, html, "Invoice #42")
	assert.Contains(t, html, "$12.50")
	assert.Contains(t, html, "$37.50")
	assert.Contains(t, html, "Grand Total: $47.49")
	assert.Contains(t, html, "Globex &lt;Ltd&gt;")
}

func TestBuildHTMLFallsBackToGenericTitle(t *testing.T) {
	doc := sampleDocument()
	doc.CompanyName = "  "
	html, err := BuildHTML(doc, "")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Invoice</h1>")
}

func TestNewSelectsEngine(t *testing.T) {
	r, closeFn, err := New(config.PDFConfig{Engine: "fpdf"}, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &FPDFRenderer{}, r)

	_, _, err = New(config.PDFConfig{Engine: "latex"}, nil)
	require.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice_7.pdf", Filename(7))
}
