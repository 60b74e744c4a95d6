package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/money"
)

const defaultChromeTimeout = 30 * time.Second

// ChromeConfig configures ChromeRenderer.
type ChromeConfig struct {
	// RemoteURL points at a running Chrome's DevTools endpoint. Empty launches a local headless Chrome.
	RemoteURL     string
	CurrencyLabel string
	Timeout       time.Duration
	Logger        *zap.Logger
}

// ChromeRenderer prints an HTML invoice through headless Chrome.
type ChromeRenderer struct {
	cfg         ChromeConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromeRenderer(cfg ChromeConfig) (*ChromeRenderer, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultChromeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ChromeRenderer{cfg: cfg, logger: logger}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-first-run", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("font-render-hinting", "none"),
		)
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	return r, nil
}

// Close shuts the browser allocator down.
func (r *ChromeRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

func (r *ChromeRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := BuildHTML(doc, r.cfg.CurrencyLabel)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()
	// tie the tab to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.6).
				WithMarginBottom(0.6).
				WithMarginLeft(0.7).
				WithMarginRight(0.7).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("render pdf: timed out after %v: %w", r.cfg.Timeout, err)
		}
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	r.logger.Debug("invoice rendered",
		zap.Int64("invoice_id", doc.InvoiceID),
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pdf, nil
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Invoice #{{.ID}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; }
h1 { text-align: center; font-size: 16pt; margin: 0 0 16pt; }
.meta, .party { margin-bottom: 12pt; }
.party div { margin-left: 14pt; }
table { width: 100%; border-collapse: collapse; font-size: 10pt; }
th { text-align: left; border-bottom: 1px solid #222; }
td.num, th.num { text-align: right; }
.total { text-align: right; font-weight: bold; font-size: 12pt; margin-top: 12pt; }
</style></head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">Invoice #{{.ID}} &nbsp;&nbsp; Date: {{.Date}}</div>
<div class="meta">{{range .From}}<div>{{.}}</div>{{end}}</div>
<div class="party">Billed To:{{range .To}}<div>{{.}}</div>{{end}}</div>
<table>
<thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Line Total</th></tr></thead>
<tbody>{{range .Lines}}
<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Unit}}</td><td class="num">{{.Total}}</td></tr>{{end}}
</tbody></table>
<div class="total">Grand Total: {{.Total}}</div>
</body></html>`))

type htmlLine struct {
	Description string
	Quantity    int64
	Unit        string
	Total       string
}

// BuildHTML renders the invoice page printed by ChromeRenderer.
func BuildHTML(doc Document, currency string) (string, error) {
	data := struct {
		ID    int64
		Title string
		Date  string
		From  []string
		To    []string
		Lines []htmlLine
		Total string
	}{
		ID:    doc.InvoiceID,
		Title: headerName(doc),
		Date:  doc.Date,
		From:  nonEmpty(doc.CompanyAddress, doc.CompanyEmail, doc.CompanyPhone),
		To:    nonEmpty(doc.ClientName, doc.ClientAddress, doc.ClientEmail),
		Total: currency + money.Format(doc.TotalCents),
	}
	for _, l := range doc.Lines {
		data.Lines = append(data.Lines, htmlLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			Unit:        currency + money.Format(l.UnitPriceCents),
			Total:       currency + money.Format(l.TotalCents()),
		})
	}
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("build invoice html: %w", err)
	}
	return buf.String(), nil
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
