package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
)

func (c *HTTPClient) ListPresets(ctx context.Context) ([]Preset, error) {
	var out []Preset
	if err := c.get(ctx, "presets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreatePreset(ctx context.Context, in PresetInput) (int64, error) {
	var out Created
	if err := c.post(ctx, "presets", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) UpdatePreset(ctx context.Context, id int64, in PresetInput) error {
	return c.put(ctx, fmt.Sprintf("presets/%d", id), in, &status{})
}

func (c *HTTPClient) DeletePreset(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("presets/%d", id), &status{})
}

func (c *HTTPClient) ListSMTPAccounts(ctx context.Context) ([]SMTPAccount, error) {
	var out []SMTPAccount
	if err := c.get(ctx, "smtp-configs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSMTPAccount fails with a 400 *Error when the server cannot log in.
func (c *HTTPClient) CreateSMTPAccount(ctx context.Context, in SMTPAccountInput) (int64, error) {
	var out Created
	if err := c.post(ctx, "smtp-configs", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) DeleteSMTPAccount(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("smtp-configs/%d", id), &status{})
}

func (c *HTTPClient) VerifySMTP(ctx context.Context, in SMTPAccountInput) error {
	return c.post(ctx, "verify-smtp", in, nil)
}

func (c *HTTPClient) TestEmail(ctx context.Context, ref AccountRef) error {
	return c.post(ctx, "test-email", ref, nil)
}

func (c *HTTPClient) ListClients(ctx context.Context) ([]Client, error) {
	var out []Client
	if err := c.get(ctx, "clients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateClient(ctx context.Context, in ClientInput) (int64, error) {
	var out Created
	if err := c.post(ctx, "clients", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) UpdateClient(ctx context.Context, id int64, in ClientInput) error {
	return c.put(ctx, fmt.Sprintf("clients/%d", id), in, &status{})
}

func (c *HTTPClient) DeleteClient(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("clients/%d", id), &status{})
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	var out Created
	if err := c.post(ctx, "products", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	return c.put(ctx, fmt.Sprintf("products/%d", id), in, &status{})
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("products/%d", id), &status{})
}

func (c *HTTPClient) ListInvoices(ctx context.Context) ([]InvoiceSummary, error) {
	var out []InvoiceSummary
	if err := c.get(ctx, "invoices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetInvoice(ctx context.Context, id int64) (Invoice, error) {
	var out Invoice
	if err := c.get(ctx, fmt.Sprintf("invoices/%d", id), &out); err != nil {
		return Invoice{}, err
	}
	return out, nil
}

func (c *HTTPClient) CreateInvoice(ctx context.Context, in InvoiceInput) (CreatedInvoice, error) {
	var out CreatedInvoice
	if err := c.post(ctx, "invoices", in, &out); err != nil {
		return CreatedInvoice{}, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateInvoice(ctx context.Context, id int64, in InvoiceInput) error {
	return c.put(ctx, fmt.Sprintf("invoices/%d", id), in, &status{})
}

func (c *HTTPClient) DeleteInvoice(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("invoices/%d", id), &status{})
}

func (c *HTTPClient) SendInvoice(ctx context.Context, id int64, ref AccountRef) error {
	return c.post(ctx, fmt.Sprintf("invoices/%d/send", id), ref, &status{})
}

// DownloadPDF returns the PDF bytes and the server-suggested filename.
func (c *HTTPClient) DownloadPDF(ctx context.Context, id int64) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("invoices/%d/pdf", id), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read pdf: %w", err)
	}
	name := fmt.Sprintf("invoice_%d.pdf", id)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return data, name, nil
}
