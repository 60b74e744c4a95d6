package repository

import (
	"context"
	"database/sql"
	"errors"
)

// InvoiceRepo handles invoices and their items.
type InvoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) *InvoiceRepo { return &InvoiceRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *InvoiceRepo) WithTx(tx *sql.Tx) *InvoiceRepo { return &InvoiceRepo{db: tx} }

// Insert stores the header only; items go through InsertItem.
func (r *InvoiceRepo) Insert(ctx context.Context, inv Invoice) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO invoices(client_id, date, company_name, company_address, company_email, company_phone, total_cents)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ClientID, inv.Date, inv.CompanyName, inv.CompanyAddress, inv.CompanyEmail, inv.CompanyPhone, inv.TotalCents)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv Invoice) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE invoices SET
	 client_id=?, date=?, company_name=?, company_address=?, company_email=?, company_phone=?, total_cents=?,
	 updated_at=CURRENT_TIMESTAMP
	WHERE id=?`,
		inv.ClientID, inv.Date, inv.CompanyName, inv.CompanyAddress, inv.CompanyEmail, inv.CompanyPhone, inv.TotalCents, inv.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *InvoiceRepo) InsertItem(ctx context.Context, it InvoiceItem) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO invoice_items(invoice_id, product_id, quantity, unit_price_cents) VALUES (?, ?, ?, ?)`,
		it.InvoiceID, it.ProductID, it.Quantity, it.UnitPriceCents)
	return err
}

func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID)
	return err
}

func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Get loads the header and its items, items in insertion order.
func (r *InvoiceRepo) Get(ctx context.Context, id int64) (Invoice, error) {
	var inv Invoice
	err := r.db.QueryRowContext(ctx, `
	SELECT id, client_id, date, company_name, company_address, company_email, company_phone, total_cents, created_at, updated_at
	FROM invoices WHERE id = ?`, id).
		Scan(&inv.ID, &inv.ClientID, &inv.Date, &inv.CompanyName, &inv.CompanyAddress, &inv.CompanyEmail,
			&inv.CompanyPhone, &inv.TotalCents, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	if err != nil {
		return Invoice{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT ii.id, ii.invoice_id, ii.product_id, p.name, ii.quantity, ii.unit_price_cents
	FROM invoice_items ii JOIN products p ON p.id = ii.product_id
	WHERE ii.invoice_id = ? ORDER BY ii.id`, id)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPriceCents); err != nil {
			return Invoice{}, err
		}
		inv.Items = append(inv.Items, it)
	}
	return inv, rows.Err()
}

// List returns summaries, newest date first.
func (r *InvoiceRepo) List(ctx context.Context) ([]InvoiceSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT i.id, c.name, i.date, i.total_cents
	FROM invoices i JOIN clients c ON c.id = i.client_id
	ORDER BY i.date DESC, i.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InvoiceSummary
	for rows.Next() {
		var s InvoiceSummary
		if err := rows.Scan(&s.ID, &s.ClientName, &s.Date, &s.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// IDsForProduct lists invoices that have at least one line for productID.
func (r *InvoiceRepo) IDsForProduct(ctx context.Context, productID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT invoice_id FROM invoice_items WHERE product_id = ? ORDER BY invoice_id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RecalculateTotal sets total_cents from the invoice's current lines.
func (r *InvoiceRepo) RecalculateTotal(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE invoices SET total_cents = COALESCE(
	 (SELECT SUM(quantity * unit_price_cents) FROM invoice_items WHERE invoice_id = invoices.id), 0),
	 updated_at=CURRENT_TIMESTAMP
	WHERE id = ?`, id)
	return err
}
