package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ProductRepo handles products.
type ProductRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) *ProductRepo {
	return &ProductRepo{db: db}
}

// WithTx returns a repo bound to tx.
func (r *ProductRepo) WithTx(tx *sql.Tx) *ProductRepo {
	return &ProductRepo{db: tx}
}

func (r *ProductRepo) Insert(ctx context.Context, p Product) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO products(name, description, price_cents) VALUES (?, ?, ?)`,
		p.Name, p.Description, p.PriceCents)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(ctx context.Context, p Product) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE products SET name=?, description=?, price_cents=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		p.Name, p.Description, p.PriceCents, p.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the product; invoice lines referencing it cascade.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
	SELECT id, name, description, price_cents, created_at, updated_at FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, description, price_cents, created_at, updated_at FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
