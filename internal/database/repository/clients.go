package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ClientRepo handles clients.
type ClientRepo struct {
	db DBTX
}

func NewClientRepo(db DBTX) *ClientRepo {
	return &ClientRepo{db: db}
}

func (r *ClientRepo) Insert(ctx context.Context, c Client) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO clients(name, email, address, phone) VALUES (?, ?, ?, ?)`,
		c.Name, c.Email, c.Address, c.Phone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ClientRepo) Update(ctx context.Context, c Client) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE clients SET name=?, email=?, address=?, phone=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		c.Name, c.Email, c.Address, c.Phone, c.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the client; its invoices go with it (ON DELETE CASCADE).
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *ClientRepo) Get(ctx context.Context, id int64) (Client, error) {
	var c Client
	err := r.db.QueryRowContext(ctx, `
	SELECT id, name, email, address, phone, created_at, updated_at FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

func (r *ClientRepo) List(ctx context.Context) ([]Client, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, email, address, phone, created_at, updated_at FROM clients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
