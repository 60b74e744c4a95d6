package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SMTPAccountRepo handles stored sender accounts.
type SMTPAccountRepo struct {
	db DBTX
}

func NewSMTPAccountRepo(db DBTX) *SMTPAccountRepo {
	return &SMTPAccountRepo{db: db}
}

// Upsert stores the account, replacing the sealed password when the email already exists.
func (r *SMTPAccountRepo) Upsert(ctx context.Context, a SMTPAccount) (int64, error) {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO smtp_accounts(email, password) VALUES (?, ?)
	ON CONFLICT(email) DO UPDATE SET password=excluded.password`, a.Email, a.Password)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM smtp_accounts WHERE email = ?`, a.Email).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SMTPAccountRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM smtp_accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *SMTPAccountRepo) Get(ctx context.Context, id int64) (SMTPAccount, error) {
	return r.getBy(ctx, `WHERE id = ?`, id)
}

func (r *SMTPAccountRepo) GetByEmail(ctx context.Context, email string) (SMTPAccount, error) {
	return r.getBy(ctx, `WHERE email = ?`, email)
}

func (r *SMTPAccountRepo) getBy(ctx context.Context, where string, arg any) (SMTPAccount, error) {
	var a SMTPAccount
	err := r.db.QueryRowContext(ctx, `SELECT id, email, password, created_at FROM smtp_accounts `+where, arg).
		Scan(&a.ID, &a.Email, &a.Password, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SMTPAccount{}, ErrNotFound
	}
	return a, err
}

// List returns accounts without their sealed passwords.
func (r *SMTPAccountRepo) List(ctx context.Context) ([]SMTPAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, created_at FROM smtp_accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SMTPAccount
	for rows.Next() {
		var a SMTPAccount
		if err := rows.Scan(&a.ID, &a.Email, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
