package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PresetRepo handles company profiles.
type PresetRepo struct {
	db DBTX
}

func NewPresetRepo(db DBTX) *PresetRepo {
	return &PresetRepo{db: db}
}

func (r *PresetRepo) Insert(ctx context.Context, p CompanyProfile) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO company_profiles(company_name, company_address, company_email, company_phone)
	VALUES (?, ?, ?, ?)`,
		p.CompanyName, p.CompanyAddress, p.CompanyEmail, p.CompanyPhone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *PresetRepo) Update(ctx context.Context, p CompanyProfile) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE company_profiles SET
	 company_name=?, company_address=?, company_email=?, company_phone=?, updated_at=CURRENT_TIMESTAMP
	WHERE id=?`,
		p.CompanyName, p.CompanyAddress, p.CompanyEmail, p.CompanyPhone, p.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PresetRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM company_profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PresetRepo) Get(ctx context.Context, id int64) (CompanyProfile, error) {
	var p CompanyProfile
	err := r.db.QueryRowContext(ctx, `
	SELECT id, company_name, company_address, company_email, company_phone, created_at, updated_at
	FROM company_profiles WHERE id = ?`, id).
		Scan(&p.ID, &p.CompanyName, &p.CompanyAddress, &p.CompanyEmail, &p.CompanyPhone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CompanyProfile{}, ErrNotFound
	}
	return p, err
}

func (r *PresetRepo) List(ctx context.Context) ([]CompanyProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, company_name, company_address, company_email, company_phone, created_at, updated_at
	FROM company_profiles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CompanyProfile
	for rows.Next() {
		var p CompanyProfile
		if err := rows.Scan(&p.ID, &p.CompanyName, &p.CompanyAddress, &p.CompanyEmail, &p.CompanyPhone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
