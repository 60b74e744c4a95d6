package service

import (
	"context"
	"strings"

	"github.com/jask/invoicedesk/internal/database/repository"
)

// PresetPatch carries a partial company profile update; nil fields are left alone.
type PresetPatch struct {
	CompanyName    *string
	CompanyAddress *string
	CompanyEmail   *string
	CompanyPhone   *string
}

// PresetService manages company profiles.
type PresetService struct {
	Presets *repository.PresetRepo
}

func (s *PresetService) List(ctx context.Context) ([]repository.CompanyProfile, error) {
	return s.Presets.List(ctx)
}

func (s *PresetService) Create(ctx context.Context, p repository.CompanyProfile) (int64, error) {
	if strings.TrimSpace(p.CompanyName) == "" {
		return 0, invalidf("company_name is required")
	}
	return s.Presets.Insert(ctx, p)
}

func (s *PresetService) Update(ctx context.Context, id int64, patch PresetPatch) error {
	p, err := s.Presets.Get(ctx, id)
	if err != nil {
		return err
	}
	apply(&p.CompanyName, patch.CompanyName)
	apply(&p.CompanyAddress, patch.CompanyAddress)
	apply(&p.CompanyEmail, patch.CompanyEmail)
	apply(&p.CompanyPhone, patch.CompanyPhone)
	if strings.TrimSpace(p.CompanyName) == "" {
		return invalidf("company_name is required")
	}
	return s.Presets.Update(ctx, p)
}

func (s *PresetService) Delete(ctx context.Context, id int64) error {
	return s.Presets.Delete(ctx, id)
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
