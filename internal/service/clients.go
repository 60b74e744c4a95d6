package service

import (
	"context"
	"strings"

	"github.com/jask/invoicedesk/internal/database/repository"
)

// ClientPatch carries a partial client update.
type ClientPatch struct {
	Name    *string
	Email   *string
	Address *string
	Phone   *string
}

// ClientService manages billed customers. Deleting one drops its invoices.
type ClientService struct {
	Clients *repository.ClientRepo
}

func (s *ClientService) List(ctx context.Context) ([]repository.Client, error) {
	return s.Clients.List(ctx)
}

func (s *ClientService) Create(ctx context.Context, c repository.Client) (int64, error) {
	if err := validateClient(c); err != nil {
		return 0, err
	}
	return s.Clients.Insert(ctx, c)
}

func (s *ClientService) Update(ctx context.Context, id int64, patch ClientPatch) error {
	c, err := s.Clients.Get(ctx, id)
	if err != nil {
		return err
	}
	apply(&c.Name, patch.Name)
	apply(&c.Email, patch.Email)
	apply(&c.Address, patch.Address)
	apply(&c.Phone, patch.Phone)
	if err := validateClient(c); err != nil {
		return err
	}
	return s.Clients.Update(ctx, c)
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.Clients.Delete(ctx, id)
}

func validateClient(c repository.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidf("name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return invalidf("email is required")
	}
	return nil
}
