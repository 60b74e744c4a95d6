package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/invoicedesk/internal/database"
)

// MaintenanceService houses destructive operator actions.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all business data but keeps the schema.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"invoice_items",
			"invoices",
			"products",
			"clients",
			"smtp_accounts",
			"company_profiles",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
