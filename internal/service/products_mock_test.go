package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/jask/invoicedesk/internal/database/repository"
)

func TestProductDeleteRollsBackWhenRecalculationFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := &ProductService{
		DB:       db,
		Products: repository.NewProductRepo(db),
		Invoices: repository.NewInvoiceRepo(db),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT invoice_id FROM invoice_items")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET total_cents")).
		WithArgs(int64(3)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = svc.Delete(context.Background(), 7)
	require.ErrorContains(t, err, "recalculate invoice 3")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDeleteMissingRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := &ProductService{DB: db, Products: repository.NewProductRepo(db), Invoices: repository.NewInvoiceRepo(db)}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT invoice_id")).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.ErrorIs(t, svc.Delete(context.Background(), 7), repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
