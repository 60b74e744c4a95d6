package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/invoicedesk/internal/database"
	"github.com/jask/invoicedesk/internal/database/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db))
	return db
}

func TestPresetCRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPresetRepo(newTestDB(t))

	id, err := repo.Insert(ctx, repository.CompanyProfile{CompanyName: "Acme", CompanyEmail: "billing@acme.test"})
	require.NoError(t, err)

	p, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Acme", p.CompanyName)
	require.Equal(t, "", p.CompanyAddress)

	p.CompanyPhone = "555-0100"
	require.NoError(t, repo.Update(ctx, p))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "555-0100", list[0].CompanyPhone)

	require.NoError(t, repo.Delete(ctx, id))
	require.ErrorIs(t, repo.Delete(ctx, id), repository.ErrNotFound)
	_, err = repo.Get(ctx, id)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.ErrorIs(t, repository.NewClientRepo(db).Update(ctx, repository.Client{ID: 42, Name: "x", Email: "x@y"}), repository.ErrNotFound)
	require.ErrorIs(t, repository.NewProductRepo(db).Update(ctx, repository.Product{ID: 42, Name: "x"}), repository.ErrNotFound)
	require.ErrorIs(t, repository.NewInvoiceRepo(db).UpdateHeader(ctx, repository.Invoice{ID: 42}), repository.ErrNotFound)
}

func TestSMTPAccountUpsertReplacesPassword(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSMTPAccountRepo(newTestDB(t))

	id1, err := repo.Upsert(ctx, repository.SMTPAccount{Email: "me@mail.test", Password: []byte("one")})
	require.NoError(t, err)
	id2, err := repo.Upsert(ctx, repository.SMTPAccount{Email: "me@mail.test", Password: []byte("two")})
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	acct, err := repo.GetByEmail(ctx, "me@mail.test")
	require.NoError(t, err)
	require.Equal(t, []byte("two"), acct.Password)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].Password)
}

func seedInvoice(t *testing.T, db *sql.DB, clientName, date string, items map[int64]int64) (clientID, invoiceID int64) {
	t.Helper()
	ctx := context.Background()
	clients := repository.NewClientRepo(db)
	invoices := repository.NewInvoiceRepo(db)

	clientID, err := clients.Insert(ctx, repository.Client{Name: clientName, Email: clientName + "@example.test"})
	require.NoError(t, err)
	invoiceID, err = invoices.Insert(ctx, repository.Invoice{ClientID: clientID, Date: date})
	require.NoError(t, err)
	for productID, qty := range items {
		require.NoError(t, invoices.InsertItem(ctx, repository.InvoiceItem{InvoiceID: invoiceID, ProductID: productID, Quantity: qty, UnitPriceCents: 250}))
	}
	require.NoError(t, invoices.RecalculateTotal(ctx, invoiceID))
	return clientID, invoiceID
}

func TestInvoiceListNewestFirstWithClientName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	productID, err := repository.NewProductRepo(db).Insert(ctx, repository.Product{Name: "Widget", PriceCents: 250})
	require.NoError(t, err)

	_, older := seedInvoice(t, db, "alice", "2025-01-05", map[int64]int64{productID: 2})
	_, newer := seedInvoice(t, db, "bob", "2025-03-01", map[int64]int64{productID: 1})

	list, err := repository.NewInvoiceRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer, list[0].ID)
	require.Equal(t, "bob", list[0].ClientName)
	require.Equal(t, int64(250), list[0].TotalCents)
	require.Equal(t, older, list[1].ID)
	require.Equal(t, int64(500), list[1].TotalCents)

	inv, err := repository.NewInvoiceRepo(db).Get(ctx, older)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	require.Equal(t, "Widget", inv.Items[0].ProductName)
	require.Equal(t, int64(500), inv.Items[0].LineTotalCents())
}

func TestClientDeleteCascadesInvoices(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	productID, err := repository.NewProductRepo(db).Insert(ctx, repository.Product{Name: "Widget", PriceCents: 250})
	require.NoError(t, err)
	clientID, invoiceID := seedInvoice(t, db, "carol", "2025-02-02", map[int64]int64{productID: 3})

	require.NoError(t, repository.NewClientRepo(db).Delete(ctx, clientID))

	_, err = repository.NewInvoiceRepo(db).Get(ctx, invoiceID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	var items int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invoice_items").Scan(&items))
	require.Zero(t, items)
}

func TestRecalculateAfterProductDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	products := repository.NewProductRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	keep, err := products.Insert(ctx, repository.Product{Name: "Keep", PriceCents: 250})
	require.NoError(t, err)
	drop, err := products.Insert(ctx, repository.Product{Name: "Drop", PriceCents: 250})
	require.NoError(t, err)
	_, invoiceID := seedInvoice(t, db, "dave", "2025-02-02", map[int64]int64{keep: 1, drop: 2})

	ids, err := invoices.IDsForProduct(ctx, drop)
	require.NoError(t, err)
	require.Equal(t, []int64{invoiceID}, ids)

	require.NoError(t, products.Delete(ctx, drop))
	require.NoError(t, invoices.RecalculateTotal(ctx, invoiceID))

	inv, err := invoices.Get(ctx, invoiceID)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	require.Equal(t, int64(250), inv.TotalCents)
}
