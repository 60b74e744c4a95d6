package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/invoicedesk/internal/database"
	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/mailer"
	"github.com/jask/invoicedesk/internal/money"
	"github.com/jask/invoicedesk/internal/printing"
	"github.com/jask/invoicedesk/internal/secrets"
)

type fakeMailer struct {
	verifyErr error
	sendErr   error
	verified  []mailer.Credentials
	sent      []sentMail
}

type sentMail struct {
	creds mailer.Credentials
	msg   mailer.Message
}

func (m *fakeMailer) Verify(_ context.Context, creds mailer.Credentials) error {
	m.verified = append(m.verified, creds)
	return m.verifyErr
}

func (m *fakeMailer) Send(_ context.Context, creds mailer.Credentials, msg mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{creds: creds, msg: msg})
	return nil
}

type fakeRenderer struct{ docs []printing.Document }

func (r *fakeRenderer) Render(_ context.Context, doc printing.Document) ([]byte, error) {
	r.docs = append(r.docs, doc)
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	db       *sql.DB
	presets  *PresetService
	clients  *ClientService
	products *ProductService
	invoices *InvoiceService
	mail     *MailService
	mailer   *fakeMailer
	renderer *fakeRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db))

	box, err := secrets.NewBox(make([]byte, 32))
	require.NoError(t, err)

	invRepo := repository.NewInvoiceRepo(db)
	clientRepo := repository.NewClientRepo(db)
	productRepo := repository.NewProductRepo(db)
	fx := &fixture{db: db, mailer: &fakeMailer{}, renderer: &fakeRenderer{}}
	fx.presets = &PresetService{Presets: repository.NewPresetRepo(db)}
	fx.clients = &ClientService{Clients: clientRepo}
	fx.products = &ProductService{DB: db, Products: productRepo, Invoices: invRepo}
	fx.invoices = &InvoiceService{DB: db, Invoices: invRepo, Clients: clientRepo, Products: productRepo, Renderer: fx.renderer}
	fx.mail = &MailService{
		Accounts: repository.NewSMTPAccountRepo(db),
		Box:      box,
		Mailer:   fx.mailer,
		Invoices: fx.invoices,
		Currency: "$",
	}
	return fx
}

func ptr[T any](v T) *T { return &v }

func (fx *fixture) seedInvoice(t *testing.T) (clientID, widgetID, gadgetID, invoiceID int64) {
	t.Helper()
	ctx := context.Background()
	var err error
	clientID, err = fx.clients.Create(ctx, repository.Client{Name: "Globex", Email: "ap@globex.test", Address: "1 Elm St"})
	require.NoError(t, err)
	widgetID, err = fx.products.Create(ctx, repository.Product{Name: "Widget", PriceCents: 1250})
	require.NoError(t, err)
	gadgetID, err = fx.products.Create(ctx, repository.Product{Name: "Gadget", PriceCents: 999})
	require.NoError(t, err)
	invoiceID, total, err := fx.invoices.Create(ctx, InvoiceInput{
		ClientID:    clientID,
		Date:        "2024-03-01",
		CompanyName: ptr("Acme"),
		Items: []ItemInput{
			{ProductID: widgetID, Quantity: 3, UnitPriceCents: 1250},
			{ProductID: gadgetID, Quantity: 2, UnitPriceCents: 999},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(3*1250+2*999), total)
	return clientID, widgetID, gadgetID, invoiceID
}

func TestPresetPartialUpdateKeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	id, err := fx.presets.Create(ctx, repository.CompanyProfile{CompanyName: "Acme", CompanyEmail: "a@acme.test"})
	require.NoError(t, err)
	require.NoError(t, fx.presets.Update(ctx, id, PresetPatch{CompanyPhone: ptr("555")}))

	list, err := fx.presets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Acme", list[0].CompanyName)
	require.Equal(t, "a@acme.test", list[0].CompanyEmail)
	require.Equal(t, "555", list[0].CompanyPhone)

	require.ErrorIs(t, fx.presets.Update(ctx, id, PresetPatch{CompanyName: ptr(" ")}), ErrInvalid)
	require.ErrorIs(t, fx.presets.Update(ctx, 999, PresetPatch{}), repository.ErrNotFound)
}

func TestClientValidation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.clients.Create(ctx, repository.Client{Name: "No Email"})
	require.ErrorIs(t, err, ErrInvalid)

	id, err := fx.clients.Create(ctx, repository.Client{Name: "Globex", Email: "ap@globex.test"})
	require.NoError(t, err)
	require.NoError(t, fx.clients.Update(ctx, id, ClientPatch{Address: ptr("1 Elm St")}))
	list, err := fx.clients.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "ap@globex.test", list[0].Email)
	require.Equal(t, "1 Elm St", list[0].Address)
}

func TestInvoiceCreateAndUpdateReplacesItems(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	_, widgetID, _, invID := fx.seedInvoice(t)

	require.NoError(t, fx.invoices.Update(ctx, invID, InvoiceInput{
		Date:  "2024-04-02",
		Items: []ItemInput{{ProductID: widgetID, Quantity: 1, UnitPriceCents: 1000}},
	}))

	inv, err := fx.invoices.Get(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, "2024-04-02", inv.Date)
	require.Equal(t, "Acme", inv.CompanyName, "omitted company fields are kept")
	require.Equal(t, int64(1000), inv.TotalCents)
	require.Len(t, inv.Items, 1)
	require.Equal(t, "Widget", inv.Items[0].ProductName)
}

func TestInvoiceUpdateChangesClient(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	_, widgetID, _, invID := fx.seedInvoice(t)
	otherID, err := fx.clients.Create(ctx, repository.Client{Name: "Initech", Email: "ap@initech.test"})
	require.NoError(t, err)

	require.NoError(t, fx.invoices.Update(ctx, invID, InvoiceInput{
		ClientID: otherID,
		Date:     "2024-03-01",
		Items:    []ItemInput{{ProductID: widgetID, Quantity: 1, UnitPriceCents: 1250}},
	}))
	inv, err := fx.invoices.Get(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, otherID, inv.ClientID)

	list, err := fx.invoices.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "Initech", list[0].ClientName)

	require.NoError(t, fx.invoices.Update(ctx, invID, InvoiceInput{
		Date:  "2024-03-01",
		Items: []ItemInput{{ProductID: widgetID, Quantity: 1, UnitPriceCents: 1250}},
	}))
	inv, err = fx.invoices.Get(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, otherID, inv.ClientID, "client_id 0 keeps the stored client")
}

func TestInvoiceValidation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	clientID, widgetID, _, _ := fx.seedInvoice(t)

	cases := map[string]InvoiceInput{
		"bad date":        {ClientID: clientID, Date: "01/03/2024", Items: []ItemInput{{ProductID: widgetID, Quantity: 1}}},
		"no items":        {ClientID: clientID, Date: "2024-03-01"},
		"zero quantity":   {ClientID: clientID, Date: "2024-03-01", Items: []ItemInput{{ProductID: widgetID}}},
		"unknown client":  {ClientID: 999, Date: "2024-03-01", Items: []ItemInput{{ProductID: widgetID, Quantity: 1}}},
		"unknown product": {ClientID: clientID, Date: "2024-03-01", Items: []ItemInput{{ProductID: 999, Quantity: 1}}},
		"line overflow":   {ClientID: clientID, Date: "2024-03-01", Items: []ItemInput{{ProductID: widgetID, Quantity: 1_000_000_000_000, UnitPriceCents: 100_000_000_000}}},
		"total overflow": {ClientID: clientID, Date: "2024-03-01", Items: []ItemInput{
			{ProductID: widgetID, Quantity: 1, UnitPriceCents: money.MaxCents},
			{ProductID: widgetID, Quantity: 1, UnitPriceCents: 1},
		}},
	}
	for name, in := range cases {
		_, _, err := fx.invoices.Create(ctx, in)
		require.ErrorIs(t, err, ErrInvalid, name)
	}

	list, err := fx.invoices.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "failed creates leave nothing behind")
}

func TestProductDeleteRecalculatesInvoices(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	_, _, gadgetID, invID := fx.seedInvoice(t)

	require.NoError(t, fx.products.Delete(ctx, gadgetID))

	inv, err := fx.invoices.Get(ctx, invID)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	require.Equal(t, int64(3*1250), inv.TotalCents)
	require.ErrorIs(t, fx.products.Delete(ctx, gadgetID), repository.ErrNotFound)
}

func TestClientDeleteCascadesInvoices(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	clientID, _, _, invID := fx.seedInvoice(t)

	require.NoError(t, fx.clients.Delete(ctx, clientID))
	_, err := fx.invoices.Get(ctx, invID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAddAccountVerifiesBeforeStoring(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	fx.mailer.verifyErr = errors.New("535 bad credentials")
	_, err := fx.mail.AddAccount(ctx, "me@acme.test", "wrong")
	require.ErrorIs(t, err, ErrVerification)
	list, err := fx.mail.ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	fx.mailer.verifyErr = nil
	id, err := fx.mail.AddAccount(ctx, "me@acme.test", "secret")
	require.NoError(t, err)

	stored, err := fx.mail.Accounts.Get(ctx, id)
	require.NoError(t, err)
	require.NotEqual(t, []byte("secret"), stored.Password)

	require.NoError(t, fx.mail.SendTest(ctx, AccountRef{ID: id}))
	require.Len(t, fx.mailer.sent, 1)
	require.Equal(t, "secret", fx.mailer.sent[0].creds.Password)
	require.Equal(t, "me@acme.test", fx.mailer.sent[0].msg.To)
}

func TestSendInvoice(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	_, _, _, invID := fx.seedInvoice(t)
	acctID, err := fx.mail.AddAccount(ctx, "billing@acme.test", "secret")
	require.NoError(t, err)

	require.NoError(t, fx.mail.SendInvoice(ctx, invID, AccountRef{ID: acctID}))
	require.Len(t, fx.mailer.sent, 1)
	msg := fx.mailer.sent[0].msg
	require.Equal(t, "ap@globex.test", msg.To)
	require.Equal(t, "Invoice #1 from Acme", msg.Subject)
	require.Contains(t, msg.Body, "Hello Globex,")
	require.Contains(t, msg.Body, "Total Due: $57.48")
	require.Len(t, msg.Attachments, 1)
	require.Equal(t, "invoice_1.pdf", msg.Attachments[0].Filename)

	require.Len(t, fx.renderer.docs, 1)
	require.Equal(t, "1 Elm St", fx.renderer.docs[0].ClientAddress)
	require.Len(t, fx.renderer.docs[0].Lines, 2)

	fx.mailer.sendErr = errors.New("421 try later")
	require.ErrorIs(t, fx.mail.SendInvoice(ctx, invID, AccountRef{Email: "billing@acme.test"}), ErrDelivery)
	require.ErrorIs(t, fx.mail.SendInvoice(ctx, invID, AccountRef{ID: 99}), ErrInvalid)
	require.ErrorIs(t, fx.mail.SendInvoice(ctx, 99, AccountRef{ID: acctID}), repository.ErrNotFound)
}

func TestVerifyWithInlinePassword(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.mail.Verify(context.Background(), AccountRef{Email: "x@acme.test", Password: "pw"}))
	require.Equal(t, "pw", fx.mailer.verified[0].Password)
}

func TestSeedAndReset(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	repos := SeedRepos{
		Presets:  fx.presets.Presets,
		Clients:  fx.clients.Clients,
		Products: fx.products.Products,
	}
	require.NoError(t, Seed(ctx, repos, SeedCounts{Presets: 1, Clients: 3, Products: 4}, 42))

	clients, err := fx.clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	products, err := fx.products.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)
	for _, p := range products {
		require.Positive(t, p.PriceCents)
	}

	require.NoError(t, (&MaintenanceService{DB: fx.db}).Reset(ctx))
	clients, err = fx.clients.List(ctx)
	require.NoError(t, err)
	require.Empty(t, clients)
}
