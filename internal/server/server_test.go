package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/invoicedesk/internal/database"
	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/mailer"
	"github.com/jask/invoicedesk/internal/printing"
	"github.com/jask/invoicedesk/internal/secrets"
	"github.com/jask/invoicedesk/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMailer struct {
	verifyErr error
	sendErr   error
	sent      []mailer.Message
}

func (m *stubMailer) Verify(context.Context, mailer.Credentials) error { return m.verifyErr }

func (m *stubMailer) Send(_ context.Context, _ mailer.Credentials, msg mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubRenderer struct{}

func (stubRenderer) Render(context.Context, printing.Document) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	mailer *stubMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db))

	box, err := secrets.NewBox(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	invRepo := repository.NewInvoiceRepo(db)
	clientRepo := repository.NewClientRepo(db)
	productRepo := repository.NewProductRepo(db)
	invoices := &service.InvoiceService{DB: db, Invoices: invRepo, Clients: clientRepo, Products: productRepo, Renderer: stubRenderer{}}
	m := &stubMailer{}
	svcs := Services{
		DB:       db,
		Presets:  &service.PresetService{Presets: repository.NewPresetRepo(db)},
		Clients:  &service.ClientService{Clients: clientRepo},
		Products: &service.ProductService{DB: db, Products: productRepo, Invoices: invRepo},
		Invoices: invoices,
		Mail: &service.MailService{
			Accounts: repository.NewSMTPAccountRepo(db),
			Box:      box,
			Mailer:   m,
			Invoices: invoices,
			Currency: "₹",
		},
	}
	return &testServer{t: t, engine: NewRouter(svcs, nil), mailer: m}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) create(path string, body any) int64 {
	s.t.Helper()
	w := s.do(http.MethodPost, path, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPresetLifecycle(t *testing.T) {
	s := newTestServer(t)

	id := s.create("/api/presets", gin.H{"company_name": "Acme", "company_email": "billing@acme.test"})
	assert.Equal(t, int64(1), id)

	w := s.do(http.MethodPut, "/api/presets/1", gin.H{"company_phone": "555-0100"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"updated"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/presets", nil)
	assert.JSONEq(t, `[{"id":1,"company_name":"Acme","company_address":"","company_email":"billing@acme.test","company_phone":"555-0100"}]`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/presets/1", nil)
	assert.JSONEq(t, `{"status":"deleted"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/presets/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/clients", "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/clients", gin.H{"name": "No Email"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/products", gin.H{"name": "Free"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/clients/abc", gin.H{}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/nope", nil).Code)

	w := s.do(http.MethodPost, "/api/presets", gin.H{"company_address": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "company_name")
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/smtp-configs", gin.H{"email": "not-an-email", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email: invalid email format", decode[map[string]string](t, w)["error"])

	w = s.do(http.MethodPost, "/api/smtp-configs", gin.H{"email": "me@acme.test"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password: is required", decode[map[string]string](t, w)["error"])

	w = s.do(http.MethodPost, "/api/clients", "{not json")
	assert.Contains(t, decode[map[string]string](t, w)["error"], "invalid request body")
}

func TestProductPriceRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/products", gin.H{"name": "Widget", "description": "blue", "price": 12.5})

	w := s.do(http.MethodPut, "/api/products/1", gin.H{"price": 19.99})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/products", nil)
	assert.JSONEq(t, `[{"id":1,"name":"Widget","description":"blue","price":19.99}]`, w.Body.String())
}

func seedInvoice(s *testServer) (clientID, widgetID, gadgetID, invoiceID int64) {
	clientID = s.create("/api/clients", gin.H{"name": "Globex", "email": "ap@globex.test"})
	widgetID = s.create("/api/products", gin.H{"name": "Widget", "price": 12.5})
	gadgetID = s.create("/api/products", gin.H{"name": "Gadget", "price": 9.99})
	w := s.do(http.MethodPost, "/api/invoices", gin.H{
		"client_id":    clientID,
		"date":         "2024-03-01",
		"company_name": "Acme",
		"items": []gin.H{
			{"product_id": widgetID, "quantity": 3, "unit_price": 12.5},
			{"product_id": gadgetID, "quantity": 2, "unit_price": 9.99},
		},
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(s.t, `{"id":1,"total":57.48}`, w.Body.String())
	return clientID, widgetID, gadgetID, 1
}

func TestInvoiceLifecycle(t *testing.T) {
	s := newTestServer(t)
	clientID, widgetID, _, invID := seedInvoice(s)

	w := s.do(http.MethodPut, "/api/invoices/1", gin.H{
		"date":  "2024-04-01",
		"items": []gin.H{{"product_id": widgetID, "quantity": 1, "unit_price": 10}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	detail := decode[invoiceResponse](t, s.do(http.MethodGet, "/api/invoices/1", nil))
	assert.Equal(t, invID, detail.ID)
	assert.Equal(t, clientID, detail.ClientID)
	assert.Equal(t, "Acme", detail.CompanyName)
	assert.Equal(t, "2024-04-01", detail.Date)
	assert.Equal(t, 10.0, detail.Total)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Widget", detail.Items[0].ProductName)

	w = s.do(http.MethodPost, "/api/invoices", gin.H{
		"client_id": clientID,
		"date":      "2024-05-01",
		"items":     []gin.H{{"product_id": widgetID, "quantity": 2, "unit_price": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	list := decode[[]invoiceSummaryResponse](t, s.do(http.MethodGet, "/api/invoices", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "2024-05-01", list[0].Date)
	assert.Equal(t, "Globex", list[0].Client)

	w = s.do(http.MethodPost, "/api/invoices", gin.H{"client_id": 99, "date": "2024-05-01", "items": []gin.H{{"product_id": widgetID, "quantity": 1}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/api/invoices", gin.H{"client_id": clientID, "date": "2024-05-01", "items": []gin.H{{"product_id": widgetID, "quantity": 0}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceUpdateChangesClient(t *testing.T) {
	s := newTestServer(t)
	clientID, widgetID, _, _ := seedInvoice(s)
	otherID := s.create("/api/clients", gin.H{"name": "Initech", "email": "ap@initech.test"})
	require.NotEqual(t, clientID, otherID)

	w := s.do(http.MethodPut, "/api/invoices/1", gin.H{
		"client_id": otherID,
		"date":      "2024-03-01",
		"items":     []gin.H{{"product_id": widgetID, "quantity": 1, "unit_price": 12.5}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	detail := decode[invoiceResponse](t, s.do(http.MethodGet, "/api/invoices/1", nil))
	assert.Equal(t, otherID, detail.ClientID)
	list := decode[[]invoiceSummaryResponse](t, s.do(http.MethodGet, "/api/invoices", nil))
	assert.Equal(t, "Initech", list[0].Client)
}

func TestInvoiceAmountsOutOfRange(t *testing.T) {
	s := newTestServer(t)
	clientID, widgetID, _, _ := seedInvoice(s)

	w := s.do(http.MethodPost, "/api/invoices", gin.H{
		"client_id": clientID,
		"date":      "2024-05-01",
		"items":     []gin.H{{"product_id": widgetID, "quantity": 1_000_000_000_000, "unit_price": 1e9}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]string](t, w)["error"], "out of range")

	w = s.do(http.MethodPost, "/api/invoices", gin.H{
		"client_id": clientID,
		"date":      "2024-05-01",
		"items":     []gin.H{{"product_id": widgetID, "quantity": 1, "unit_price": 1e30}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "unit_price")

	assert.Len(t, decode[[]invoiceSummaryResponse](t, s.do(http.MethodGet, "/api/invoices", nil)), 1)
}

func TestProductDeleteRetotalsInvoices(t *testing.T) {
	s := newTestServer(t)
	_, _, gadgetID, _ := seedInvoice(s)

	w := s.do(http.MethodDelete, "/api/products/"+jsonID(gadgetID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[[]invoiceSummaryResponse](t, s.do(http.MethodGet, "/api/invoices", nil))
	require.Len(t, list, 1)
	assert.Equal(t, 37.5, list[0].Total)
}

func TestClientDeleteCascades(t *testing.T) {
	s := newTestServer(t)
	clientID, _, _, _ := seedInvoice(s)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/clients/"+jsonID(clientID), nil).Code)
	assert.JSONEq(t, `[]`, s.do(http.MethodGet, "/api/invoices", nil).Body.String())
}

func TestInvoicePDF(t *testing.T) {
	s := newTestServer(t)
	seedInvoice(s)

	w := s.do(http.MethodGet, "/api/invoices/1/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice_1.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/invoices/9/pdf", nil).Code)
}

func TestSMTPAccounts(t *testing.T) {
	s := newTestServer(t)

	s.mailer.verifyErr = errors.New("535 auth failed")
	w := s.do(http.MethodPost, "/api/smtp-configs", gin.H{"email": "me@acme.test", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"verification failed"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/verify-smtp", gin.H{"email": "me@acme.test", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.mailer.verifyErr = nil
	id := s.create("/api/smtp-configs", gin.H{"email": "me@acme.test", "password": "good"})
	assert.JSONEq(t, `[{"id":1,"email":"me@acme.test"}]`, s.do(http.MethodGet, "/api/smtp-configs", nil).Body.String())

	w = s.do(http.MethodPost, "/api/verify-smtp", gin.H{"id": id, "email": "me@acme.test"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/api/test-email", gin.H{"id": id, "email": "me@acme.test"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, "me@acme.test", s.mailer.sent[0].To)

	s.mailer.sendErr = errors.New("421 busy")
	w = s.do(http.MethodPost, "/api/test-email", gin.H{"id": id})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	assert.JSONEq(t, `{"status":"deleted"}`, s.do(http.MethodDelete, "/api/smtp-configs/1", nil).Body.String())
}

func TestSendInvoice(t *testing.T) {
	s := newTestServer(t)
	seedInvoice(s)
	acct := s.create("/api/smtp-configs", gin.H{"email": "billing@acme.test", "password": "pw"})

	w := s.do(http.MethodPost, "/api/invoices/1/send", gin.H{"id": acct, "email": "billing@acme.test"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"sent"}`, w.Body.String())

	require.Len(t, s.mailer.sent, 1)
	msg := s.mailer.sent[0]
	assert.Equal(t, "ap@globex.test", msg.To)
	assert.Equal(t, "Invoice #1 from Acme", msg.Subject)
	assert.Contains(t, msg.Body, "Total Due: ₹57.48")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "invoice_1.pdf", msg.Attachments[0].Filename)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
