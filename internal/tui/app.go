package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/api"
	"github.com/jask/invoicedesk/internal/config"
)

// Backend is the REST surface the console drives. *api.HTTPClient implements it.
type Backend interface {
	ListPresets(ctx context.Context) ([]api.Preset, error)
	CreatePreset(ctx context.Context, in api.PresetInput) (int64, error)
	UpdatePreset(ctx context.Context, id int64, in api.PresetInput) error
	DeletePreset(ctx context.Context, id int64) error

	ListSMTPAccounts(ctx context.Context) ([]api.SMTPAccount, error)
	CreateSMTPAccount(ctx context.Context, in api.SMTPAccountInput) (int64, error)
	DeleteSMTPAccount(ctx context.Context, id int64) error
	TestEmail(ctx context.Context, ref api.AccountRef) error

	ListClients(ctx context.Context) ([]api.Client, error)
	CreateClient(ctx context.Context, in api.ClientInput) (int64, error)
	UpdateClient(ctx context.Context, id int64, in api.ClientInput) error
	DeleteClient(ctx context.Context, id int64) error

	ListProducts(ctx context.Context) ([]api.Product, error)
	CreateProduct(ctx context.Context, in api.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in api.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error

	ListInvoices(ctx context.Context) ([]api.InvoiceSummary, error)
	GetInvoice(ctx context.Context, id int64) (api.Invoice, error)
	CreateInvoice(ctx context.Context, in api.InvoiceInput) (api.CreatedInvoice, error)
	UpdateInvoice(ctx context.Context, id int64, in api.InvoiceInput) error
	DeleteInvoice(ctx context.Context, id int64) error
	SendInvoice(ctx context.Context, id int64, ref api.AccountRef) error
	DownloadPDF(ctx context.Context, id int64) ([]byte, string, error)
}

// Options tune the console.
type Options struct {
	CurrencySymbol string
	ToastDuration  time.Duration
	DownloadDir    string
	Logger         *zap.Logger
	Now            func() time.Time
}

func OptionsFromConfig(cfg config.ConsoleConfig, log *zap.Logger) Options {
	return Options{
		CurrencySymbol: cfg.CurrencySymbol,
		ToastDuration:  cfg.ToastDuration(),
		DownloadDir:    cfg.DownloadDir,
		Logger:         log,
	}
}

type panel int

const (
	panelPresets panel = iota
	panelSMTP
	panelClients
	panelProducts
	panelInvoices
	panelCount
)

var panelNames = [panelCount]string{"Presets", "SMTP", "Clients", "Products", "Invoices"}

func (p panel) String() string { return panelNames[p] }

type focusArea int

const (
	focusList focusArea = iota
	focusSearch
	focusForm
	focusComposer
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalSMTPPicker
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toast struct {
	text string
	kind toastKind
	seq  int
}

// confirmPrompt holds the action that runs only after a "y".
type confirmPrompt struct {
	text string
	run  func() tea.Cmd
}

// App is the console model.
type App struct {
	ctx     context.Context
	backend Backend
	opts    Options
	log     *zap.Logger
	keys    keyMap
	help    help.Model
	width   int
	height  int

	active panel
	focus  focusArea
	cursor [panelCount]int
	search [panelCount]textinput.Model

	presets  []api.Preset
	accounts []api.SMTPAccount
	clients  []api.Client
	products []api.Product
	invoices []api.InvoiceSummary

	selectedCompany int64
	verified        *bool
	forms           [panelCount]*form
	composer        composer

	modal        modalKind
	confirm      confirmPrompt
	pickerCursor int
	emailInvoice int64

	toast    toast
	toastSeq int
}

func New(ctx context.Context, backend Backend, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 3 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &App{
		ctx:      ctx,
		backend:  backend,
		opts:     opts,
		log:      opts.Logger,
		keys:     defaultKeys(),
		help:     help.New(),
		composer: newComposer(),
	}
	for p := range panelCount {
		a.search[p] = newInput("search")
	}
	a.forms[panelPresets] = newForm("Company", "Name", "Address", "Email", "Phone")
	a.forms[panelSMTP] = newForm("SMTP Account", "Email", "Password")
	a.forms[panelSMTP].addLabel = "Verify"
	a.forms[panelSMTP].fields[1].input.EchoMode = textinput.EchoPassword
	a.forms[panelClients] = newForm("Client", "Name", "Email", "Address", "Phone")
	a.forms[panelProducts] = newForm("Product", "Name", "Description", "Price")
	return a
}

// Init loads all five lists at once.
func (a *App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, panelCount)
	for p := range panelCount {
		cmds = append(cmds, a.loadPanel(p))
	}
	return tea.Batch(cmds...)
}

// messages
type presetsMsg []api.Preset
type accountsMsg []api.SMTPAccount
type clientsMsg []api.Client
type productsMsg []api.Product
type invoicesMsg []api.InvoiceSummary

type loadErrMsg struct {
	panel panel
	err   error
}

// savedMsg follows a successful create or update from a panel form.
type savedMsg struct {
	panel panel
	text  string
}

type deletedMsg struct {
	panel panel
	id    int64
	text  string
}

type smtpVerifiedMsg struct{ err error }

type invoiceSavedMsg struct{ text string }

type invoiceLoadedMsg api.Invoice

type notifyMsg struct {
	text string
	kind toastKind
}

// failMsg shows text as an error toast and logs err.
type failMsg struct {
	text string
	err  error
}

type toastExpiredMsg struct{ seq int }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case tea.KeyMsg:
		return a.handleKey(m)
	case presetsMsg:
		a.presets = m
		a.clampCursor(panelPresets)
	case accountsMsg:
		a.accounts = m
		a.clampCursor(panelSMTP)
	case clientsMsg:
		a.clients = m
		a.clampCursor(panelClients)
	case productsMsg:
		a.products = m
		a.clampCursor(panelProducts)
	case invoicesMsg:
		a.invoices = m
		a.clampCursor(panelInvoices)
	case loadErrMsg:
		a.log.Error("load failed", zap.String("panel", m.panel.String()), zap.Error(m.err))
		return a, a.notify(toastError, "Loading "+m.panel.String()+" failed: "+m.err.Error())
	case savedMsg:
		f := a.forms[m.panel]
		f.reset()
		if a.focus == focusForm && a.active == m.panel {
			a.focus = focusList
		}
		return a, tea.Batch(a.notify(toastSuccess, m.text), a.loadPanel(m.panel))
	case deletedMsg:
		cmds := []tea.Cmd{a.notify(toastInfo, m.text), a.loadPanel(m.panel)}
		switch m.panel {
		case panelPresets:
			if a.selectedCompany == m.id {
				a.selectedCompany = 0
			}
			a.forms[panelPresets].reset()
		case panelClients, panelProducts:
			// invoices cascade or get retotalled server side
			cmds = append(cmds, a.loadPanel(panelInvoices))
		case panelInvoices:
			if a.composer.editing == m.id {
				a.composer.clear()
			}
		}
		return a, tea.Batch(cmds...)
	case smtpVerifiedMsg:
		ok := m.err == nil
		a.verified = &ok
		if !ok {
			a.log.Warn("smtp verification failed", zap.Error(m.err))
			return a, a.notify(toastError, "SMTP failed")
		}
		a.forms[panelSMTP].reset()
		if a.focus == focusForm && a.active == panelSMTP {
			a.focus = focusList
		}
		return a, tea.Batch(a.notify(toastSuccess, "SMTP verified"), a.loadPanel(panelSMTP))
	case invoiceSavedMsg:
		a.composer.clear()
		if a.focus == focusComposer {
			a.focus = focusList
		}
		return a, tea.Batch(a.notify(toastSuccess, m.text), a.loadPanel(panelInvoices))
	case invoiceLoadedMsg:
		a.composer.load(api.Invoice(m), a.clients, a.products)
		a.active = panelInvoices
		a.focus = focusComposer
		a.composer.focusField(zoneDate)
	case notifyMsg:
		return a, a.notify(m.kind, m.text)
	case failMsg:
		a.log.Warn("action failed", zap.String("action", m.text), zap.Error(m.err))
		return a, a.notify(toastError, m.text)
	case toastExpiredMsg:
		if m.seq == a.toast.seq {
			a.toast = toast{}
		}
	}
	return a, nil
}

// notify shows a toast and schedules its removal.
func (a *App) notify(kind toastKind, text string) tea.Cmd {
	a.toastSeq++
	seq := a.toastSeq
	a.toast = toast{text: text, kind: kind, seq: seq}
	return tea.Tick(a.opts.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (a *App) visibleCount(p panel) int {
	switch p {
	case panelPresets:
		return len(a.presets)
	case panelSMTP:
		return len(a.accounts)
	case panelClients:
		return len(a.visibleClients())
	case panelProducts:
		return len(a.visibleProducts())
	case panelInvoices:
		return len(a.visibleInvoices())
	}
	return 0
}

func (a *App) clampCursor(p panel) {
	n := a.visibleCount(p)
	if a.cursor[p] >= n {
		a.cursor[p] = max(n-1, 0)
	}
}

func (a *App) visibleClients() []api.Client {
	return filterClients(a.clients, a.search[panelClients].Value())
}

func (a *App) visibleProducts() []api.Product {
	return filterProducts(a.products, a.search[panelProducts].Value())
}

func (a *App) visibleInvoices() []api.InvoiceSummary {
	return filterInvoices(a.invoices, a.search[panelInvoices].Value())
}

// selectedPreset is the company that stamps new invoices, nil when none.
func (a *App) selectedPreset() *api.Preset {
	if a.selectedCompany == 0 {
		return nil
	}
	for i := range a.presets {
		if a.presets[i].ID == a.selectedCompany {
			return &a.presets[i]
		}
	}
	return nil
}

func (a *App) currentPreset() (api.Preset, bool) {
	if a.cursor[panelPresets] < len(a.presets) {
		return a.presets[a.cursor[panelPresets]], true
	}
	return api.Preset{}, false
}

func (a *App) currentAccount() (api.SMTPAccount, bool) {
	if a.cursor[panelSMTP] < len(a.accounts) {
		return a.accounts[a.cursor[panelSMTP]], true
	}
	return api.SMTPAccount{}, false
}

func (a *App) currentClient() (api.Client, bool) {
	list := a.visibleClients()
	if a.cursor[panelClients] < len(list) {
		return list[a.cursor[panelClients]], true
	}
	return api.Client{}, false
}

func (a *App) currentProduct() (api.Product, bool) {
	list := a.visibleProducts()
	if a.cursor[panelProducts] < len(list) {
		return list[a.cursor[panelProducts]], true
	}
	return api.Product{}, false
}

func (a *App) currentInvoice() (api.InvoiceSummary, bool) {
	list := a.visibleInvoices()
	if a.cursor[panelInvoices] < len(list) {
		return list[a.cursor[panelInvoices]], true
	}
	return api.InvoiceSummary{}, false
}
