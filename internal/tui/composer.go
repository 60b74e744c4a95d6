package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/invoicedesk/internal/api"
	"github.com/jask/invoicedesk/internal/money"
)

const (
	zoneDate = iota
	zoneClient
	zoneProduct
	zoneRows
)

// Messages shown for a refused invoice submit.
const (
	msgNoCompany = "Please select a company profile first!"
	msgNoClient  = "Please select a client"
	msgNoItems   = "Please add at least one product"
)

var (
	errNoCompany = errors.New("no company profile selected")
	errNoClient  = errors.New("no client selected")
	errNoItems   = errors.New("no items")
)

// rowError reports an item row whose quantity or price does not parse.
type rowError struct {
	field string
	name  string
}

func (e *rowError) Error() string { return fmt.Sprintf("invalid %s for %s", e.field, e.name) }

// submitMessage is the operator-facing text for a build error.
func submitMessage(err error) string {
	var re *rowError
	switch {
	case errors.Is(err, errNoCompany):
		return msgNoCompany
	case errors.Is(err, errNoClient):
		return msgNoClient
	case errors.Is(err, errNoItems):
		return msgNoItems
	case errors.As(err, &re):
		return fmt.Sprintf("Invalid %s for %s", re.field, re.name)
	}
	return err.Error()
}

type itemRow struct {
	productID int64
	name      string
	qty       textinput.Model
	price     textinput.Model
}

// composer builds the payload for a new invoice, or for the invoice with id
// editing when that is non-zero.
type composer struct {
	editing    int64
	date       textinput.Model
	clientQ    textinput.Model
	productQ   textinput.Model
	clientID   int64
	clientName string
	rows       []itemRow
	focus      int
	pick       int
	err        string
}

func newComposer() composer {
	c := composer{
		date:     newInput("YYYY-MM-DD"),
		clientQ:  newInput("type to search clients"),
		productQ: newInput("type to search products"),
	}
	c.date.CharLimit = 10
	return c
}

func (c *composer) fieldCount() int { return zoneRows + 2*len(c.rows) }

// input returns the text input behind field index i.
func (c *composer) input(i int) *textinput.Model {
	switch i {
	case zoneDate:
		return &c.date
	case zoneClient:
		return &c.clientQ
	case zoneProduct:
		return &c.productQ
	}
	r := &c.rows[(i-zoneRows)/2]
	if (i-zoneRows)%2 == 0 {
		return &r.qty
	}
	return &r.price
}

func (c *composer) blur() {
	for i := 0; i < c.fieldCount(); i++ {
		c.input(i).Blur()
	}
}

func (c *composer) focusField(i int) {
	c.blur()
	n := c.fieldCount()
	c.focus = (i + n) % n
	c.pick = 0
	c.input(c.focus).Focus()
}

func (c *composer) zone() int { return min(c.focus, zoneRows) }

func (c *composer) update(msg tea.Msg) tea.Cmd {
	in := c.input(c.focus)
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if c.zone() == zoneClient || c.zone() == zoneProduct {
		c.pick = 0
	}
	return cmd
}

func (c *composer) pickClient(cl api.Client) {
	c.clientID = cl.ID
	c.clientName = cl.Name
	c.clientQ.SetValue("")
	c.pick = 0
}

// addProduct appends a row with quantity 1 at the product's current price.
func (c *composer) addProduct(p api.Product) {
	c.rows = append(c.rows, itemRow{
		productID: p.ID,
		name:      p.Name,
		qty:       rowInput("1"),
		price:     rowInput(money.FormatFloat(p.Price)),
	})
	c.productQ.SetValue("")
	c.pick = 0
}

func rowInput(v string) textinput.Model {
	in := newInput("")
	in.Width = 10
	in.CharLimit = 12
	in.SetValue(v)
	return in
}

// removeFocusedRow drops the row whose quantity or price field has focus.
func (c *composer) removeFocusedRow() bool {
	if c.focus < zoneRows || len(c.rows) == 0 {
		return false
	}
	idx := (c.focus - zoneRows) / 2
	c.rows = append(c.rows[:idx], c.rows[idx+1:]...)
	if len(c.rows) == 0 {
		c.focusField(zoneProduct)
	} else {
		c.focusField(min(c.focus, c.fieldCount()-1))
	}
	return true
}

// clear runs after a successful submit: items and date go, editing ends.
func (c *composer) clear() {
	c.blur()
	c.rows = nil
	c.date.SetValue("")
	c.editing = 0
	c.err = ""
	c.focus = zoneDate
	c.pick = 0
}

// load fills the composer from a stored invoice for editing.
func (c *composer) load(inv api.Invoice, clients []api.Client, products []api.Product) {
	c.clear()
	c.editing = inv.ID
	c.date.SetValue(inv.Date)
	c.clientID = inv.ClientID
	c.clientName = fmt.Sprintf("client #%d", inv.ClientID)
	for _, cl := range clients {
		if cl.ID == inv.ClientID {
			c.clientName = cl.Name
		}
	}
	for _, it := range inv.Items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("product #%d", it.ProductID)
			for _, p := range products {
				if p.ID == it.ProductID {
					name = p.Name
				}
			}
		}
		c.rows = append(c.rows, itemRow{
			productID: it.ProductID,
			name:      name,
			qty:       rowInput(strconv.FormatInt(it.Quantity, 10)),
			price:     rowInput(money.FormatFloat(it.UnitPrice)),
		})
	}
}

// build validates the composer in the order the operator sees the
// messages and stamps the selected company onto the payload.
func (c *composer) build(company *api.Preset, today string) (api.InvoiceInput, error) {
	if company == nil {
		return api.InvoiceInput{}, errNoCompany
	}
	if c.clientID == 0 {
		return api.InvoiceInput{}, errNoClient
	}
	if len(c.rows) == 0 {
		return api.InvoiceInput{}, errNoItems
	}
	date := strings.TrimSpace(c.date.Value())
	if date == "" {
		date = today
	}
	in := api.InvoiceInput{
		ClientID:       c.clientID,
		Date:           date,
		CompanyName:    company.CompanyName,
		CompanyAddress: company.CompanyAddress,
		CompanyEmail:   company.CompanyEmail,
		CompanyPhone:   company.CompanyPhone,
	}
	for _, r := range c.rows {
		qty, err := strconv.ParseInt(strings.TrimSpace(r.qty.Value()), 10, 64)
		if err != nil || qty < 1 {
			return api.InvoiceInput{}, &rowError{field: "quantity", name: r.name}
		}
		cents, err := money.Parse(r.price.Value())
		if err != nil || cents < 0 {
			return api.InvoiceInput{}, &rowError{field: "price", name: r.name}
		}
		in.Items = append(in.Items, api.InvoiceItem{
			ProductID: r.productID,
			Quantity:  qty,
			UnitPrice: money.ToFloat(cents),
		})
	}
	return in, nil
}

// total previews the invoice total from the rows that parse.
func (c *composer) total() int64 {
	var sum int64
	for _, r := range c.rows {
		qty, err := strconv.ParseInt(strings.TrimSpace(r.qty.Value()), 10, 64)
		if err != nil {
			continue
		}
		cents, err := money.Parse(r.price.Value())
		if err != nil {
			continue
		}
		sum += money.LineTotal(qty, cents)
	}
	return sum
}
