package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/invoicedesk/internal/api"
)

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != modalNone {
		return a.handleModalKey(m)
	}
	switch a.focus {
	case focusSearch:
		return a.handleSearchKey(m)
	case focusForm:
		return a.handleFormKey(m)
	case focusComposer:
		return a.handleComposerKey(m)
	}
	return a.handleListKey(m)
}

func (a *App) switchPanel(p panel) {
	a.active = (p + panelCount) % panelCount
	a.focus = focusList
}

func searchable(p panel) bool {
	return p == panelClients || p == panelProducts || p == panelInvoices
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "1", "2", "3", "4", "5":
		a.switchPanel(panel(m.String()[0] - '1'))
		return a, nil
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.NextPanel):
		a.switchPanel(a.active + 1)
	case key.Matches(m, a.keys.PrevPanel):
		a.switchPanel(a.active - 1)
	case key.Matches(m, a.keys.Up):
		if a.cursor[a.active] > 0 {
			a.cursor[a.active]--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor[a.active] < a.visibleCount(a.active)-1 {
			a.cursor[a.active]++
		}
	case key.Matches(m, a.keys.Reload):
		return a, a.loadPanel(a.active)
	case key.Matches(m, a.keys.Search):
		if searchable(a.active) {
			a.focus = focusSearch
			a.search[a.active].Focus()
		}
	case key.Matches(m, a.keys.New):
		a.startNew()
	case key.Matches(m, a.keys.Edit):
		return a, a.startEdit()
	case key.Matches(m, a.keys.Delete):
		return a, a.startDelete()
	case key.Matches(m, a.keys.Select):
		if a.active == panelPresets {
			if p, ok := a.currentPreset(); ok {
				a.toggleSelect(p)
			}
		}
	case key.Matches(m, a.keys.Test):
		if a.active == panelSMTP {
			if acc, ok := a.currentAccount(); ok {
				return a, a.testEmailCmd(acc)
			}
		}
	case key.Matches(m, a.keys.PDF):
		if a.active == panelInvoices {
			if inv, ok := a.currentInvoice(); ok {
				return a, a.downloadPDFCmd(inv.ID)
			}
		}
	case key.Matches(m, a.keys.Email):
		if a.active == panelInvoices {
			return a, a.openPicker()
		}
	case key.Matches(m, a.keys.Compose):
		if a.active == panelInvoices {
			a.focus = focusComposer
			a.composer.focusField(a.composer.focus)
		}
	}
	return a, nil
}

func (a *App) startNew() {
	if a.active == panelInvoices {
		a.composer.clear()
		a.focus = focusComposer
		a.composer.focusField(zoneDate)
		return
	}
	f := a.forms[a.active]
	f.reset()
	a.focus = focusForm
	f.focusField(0)
}

func (a *App) startEdit() tea.Cmd {
	f := a.forms[a.active]
	switch a.active {
	case panelPresets:
		p, ok := a.currentPreset()
		if !ok {
			return nil
		}
		f.fill(p.CompanyName, p.CompanyAddress, p.CompanyEmail, p.CompanyPhone)
		f.editing = p.ID
	case panelClients:
		c, ok := a.currentClient()
		if !ok {
			return nil
		}
		f.fill(c.Name, c.Email, c.Address, c.Phone)
		f.editing = c.ID
	case panelProducts:
		p, ok := a.currentProduct()
		if !ok {
			return nil
		}
		f.fill(p.Name, p.Description, formatPrice(p.Price))
		f.editing = p.ID
	case panelInvoices:
		inv, ok := a.currentInvoice()
		if !ok {
			return nil
		}
		return a.loadInvoiceCmd(inv.ID)
	default:
		return nil
	}
	a.focus = focusForm
	f.focusField(0)
	return nil
}

func (a *App) startDelete() tea.Cmd {
	switch a.active {
	case panelPresets:
		if p, ok := a.currentPreset(); ok {
			a.ask(fmt.Sprintf("Delete company #%d?", p.ID), func() tea.Cmd { return a.deletePresetCmd(p.ID) })
		}
	case panelSMTP:
		if acc, ok := a.currentAccount(); ok {
			return a.deleteAccountCmd(acc.ID)
		}
	case panelClients:
		if c, ok := a.currentClient(); ok {
			a.ask(fmt.Sprintf("Delete client #%d?", c.ID), func() tea.Cmd { return a.deleteClientCmd(c.ID) })
		}
	case panelProducts:
		if p, ok := a.currentProduct(); ok {
			a.ask(fmt.Sprintf("Delete product #%d?", p.ID), func() tea.Cmd { return a.deleteProductCmd(p.ID) })
		}
	case panelInvoices:
		if inv, ok := a.currentInvoice(); ok {
			a.ask(fmt.Sprintf("Delete Invoice #%d?", inv.ID), func() tea.Cmd { return a.deleteInvoiceCmd(inv.ID) })
		}
	}
	return nil
}

func (a *App) ask(text string, run func() tea.Cmd) {
	a.modal = modalConfirm
	a.confirm = confirmPrompt{text: text, run: run}
}

// toggleSelect selects p as the invoicing company, or unselects it when it
// already is. The company form mirrors the selection.
func (a *App) toggleSelect(p api.Preset) {
	f := a.forms[panelPresets]
	f.reset()
	if a.selectedCompany == p.ID {
		a.selectedCompany = 0
		return
	}
	a.selectedCompany = p.ID
	f.fill(p.CompanyName, p.CompanyAddress, p.CompanyEmail, p.CompanyPhone)
}

func (a *App) openPicker() tea.Cmd {
	inv, ok := a.currentInvoice()
	if !ok {
		return nil
	}
	if len(a.accounts) == 0 {
		return a.notify(toastError, "No SMTP accounts configured")
	}
	a.modal = modalSMTPPicker
	a.pickerCursor = 0
	a.emailInvoice = inv.ID
	return nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirm:
		switch {
		case key.Matches(m, a.keys.Yes):
			run := a.confirm.run
			a.modal, a.confirm = modalNone, confirmPrompt{}
			return a, run()
		case key.Matches(m, a.keys.No):
			a.modal, a.confirm = modalNone, confirmPrompt{}
		}
	case modalSMTPPicker:
		switch {
		case key.Matches(m, a.keys.Back):
			a.modal = modalNone
		case key.Matches(m, a.keys.Up):
			if a.pickerCursor > 0 {
				a.pickerCursor--
			}
		case key.Matches(m, a.keys.Down):
			if a.pickerCursor < len(a.accounts)-1 {
				a.pickerCursor++
			}
		case key.Matches(m, a.keys.Enter):
			a.modal = modalNone
			if a.pickerCursor >= len(a.accounts) {
				return a, nil
			}
			return a, a.sendInvoiceCmd(a.emailInvoice, a.accounts[a.pickerCursor])
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := &a.search[a.active]
	switch m.String() {
	case "esc":
		in.SetValue("")
		in.Blur()
		a.focus = focusList
		a.cursor[a.active] = 0
		return a, nil
	case "enter":
		in.Blur()
		a.focus = focusList
		return a, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(m)
	a.cursor[a.active] = 0
	return a, cmd
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.forms[a.active]
	switch m.String() {
	case "esc":
		f.reset()
		a.focus = focusList
		return a, nil
	case "ctrl+s":
		return a, a.submitForm(a.active)
	case "enter":
		if f.onLast() {
			return a, a.submitForm(a.active)
		}
		f.next()
		return a, nil
	case "tab", "down":
		f.next()
		return a, nil
	case "shift+tab", "up":
		f.prev()
		return a, nil
	}
	return a, f.update(m)
}

func (a *App) handleComposerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &a.composer
	switch m.String() {
	case "esc":
		c.blur()
		a.focus = focusList
		return a, nil
	case "ctrl+s":
		return a, a.submitInvoice()
	case "ctrl+x":
		c.removeFocusedRow()
		return a, nil
	case "tab":
		c.focusField(c.focus + 1)
		return a, nil
	case "shift+tab":
		c.focusField(c.focus - 1)
		return a, nil
	case "up":
		a.composerMove(-1)
		return a, nil
	case "down":
		a.composerMove(1)
		return a, nil
	case "enter":
		a.composerPick()
		return a, nil
	}
	return a, c.update(m)
}

// composerMove walks the rendered search results in the search zones and
// rows below.
func (a *App) composerMove(delta int) {
	c := &a.composer
	switch c.zone() {
	case zoneClient:
		c.pick = clampIndex(c.pick+delta, min(len(clientsByName(a.clients, c.clientQ.Value())), maxResults))
	case zoneProduct:
		c.pick = clampIndex(c.pick+delta, min(len(filterProducts(a.products, c.productQ.Value())), maxResults))
	case zoneRows:
		if next := c.focus + 2*delta; next >= zoneRows && next < c.fieldCount() {
			c.focusField(next)
		}
	default:
		c.focusField(c.focus + delta)
	}
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}

// composerPick takes the highlighted search result, or the suggestion when
// nothing matches.
func (a *App) composerPick() {
	c := &a.composer
	switch c.zone() {
	case zoneClient:
		matches := clientsByName(a.clients, c.clientQ.Value())
		if len(matches) > 0 {
			c.pickClient(matches[clampIndex(c.pick, len(matches))])
			return
		}
		if name, ok := a.clientSuggestion(); ok {
			for _, cl := range a.clients {
				if cl.Name == name {
					c.pickClient(cl)
					return
				}
			}
		}
	case zoneProduct:
		q := c.productQ.Value()
		if q == "" {
			return
		}
		matches := filterProducts(a.products, q)
		if len(matches) > 0 {
			c.addProduct(matches[clampIndex(c.pick, len(matches))])
			return
		}
		if name, ok := a.productSuggestion(); ok {
			for _, p := range a.products {
				if p.Name == name {
					c.addProduct(p)
					return
				}
			}
		}
	default:
		c.focusField(c.focus + 1)
	}
}

func (a *App) clientSuggestion() (string, bool) {
	q := a.composer.clientQ.Value()
	if q == "" || len(clientsByName(a.clients, q)) > 0 {
		return "", false
	}
	names := make([]string, 0, len(a.clients))
	for _, c := range a.clients {
		names = append(names, c.Name)
	}
	return closest(q, names)
}

func (a *App) productSuggestion() (string, bool) {
	q := a.composer.productQ.Value()
	if q == "" || len(filterProducts(a.products, q)) > 0 {
		return "", false
	}
	names := make([]string, 0, len(a.products))
	for _, p := range a.products {
		names = append(names, p.Name)
	}
	return closest(q, names)
}

func (a *App) submitInvoice() tea.Cmd {
	today := a.opts.Now().Format("2006-01-02")
	in, err := a.composer.build(a.selectedPreset(), today)
	if err != nil {
		a.composer.err = submitMessage(err)
		return a.notify(toastError, a.composer.err)
	}
	a.composer.err = ""
	return a.saveInvoiceCmd(a.composer.editing, in)
}
