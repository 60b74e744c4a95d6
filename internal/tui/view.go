package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/invoicedesk/internal/money"
)

const maxResults = 5

func formatPrice(f float64) string { return money.FormatFloat(f) }

func (a *App) amount(f float64) string { return a.opts.CurrencySymbol + money.FormatFloat(f) }

func (a *App) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		"",
		a.renderPanel(),
		"",
		a.renderToast(),
		a.renderHelp(),
	)
	switch a.modal {
	case modalConfirm:
		card := textStyle.Render(a.confirm.text) + "\n\n" + dimStyle.Render("[y] Yes  [n] No")
		return overlayCard(body, card, a.width, a.height)
	case modalSMTPPicker:
		return overlayCard(body, a.renderPicker(), a.width, a.height)
	}
	return body
}

func (a *App) renderTabs() string {
	tabs := []string{appNameStyle.Render("invoicedesk")}
	for p := range panelCount {
		label := fmt.Sprintf("%d %s", int(p)+1, p)
		if p == a.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	company := "no company selected"
	if sel := a.selectedPreset(); sel != nil {
		company = "company: " + sel.CompanyName
	}
	tabs = append(tabs, inactiveTabStyle.Render(company))
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if a.width > 0 {
		return headerBarStyle.Width(a.width).Render(padRight(line, a.width))
	}
	return line
}

func (a *App) renderToast() string {
	text := a.toast.text
	style := toastStyles[a.toast.kind]
	if text == "" {
		text, style = "Ready", idleBarStyle
	}
	if a.width > 0 {
		return style.Render(padRight(" "+text, a.width))
	}
	return style.Render(" " + text + " ")
}

func (a *App) renderHelp() string {
	switch a.focus {
	case focusForm:
		return a.help.ShortHelpView(a.keys.formHelp())
	case focusComposer:
		return a.help.ShortHelpView(a.keys.composerHelp())
	case focusSearch:
		return a.help.ShortHelpView([]key.Binding{a.keys.Enter, a.keys.Back})
	}
	return a.help.ShortHelpView(a.keys.panelHelp(a.active))
}

func (a *App) renderPanel() string {
	switch a.active {
	case panelPresets:
		return a.renderPresets()
	case panelSMTP:
		return a.renderSMTP()
	case panelClients:
		return a.renderClients()
	case panelProducts:
		return a.renderProducts()
	default:
		return a.renderInvoices()
	}
}

func (a *App) listBox(title string, lines []string, empty string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("  " + empty))
	} else {
		b.WriteString(strings.Join(lines, "\n"))
	}
	style := sectionStyle
	if a.focus == focusList {
		style = focusedSectionStyle
	}
	return style.Render(b.String())
}

func (a *App) marker(p panel, i int) string {
	if i == a.cursor[p] {
		return cursorMark
	}
	return " "
}

func (a *App) searchLine(p panel) string {
	in := a.search[p]
	if a.focus != focusSearch && in.Value() == "" {
		return ""
	}
	return mutedStyle.Render("Search: ") + in.View()
}

func (a *App) renderPresets() string {
	lines := make([]string, 0, len(a.presets))
	for i, p := range a.presets {
		badge := dimStyle.Render("[s] Select")
		if p.ID == a.selectedCompany {
			badge = okStyle.Render("● Selected [s] Unselect")
		}
		lines = append(lines, fmt.Sprintf("%s #%-4d %-30s %s", a.marker(panelPresets, i), p.ID, clip(p.CompanyName, 30), badge))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.listBox("Company Profiles", lines, "No company profiles yet. Press n to add one."),
		a.forms[panelPresets].view(a.focus == focusForm),
	)
}

func (a *App) renderSMTP() string {
	lines := make([]string, 0, len(a.accounts))
	for i, acc := range a.accounts {
		lines = append(lines, fmt.Sprintf("%s #%-4d %s", a.marker(panelSMTP, i), acc.ID, clip(acc.Email, 50)))
	}
	status := ""
	if a.verified != nil {
		if *a.verified {
			status = okStyle.Render("✅ last verification passed")
		} else {
			status = errStyle.Render("❌ last verification failed")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.listBox("SMTP Accounts", lines, "No SMTP accounts. Press n to add and verify one."),
		a.forms[panelSMTP].view(a.focus == focusForm),
		status,
	)
}

func (a *App) renderClients() string {
	list := a.visibleClients()
	lines := make([]string, 0, len(list)+1)
	if s := a.searchLine(panelClients); s != "" {
		lines = append(lines, s)
	}
	for i, c := range list {
		lines = append(lines, fmt.Sprintf("%s #%-4d %-28s %s", a.marker(panelClients, i), c.ID, clip(c.Name, 28), mutedStyle.Render(clip(c.Email, 36))))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.listBox("Clients", lines, "No clients."),
		a.forms[panelClients].view(a.focus == focusForm),
	)
}

func (a *App) renderProducts() string {
	list := a.visibleProducts()
	lines := make([]string, 0, len(list)+1)
	if s := a.searchLine(panelProducts); s != "" {
		lines = append(lines, s)
	}
	for i, p := range list {
		lines = append(lines, fmt.Sprintf("%s #%-4d %-32s %12s", a.marker(panelProducts, i), p.ID, clip(p.Name, 32), a.amount(p.Price)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.listBox("Products", lines, "No products."),
		a.forms[panelProducts].view(a.focus == focusForm),
	)
}

func (a *App) renderInvoices() string {
	list := a.visibleInvoices()
	lines := make([]string, 0, len(list)+1)
	if s := a.searchLine(panelInvoices); s != "" {
		lines = append(lines, s)
	}
	for i, inv := range list {
		lines = append(lines, fmt.Sprintf("%s #%-5d %-28s %s %12s", a.marker(panelInvoices, i), inv.ID, clip(inv.Client, 28), inv.Date, a.amount(inv.Total)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.listBox("Invoices", lines, "No invoices."),
		a.renderComposer(),
	)
}

func (a *App) renderComposer() string {
	c := &a.composer
	active := a.focus == focusComposer
	mark := func(i int) string {
		if active && c.focus == i {
			return cursorMark
		}
		return " "
	}

	var b strings.Builder
	title := "New Invoice"
	if c.editing != 0 {
		title = fmt.Sprintf("Edit Invoice #%d", c.editing)
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	fmt.Fprintf(&b, "%s %-9s %s\n", mark(zoneDate), mutedStyle.Render("Date:"), c.date.View())

	client := dimStyle.Render("none")
	if c.clientID != 0 {
		client = textStyle.Render(c.clientName)
	}
	fmt.Fprintf(&b, "%s %-9s %s  %s\n", mark(zoneClient), mutedStyle.Render("Client:"), client, c.clientQ.View())
	if c.clientQ.Value() != "" {
		matches := clientsByName(a.clients, c.clientQ.Value())
		names := make([]string, 0, len(matches))
		for _, cl := range matches {
			names = append(names, cl.Name)
		}
		b.WriteString(a.resultLines(names, c.zone() == zoneClient, a.clientSuggestion))
	}

	fmt.Fprintf(&b, "%s %-9s %s\n", mark(zoneProduct), mutedStyle.Render("Product:"), c.productQ.View())
	if c.productQ.Value() != "" {
		matches := filterProducts(a.products, c.productQ.Value())
		names := make([]string, 0, len(matches))
		for _, p := range matches {
			names = append(names, p.Name+"  "+a.amount(p.Price))
		}
		b.WriteString(a.resultLines(names, c.zone() == zoneProduct, a.productSuggestion))
	}

	b.WriteString(mutedStyle.Render("Items:") + "\n")
	if len(c.rows) == 0 {
		b.WriteString(dimStyle.Render("    none yet, search a product and press enter") + "\n")
	}
	for i, r := range c.rows {
		qtyField := zoneRows + 2*i
		rowMark := mark(qtyField)
		if rowMark == " " {
			rowMark = mark(qtyField + 1)
		}
		fmt.Fprintf(&b, "%s   %-28s qty %s  price %s\n", rowMark, clip(r.name, 28), r.qty.View(), r.price.View())
	}
	fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render("Total:"), textStyle.Render(a.opts.CurrencySymbol+money.Format(c.total())))

	label := "[ctrl+s] Create Invoice"
	if c.editing != 0 {
		label = "[ctrl+s] Update Invoice"
	}
	if a.selectedPreset() == nil {
		b.WriteString(dimStyle.Render(label+"  (select a company profile first)") + "\n")
	} else {
		b.WriteString(okStyle.Render(label) + "\n")
	}
	if c.err != "" {
		b.WriteString(errStyle.Render(c.err))
	}

	style := sectionStyle
	if active {
		style = focusedSectionStyle
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// resultLines lists search hits, or a suggestion when there are none.
func (a *App) resultLines(names []string, focused bool, suggest func() (string, bool)) string {
	var b strings.Builder
	if len(names) == 0 {
		if s, ok := suggest(); ok {
			fmt.Fprintf(&b, "    %s\n", warnStyle.Render(fmt.Sprintf("no match, did you mean %q? (enter)", s)))
		} else {
			b.WriteString(dimStyle.Render("    no match") + "\n")
		}
		return b.String()
	}
	for i, n := range names {
		if i == maxResults {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(fmt.Sprintf("… %d more", len(names)-maxResults)))
			break
		}
		prefix := "    "
		if focused && i == a.composer.pick {
			prefix = "  " + cursorMark + " "
		}
		b.WriteString(prefix + clip(n, 48) + "\n")
	}
	return b.String()
}

func (a *App) renderPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Send Invoice #%d from", a.emailInvoice)) + "\n\n")
	for i, acc := range a.accounts {
		prefix := "  "
		if i == a.pickerCursor {
			prefix = cursorMark + " "
		}
		b.WriteString(prefix + textStyle.Render(acc.Email) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("j/k move  enter send  esc cancel"))
	return b.String()
}
