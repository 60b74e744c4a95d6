package tui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/invoicedesk/internal/api"
	"github.com/jask/invoicedesk/internal/money"
)

func (a *App) loadPanel(p panel) tea.Cmd {
	return func() tea.Msg {
		var (
			msg tea.Msg
			err error
		)
		switch p {
		case panelPresets:
			var list []api.Preset
			list, err = a.backend.ListPresets(a.ctx)
			msg = presetsMsg(list)
		case panelSMTP:
			var list []api.SMTPAccount
			list, err = a.backend.ListSMTPAccounts(a.ctx)
			msg = accountsMsg(list)
		case panelClients:
			var list []api.Client
			list, err = a.backend.ListClients(a.ctx)
			msg = clientsMsg(list)
		case panelProducts:
			var list []api.Product
			list, err = a.backend.ListProducts(a.ctx)
			msg = productsMsg(list)
		case panelInvoices:
			var list []api.InvoiceSummary
			list, err = a.backend.ListInvoices(a.ctx)
			msg = invoicesMsg(list)
		}
		if err != nil {
			return loadErrMsg{panel: p, err: err}
		}
		return msg
	}
}

// submitForm sends the active panel form as a create or an update.
func (a *App) submitForm(p panel) tea.Cmd {
	f := a.forms[p]
	id := f.editing
	switch p {
	case panelPresets:
		in := api.PresetInput{
			CompanyName:    f.value(0),
			CompanyAddress: f.value(1),
			CompanyEmail:   f.value(2),
			CompanyPhone:   f.value(3),
		}
		return func() tea.Msg {
			if id != 0 {
				if err := a.backend.UpdatePreset(a.ctx, id, in); err != nil {
					return failMsg{text: err.Error(), err: err}
				}
				return savedMsg{panel: p, text: "Profile updated"}
			}
			if _, err := a.backend.CreatePreset(a.ctx, in); err != nil {
				return failMsg{text: err.Error(), err: err}
			}
			return savedMsg{panel: p, text: "Profile added"}
		}
	case panelSMTP:
		in := api.SMTPAccountInput{Email: f.value(0), Password: f.fields[1].input.Value()}
		return func() tea.Msg {
			_, err := a.backend.CreateSMTPAccount(a.ctx, in)
			return smtpVerifiedMsg{err: err}
		}
	case panelClients:
		in := api.ClientInput{Name: f.value(0), Email: f.value(1), Address: f.value(2), Phone: f.value(3)}
		return func() tea.Msg {
			if id != 0 {
				if err := a.backend.UpdateClient(a.ctx, id, in); err != nil {
					return failMsg{text: err.Error(), err: err}
				}
				return savedMsg{panel: p, text: "Client updated"}
			}
			if _, err := a.backend.CreateClient(a.ctx, in); err != nil {
				return failMsg{text: err.Error(), err: err}
			}
			return savedMsg{panel: p, text: "Client added"}
		}
	case panelProducts:
		cents, err := money.Parse(f.value(2))
		if err != nil {
			return a.notify(toastError, "Price: "+err.Error())
		}
		in := api.ProductInput{Name: f.value(0), Description: f.value(1), Price: money.ToFloat(cents)}
		return func() tea.Msg {
			if id != 0 {
				if err := a.backend.UpdateProduct(a.ctx, id, in); err != nil {
					return failMsg{text: err.Error(), err: err}
				}
				return savedMsg{panel: p, text: "Product updated"}
			}
			if _, err := a.backend.CreateProduct(a.ctx, in); err != nil {
				return failMsg{text: err.Error(), err: err}
			}
			return savedMsg{panel: p, text: "Product added"}
		}
	}
	return nil
}

func (a *App) deletePresetCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.DeletePreset(a.ctx, id); err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return deletedMsg{panel: panelPresets, id: id, text: "Profile deleted"}
	}
}

func (a *App) deleteAccountCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.DeleteSMTPAccount(a.ctx, id); err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return deletedMsg{panel: panelSMTP, id: id, text: "Removed"}
	}
}

func (a *App) deleteClientCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.DeleteClient(a.ctx, id); err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return deletedMsg{panel: panelClients, id: id, text: "Client deleted"}
	}
}

func (a *App) deleteProductCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.DeleteProduct(a.ctx, id); err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return deletedMsg{panel: panelProducts, id: id, text: "Product deleted"}
	}
}

func (a *App) deleteInvoiceCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.DeleteInvoice(a.ctx, id); err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return deletedMsg{panel: panelInvoices, id: id, text: "Invoice deleted"}
	}
}

func (a *App) testEmailCmd(acc api.SMTPAccount) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.TestEmail(a.ctx, api.AccountRef{ID: acc.ID, Email: acc.Email}); err != nil {
			return failMsg{text: "Fail", err: err}
		}
		return notifyMsg{text: "Sent", kind: toastSuccess}
	}
}

func (a *App) sendInvoiceCmd(id int64, acc api.SMTPAccount) tea.Cmd {
	return func() tea.Msg {
		if err := a.backend.SendInvoice(a.ctx, id, api.AccountRef{ID: acc.ID, Email: acc.Email}); err != nil {
			return failMsg{text: "Email failed", err: err}
		}
		return notifyMsg{text: "Invoice emailed", kind: toastSuccess}
	}
}

// downloadPDFCmd saves the invoice PDF under the configured download dir.
func (a *App) downloadPDFCmd(id int64) tea.Cmd {
	dir := a.opts.DownloadDir
	if dir == "" {
		dir = "."
	}
	return func() tea.Msg {
		data, name, err := a.backend.DownloadPDF(a.ctx, id)
		if err != nil {
			return failMsg{text: "PDF download failed", err: err}
		}
		if name == "" {
			name = fmt.Sprintf("invoice_%d.pdf", id)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failMsg{text: "PDF download failed", err: err}
		}
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return failMsg{text: "PDF download failed", err: err}
		}
		return notifyMsg{text: "Saved " + path, kind: toastSuccess}
	}
}

func (a *App) loadInvoiceCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		inv, err := a.backend.GetInvoice(a.ctx, id)
		if err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return invoiceLoadedMsg(inv)
	}
}

func (a *App) saveInvoiceCmd(id int64, in api.InvoiceInput) tea.Cmd {
	return func() tea.Msg {
		if id != 0 {
			if err := a.backend.UpdateInvoice(a.ctx, id, in); err != nil {
				return failMsg{text: err.Error(), err: err}
			}
			return invoiceSavedMsg{text: "Invoice updated"}
		}
		created, err := a.backend.CreateInvoice(a.ctx, in)
		if err != nil {
			return failMsg{text: err.Error(), err: err}
		}
		return invoiceSavedMsg{text: fmt.Sprintf("Invoice #%d created", created.ID)}
	}
}
