package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Up        key.Binding
	Down      key.Binding
	Search    key.Binding
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Select    key.Binding
	Test      key.Binding
	PDF       key.Binding
	Email     key.Binding
	Compose   key.Binding
	Reload    key.Binding
	Yes       key.Binding
	No        key.Binding
	Back      key.Binding
	Enter     key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	RemoveRow key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/1-5", "panel")),
		PrevPanel: key.NewBinding(key.WithKeys("shift+tab")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "move")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Select:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "select")),
		Test:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test email")),
		PDF:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
		Email:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "email")),
		Compose:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "composer")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Yes:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:        key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		RemoveRow: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove row")),
	}
}

// panelHelp lists the shortcuts shown in the footer for the list view of p.
func (k keyMap) panelHelp(p panel) []key.Binding {
	common := []key.Binding{k.Up, k.New, k.Edit, k.Delete}
	switch p {
	case panelPresets:
		common = append(common, k.Select)
	case panelSMTP:
		common = []key.Binding{k.Up, k.New, k.Test, k.Delete}
	case panelClients, panelProducts:
		common = append(common, k.Search)
	case panelInvoices:
		common = append(common, k.Search, k.PDF, k.Email, k.Compose)
	}
	return append(common, k.Reload, k.NextPanel, k.Quit)
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Back}
}

func (k keyMap) composerHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Enter, k.RemoveRow, k.Submit, k.Back}
}
