package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 256
	in.Width = 40
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

type formField struct {
	label string
	input textinput.Model
}

// form is the add/edit box under a panel's list. editing is the id of the
// record being edited, 0 while adding.
type form struct {
	noun     string
	addTitle string
	addLabel string
	fields   []formField
	focus    int
	editing  int64
}

func newForm(noun string, labels ...string) *form {
	f := &form{noun: noun, addTitle: "Add " + noun, addLabel: "Save"}
	for _, l := range labels {
		f.fields = append(f.fields, formField{label: l, input: newInput(l)})
	}
	return f
}

func (f *form) title() string {
	if f.editing != 0 {
		return fmt.Sprintf("Edit %s #%d", f.noun, f.editing)
	}
	return f.addTitle
}

func (f *form) submitLabel() string {
	if f.editing != 0 {
		return "Update"
	}
	return f.addLabel
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// fill sets the field values in order; missing values clear the field.
func (f *form) fill(values ...string) {
	for i := range f.fields {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		f.fields[i].input.SetValue(v)
	}
}

// reset clears every field and leaves edit mode.
func (f *form) reset() {
	f.editing = 0
	f.fill()
	f.blur()
	f.focus = 0
}

func (f *form) focusField(i int) {
	f.blur()
	if len(f.fields) == 0 {
		return
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *form) blur() {
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
}

func (f *form) next() { f.focusField(f.focus + 1) }
func (f *form) prev() { f.focusField(f.focus - 1) }

func (f *form) onLast() bool { return f.focus == len(f.fields)-1 }

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view(active bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title()) + "\n")
	for i, fld := range f.fields {
		marker := " "
		if active && i == f.focus {
			marker = cursorMark
		}
		fmt.Fprintf(&b, "%s %-12s %s\n", marker, mutedStyle.Render(fld.label+":"), fld.input.View())
	}
	label := "[ctrl+s] " + f.submitLabel()
	if f.editing != 0 {
		label += "  [esc] Cancel"
	}
	b.WriteString(dimStyle.Render(label))
	style := sectionStyle
	if active {
		style = focusedSectionStyle
	}
	return style.Render(b.String())
}
