package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/modal"
)

// formFields lists the modal's fields in focus order.
var formFields = []modal.Field{
	modal.FieldTitle,
	modal.FieldAuthor,
	modal.FieldISBN,
	modal.FieldYear,
	modal.FieldAvailable,
}

// form holds the text inputs backing the modal's draft. The controller's
// draft is the source of truth; inputs mirror it and push every edit back.
type form struct {
	inputs map[modal.Field]*textinput.Model
	focus  int // index into the currently editable fields
}

func newForm() form {
	placeholders := map[modal.Field]string{
		modal.FieldTitle:  "Title",
		modal.FieldAuthor: "Author",
		modal.FieldISBN:   "ISBN",
		modal.FieldYear:   "Year",
	}
	limits := map[modal.Field]int{
		modal.FieldTitle:  200,
		modal.FieldAuthor: 120,
		modal.FieldISBN:   20,
		modal.FieldYear:   6,
	}

	f := form{inputs: make(map[modal.Field]*textinput.Model, len(placeholders))}
	for field, placeholder := range placeholders {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = limits[field]
		ti.Width = ModalWidth - 24
		f.inputs[field] = &ti
	}
	return f
}

// load copies the controller's draft into the inputs and focuses the first
// editable field.
func (f *form) load(c *modal.Controller) tea.Cmd {
	d := c.Draft()
	values := map[modal.Field]string{
		modal.FieldTitle:  d.Title,
		modal.FieldAuthor: d.Author,
		modal.FieldISBN:   d.ISBN,
		modal.FieldYear:   d.Year,
	}
	for field, ti := range f.inputs {
		ti.SetValue(values[field])
		ti.CursorEnd()
	}
	f.focus = 0
	return f.applyFocus(c)
}

func (f *form) blurAll() {
	for _, ti := range f.inputs {
		ti.Blur()
	}
}

// editable returns the fields the user may move between right now.
func (f *form) editable(c *modal.Controller) []modal.Field {
	var out []modal.Field
	for _, field := range formFields {
		if c.Editable(field) {
			out = append(out, field)
		}
	}
	return out
}

// focused returns the field that receives typing, if any.
func (f *form) focused(c *modal.Controller) (modal.Field, bool) {
	fields := f.editable(c)
	if len(fields) == 0 {
		return 0, false
	}
	if f.focus >= len(fields) {
		f.focus = 0
	}
	return fields[f.focus], true
}

func (f *form) move(c *modal.Controller, delta int) tea.Cmd {
	fields := f.editable(c)
	if len(fields) == 0 {
		return nil
	}
	f.focus = (f.focus + delta + len(fields)) % len(fields)
	return f.applyFocus(c)
}

func (f *form) applyFocus(c *modal.Controller) tea.Cmd {
	f.blurAll()
	field, ok := f.focused(c)
	if !ok {
		return nil
	}
	if ti, ok := f.inputs[field]; ok {
		return ti.Focus()
	}
	return nil
}

// handleModalKey drives the modal state machine from keyboard input.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.modal

	if c.Busy() {
		return m, nil
	}

	if c.ConfirmingDelete() {
		switch {
		case key.Matches(msg, m.keys.Yes):
			sub, err := c.PrepareDelete()
			if err != nil {
				m.setNotice(err.Error(), noticeError)
				return m, nil
			}
			m.form.blurAll()
			return m, submitCmd(m.ctx, m.backend, sub)
		case key.Matches(msg, m.keys.No):
			c.CancelDelete()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Close) {
		c.Close()
		m.form.blurAll()
		return m, nil
	}

	if c.Mode() == modal.ModeView {
		switch {
		case key.Matches(msg, m.keys.Edit):
			if err := c.SwitchToEdit(); err != nil {
				m.setNotice(err.Error(), noticeError)
				return m, nil
			}
			return m, m.form.load(c)
		case key.Matches(msg, m.keys.Quit):
			c.Close()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Save):
		return m.submit()

	case key.Matches(msg, m.keys.ModalDelete):
		if err := c.RequestDelete(); err != nil {
			m.setNotice("Delete is only available while editing a book.", noticeInfo)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.move(c, 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.move(c, -1)
	}

	field, ok := m.form.focused(c)
	if !ok {
		return m, nil
	}

	if field == modal.FieldAvailable {
		if key.Matches(msg, m.keys.Toggle) {
			if err := c.ToggleAvailable(); err != nil {
				m.setNotice(err.Error(), noticeError)
			}
		}
		return m, nil
	}

	ti := m.form.inputs[field]
	updated, cmd := ti.Update(msg)
	*ti = updated
	if err := c.SetField(field, ti.Value()); err != nil {
		m.setNotice(err.Error(), noticeError)
	}
	return m, cmd
}

// submit validates the draft and starts the write. Validation failures keep
// the modal open with the message in the footer.
func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, err := m.modal.PrepareSave()
	if err != nil {
		var vErr *modal.ValidationError
		if errors.As(err, &vErr) {
			m.setNotice(vErr.Message, noticeWarning)
			return m, nil
		}
		m.setNotice(err.Error(), noticeError)
		return m, nil
	}
	m.form.blurAll()
	return m, submitCmd(m.ctx, m.backend, sub)
}

// renderModal draws the book modal over the screen.
func (m Model) renderModal() string {
	styles := m.theme.Styles()
	c := m.modal
	st := c.State()
	d := c.Draft()
	focused, hasFocus := m.form.focused(c)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(st.Mode.Title()))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", ModalWidth-6)))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(18)
	for _, field := range formFields {
		marker := "  "
		if hasFocus && field == focused && !c.ConfirmingDelete() {
			marker = styles.AccentText.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(label.Render(field.String()))
		b.WriteString(m.renderFieldValue(field, d))
		b.WriteString("\n")
	}

	if st.Book != nil {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("ID: %d", st.Book.ID)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case c.Busy():
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Working..."))
	case c.ConfirmingDelete() && st.Book != nil:
		b.WriteString(styles.DangerText.Render(fmt.Sprintf("Delete %q? (y/n)", st.Book.DisplayTitle())))
	default:
		b.WriteString(styles.MutedText.Render(modalActions(st.Mode)))
	}

	if m.notice.text != "" {
		b.WriteString("\n")
		b.WriteString(m.renderNotice())
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(ModalWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func (m Model) renderFieldValue(field modal.Field, d modal.Draft) string {
	styles := m.theme.Styles()
	c := m.modal

	if field == modal.FieldAvailable {
		v := d.AvailableValue()
		box := ternary(v, "[x] ", "[ ] ")
		text := ternary(v, "Yes", "No")
		if c.Editable(field) {
			return styles.AvailabilityStyle(v).Render(box + text)
		}
		return styles.AvailabilityStyle(v).Render(text)
	}

	if c.Editable(field) {
		return styles.Input.Render(m.form.inputs[field].View())
	}

	var value string
	switch field {
	case modal.FieldTitle:
		value = d.Title
	case modal.FieldAuthor:
		value = d.Author
	case modal.FieldISBN:
		value = d.ISBN
	case modal.FieldYear:
		value = d.Year
	}
	if strings.TrimSpace(value) == "" {
		return styles.FaintText.Render("-")
	}
	return styles.Text.Render(truncate(value, ModalWidth-24))
}

func modalActions(mode modal.Mode) string {
	switch mode {
	case modal.ModeCreate:
		return "enter save · tab next field · space toggle · esc cancel"
	case modal.ModeEdit:
		return "enter save · ctrl+d delete · tab next field · esc cancel"
	default:
		return "e edit · esc close"
	}
}
