package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title bar with the loading spinner.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("shelf", styles.Logo),
		bg.Render(fmt.Sprintf("%d books", len(m.snapshot.Books)), styles.MutedText),
	}
	if m.baseURL != "" && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(m.baseURL, styles.FaintText))
	}
	switch {
	case m.loading():
		parts = append(parts, bg.Render(m.spinner.View()+" loading", styles.AccentText))
	case !m.snapshot.LastUpdated.IsZero():
		age := humanizeDuration(m.now().Sub(m.snapshot.LastUpdated))
		parts = append(parts, bg.Render("updated "+age, styles.FaintText))
	}

	return bg.FillLine(bg.Spaces(1)+bg.Join(parts, "  "), m.width)
}

// renderBanner renders the persistent error banner shown while the last
// reload failed. It stays until a reload succeeds.
func (m Model) renderBanner() string {
	if m.snapshot.LastError == nil {
		return ""
	}
	styles := m.theme.Styles()
	text := "Could not load books: " + m.snapshot.LastError.Error()
	if m.snapshot.IsOffline() {
		text += fmt.Sprintf(" (offline, %d failed attempts)", m.snapshot.ConsecutiveFailures)
	}
	return styles.Banner.Width(m.width).Render(truncate(text, m.width-2))
}

// renderList renders one row per book, or the empty state.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	books := m.snapshot.Books

	if len(books) == 0 {
		msg := "No books yet. Press n to add one."
		if !m.snapshot.Loaded && m.snapshot.LastError == nil {
			msg = "Loading books..."
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(styles.MutedText.Render(msg))
	}

	const availWidth = 12
	compact := m.width < LayoutCompactWidth
	titleWidth := m.width - availWidth - 6
	authorWidth := 0
	if !compact {
		authorWidth = titleWidth * 2 / 5
		titleWidth -= authorWidth + 2
	}
	if titleWidth < 10 {
		titleWidth = 10
	}

	start, end := m.visibleRange(len(books))

	var b strings.Builder
	head := cell("Title", titleWidth)
	if !compact {
		head += "  " + cell("Author", authorWidth)
	}
	head += "  " + cell("Status", availWidth)
	b.WriteString(styles.FaintText.Render("  " + head))

	for i := start; i < end; i++ {
		book := books[i]
		b.WriteString("\n")

		row := cell(book.DisplayTitle(), titleWidth)
		if !compact {
			row += "  " + cell(book.Author, authorWidth)
		}
		avail := cell(book.AvailabilityLabel(), availWidth)

		if i == m.selected {
			b.WriteString(styles.Selected.Render("▸ " + row + "  " + avail))
			continue
		}
		b.WriteString("  " + styles.Text.Render(row) + "  " + styles.AvailabilityStyle(book.Available).Render(avail))
	}

	if m.pendingRemove != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(fmt.Sprintf("  Delete %q? (y/n)", m.pendingRemove.DisplayTitle())))
	}

	return b.String()
}

// visibleRange keeps the selected row on screen.
func (m Model) visibleRange(total int) (int, int) {
	rows := m.height - 5
	if m.snapshot.LastError != nil {
		rows--
	}
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := start + rows
	if end > total {
		end = total
	}
	return start, end
}

// renderFooter shows the current notice or the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.notice.text != "" {
		return styles.Footer.Render(m.renderNotice())
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		hints = append(hints, styles.AccentText.Render(h.Key)+" "+h.Desc)
	}
	return styles.Footer.Render(strings.Join(hints, "  "))
}
