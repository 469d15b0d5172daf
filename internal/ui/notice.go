package ui

import "time"

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeWarning
	noticeError
)

// notice is a one-time footer message that disappears after NoticeTTL.
type notice struct {
	text  string
	kind  noticeKind
	until time.Time
}

func (n notice) expired(now time.Time) bool {
	return n.text != "" && !now.Before(n.until)
}

func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	switch m.notice.kind {
	case noticeSuccess:
		return styles.SuccessText.Render(m.notice.text)
	case noticeWarning:
		return styles.WarningText.Render(m.notice.text)
	case noticeError:
		return styles.DangerText.Render(m.notice.text)
	default:
		return styles.InfoText.Render(m.notice.text)
	}
}
