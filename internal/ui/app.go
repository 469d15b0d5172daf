package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/modal"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

// Backend is what the UI needs from the collection synchronizer.
type Backend interface {
	modal.Persister
	Reload(ctx context.Context) error
	Snapshot() state.Snapshot
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Backend   Backend
	BaseURL   string
	UITick    time.Duration
	ThemeName string
	PrefsPath string
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	backend   Backend
	baseURL   string
	prefsPath string
	uiTick    time.Duration
	now       func() time.Time

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model
	notice   notice

	// Data state
	snapshot state.Snapshot
	selected int
	inflight int // UI-started writes not yet finished

	// List-level delete awaiting y/n
	pendingRemove *catalog.Book

	// Book modal
	modal *modal.Controller
	form  form
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uiTick := opts.UITick
	if uiTick <= 0 {
		uiTick = DefaultUIInterval
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:       ctx,
		backend:   opts.Backend,
		baseURL:   opts.BaseURL,
		prefsPath: prefsPath,
		uiTick:    uiTick,
		now:       now,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		spinner:   sp,
		modal:     modal.New(opts.Backend, modal.WithClock(now)),
		form:      newForm(),
	}
}

// Init implements tea.Model. The collection is reloaded as soon as the
// screen comes up.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.uiTick),
		m.spinner.Tick,
	}
	if m.backend != nil {
		cmds = append(cmds, reloadCmd(m.ctx, m.backend), fetchSnapshotCmd(m.backend))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case reloadDoneMsg:
		// Failures surface through the snapshot's LastError banner.
		return m, fetchSnapshotCmd(m.backend)

	case opDoneMsg:
		return m.handleOpDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal.Visible() {
		return m.renderModal()
	}
	return m.renderMain()
}

// handleKey routes input to the topmost layer: help, list confirmation,
// modal, then the list itself.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.pendingRemove != nil {
		return m.handleRemoveConfirmKey(msg)
	}

	if m.modal.Visible() {
		return m.handleModalKey(msg)
	}

	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	books := m.snapshot.Books

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				log.Printf("save prefs: %v", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.backend == nil {
			return m, nil
		}
		return m, tea.Batch(reloadCmd(m.ctx, m.backend), fetchSnapshotCmd(m.backend))

	case key.Matches(msg, m.keys.New):
		if err := m.modal.OpenCreate(); err != nil {
			m.setNotice(err.Error(), noticeError)
			return m, nil
		}
		return m, m.form.load(m.modal)

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(books)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(books) > 0 {
			m.selected = len(books) - 1
		}

	case key.Matches(msg, m.keys.View):
		if book, ok := m.selectedBook(); ok {
			if err := m.modal.OpenView(book); err != nil {
				m.setNotice(err.Error(), noticeError)
				return m, nil
			}
			return m, m.form.load(m.modal)
		}

	case key.Matches(msg, m.keys.Edit):
		if book, ok := m.selectedBook(); ok {
			if err := m.modal.OpenEdit(book); err != nil {
				m.setNotice(err.Error(), noticeError)
				return m, nil
			}
			return m, m.form.load(m.modal)
		}

	case key.Matches(msg, m.keys.Delete):
		if book, ok := m.selectedBook(); ok {
			m.pendingRemove = &book
		}
	}

	return m, nil
}

func (m Model) handleRemoveConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		id := m.pendingRemove.ID
		m.pendingRemove = nil
		m.inflight++
		return m, tea.Batch(removeCmd(m.ctx, m.modal, id), fetchSnapshotCmd(m.backend))
	case key.Matches(msg, m.keys.No):
		m.pendingRemove = nil
	}
	return m, nil
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if m.inflight > 0 {
		m.inflight--
	}
	if msg.fromModal {
		m.modal.Finish()
		m.form.blurAll()
	}

	if msg.err != nil {
		log.Printf("%s failed: %v", msg.op, msg.err)
		m.setNotice(operationFailure(msg.op, msg.err), noticeError)
	} else {
		m.setNotice(operationSuccess(msg.op), noticeSuccess)
	}
	return m, fetchSnapshotCmd(m.backend)
}

// handleTick re-reads the snapshot and expires the notice.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.notice.expired(now) {
		m.notice = notice{}
	}
	cmds := []tea.Cmd{tickCmd(m.uiTick)}
	if m.backend != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.backend))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if m.selected >= len(snap.Books) {
		m.selected = len(snap.Books) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) selectedBook() (catalog.Book, bool) {
	books := m.snapshot.Books
	if m.selected < 0 || m.selected >= len(books) {
		return catalog.Book{}, false
	}
	return books[m.selected], true
}

// loading reports whether the header spinner should run.
func (m Model) loading() bool {
	return m.snapshot.Loading || m.inflight > 0 || m.modal.Busy()
}

func (m *Model) setNotice(text string, kind noticeKind) {
	m.notice = notice{text: text, kind: kind, until: m.now().Add(NoticeTTL)}
}

func operationSuccess(op modal.Op) string {
	switch op {
	case modal.OpUpdate:
		return "Book updated"
	case modal.OpDelete:
		return "Book deleted"
	default:
		return "Book created"
	}
}

func operationFailure(op modal.Op, err error) string {
	return "Could not " + op.String() + " book: " + err.Error()
}

// renderMain renders the list screen.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type reloadDoneMsg struct{ err error }

type opDoneMsg struct {
	op        modal.Op
	fromModal bool
	err       error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(backend Backend) tea.Cmd {
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(backend.Snapshot())
	}
}

func reloadCmd(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		return reloadDoneMsg{err: backend.Reload(ctx)}
	}
}

func submitCmd(ctx context.Context, backend Backend, sub modal.Submission) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: sub.Op, fromModal: true, err: sub.Apply(ctx, backend)}
	}
}

func removeCmd(ctx context.Context, c *modal.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: modal.OpDelete, err: c.Remove(ctx, id)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
