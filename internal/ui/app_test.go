package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/modal"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

type fakeBackend struct {
	mu        sync.Mutex
	snapshot  state.Snapshot
	reloads   int
	created   []catalog.Book
	updated   []catalog.Book
	deleted   []int64
	createErr error
	deleteErr error
}

func (f *fakeBackend) Reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func (f *fakeBackend) Snapshot() state.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

func (f *fakeBackend) Create(ctx context.Context, book catalog.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, book)
	return f.createErr
}

func (f *fakeBackend) Update(ctx context.Context, id int64, book catalog.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, book)
	return nil
}

func (f *fakeBackend) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeBackend) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.updated) + len(f.deleted)
}

var testNow = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

func testBooks() []catalog.Book {
	return []catalog.Book{
		{ID: 1, Title: "The Go Programming Language", Author: "Donovan", ISBN: "978-0134190440", PublicationYear: 2015, Available: true},
		{ID: 2, Title: "Concurrency in Go", Author: "Cox-Buday", ISBN: "978-1491941195", PublicationYear: 2017},
	}
}

func newTestModel(t *testing.T, backend *fakeBackend) Model {
	t.Helper()
	m := New(Options{
		Backend:   backend,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       func() time.Time { return testNow },
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return send(t, m, snapshotMsg(state.Snapshot{Books: testBooks(), Loaded: true}))
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func sendCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectOps runs cmd and any batched commands and returns the write
// results among their messages.
func collectOps(cmd tea.Cmd) []opDoneMsg {
	if cmd == nil {
		return nil
	}
	var out []opDoneMsg
	switch msg := cmd().(type) {
	case opDoneMsg:
		out = append(out, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collectOps(c)...)
		}
	}
	return out
}

func TestModel_ViewThenEscalateToEdit(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m = send(t, m, runes("v"))
	if !m.modal.Visible() || m.modal.Mode() != modal.ModeView {
		t.Fatalf("after v: visible=%v mode=%v, want visible view", m.modal.Visible(), m.modal.Mode())
	}
	if got := m.modal.State().Book.ID; got != 1 {
		t.Fatalf("bound book id = %d, want 1", got)
	}

	m = send(t, m, runes("x"))
	if got := m.modal.Draft().Title; got != "The Go Programming Language" {
		t.Fatalf("view mode draft title = %q, want unchanged", got)
	}

	m = send(t, m, runes("e"))
	if !m.modal.Visible() || m.modal.Mode() != modal.ModeEdit {
		t.Fatalf("after e: visible=%v mode=%v, want visible edit", m.modal.Visible(), m.modal.Mode())
	}
	if got := m.modal.State().Book.ID; got != 1 {
		t.Fatalf("bound book id after escalation = %d, want 1", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal.Visible() {
		t.Fatalf("modal still visible after esc")
	}
}

func TestModel_ListKeysOpenModes(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m = send(t, m, runes("j"))
	m = send(t, m, runes("e"))
	if m.modal.Mode() != modal.ModeEdit || m.modal.State().Book.ID != 2 {
		t.Fatalf("after j e: mode=%v book=%v, want edit on book 2", m.modal.Mode(), m.modal.State().Book)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = send(t, m, runes("n"))
	if m.modal.Mode() != modal.ModeCreate {
		t.Fatalf("after n: mode = %v, want create", m.modal.Mode())
	}
	if m.modal.State().Book != nil {
		t.Fatalf("create mode bound book = %v, want nil", m.modal.State().Book)
	}
	d := m.modal.Draft()
	if d.Year != "2030" || !d.AvailableValue() {
		t.Fatalf("create draft = %+v, want year 2030 and available", d)
	}
}

func TestModel_CreateTypesAndSaves(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend)

	m = send(t, m, runes("n"))
	m = send(t, m, runes("G"))
	m = send(t, m, runes("o"))
	if got := m.modal.Draft().Title; got != "Go" {
		t.Fatalf("draft title = %q, want Go", got)
	}
	if err := m.modal.SetField(modal.FieldAuthor, "Pike"); err != nil {
		t.Fatalf("SetField author: %v", err)
	}
	if err := m.modal.SetField(modal.FieldISBN, "123"); err != nil {
		t.Fatalf("SetField isbn: %v", err)
	}

	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter returned nil cmd, want submission")
	}
	if !m.modal.Busy() {
		t.Fatalf("modal not busy while submission is pending")
	}

	ops := collectOps(cmd)
	if len(ops) != 1 || ops[0].op != modal.OpCreate || ops[0].err != nil {
		t.Fatalf("ops = %+v, want one successful create", ops)
	}
	m = send(t, m, ops[0])

	if m.modal.Visible() {
		t.Fatalf("modal still visible after save")
	}
	if len(backend.created) != 1 {
		t.Fatalf("created = %d books, want 1", len(backend.created))
	}
	got := backend.created[0]
	if got.Title != "Go" || got.Author != "Pike" || got.ISBN != "123" || got.PublicationYear != 2030 || !got.Available {
		t.Fatalf("created book = %+v", got)
	}
	if m.notice.text != "Book created" {
		t.Fatalf("notice = %q, want Book created", m.notice.text)
	}
}

func TestModel_ValidationKeepsModalOpen(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend)

	m = send(t, m, runes("n"))
	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("enter on blank draft returned a cmd, want none")
	}
	if !m.modal.Visible() || m.modal.Mode() != modal.ModeCreate {
		t.Fatalf("modal closed after validation failure")
	}
	if m.notice.text != "Title, author and ISBN are required." {
		t.Fatalf("notice = %q, want validation message", m.notice.text)
	}
	if backend.writes() != 0 {
		t.Fatalf("backend writes = %d, want 0", backend.writes())
	}
}

func TestModel_SaveFailureClosesAndNotifies(t *testing.T) {
	backend := &fakeBackend{createErr: &catalog.OperationError{Op: "create", Status: 409, Message: "isbn already exists"}}
	m := newTestModel(t, backend)

	m = send(t, m, runes("n"))
	for f, v := range map[modal.Field]string{modal.FieldTitle: "T", modal.FieldAuthor: "A", modal.FieldISBN: "I"} {
		if err := m.modal.SetField(f, v); err != nil {
			t.Fatalf("SetField(%s): %v", f, err)
		}
	}
	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	ops := collectOps(cmd)
	if len(ops) != 1 || ops[0].err == nil {
		t.Fatalf("ops = %+v, want one failed create", ops)
	}
	m = send(t, m, ops[0])

	if m.modal.Visible() {
		t.Fatalf("modal still visible after failed save")
	}
	if m.notice.kind != noticeError || !strings.Contains(m.notice.text, "isbn already exists") {
		t.Fatalf("notice = %+v, want error mentioning backend message", m.notice)
	}
}

func TestModel_EditSkipsISBNField(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = send(t, m, runes("e"))

	fields := m.form.editable(m.modal)
	want := []modal.Field{modal.FieldTitle, modal.FieldAuthor, modal.FieldYear, modal.FieldAvailable}
	if len(fields) != len(want) {
		t.Fatalf("editable fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("editable fields = %v, want %v", fields, want)
		}
	}

	for i := 0; i < 3; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if f, _ := m.form.focused(m.modal); f != modal.FieldAvailable {
		t.Fatalf("focused after 3 tabs = %v, want Available", f)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if m.modal.Draft().AvailableValue() {
		t.Fatalf("available still true after space toggle")
	}
}

func TestModel_ModalDeleteConfirmAndCancel(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend)

	m = send(t, m, runes("e"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if !m.modal.ConfirmingDelete() {
		t.Fatalf("ctrl+d did not ask for confirmation")
	}
	m = send(t, m, runes("n"))
	if m.modal.ConfirmingDelete() || m.modal.Mode() != modal.ModeEdit || !m.modal.Visible() {
		t.Fatalf("after n: confirming=%v mode=%v visible=%v, want edit open", m.modal.ConfirmingDelete(), m.modal.Mode(), m.modal.Visible())
	}
	if backend.writes() != 0 {
		t.Fatalf("backend writes after cancel = %d, want 0", backend.writes())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m, cmd := sendCmd(t, m, runes("y"))
	ops := collectOps(cmd)
	if len(ops) != 1 || ops[0].op != modal.OpDelete {
		t.Fatalf("ops = %+v, want one delete", ops)
	}
	m = send(t, m, ops[0])
	if m.modal.Visible() {
		t.Fatalf("modal still visible after delete")
	}
	if len(backend.deleted) != 1 || backend.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want [1]", backend.deleted)
	}
	if m.notice.text != "Book deleted" {
		t.Fatalf("notice = %q, want Book deleted", m.notice.text)
	}
}

func TestModel_DeleteNotOfferedInCreate(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = send(t, m, runes("n"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.modal.ConfirmingDelete() {
		t.Fatalf("create mode entered delete confirmation")
	}
}

func TestModel_ListDeleteAsksFirst(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend)

	m = send(t, m, runes("x"))
	if m.pendingRemove == nil || m.pendingRemove.ID != 1 {
		t.Fatalf("pendingRemove = %v, want book 1", m.pendingRemove)
	}
	m = send(t, m, runes("n"))
	if m.pendingRemove != nil || backend.writes() != 0 {
		t.Fatalf("after n: pendingRemove=%v writes=%d, want nothing", m.pendingRemove, backend.writes())
	}

	m = send(t, m, runes("j"))
	m = send(t, m, runes("x"))
	m, cmd := sendCmd(t, m, runes("y"))
	ops := collectOps(cmd)
	if len(ops) != 1 || ops[0].fromModal {
		t.Fatalf("ops = %+v, want one list delete", ops)
	}
	m = send(t, m, ops[0])
	if len(backend.deleted) != 1 || backend.deleted[0] != 2 {
		t.Fatalf("deleted = %v, want [2]", backend.deleted)
	}
	if m.modal.Visible() {
		t.Fatalf("list delete opened the modal")
	}
}

func TestModel_ListDeleteFailureNotifies(t *testing.T) {
	backend := &fakeBackend{deleteErr: errors.New("failed to delete book")}
	m := newTestModel(t, backend)

	m = send(t, m, runes("x"))
	m, cmd := sendCmd(t, m, runes("y"))
	ops := collectOps(cmd)
	if len(ops) != 1 {
		t.Fatalf("ops = %+v, want one", ops)
	}
	m = send(t, m, ops[0])
	if m.notice.kind != noticeError || !strings.Contains(m.notice.text, "failed to delete book") {
		t.Fatalf("notice = %+v, want delete failure", m.notice)
	}
}

func TestModel_SnapshotClampsSelection(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = send(t, m, runes("G"))
	if m.selected != 1 {
		t.Fatalf("selected after G = %d, want 1", m.selected)
	}
	m = send(t, m, snapshotMsg(state.Snapshot{Books: testBooks()[:1], Loaded: true}))
	if m.selected != 0 {
		t.Fatalf("selected after shrink = %d, want 0", m.selected)
	}
	m = send(t, m, snapshotMsg(state.Snapshot{Loaded: true}))
	if m.selected != 0 {
		t.Fatalf("selected on empty list = %d, want 0", m.selected)
	}
	if !strings.Contains(m.View(), "No books yet") {
		t.Fatalf("empty view missing empty-state text")
	}
}

func TestModel_ErrorBannerShownWhileFailing(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = send(t, m, snapshotMsg(state.Snapshot{
		Books:               testBooks(),
		Loaded:              true,
		LastError:           &catalog.NetworkError{Status: 500},
		ConsecutiveFailures: 2,
	}))
	view := m.View()
	if !strings.Contains(view, "Could not load books") {
		t.Fatalf("view missing error banner")
	}
	if !strings.Contains(view, "Concurrency in Go") {
		t.Fatalf("view dropped last-known books while failing")
	}

	m = send(t, m, snapshotMsg(state.Snapshot{Books: testBooks(), Loaded: true}))
	if strings.Contains(m.View(), "Could not load books") {
		t.Fatalf("banner still shown after successful reload")
	}
}

func TestModel_NoticeExpires(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.setNotice("Book created", noticeSuccess)

	m = send(t, m, tickMsg(testNow.Add(NoticeTTL/2)))
	if m.notice.text == "" {
		t.Fatalf("notice cleared before TTL")
	}
	m = send(t, m, tickMsg(testNow.Add(NoticeTTL)))
	if m.notice.text != "" {
		t.Fatalf("notice = %q after TTL, want cleared", m.notice.text)
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = send(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme after T = %q, want Kanagawa", m.theme.Name)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}

func TestModel_HelpOverlayClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = send(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = send(t, m, runes("n"))
	if m.showHelp || m.modal.Visible() {
		t.Fatalf("key closing help also acted: showHelp=%v modal=%v", m.showHelp, m.modal.Visible())
	}
}

func TestModel_ModalTitles(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	cases := []struct {
		key  string
		want string
	}{
		{"n", "New Book"},
		{"v", "Book Details"},
		{"e", "Edit Book"},
	}
	for _, tc := range cases {
		m = send(t, m, runes(tc.key))
		if view := m.View(); !strings.Contains(view, tc.want) {
			t.Fatalf("view after %s missing title %q", tc.key, tc.want)
		}
		m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	}
}
