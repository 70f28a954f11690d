// Package tui is the terminal front end of the message board.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/vovakirdan/msgboard/internal/board"
	"github.com/vovakirdan/msgboard/internal/proto"
)

// DefaultDebounce delays live validation of the create form.
const DefaultDebounce = 300 * time.Millisecond

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

// Options configure the model.
type Options struct {
	// Context bounds every request the UI issues.
	Context  context.Context
	Debounce time.Duration
}

// Model is the Bubble Tea model. All state except layout and text editing
// lives in the board.
type Model struct {
	board    *board.Board
	ctx      context.Context
	debounce time.Duration

	input  textarea.Model
	editor textarea.Model

	focus    focusArea
	selected int
	width    int
	height   int
}

// New creates the model over b.
func New(b *board.Board, opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	input := textarea.New()
	input.Placeholder = "Ingrese el contenido del mensaje..."
	input.CharLimit = board.MaxLength
	input.ShowLineNumbers = false
	input.Prompt = ""
	input.SetHeight(3)
	input.SetWidth(60)
	input.Focus()

	editor := textarea.New()
	editor.CharLimit = board.MaxLength
	editor.ShowLineNumbers = false
	editor.Prompt = ""
	editor.SetHeight(4)
	editor.SetWidth(56)

	return &Model{
		board:    b,
		ctx:      ctx,
		debounce: debounce,
		input:    input,
		editor:   editor,
	}
}

// Run starts the program and blocks until the user quits.
func Run(b *board.Board, opts Options) error {
	_, err := tea.NewProgram(New(b, opts)).Run()
	return err
}

// Init loads the collection.
func (m *Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case settleMsg:
		m.board.SettleInput(msg.seq)
		return m, nil

	case refreshDoneMsg:
		m.clampSelection()
		return m, m.toastTick()

	case createDoneMsg:
		if msg.err == nil {
			m.input.Reset()
		}
		return m, m.toastTick()

	case updateDoneMsg:
		m.syncDialogFocus()
		return m, m.toastTick()

	case deleteDoneMsg:
		m.clampSelection()
		m.syncDialogFocus()
		return m, m.toastTick()

	case toastTickMsg:
		// The notifier expires on its own; this only triggers a redraw.
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyCtrlC {
		return m, tea.Quit
	}

	snap := m.board.Snapshot()
	switch {
	case snap.Confirm.Open:
		return m.handleConfirmKey(key)
	case snap.Edit.Open:
		return m.handleEditKey(msg)
	}

	switch key {
	case keyTab:
		m.toggleFocus()
		return m, nil
	case keyEscape:
		m.board.DismissToast()
		return m, nil
	case keyCtrlR:
		return m, m.refreshCmd()
	}

	if m.focus == focusList {
		return m.handleListKey(key)
	}
	return m.handleFormKey(msg)
}

func (m *Model) handleFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlS, keyCtrlEnter:
		return m, m.submit()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after == before {
		return m, cmd
	}

	seq := m.board.SetInput(after)
	return m, tea.Batch(cmd, m.settleAfter(seq))
}

func (m *Model) handleListKey(key string) (tea.Model, tea.Cmd) {
	msgs := m.board.Snapshot().Messages

	switch key {
	case "q":
		return m, tea.Quit
	case keyUp, "k":
		if m.selected > 0 {
			m.selected--
		}
	case keyDown, "j":
		if m.selected < len(msgs)-1 {
			m.selected++
		}
	case "r":
		return m, m.refreshCmd()
	case "e":
		if target, ok := m.selectedMessage(msgs); ok {
			m.board.OpenEdit(target)
			m.editor.SetValue(target.Message)
			m.input.Blur()
			m.editor.Focus()
		}
	case "d":
		if target, ok := m.selectedMessage(msgs); ok {
			m.board.OpenDelete(target)
		}
	}
	return m, nil
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEscape:
		m.board.CancelEdit()
		m.syncDialogFocus()
		return m, nil
	case keyCtrlS, keyCtrlEnter:
		if board.Validate(m.editor.Value()) != nil {
			// Marks the dialog invalid without sending anything.
			_ = m.board.SaveEdit(m.ctx)
			return m, nil
		}
		return m, m.saveEditCmd()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if draft := m.editor.Value(); draft != m.board.Snapshot().Edit.Draft {
		m.board.SetEditDraft(draft)
	}
	return m, cmd
}

func (m *Model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", keyEnter:
		return m, m.confirmDeleteCmd()
	case "n", keyEscape:
		m.board.CancelDelete()
	}
	return m, nil
}

// submit validates synchronously so an invalid draft never reaches a command.
func (m *Model) submit() tea.Cmd {
	text := m.input.Value()
	m.board.SetInput(text)
	if board.Validate(text) != nil {
		_ = m.board.Submit(m.ctx)
		return nil
	}
	return m.createCmd()
}

func (m *Model) toggleFocus() {
	if m.focus == focusForm {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusForm
	m.input.Focus()
}

// syncDialogFocus returns focus to the main screen once the edit dialog is gone.
func (m *Model) syncDialogFocus() {
	if m.board.Snapshot().Edit.Open {
		return
	}
	m.editor.Blur()
	if m.focus == focusForm {
		m.input.Focus()
	}
}

func (m *Model) selectedMessage(msgs board.Collection) (proto.Message, bool) {
	if m.selected < 0 || m.selected >= len(msgs) {
		return proto.Message{}, false
	}
	return msgs[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.board.Snapshot().Messages)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) resize() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	m.input.SetWidth(w)
	m.editor.SetWidth(w - 8)
}
