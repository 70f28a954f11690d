package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

type (
	refreshDoneMsg struct{ err error }
	createDoneMsg  struct{ err error }
	updateDoneMsg  struct{ err error }
	deleteDoneMsg  struct{ err error }
	settleMsg      struct{ seq uint64 }
	toastTickMsg   struct{ id uint64 }
)

// toastSlack lets the notifier's own timer fire before the redraw.
const toastSlack = 50 * time.Millisecond

func (m *Model) refreshCmd() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: b.Refresh(ctx)}
	}
}

func (m *Model) createCmd() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		return createDoneMsg{err: b.Submit(ctx)}
	}
}

func (m *Model) saveEditCmd() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		return updateDoneMsg{err: b.SaveEdit(ctx)}
	}
}

func (m *Model) confirmDeleteCmd() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		return deleteDoneMsg{err: b.ConfirmDelete(ctx)}
	}
}

func (m *Model) settleAfter(seq uint64) tea.Cmd {
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return settleMsg{seq: seq}
	})
}

// toastTick schedules a redraw for when the current toast expires.
func (m *Model) toastTick() tea.Cmd {
	toast, ok := m.board.Notifier().Current()
	if !ok {
		return nil
	}
	return tea.Tick(m.board.Notifier().TTL()+toastSlack, func(time.Time) tea.Msg {
		return toastTickMsg{id: toast.ID}
	})
}
