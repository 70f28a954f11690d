package board

import "github.com/vovakirdan/msgboard/internal/proto"

// ConfirmModal is the delete confirmation dialog.
type ConfirmModal struct {
	Open   bool
	Target proto.Message
}

// EditModal is the edit dialog. Draft starts as the target's text.
type EditModal struct {
	Open    bool
	Target  proto.Message
	Draft   string
	Invalid bool
}

func (m *ConfirmModal) open(target proto.Message) {
	m.Open = true
	m.Target = target
}

func (m *ConfirmModal) close() {
	*m = ConfirmModal{}
}

func (m *EditModal) open(target proto.Message) {
	m.Open = true
	m.Target = target
	m.Draft = target.Message
	m.Invalid = false
}

func (m *EditModal) close() {
	*m = EditModal{}
}
