// Package board owns the client-side state of the message board: the
// collection, the create form, the dialogs, the loading flags and the toast.
// UIs render a Snapshot and call Board methods in response to user actions.
package board

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/proto"
)

// Toast texts.
const (
	TextLoaded       = "Mensajes cargados correctamente"
	TextCreated      = "Mensaje creado exitosamente"
	TextUpdated      = "Mensaje actualizado correctamente"
	TextDeleted      = "Mensaje eliminado correctamente"
	TextLoadFailed   = "Error al cargar los mensajes. Verifique la conectividad."
	TextCreateFailed = "Error al crear el mensaje. Intente nuevamente."
	TextUpdateFailed = "Error al actualizar el mensaje. Intente nuevamente."
	TextDeleteFailed = "Error al eliminar el mensaje. Intente nuevamente."
)

var (
	// ErrBusy is returned when single-flight is enabled and the same kind of
	// request is already in flight.
	ErrBusy = errors.New("board: operation already in progress")
	// ErrNoDialog is returned when saving or confirming with the dialog closed.
	ErrNoDialog = errors.New("board: dialog is not open")
	// ErrEditInvalid is returned when the edit draft fails validation.
	ErrEditInvalid = errors.New(EditInvalidText)
)

// API is the remote collection the board talks to.
type API interface {
	ListMessages(ctx context.Context) ([]proto.Message, error)
	CreateMessage(ctx context.Context, text string) (int64, error)
	UpdateMessage(ctx context.Context, id int64, text string) error
	DeleteMessage(ctx context.Context, id int64) error
}

// Options tune a Board. The zero value is usable.
type Options struct {
	Logger *zerolog.Logger
	// Now supplies the clock for placeholder ids.
	Now func() time.Time
	// ServerIDs adopts the id returned by the service after a create
	// instead of a timestamp placeholder.
	ServerIDs bool
	// SingleFlight rejects a request while one of the same kind is in flight.
	SingleFlight  bool
	ToastDuration time.Duration
	// OnToast receives every toast as it is shown.
	OnToast func(Toast)
}

// Snapshot is a consistent copy of the board state.
type Snapshot struct {
	Messages Collection
	Loading  Loading
	Input    Input
	Confirm  ConfirmModal
	Edit     EditModal
	Toast    Toast
	HasToast bool
	// Loaded is true once a fetch has succeeded.
	Loaded bool
}

// Board is safe for concurrent use. The lock is held only around state
// changes, never across calls to the API.
type Board struct {
	api          API
	log          *zerolog.Logger
	now          func() time.Time
	serverIDs    bool
	singleFlight bool
	notifier     *Notifier

	mu       sync.Mutex
	messages Collection
	loading  Loading
	input    Input
	confirm  ConfirmModal
	edit     EditModal
	loaded   bool
}

// New creates a board over api.
func New(api API, opts Options) *Board {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Board{
		api:          api,
		log:          logger,
		now:          now,
		serverIDs:    opts.ServerIDs,
		singleFlight: opts.SingleFlight,
		notifier:     NewNotifier(opts.ToastDuration, opts.OnToast),
		messages:     Collection{},
	}
}

// Snapshot returns the current state.
func (b *Board) Snapshot() Snapshot {
	toast, ok := b.notifier.Current()

	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Messages: b.messages,
		Loading:  b.loading,
		Input:    b.input,
		Confirm:  b.confirm,
		Edit:     b.edit,
		Toast:    toast,
		HasToast: ok,
		Loaded:   b.loaded,
	}
}

// Notifier exposes the toast slot.
func (b *Board) Notifier() *Notifier {
	return b.notifier
}

// begin sets the flag for op, or reports ErrBusy under single-flight.
func (b *Board) begin(op Op) error {
	if b.singleFlight && b.loading.Get(op) {
		b.log.Debug().Str("op", op.String()).Msg("request already in flight")
		return ErrBusy
	}
	b.loading.set(op, true)
	return nil
}

// finish clears the flag for op. Callers defer it so the flag drops even if
// the API call panics.
func (b *Board) finish(op Op) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading.set(op, false)
}

// Refresh replaces the collection with the service's list. On failure the
// current collection is kept.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	if err := b.begin(OpFetch); err != nil {
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()
	defer b.finish(OpFetch)

	list, err := b.api.ListMessages(ctx)

	b.mu.Lock()
	if err == nil {
		b.messages = append(Collection{}, list...)
		b.loaded = true
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Error().Err(err).Msg("failed to load messages")
		b.notifier.Show(TextLoadFailed, KindError)
		return err
	}
	b.log.Debug().Int("count", len(list)).Msg("messages loaded")
	b.notifier.Show(TextLoaded, KindSuccess)
	return nil
}

// SetInput stores the create-form draft and returns its revision for SettleInput.
func (b *Board) SetInput(text string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input.set(text)
}

// SettleInput runs live validation on the draft if seq is still its latest
// revision. It reports whether validation ran.
func (b *Board) SettleInput(seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input.settle(seq)
}

// CanSubmit reports whether the create action is enabled.
func (b *Board) CanSubmit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(b.input.Text) != "" && b.input.Error == "" && !b.loading.Create
}

// Submit validates the draft and creates it. A failing draft sets the inline
// error and sends nothing.
func (b *Board) Submit(ctx context.Context) error {
	b.mu.Lock()
	if err := Validate(b.input.Text); err != nil {
		b.input.Error = err.Error()
		b.mu.Unlock()
		return err
	}
	if err := b.begin(OpCreate); err != nil {
		b.mu.Unlock()
		return err
	}
	text := strings.TrimSpace(b.input.Text)
	b.mu.Unlock()
	defer b.finish(OpCreate)

	id, err := b.api.CreateMessage(ctx, text)

	b.mu.Lock()
	if err == nil {
		if !b.serverIDs || id == 0 {
			id = b.now().UnixMilli()
		}
		b.messages = b.messages.Append(proto.Message{ID: id, Message: text})
		b.input.reset()
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Error().Err(err).Msg("failed to create message")
		b.notifier.Show(TextCreateFailed, KindError)
		return err
	}
	b.log.Debug().Int64("message_id", id).Msg("message created")
	b.notifier.Show(TextCreated, KindSuccess)
	return nil
}

// OpenEdit opens the edit dialog for msg, replacing any previous target.
func (b *Board) OpenEdit(msg proto.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edit.open(msg)
}

// SetEditDraft updates the edit draft and clears the invalid marker.
func (b *Board) SetEditDraft(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.edit.Open {
		return
	}
	b.edit.Draft = text
	b.edit.Invalid = false
}

// CancelEdit closes the edit dialog.
func (b *Board) CancelEdit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edit.close()
}

// SaveEdit validates the draft and sends the update. The dialog stays open
// on failure.
func (b *Board) SaveEdit(ctx context.Context) error {
	b.mu.Lock()
	if !b.edit.Open {
		b.mu.Unlock()
		return ErrNoDialog
	}
	if Validate(b.edit.Draft) != nil {
		b.edit.Invalid = true
		b.mu.Unlock()
		return ErrEditInvalid
	}
	if err := b.begin(OpUpdate); err != nil {
		b.mu.Unlock()
		return err
	}
	id := b.edit.Target.ID
	text := strings.TrimSpace(b.edit.Draft)
	b.mu.Unlock()
	defer b.finish(OpUpdate)

	err := b.api.UpdateMessage(ctx, id, text)

	b.mu.Lock()
	if err == nil {
		b.messages = b.messages.ReplaceText(id, text)
		b.edit.close()
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Error().Err(err).Int64("message_id", id).Msg("failed to update message")
		b.notifier.Show(TextUpdateFailed, KindError)
		return err
	}
	b.notifier.Show(TextUpdated, KindSuccess)
	return nil
}

// OpenDelete opens the delete confirmation for msg.
func (b *Board) OpenDelete(msg proto.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirm.open(msg)
}

// CancelDelete closes the confirmation dialog.
func (b *Board) CancelDelete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirm.close()
}

// ConfirmDelete deletes the dialog's target. The dialog stays open on failure.
func (b *Board) ConfirmDelete(ctx context.Context) error {
	b.mu.Lock()
	if !b.confirm.Open {
		b.mu.Unlock()
		return ErrNoDialog
	}
	if err := b.begin(OpDelete); err != nil {
		b.mu.Unlock()
		return err
	}
	id := b.confirm.Target.ID
	b.mu.Unlock()
	defer b.finish(OpDelete)

	err := b.api.DeleteMessage(ctx, id)

	b.mu.Lock()
	if err == nil {
		b.messages = b.messages.Remove(id)
		b.confirm.close()
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Error().Err(err).Int64("message_id", id).Msg("failed to delete message")
		b.notifier.Show(TextDeleteFailed, KindError)
		return err
	}
	b.notifier.Show(TextDeleted, KindSuccess)
	return nil
}

// DismissToast clears the toast early.
func (b *Board) DismissToast() {
	b.notifier.Dismiss()
}
