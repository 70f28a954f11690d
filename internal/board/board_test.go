package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/msgboard/internal/proto"
)

var errRemote = errors.New("remote failure")

type call struct {
	op   Op
	id   int64
	text string
}

// fakeAPI records calls and lets tests observe the board from inside a request.
type fakeAPI struct {
	mu       sync.Mutex
	list     []proto.Message
	createID int64
	fail     map[Op]bool
	calls    []call
	during   func(op Op)
	gate     chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{fail: make(map[Op]bool)}
}

func (f *fakeAPI) enter(c call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	during := f.during
	gate := f.gate
	failed := f.fail[c.op]
	f.mu.Unlock()

	if during != nil {
		during(c.op)
	}
	if gate != nil {
		<-gate
	}
	if failed {
		return errRemote
	}
	return nil
}

func (f *fakeAPI) ListMessages(ctx context.Context) ([]proto.Message, error) {
	if err := f.enter(call{op: OpFetch}); err != nil {
		return nil, err
	}
	return f.list, nil
}

func (f *fakeAPI) CreateMessage(ctx context.Context, text string) (int64, error) {
	if err := f.enter(call{op: OpCreate, text: text}); err != nil {
		return 0, err
	}
	return f.createID, nil
}

func (f *fakeAPI) UpdateMessage(ctx context.Context, id int64, text string) error {
	return f.enter(call{op: OpUpdate, id: id, text: text})
}

func (f *fakeAPI) DeleteMessage(ctx context.Context, id int64) error {
	return f.enter(call{op: OpDelete, id: id})
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fixedNow() time.Time {
	return time.UnixMilli(1700000000000)
}

func newTestBoard(api API) *Board {
	return New(api, Options{Now: fixedNow, ToastDuration: time.Minute})
}

func loadedBoard(t *testing.T, msgs ...proto.Message) (*Board, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	api.list = msgs
	b := newTestBoard(api)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return b, api
}

func TestRefreshLoadsCollection(t *testing.T) {
	b, _ := loadedBoard(t, proto.Message{ID: 1, Message: "hola"})

	snap := b.Snapshot()
	if len(snap.Messages) != 1 || snap.Messages[0].Message != "hola" {
		t.Fatalf("unexpected messages %+v", snap.Messages)
	}
	if !snap.Loaded {
		t.Fatal("expected Loaded after successful refresh")
	}
	if !snap.HasToast || snap.Toast.Text != TextLoaded || snap.Toast.Kind != KindSuccess {
		t.Fatalf("unexpected toast %+v", snap.Toast)
	}
}

func TestRefreshFailureKeepsCollection(t *testing.T) {
	b, api := loadedBoard(t, proto.Message{ID: 1, Message: "hola"})
	api.fail[OpFetch] = true

	if err := b.Refresh(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}

	snap := b.Snapshot()
	if len(snap.Messages) != 1 {
		t.Fatalf("collection should be kept, got %+v", snap.Messages)
	}
	if snap.Toast.Text != TextLoadFailed || snap.Toast.Kind != KindError {
		t.Fatalf("unexpected toast %+v", snap.Toast)
	}
	if snap.Loading.Fetch {
		t.Fatal("fetch flag left set")
	}
}

func TestSubmitInvalidSendsNothing(t *testing.T) {
	api := newFakeAPI()
	b := newTestBoard(api)

	b.SetInput("ab")
	err := b.Submit(context.Background())
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no request, got %d", api.callCount())
	}
	snap := b.Snapshot()
	if snap.Input.Error != "El mensaje debe tener al menos 3 caracteres" {
		t.Fatalf("unexpected inline error %q", snap.Input.Error)
	}
	if snap.Loading.Create {
		t.Fatal("create flag must not be set for a rejected draft")
	}
}

func TestSubmitAppendsTrimmedWithPlaceholderID(t *testing.T) {
	b, api := loadedBoard(t, proto.Message{ID: 1, Message: "hola"})
	api.createID = 2

	b.SetInput("  nuevo mensaje  ")
	if err := b.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := api.calls[len(api.calls)-1]; got.op != OpCreate || got.text != "nuevo mensaje" {
		t.Fatalf("unexpected request %+v", got)
	}

	snap := b.Snapshot()
	if len(snap.Messages) != 2 {
		t.Fatalf("expected exactly one appended record, got %+v", snap.Messages)
	}
	last := snap.Messages[1]
	if last.ID != fixedNow().UnixMilli() || last.Message != "nuevo mensaje" {
		t.Fatalf("unexpected appended record %+v", last)
	}
	if snap.Input.Text != "" || snap.Input.Error != "" {
		t.Fatalf("input not cleared: %+v", snap.Input)
	}
	if snap.Toast.Text != TextCreated {
		t.Fatalf("unexpected toast %q", snap.Toast.Text)
	}
}

func TestSubmitUsesServerIDWhenEnabled(t *testing.T) {
	api := newFakeAPI()
	api.createID = 42
	b := New(api, Options{Now: fixedNow, ServerIDs: true, ToastDuration: time.Minute})

	b.SetInput("con id")
	if err := b.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := b.Snapshot().Messages[0].ID; got != 42 {
		t.Fatalf("id = %d, want 42", got)
	}
}

func TestSubmitFailureKeepsInput(t *testing.T) {
	api := newFakeAPI()
	api.fail[OpCreate] = true
	b := newTestBoard(api)

	b.SetInput("no llega")
	if err := b.Submit(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}

	snap := b.Snapshot()
	if snap.Input.Text != "no llega" {
		t.Fatalf("input changed to %q", snap.Input.Text)
	}
	if len(snap.Messages) != 0 {
		t.Fatalf("collection changed: %+v", snap.Messages)
	}
	if snap.Toast.Text != TextCreateFailed || snap.Toast.Kind != KindError {
		t.Fatalf("unexpected toast %+v", snap.Toast)
	}
}

func TestSaveEditReplacesOnlyTarget(t *testing.T) {
	b, api := loadedBoard(t,
		proto.Message{ID: 1, Message: "uno"},
		proto.Message{ID: 2, Message: "dos"},
		proto.Message{ID: 3, Message: "tres"},
	)

	b.OpenEdit(proto.Message{ID: 2, Message: "dos"})
	if d := b.Snapshot().Edit.Draft; d != "dos" {
		t.Fatalf("draft should start as target text, got %q", d)
	}
	b.SetEditDraft(" DOS editado ")
	if err := b.SaveEdit(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := api.calls[len(api.calls)-1]; got.op != OpUpdate || got.id != 2 || got.text != "DOS editado" {
		t.Fatalf("unexpected request %+v", got)
	}

	snap := b.Snapshot()
	want := []string{"uno", "DOS editado", "tres"}
	for i, msg := range snap.Messages {
		if msg.Message != want[i] {
			t.Fatalf("position %d = %q, want %q", i, msg.Message, want[i])
		}
	}
	if snap.Edit.Open {
		t.Fatal("edit dialog should close on success")
	}
	if snap.Toast.Text != TextUpdated {
		t.Fatalf("unexpected toast %q", snap.Toast.Text)
	}
}

func TestSaveEditInvalidDraft(t *testing.T) {
	b, api := loadedBoard(t, proto.Message{ID: 1, Message: "uno"})
	calls := api.callCount()

	b.OpenEdit(proto.Message{ID: 1, Message: "uno"})
	b.SetEditDraft("x")
	if err := b.SaveEdit(context.Background()); !errors.Is(err, ErrEditInvalid) {
		t.Fatalf("expected ErrEditInvalid, got %v", err)
	}
	if api.callCount() != calls {
		t.Fatal("invalid draft must not send a request")
	}
	snap := b.Snapshot()
	if !snap.Edit.Open || !snap.Edit.Invalid {
		t.Fatalf("dialog should stay open and invalid: %+v", snap.Edit)
	}
	if ErrEditInvalid.Error() != "El mensaje debe tener entre 3 y 500 caracteres" {
		t.Fatalf("unexpected edit error text %q", ErrEditInvalid.Error())
	}

	b.SetEditDraft("xyz")
	if b.Snapshot().Edit.Invalid {
		t.Fatal("editing the draft should clear the invalid marker")
	}
}

func TestOpenEditResetsDraftOnNewTarget(t *testing.T) {
	b := newTestBoard(newFakeAPI())

	b.OpenEdit(proto.Message{ID: 1, Message: "uno"})
	b.SetEditDraft("cambiado")
	b.OpenEdit(proto.Message{ID: 2, Message: "dos"})

	edit := b.Snapshot().Edit
	if edit.Target.ID != 2 || edit.Draft != "dos" {
		t.Fatalf("unexpected edit state %+v", edit)
	}
}

func TestSaveEditFailureKeepsDialogOpen(t *testing.T) {
	b, api := loadedBoard(t, proto.Message{ID: 1, Message: "uno"})
	api.fail[OpUpdate] = true

	b.OpenEdit(proto.Message{ID: 1, Message: "uno"})
	b.SetEditDraft("otro texto")
	if err := b.SaveEdit(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}

	snap := b.Snapshot()
	if !snap.Edit.Open || snap.Messages[0].Message != "uno" {
		t.Fatalf("state changed on failure: %+v", snap)
	}
	if snap.Toast.Text != TextUpdateFailed {
		t.Fatalf("unexpected toast %q", snap.Toast.Text)
	}
}

func TestConfirmDeleteRemovesTarget(t *testing.T) {
	b, _ := loadedBoard(t,
		proto.Message{ID: 1, Message: "uno"},
		proto.Message{ID: 2, Message: "dos"},
		proto.Message{ID: 3, Message: "tres"},
	)

	b.OpenDelete(proto.Message{ID: 2, Message: "dos"})
	if err := b.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := b.Snapshot()
	if len(snap.Messages) != 2 || snap.Messages[0].ID != 1 || snap.Messages[1].ID != 3 {
		t.Fatalf("unexpected collection %+v", snap.Messages)
	}
	if snap.Confirm.Open {
		t.Fatal("confirm dialog should close")
	}
	if snap.Toast.Text != TextDeleted {
		t.Fatalf("unexpected toast %q", snap.Toast.Text)
	}
}

func TestConfirmDeleteFailure(t *testing.T) {
	b, api := loadedBoard(t, proto.Message{ID: 1, Message: "hola"})
	api.fail[OpDelete] = true

	b.OpenDelete(proto.Message{ID: 1, Message: "hola"})
	if err := b.ConfirmDelete(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}

	snap := b.Snapshot()
	if len(snap.Messages) != 1 {
		t.Fatal("record should stay")
	}
	if !snap.Confirm.Open {
		t.Fatal("dialog should stay open")
	}
	if snap.Toast.Kind != KindError || snap.Toast.Text != TextDeleteFailed {
		t.Fatalf("unexpected toast %+v", snap.Toast)
	}
}

func TestDialogActionsRequireOpenDialog(t *testing.T) {
	b := newTestBoard(newFakeAPI())
	if err := b.SaveEdit(context.Background()); !errors.Is(err, ErrNoDialog) {
		t.Fatalf("SaveEdit: %v", err)
	}
	if err := b.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoDialog) {
		t.Fatalf("ConfirmDelete: %v", err)
	}
}

func TestLoadingFlagSpansRequest(t *testing.T) {
	tests := []struct {
		op   Op
		fail bool
	}{
		{OpFetch, false}, {OpFetch, true},
		{OpCreate, false}, {OpCreate, true},
		{OpUpdate, false}, {OpUpdate, true},
		{OpDelete, false}, {OpDelete, true},
	}

	for _, tt := range tests {
		name := tt.op.String()
		if tt.fail {
			name += "/failure"
		}
		t.Run(name, func(t *testing.T) {
			api := newFakeAPI()
			api.fail[tt.op] = tt.fail
			b := newTestBoard(api)
			target := proto.Message{ID: 1, Message: "hola"}

			var inside Loading
			api.during = func(op Op) {
				if op == tt.op {
					inside = b.Snapshot().Loading
				}
			}

			if b.Snapshot().Loading.Get(tt.op) {
				t.Fatal("flag set before request")
			}

			ctx := context.Background()
			switch tt.op {
			case OpFetch:
				_ = b.Refresh(ctx)
			case OpCreate:
				b.SetInput("hola mundo")
				_ = b.Submit(ctx)
			case OpUpdate:
				b.OpenEdit(target)
				b.SetEditDraft("adios")
				_ = b.SaveEdit(ctx)
			case OpDelete:
				b.OpenDelete(target)
				_ = b.ConfirmDelete(ctx)
			}

			if !inside.Get(tt.op) {
				t.Fatal("flag not set during request")
			}
			if after := b.Snapshot().Loading; after.Any() {
				t.Fatalf("flags left set after request: %+v", after)
			}
		})
	}
}

func TestOperationsOverlap(t *testing.T) {
	api := newFakeAPI()
	api.gate = make(chan struct{})
	b := newTestBoard(api)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = b.Refresh(context.Background())
	}()
	b.SetInput("en paralelo")
	go func() {
		defer wg.Done()
		_ = b.Submit(context.Background())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		l := b.Snapshot().Loading
		if l.Fetch && l.Create {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("operations did not overlap: %+v", l)
		}
		time.Sleep(time.Millisecond)
	}

	close(api.gate)
	wg.Wait()

	if b.Snapshot().Loading.Any() {
		t.Fatal("flags left set")
	}
}

func TestSingleFlightRejectsSameKind(t *testing.T) {
	api := newFakeAPI()
	api.gate = make(chan struct{})
	b := New(api, Options{SingleFlight: true, ToastDuration: time.Minute})

	done := make(chan error, 1)
	go func() { done <- b.Refresh(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !b.Snapshot().Loading.Fetch {
		if time.Now().After(deadline) {
			t.Fatal("first refresh never started")
		}
		time.Sleep(time.Millisecond)
	}

	if err := b.Refresh(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(api.gate)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if api.callCount() != 1 {
		t.Fatalf("expected one request, got %d", api.callCount())
	}
}

func TestSettleInputAppliesLatestOnly(t *testing.T) {
	b := newTestBoard(newFakeAPI())

	stale := b.SetInput("a")
	latest := b.SetInput("ab")

	if b.SettleInput(stale) {
		t.Fatal("stale revision should not validate")
	}
	if b.Snapshot().Input.Error != "" {
		t.Fatal("stale settle set an error")
	}
	if !b.SettleInput(latest) {
		t.Fatal("latest revision should validate")
	}
	if got := b.Snapshot().Input.Error; got != ErrTooShort.Error() {
		t.Fatalf("inline error = %q", got)
	}
	if b.CanSubmit() {
		t.Fatal("submit should be disabled while the draft is invalid")
	}

	seq := b.SetInput("abc")
	b.SettleInput(seq)
	if !b.CanSubmit() {
		t.Fatal("submit should be enabled for a valid draft")
	}
}

func TestLoadingFlagClearedWhenRequestPanics(t *testing.T) {
	msg := proto.Message{ID: 1, Message: "hola"}

	tests := []struct {
		op  Op
		run func(b *Board) error
	}{
		{OpFetch, func(b *Board) error { return b.Refresh(context.Background()) }},
		{OpCreate, func(b *Board) error {
			b.SetInput("nuevo mensaje")
			return b.Submit(context.Background())
		}},
		{OpUpdate, func(b *Board) error {
			b.OpenEdit(msg)
			b.SetEditDraft("editado")
			return b.SaveEdit(context.Background())
		}},
		{OpDelete, func(b *Board) error {
			b.OpenDelete(msg)
			return b.ConfirmDelete(context.Background())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			b, api := loadedBoard(t, msg)
			api.during = func(Op) { panic("api exploded") }

			func() {
				defer func() {
					if recover() == nil {
						t.Fatal("expected the panic to propagate")
					}
				}()
				_ = tt.run(b)
			}()

			if b.Snapshot().Loading.Get(tt.op) {
				t.Fatalf("%s flag still set after panic", tt.op)
			}
		})
	}
}
