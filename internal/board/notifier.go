package board

import (
	"sync"
	"time"
)

// Kind is the severity of a toast.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a transient notification.
type Toast struct {
	ID   uint64
	Text string
	Kind Kind
}

// DefaultToastDuration is how long a toast stays visible unless replaced or dismissed.
const DefaultToastDuration = 5 * time.Second

// Notifier holds at most one toast. Showing a new toast replaces the current
// one and restarts the expiry timer.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Toast
	timer   *time.Timer
	nextID  uint64
	hook    func(Toast)
}

// NewNotifier creates a notifier whose toasts expire after ttl.
// hook, when non-nil, is called with every shown toast.
func NewNotifier(ttl time.Duration, hook func(Toast)) *Notifier {
	if ttl <= 0 {
		ttl = DefaultToastDuration
	}
	return &Notifier{ttl: ttl, hook: hook}
}

// Show replaces the current toast and returns the new one.
func (n *Notifier) Show(text string, kind Kind) Toast {
	n.mu.Lock()
	n.nextID++
	toast := Toast{ID: n.nextID, Text: text, Kind: kind}
	n.current = &toast
	if n.timer != nil {
		n.timer.Stop()
	}
	id := toast.ID
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(id) })
	hook := n.hook
	n.mu.Unlock()

	if hook != nil {
		hook(toast)
	}
	return toast
}

// expire clears the slot only if toast id is still the one shown.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.timer = nil
	}
}

// Dismiss clears the current toast early.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// Current returns the visible toast, if any.
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Toast{}, false
	}
	return *n.current, true
}

// TTL returns the expiry duration.
func (n *Notifier) TTL() time.Duration {
	return n.ttl
}
