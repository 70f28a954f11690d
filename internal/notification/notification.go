// Package notification mirrors error toasts as desktop notifications.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/board"
)

// Title is the application name shown on notifications.
const Title = "Sistema de Gestión de Mensajes"

type notifyFunc func(title, message string, icon any) error

var (
	mu       sync.RWMutex
	notifier notifyFunc = beeep.Notify
)

// SetNotifier replaces the delivery function. Tests use it to avoid real notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores beeep delivery.
func ResetNotifier() {
	mu.Lock()
	defer mu.Unlock()
	notifier = beeep.Notify
}

// Send delivers one desktop notification.
func Send(title, message string) error {
	mu.RLock()
	fn := notifier
	mu.RUnlock()
	// Empty icon: beeep picks the platform default.
	return fn(title, message, "")
}

// ErrorHook returns a toast hook that forwards error toasts to the desktop.
// Delivery happens off the caller's goroutine.
func ErrorHook(logger *zerolog.Logger) func(board.Toast) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return func(t board.Toast) {
		if t.Kind != board.KindError {
			return
		}
		go func() {
			if err := Send(Title, t.Text); err != nil {
				logger.Warn().Err(err).Msg("desktop notification failed")
			}
		}()
	}
}
