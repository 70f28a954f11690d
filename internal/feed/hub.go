// Package feed fans committed collection changes out to live subscribers.
package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/proto"
)

const (
	subscriberBuffer = 16
	publishBuffer    = 64
)

// Subscriber receives feed events until it is unsubscribed or the hub stops.
type Subscriber struct {
	ID     string
	Events chan proto.FeedEvent
}

// Hub owns the subscriber set. All mutation happens on the Run goroutine.
type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	publish    chan proto.FeedEvent
	done       chan struct{}

	subscribers map[*Subscriber]struct{}
	log         *zerolog.Logger
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		publish:     make(chan proto.FeedEvent, publishBuffer),
		done:        make(chan struct{}),
		subscribers: make(map[*Subscriber]struct{}),
		log:         logger,
	}
}

// Run processes subscriptions and events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for sub := range h.subscribers {
			close(sub.Events)
			delete(h.subscribers, sub)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-h.register:
			h.subscribers[sub] = struct{}{}
			h.log.Debug().Str("subscriber", sub.ID).Int("subscribers", len(h.subscribers)).Msg("feed subscriber added")
		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.Events)
				h.log.Debug().Str("subscriber", sub.ID).Int("subscribers", len(h.subscribers)).Msg("feed subscriber removed")
			}
		case ev := <-h.publish:
			h.broadcast(ev)
		}
	}
}

// Subscribe registers a new subscriber. It returns nil once the hub has stopped.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID:     uuid.NewString(),
		Events: make(chan proto.FeedEvent, subscriberBuffer),
	}
	select {
	case h.register <- sub:
		return sub
	case <-h.done:
		return nil
	}
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish queues an event for every current subscriber.
func (h *Hub) Publish(ev proto.FeedEvent) {
	select {
	case h.publish <- ev:
	case <-h.done:
	default:
		h.log.Warn().Str("type", ev.Type).Int64("message_id", ev.Message.ID).Msg("feed publish queue full, dropping event")
	}
}

func (h *Hub) broadcast(ev proto.FeedEvent) {
	for sub := range h.subscribers {
		select {
		case sub.Events <- ev:
		default:
			// Drop if slow consumer.
			h.log.Debug().Str("subscriber", sub.ID).Msg("feed subscriber lagging, event dropped")
		}
	}
}
