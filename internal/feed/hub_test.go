package feed

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/msgboard/internal/proto"
)

func mustEvent(t *testing.T, ch <-chan proto.FeedEvent, kind string) proto.FeedEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed while waiting for %q", kind)
			}
			if ev.Type == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event %q not received", kind)
			return proto.FeedEvent{}
		}
	}
}

func TestHubBroadcastsToAllSubscribers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	alice := hub.Subscribe()
	bob := hub.Subscribe()
	if alice == nil || bob == nil {
		t.Fatal("subscribe returned nil on a running hub")
	}

	hub.Publish(proto.FeedEvent{Type: proto.FeedCreated, Message: proto.Message{ID: 1, Message: "hola"}})

	for _, sub := range []*Subscriber{alice, bob} {
		ev := mustEvent(t, sub.Events, proto.FeedCreated)
		if ev.Message.ID != 1 || ev.Message.Message != "hola" {
			t.Fatalf("unexpected payload: %+v", ev)
		}
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	select {
	case _, ok := <-sub.Events:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// Double unsubscribe is a no-op.
	hub.Unsubscribe(sub)
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	slow := hub.Subscribe()
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(proto.FeedEvent{Type: proto.FeedUpdated, Message: proto.Message{ID: int64(i)}})
	}

	// A fresh subscriber still gets new events even though slow is full.
	fresh := hub.Subscribe()
	hub.Publish(proto.FeedEvent{Type: proto.FeedDeleted, Message: proto.Message{ID: 99}})
	ev := mustEvent(t, fresh.Events, proto.FeedDeleted)
	if ev.Message.ID != 99 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if got := len(slow.Events); got != subscriberBuffer {
		t.Fatalf("slow subscriber buffered %d events, want %d", got, subscriberBuffer)
	}
}

func TestHubStopClosesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	sub := hub.Subscribe()
	cancel()
	<-stopped

	if _, ok := <-sub.Events; ok {
		t.Fatal("expected subscriber channel closed after hub stop")
	}
	if hub.Subscribe() != nil {
		t.Fatal("subscribe after stop should return nil")
	}
	// Must not block once stopped.
	hub.Publish(proto.FeedEvent{Type: proto.FeedCreated})
	hub.Unsubscribe(sub)
}
