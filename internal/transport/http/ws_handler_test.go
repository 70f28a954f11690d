package http

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/msgboard/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	env := startTestServer(t, nil)

	resp, err := env.server.Client().Get(env.server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestFeedStreamsMutations(t *testing.T) {
	env := startTestServer(t, nil)

	wsURL := strings.Replace(env.server.URL, "http", "ws", 1) + "/api/feed"

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	connA, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial A: %v", err)
	}
	defer connA.Close(websocket.StatusNormalClosure, "done")

	connB, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial B: %v", err)
	}
	defer connB.Close(websocket.StatusNormalClosure, "done")

	resp, _ := doRequest(t, env, http.MethodPost, "/api/messages", `{"message":"en vivo"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, env, http.MethodPut, "/api/messages/1", `{"message":"editado"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, env, http.MethodDelete, "/api/messages/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}

	want := []proto.FeedEvent{
		{Type: proto.FeedCreated, Message: proto.Message{ID: 1, Message: "en vivo"}},
		{Type: proto.FeedUpdated, Message: proto.Message{ID: 1, Message: "editado"}},
		{Type: proto.FeedDeleted, Message: proto.Message{ID: 1}},
	}

	for name, conn := range map[string]*websocket.Conn{"A": connA, "B": connB} {
		for i, expected := range want {
			var got proto.FeedEvent
			if err := wsjson.Read(ctx, conn, &got); err != nil {
				t.Fatalf("%s: read event %d: %v", name, i, err)
			}
			if got != expected {
				t.Fatalf("%s: event %d = %+v, want %+v", name, i, got, expected)
			}
		}
	}
}

func TestFeedIgnoresFailedMutations(t *testing.T) {
	env := startTestServer(t, nil)

	wsURL := strings.Replace(env.server.URL, "http", "ws", 1) + "/api/feed"

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// Neither request changes the collection.
	doRequest(t, env, http.MethodDelete, "/api/messages/42", "")
	doRequest(t, env, http.MethodPost, "/api/messages", `{bad`)
	doRequest(t, env, http.MethodPost, "/api/messages", `{"message":"primero"}`)

	var got proto.FeedEvent
	if err := wsjson.Read(ctx, conn, &got); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if got.Type != proto.FeedCreated || got.Message.Message != "primero" {
		t.Fatalf("expected first event to be the successful create, got %+v", got)
	}
}

func TestFeedHandshakeCarriesRequestID(t *testing.T) {
	env := startTestServer(t, nil)

	wsURL := strings.Replace(env.server.URL, "http", "ws", 1) + "/api/feed"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set(HeaderRequestID, "feed-req-1")
	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "feed-req-1" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}

	resp2, _ := doRequest(t, env, http.MethodPost, "/api/messages", `{"message":"hola feed"}`)
	if resp2.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp2.StatusCode)
	}

	var got proto.FeedEvent
	if err := wsjson.Read(ctx, conn, &got); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if got.Type != proto.FeedCreated || got.Message.Message != "hola feed" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestFeedRejectsPlainHTTP(t *testing.T) {
	env := startTestServer(t, nil)

	resp, err := env.server.Client().Get(env.server.URL + "/api/feed")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusSwitchingProtocols || resp.StatusCode < 400 {
		t.Fatalf("expected an error status without upgrade headers, got %d", resp.StatusCode)
	}
}
