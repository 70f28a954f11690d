package http

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/feed"
)

// FeedHandler upgrades HTTP connections and streams collection changes.
type FeedHandler struct {
	hub FeedHub
	log *zerolog.Logger
}

// NewFeedHandler builds a new change feed handler.
func NewFeedHandler(hub FeedHub, logger *zerolog.Logger) stdhttp.Handler {
	return &FeedHandler{hub: hub, log: logger}
}

func (h *FeedHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	// Subscribe before the upgrade so no event committed after the handshake is missed.
	sub := h.hub.Subscribe()
	if sub == nil {
		stdhttp.Error(w, "server shutting down", stdhttp.StatusServiceUnavailable)
		return
	}
	defer h.hub.Unsubscribe(sub)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// The feed is one-way; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	err = h.writeLoop(ctx, conn, sub)
	if err == nil {
		conn.Close(websocket.StatusGoingAway, "feed closed")
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return
	}
	h.log.Warn().Err(err).Str("subscriber", sub.ID).Msg("feed connection closed with error")
}

func (h *FeedHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *feed.Subscriber) error {
	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
