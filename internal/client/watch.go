package client

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/msgboard/internal/proto"
)

// Watch streams collection changes to fn until ctx is done or the service
// closes the feed. A normal close returns nil.
func (c *Client) Watch(ctx context.Context, fn func(proto.FeedEvent)) error {
	const op = "watch feed"

	feedURL, err := c.FeedURL()
	if err != nil {
		return &Error{Op: op, Err: err}
	}

	conn, resp, err := websocket.Dial(ctx, feedURL, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return &Error{Op: op, StatusCode: status, Err: err}
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	c.log.Debug().Str("url", feedURL).Msg("feed connected")
	for {
		var ev proto.FeedEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			return &Error{Op: op, Err: err}
		}
		fn(ev)
	}
}
