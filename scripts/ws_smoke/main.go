package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/msgboard/internal/client"
	"github.com/vovakirdan/msgboard/internal/proto"
)

// ws_smoke checks a running service end to end: it subscribes to the change
// feed, creates and deletes one message over REST and waits for both events.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	apiURL := flag.String("api-url", client.DefaultBaseURL, "collection URL")
	text := flag.String("text", "mensaje de prueba", "message text to create")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*apiURL, *timeout, nil)
	feedURL, err := c.FeedURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, feedURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", feedURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	id, err := c.CreateMessage(ctx, *text)
	if err != nil {
		return err
	}
	fmt.Printf("Created message id=%d\n", id)

	if err := await(ctx, conn, proto.FeedCreated, id); err != nil {
		return err
	}

	if err := c.DeleteMessage(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted message id=%d\n", id)

	return await(ctx, conn, proto.FeedDeleted, id)
}

// await reads feed events until one of kind for id arrives.
func await(ctx context.Context, conn *websocket.Conn, kind string, id int64) error {
	for {
		var ev proto.FeedEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return fmt.Errorf("read %s event: %w", kind, err)
		}
		fmt.Printf("Received event: type=%s id=%d text=%q\n", ev.Type, ev.Message.ID, ev.Message.Message)
		if ev.Type == kind && ev.Message.ID == id {
			return nil
		}
	}
}
