// Package client talks to the message collection service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/proto"
)

// ErrRequestFailed is wrapped by every error the client returns.
var ErrRequestFailed = errors.New("request failed")

// Error describes a failed call. StatusCode is zero for transport errors.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": " + ErrRequestFailed.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// DefaultBaseURL is the collection URL of a locally running service.
const DefaultBaseURL = "http://localhost:8080/api/messages"

// Client is an API gateway for one message collection.
type Client struct {
	base string
	http *http.Client
	log  *zerolog.Logger
}

// New creates a client for the collection at baseURL. A zero timeout means no timeout.
func New(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  logger,
	}
}

// BaseURL returns the collection URL.
func (c *Client) BaseURL() string {
	return c.base
}

// ListMessages fetches the collection. A JSON body that is not an array
// yields an empty list.
func (c *Client) ListMessages(ctx context.Context) ([]proto.Message, error) {
	const op = "list messages"

	body, status, err := c.do(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return nil, &Error{Op: op, StatusCode: status, Err: err}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		c.log.Warn().Str("body", string(raw)).Msg("list response is not an array")
		return []proto.Message{}, nil
	}

	messages := []proto.Message{}
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Err: fmt.Errorf("decode messages: %w", err)}
	}
	return messages, nil
}

// CreateMessage posts text and returns the id the service reported, or 0
// when the response carries none.
func (c *Client) CreateMessage(ctx context.Context, text string) (int64, error) {
	const op = "create message"

	body, status, err := c.do(ctx, http.MethodPost, c.base, proto.MessageBody{Message: text})
	if err != nil {
		return 0, &Error{Op: op, StatusCode: status, Err: err}
	}

	var resp proto.StatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Debug().Err(err).Msg("create response without status body")
		return 0, nil
	}
	return resp.ID, nil
}

// UpdateMessage replaces the text of message id.
func (c *Client) UpdateMessage(ctx context.Context, id int64, text string) error {
	_, status, err := c.do(ctx, http.MethodPut, c.itemURL(id), proto.MessageBody{Message: text})
	if err != nil {
		return &Error{Op: "update message", StatusCode: status, Err: err}
	}
	return nil
}

// DeleteMessage removes message id.
func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	_, status, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
	if err != nil {
		return &Error{Op: "delete message", StatusCode: status, Err: err}
	}
	return nil
}

func (c *Client) itemURL(id int64) string {
	return c.base + "/" + strconv.FormatInt(id, 10)
}

// do sends one request. Any non-2xx status is an error; the status is
// returned alongside for diagnostics.
func (c *Client) do(ctx context.Context, method, target string, payload any) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("url", target).Msg("request error")
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, resp.StatusCode, errors.New(http.StatusText(resp.StatusCode))
	}
	return body, resp.StatusCode, nil
}

// FeedURL derives the websocket change feed URL from the collection URL:
// a sibling "feed" path with a ws or wss scheme.
func (c *Client) FeedURL() (string, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = path.Join(path.Dir(u.Path), "feed")
	u.RawQuery = ""
	return u.String(), nil
}
