package proto

// Message is the single domain record exchanged with the collection endpoint.
type Message struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// MessageBody is the request body for create and update calls.
type MessageBody struct {
	Message string `json:"message"`
}

// StatusResponse acknowledges a mutation. ID is only set on create.
type StatusResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id,omitempty"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Feed event types pushed over the change feed.
const (
	FeedCreated = "created"
	FeedUpdated = "updated"
	FeedDeleted = "deleted"
)

// FeedEvent describes a committed change to the collection.
type FeedEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}
