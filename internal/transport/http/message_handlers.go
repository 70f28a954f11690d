package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/proto"
	"github.com/vovakirdan/msgboard/internal/store"
)

// Response status texts kept from the legacy service so existing clients keep working.
const (
	statusCreated = "Mensaje creado"
	statusUpdated = "Mensaje actualizado"
	statusDeleted = "Mensaje eliminado"

	errInvalidJSON = "JSON inválido"
	errInvalidID   = "ID de mensaje inválido"
	errNotFound    = "Mensaje no encontrado"
	errInternal    = "Error interno del servidor"
)

// MessageHandlers provides HTTP handlers for the message collection.
type MessageHandlers struct {
	store store.MessageStore
	feed  FeedHub
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(st store.MessageStore, hub FeedHub, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		store: st,
		feed:  hub,
		log:   logger,
	}
}

// ListMessages returns the whole collection.
// GET /api/messages
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	messages, err := h.store.ListMessages(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, proto.ErrorResponse{Error: errInternal})
		return
	}

	response := make([]proto.Message, 0, len(messages))
	for _, msg := range messages {
		response = append(response, toProto(msg))
	}
	c.JSON(http.StatusOK, response)
}

// GetMessage returns a single message.
// GET /api/messages/:id
func (h *MessageHandlers) GetMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	msg, err := h.store.GetMessage(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, id, "failed to get message")
		return
	}
	c.JSON(http.StatusOK, toProto(msg))
}

// CreateMessage stores a new message.
// POST /api/messages
func (h *MessageHandlers) CreateMessage(c *gin.Context) {
	var req proto.MessageBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create message request")
		c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: errInvalidJSON})
		return
	}

	msg, err := h.store.CreateMessage(c.Request.Context(), req.Message)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create message")
		c.JSON(http.StatusInternalServerError, proto.ErrorResponse{Error: errInternal})
		return
	}

	h.log.Info().Int64("message_id", msg.ID).Msg("message created")
	h.feed.Publish(proto.FeedEvent{Type: proto.FeedCreated, Message: toProto(msg)})
	c.JSON(http.StatusCreated, proto.StatusResponse{Status: statusCreated, ID: msg.ID})
}

// UpdateMessage replaces the text of a message.
// PUT /api/messages/:id
func (h *MessageHandlers) UpdateMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req proto.MessageBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Int64("message_id", id).Msg("invalid update message request")
		c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: errInvalidJSON})
		return
	}

	if err := h.store.UpdateMessage(c.Request.Context(), id, req.Message); err != nil {
		h.storeError(c, err, id, "failed to update message")
		return
	}

	h.log.Info().Int64("message_id", id).Msg("message updated")
	h.feed.Publish(proto.FeedEvent{Type: proto.FeedUpdated, Message: proto.Message{ID: id, Message: req.Message}})
	c.JSON(http.StatusOK, proto.StatusResponse{Status: statusUpdated})
}

// DeleteMessage removes a message.
// DELETE /api/messages/:id
func (h *MessageHandlers) DeleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteMessage(c.Request.Context(), id); err != nil {
		h.storeError(c, err, id, "failed to delete message")
		return
	}

	h.log.Info().Int64("message_id", id).Msg("message deleted")
	h.feed.Publish(proto.FeedEvent{Type: proto.FeedDeleted, Message: proto.Message{ID: id}})
	c.JSON(http.StatusOK, proto.StatusResponse{Status: statusDeleted})
}

func (h *MessageHandlers) storeError(c *gin.Context, err error, id int64, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, proto.ErrorResponse{Error: errNotFound})
		return
	}
	h.log.Error().Err(err).Int64("message_id", id).Msg(msg)
	c.JSON(http.StatusInternalServerError, proto.ErrorResponse{Error: errInternal})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: errInvalidID})
		return 0, false
	}
	return id, true
}

func toProto(msg *store.Message) proto.Message {
	return proto.Message{ID: msg.ID, Message: msg.Content}
}
