package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/steamchat/steamchat-server/internal/core"
	"github.com/steamchat/steamchat-server/internal/proto"
	"github.com/steamchat/steamchat-server/internal/store"
)

// MessageHandlers provides HTTP handlers for the message endpoints.
// The POST path funnels into the same pipeline contract as the
// WebSocket path.
type MessageHandlers struct {
	pipeline *core.Pipeline
	store    store.MessageStore
	limiter  *rateLimiter
	log      *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(pipeline *core.Pipeline, st store.MessageStore, limiter *rateLimiter, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		pipeline: pipeline,
		store:    st,
		limiter:  limiter,
		log:      logger,
	}
}

// MessageRequest represents the post message request body. Field
// requirements depend on messageType and are enforced by the pipeline.
type MessageRequest struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Avatar      string `json:"avatar"`
	MessageType string `json:"messageType"`
	Text        string `json:"text"`
	TeamID      string `json:"teamId"`
	TeamName    string `json:"teamName"`
	TeamAvatar  string `json:"teamAvatar"`
	// TS is an optional client timestamp in unix milliseconds, honored
	// under the broadcast-first durability mode.
	TS int64 `json:"ts"`
}

// PostMessage handles message submission.
// POST /api/rooms/:roomId/messages
func (h *MessageHandlers) PostMessage(c *gin.Context) {
	if !h.limiter.allow() {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid post message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg := requestToMessage(c.Param("roomId"), &req)
	out, err := h.pipeline.Submit(c.Request.Context(), msg)
	if err != nil {
		var ce *core.CoreError
		if errors.As(err, &ce) {
			switch ce.Code {
			case core.ErrCodeBadRequest:
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: ce.Message})
				return
			case core.ErrCodeStorageUnavailable:
				h.log.Error().Err(err).Str("room_id", msg.RoomID).Msg("message submit failed")
				c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: ce.Message})
				return
			}
		}
		h.log.Error().Err(err).Str("room_id", msg.RoomID).Msg("message submit failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, messagePayload(out))
}

// ListMessages handles the room history query.
// GET /api/rooms/:roomId/messages
//
// An unknown room yields an empty list, not an error.
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	roomID := c.Param("roomId")

	messages, err := h.store.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to list messages")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable"})
		return
	}

	response := make([]proto.MessagePayload, 0, len(messages))
	for _, msg := range messages {
		response = append(response, storeMessagePayload(msg))
	}

	c.JSON(http.StatusOK, response)
}
