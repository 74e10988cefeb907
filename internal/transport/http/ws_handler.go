package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/steamchat/steamchat-server/internal/core"
	"github.com/steamchat/steamchat-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core.Session.
type WSHandler struct {
	hub       *core.Hub
	pipeline  *core.Pipeline
	limiter   *rateLimiter
	heartbeat time.Duration
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, pipeline *core.Pipeline, limiter *rateLimiter, heartbeat time.Duration, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:       hub,
		pipeline:  pipeline,
		limiter:   limiter,
		heartbeat: heartbeat,
		log:       logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	session := core.NewSession(uuid.NewString())
	h.hub.RegisterSession(session)
	// Unregister is idempotent; running it both on transport error and
	// on handler exit removes the session exactly once.
	defer h.hub.UnregisterSession(session)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go session.RunHeartbeat(ctx, h.heartbeat)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, session)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	h.hub.UnregisterSession(session)
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		protoErr, err := h.handleInbound(ctx, session, inbound)
		if err != nil {
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
		}
	}
}

// handleInbound dispatches one client frame. A returned proto.Error is
// reported to the client without dropping the connection; a returned
// error tears the connection down.
func (h *WSHandler) handleInbound(ctx context.Context, session *core.Session, inbound proto.Inbound) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, err
		}
		if join.Room == "" {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		h.hub.JoinRoom(session, join.Room)
		return nil, nil

	case proto.InboundTypeMsg:
		var data proto.MsgData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if !h.limiter.allow() {
			return &proto.Error{Code: "rate_limited", Msg: "rate limit exceeded"}, nil
		}
		if _, err := h.pipeline.Submit(ctx, msgDataToMessage(&data)); err != nil {
			var ce *core.CoreError
			if errors.As(err, &ce) {
				return &proto.Error{Code: ce.Code, Msg: ce.Message}, nil
			}
			return nil, err
		}
		return nil, nil

	case proto.InboundTypeKeepAliveAck:
		session.MarkHeartbeatAck(time.Now())
		return nil, nil

	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		select {
		case event, ok := <-session.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("session_id", session.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
