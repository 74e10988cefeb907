package http

import (
	"time"

	"github.com/steamchat/steamchat-server/internal/core"
	"github.com/steamchat/steamchat-server/internal/proto"
	"github.com/steamchat/steamchat-server/internal/store"
)

func requestToMessage(roomID string, req *MessageRequest) *core.Message {
	msg := &core.Message{
		RoomID:     roomID,
		UserID:     req.UserID,
		UserName:   req.UserName,
		Avatar:     req.Avatar,
		Type:       core.MessageType(req.MessageType),
		Text:       req.Text,
		TeamID:     req.TeamID,
		TeamName:   req.TeamName,
		TeamAvatar: req.TeamAvatar,
	}
	if req.TS > 0 {
		msg.CreatedAt = time.UnixMilli(req.TS).UTC()
	}
	return msg
}

func msgDataToMessage(data *proto.MsgData) *core.Message {
	msg := &core.Message{
		RoomID:     data.Room,
		UserID:     data.UserID,
		UserName:   data.UserName,
		Avatar:     data.Avatar,
		Type:       core.MessageType(data.MessageType),
		Text:       data.Text,
		TeamID:     data.TeamID,
		TeamName:   data.TeamName,
		TeamAvatar: data.TeamAvatar,
	}
	if data.TS > 0 {
		msg.CreatedAt = time.UnixMilli(data.TS).UTC()
	}
	return msg
}

func messagePayload(msg *core.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:          msg.ID,
		RoomID:      msg.RoomID,
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		Avatar:      msg.Avatar,
		MessageType: string(msg.Type),
		Text:        msg.Text,
		TeamID:      msg.TeamID,
		TeamName:    msg.TeamName,
		TeamAvatar:  msg.TeamAvatar,
		CreatedAt:   msg.CreatedAt,
	}
}

// storeMessagePayload exposes exactly the public message fields; Seq
// stays internal.
func storeMessagePayload(msg *store.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:          msg.ID,
		RoomID:      msg.RoomID,
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		Avatar:      msg.Avatar,
		MessageType: msg.Type,
		Text:        msg.Text,
		TeamID:      msg.TeamID,
		TeamName:    msg.TeamName,
		TeamAvatar:  msg.TeamAvatar,
		CreatedAt:   msg.CreatedAt,
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomMessage:
		msg := event.Message
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMsg,
			Data:  messagePayload(&msg),
		}
	case core.EventKeepAlive:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventKeepAlive,
			Data:  proto.KeepAliveData{TS: event.SentAt.UnixMilli()},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
