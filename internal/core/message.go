package core

import "time"

// MessageType discriminates the message kinds the pipeline accepts.
type MessageType string

const (
	// MessageTypeText is a plain chat message; Text is required.
	MessageTypeText MessageType = "text"
	// MessageTypeSteam announces a team; TeamID, TeamName and
	// TeamAvatar are required.
	MessageTypeSteam MessageType = "steam"
	// MessageTypeSteamMember is a membership marker. It carries no
	// extra fields beyond the sender identity.
	MessageTypeSteamMember MessageType = "smember"
)

// Message is the domain model for a chat message.
//
// ID is empty until the store assigns it. Under the broadcast-first
// durability mode a message is fanned out live before that happens, so
// subscribers may observe an empty ID.
type Message struct {
	ID         string
	RoomID     string
	UserID     string
	UserName   string
	Avatar     string
	Type       MessageType
	Text       string
	TeamID     string
	TeamName   string
	TeamAvatar string
	CreatedAt  time.Time
}

// Validate rejects messages with an unknown discriminant or with a
// field required by the discriminant missing. A rejected message is
// never broadcast and never persisted.
func (m *Message) Validate() error {
	if m.RoomID == "" {
		return badRequest("roomId is required")
	}
	if m.UserID == "" {
		return badRequest("userId is required")
	}
	if m.UserName == "" {
		return badRequest("userName is required")
	}
	if m.Avatar == "" {
		return badRequest("avatar is required")
	}

	switch m.Type {
	case MessageTypeText:
		if m.Text == "" {
			return badRequest("text is required for text messages")
		}
	case MessageTypeSteam:
		if m.TeamID == "" || m.TeamName == "" || m.TeamAvatar == "" {
			return badRequest("teamId, teamName and teamAvatar are required for steam messages")
		}
	case MessageTypeSteamMember:
		// No extra fields enforced.
	default:
		return badRequest("unknown messageType")
	}

	return nil
}
