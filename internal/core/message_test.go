package core

import "testing"

func validTextMessage() Message {
	return Message{
		RoomID:   "r1",
		UserID:   "u1",
		UserName: "Ann",
		Avatar:   "a.png",
		Type:     MessageTypeText,
		Text:     "hi",
	}
}

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr bool
	}{
		{
			name:   "valid text",
			mutate: func(m *Message) {},
		},
		{
			name: "valid steam",
			mutate: func(m *Message) {
				m.Type = MessageTypeSteam
				m.Text = ""
				m.TeamID = "t1"
				m.TeamName = "Team"
				m.TeamAvatar = "t.png"
			},
		},
		{
			name: "valid smember without extra fields",
			mutate: func(m *Message) {
				m.Type = MessageTypeSteamMember
				m.Text = ""
			},
		},
		{
			name:    "unknown messageType",
			mutate:  func(m *Message) { m.Type = "video" },
			wantErr: true,
		},
		{
			name:    "text without text",
			mutate:  func(m *Message) { m.Text = "" },
			wantErr: true,
		},
		{
			name: "steam missing teamId",
			mutate: func(m *Message) {
				m.Type = MessageTypeSteam
				m.TeamName = "Team"
				m.TeamAvatar = "t.png"
			},
			wantErr: true,
		},
		{
			name: "steam missing teamAvatar",
			mutate: func(m *Message) {
				m.Type = MessageTypeSteam
				m.TeamID = "t1"
				m.TeamName = "Team"
			},
			wantErr: true,
		},
		{
			name:    "missing roomId",
			mutate:  func(m *Message) { m.RoomID = "" },
			wantErr: true,
		},
		{
			name:    "missing userId",
			mutate:  func(m *Message) { m.UserID = "" },
			wantErr: true,
		},
		{
			name:    "missing userName",
			mutate:  func(m *Message) { m.UserName = "" },
			wantErr: true,
		},
		{
			name:    "missing avatar",
			mutate:  func(m *Message) { m.Avatar = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validTextMessage()
			tt.mutate(&msg)

			err := msg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			if tt.wantErr {
				ce, ok := err.(*CoreError)
				if !ok {
					t.Fatalf("expected *CoreError, got %T", err)
				}
				if ce.Code != ErrCodeBadRequest {
					t.Fatalf("expected code %s, got %s", ErrCodeBadRequest, ce.Code)
				}
			}
		})
	}
}
