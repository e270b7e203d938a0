package httpserver

import "github.com/nutricheck/nutricheck/internal/domain/chat"

// chatTurn is the wire form of one conversation turn.
type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func (t chatTurn) toDomain() chat.Turn {
	return chat.Turn{Role: chat.Role(t.Role), Text: t.Text}
}
