package chat

// Role enum for conversation turns as the transport sees them.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a follow-up conversation. History is owned by the
// caller and supplied fresh on every call; the server never accumulates it.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
