package ai

import "context"

// Part is one piece of a generation prompt: plain text, or inline image
// bytes with their declared media type.
type Part struct {
	Text     string
	Image    []byte
	MIMEType string
}

// Turn is one prior message of a multi-turn conversation. Role uses the
// transport vocabulary (user|assistant); each adapter owns the total mapping
// into its provider's own role names.
type Turn struct {
	Role string
	Text string
}

// GenerateRequest is a single-shot structured generation call.
type GenerateRequest struct {
	System string
	Parts  []Part
}

// ChatRequest is a history-seeded structured generation call. Message is the
// final user turn appended after History.
type ChatRequest struct {
	System  string
	History []Turn
	Message string
}

// Client is the inference collaborator port. Both calls return the raw text
// the provider produced; callers must not trust it to conform to the
// requested contract and always validate structurally.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// PayloadArchive port for persisting raw non-conforming provider payloads so
// they can be diagnosed offline. Best effort; callers tolerate a nil store.
type PayloadArchive interface {
	Archive(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}
