package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/nutricheck/nutricheck/internal/domain/ai"
	"github.com/nutricheck/nutricheck/internal/domain/chat"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Generate runs a single-shot structured generation call. Text parts are
// stitched together; image parts travel inline as base64 data URLs.
func (c *Client) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	content := make([]openai.ChatMessagePart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Image) > 0 {
			content = append(content, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL(p.Image, p.MIMEType),
					Detail: openai.ImageURLDetailAuto,
				},
			})
			continue
		}
		content = append(content, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: p.Text,
		})
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
		{Role: openai.ChatMessageRoleUser, MultiContent: content},
	}
	return c.complete(ctx, messages)
}

// Chat runs a history-seeded structured generation call.
func (c *Client) Chat(ctx context.Context, req ai.ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem, Content: req.System,
	})
	for _, turn := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    mapRole(turn.Role),
			Content: turn.Text,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: req.Message,
	})
	return c.complete(ctx, messages)
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: messages,
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", ai.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

// mapRole is the total mapping from transport roles to provider roles.
// Anything unrecognized is treated as a user turn.
func mapRole(role string) string {
	switch chat.Role(role) {
	case chat.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case chat.RoleUser:
		return openai.ChatMessageRoleUser
	default:
		return openai.ChatMessageRoleUser
	}
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", ai.ErrUpstream, err)
}

func dataURL(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
