package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nutricheck/nutricheck/internal/application"
	"github.com/nutricheck/nutricheck/internal/domain/ai"
	"github.com/nutricheck/nutricheck/internal/domain/analysis"
	"github.com/nutricheck/nutricheck/internal/domain/chat"
	"github.com/nutricheck/nutricheck/internal/domain/session"
	"github.com/nutricheck/nutricheck/internal/infra/ai/prompt"
	"github.com/nutricheck/nutricheck/internal/schema"
)

// FallbackAnswer is returned when both inference attempts fail. The user
// must always receive some answer; the verdict itself was already delivered
// during analysis, so a generic reply here is acceptable.
const FallbackAnswer = "I’m having trouble formatting that response. Please try again."

// maxAttempts bounds the retry policy: the identical request is retried
// once, with no prompt mutation and no backoff.
const maxAttempts = 2

// Service implements the follow-up use-case: answer a question grounded on
// the immutable product context of an earlier analysis.
//
// Safe for concurrent use. Stateless across calls except for the context
// store read; it never writes.
type Service struct {
	AI       ai.Client
	Sessions session.Store
	Archive  ai.PayloadArchive // optional; nil disables payload archiving
	Clock    application.Clock
	Log      zerolog.Logger
}

// Command for one follow-up request. History is owned by the caller and
// supplied fresh on every call.
type Command struct {
	History   []chat.Turn
	Question  string
	SessionID string
}

// Answer returns a grounded answer, or the fallback sentinel when inference
// fails twice. The only error it can return is ErrInvalidInput for an empty
// question; everything past that point resolves to an answer string.
func (s *Service) Answer(ctx context.Context, cmd Command) (string, error) {
	question := strings.TrimSpace(cmd.Question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", analysis.ErrInvalidInput)
	}

	contextBlock := s.lookupContext(ctx, cmd.SessionID)

	history := make([]ai.Turn, 0, len(cmd.History))
	for _, turn := range cmd.History {
		history = append(history, ai.Turn{Role: string(turn.Role), Text: turn.Text})
	}

	req := ai.ChatRequest{
		System:  prompt.FollowupSystemPrompt(),
		History: history,
		Message: prompt.FollowupMessage(contextBlock, question),
	}

	var lastErr error
	var lastRaw string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		answer, raw, err := s.attempt(ctx, req)
		if err == nil {
			return answer, nil
		}
		lastErr, lastRaw = err, raw
		s.Log.Warn().Err(err).Int("attempt", attempt).Msg("follow-up attempt failed")
	}

	s.Log.Error().Err(lastErr).Str("payload", lastRaw).Msg("all follow-up attempts failed")
	if lastRaw != "" {
		s.archivePayload(ctx, lastRaw)
	}
	return FallbackAnswer, nil
}

// attempt sends the identical request once and validates the response. The
// raw payload is returned alongside the error for diagnosis.
func (s *Service) attempt(ctx context.Context, req ai.ChatRequest) (answer, raw string, err error) {
	raw, err = s.AI.Chat(ctx, req)
	if err != nil {
		return "", "", err
	}

	clean := schema.Clean(raw)
	obj, err := schema.Parse(schema.Followup(), []byte(clean))
	if err != nil {
		return "", raw, err
	}

	answer, _ = obj["answer"].(string)
	if strings.TrimSpace(answer) == "" {
		return "", raw, errors.New("missing 'answer' field")
	}
	return answer, raw, nil
}

// lookupContext resolves the session into a grounding block. A miss is not
// an error: the call proceeds with an explicit no-context marker and only a
// warning in the log.
func (s *Service) lookupContext(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return prompt.NoContextBlock()
	}
	pc, err := s.Sessions.Get(ctx, session.ID(sessionID))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.Log.Warn().Str("session_id", sessionID).Msg("no context found for session")
		} else {
			s.Log.Warn().Err(err).Str("session_id", sessionID).Msg("context lookup failed")
		}
		return prompt.NoContextBlock()
	}
	return prompt.ContextBlock(pc)
}

func (s *Service) archivePayload(ctx context.Context, raw string) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("followup/%s/%s.json",
		s.Clock.Now().UTC().Format("20060102"), uuid.New().String())
	if _, err := s.Archive.Archive(ctx, key, []byte(raw), "application/json"); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("payload archive failed")
	}
}
