package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nutricheck/nutricheck/internal/application"
	"github.com/nutricheck/nutricheck/internal/domain/ai"
	domain "github.com/nutricheck/nutricheck/internal/domain/analysis"
	"github.com/nutricheck/nutricheck/internal/domain/session"
	"github.com/nutricheck/nutricheck/internal/infra/ai/prompt"
	"github.com/nutricheck/nutricheck/internal/schema"
)

// Service implements the analysis use-case: build the prompt, invoke
// inference once, validate the result, derive and persist a product context,
// return the result bound to its fresh session.
//
// Safe for concurrent use.
type Service struct {
	AI       ai.Client
	Sessions session.Store
	Archive  ai.PayloadArchive // optional; nil disables payload archiving
	Clock    application.Clock
	Log      zerolog.Logger
}

// Command for one analysis request. At least one of Image and Text must be
// present.
type Command struct {
	Image    []byte
	MIMEType string
	Text     string
}

// Output is the analysis result bound to its session.
type Output struct {
	domain.Result
	SessionID session.ID `json:"sessionId"`
}

// Analyze runs the full analysis path. Upstream faults are never retried
// here: a bad analysis must not produce a false verdict, so any failure is
// surfaced to the caller.
func (s *Service) Analyze(ctx context.Context, cmd Command) (Output, error) {
	text := strings.TrimSpace(cmd.Text)
	if len(cmd.Image) == 0 && text == "" {
		return Output{}, fmt.Errorf("%w: provide an image or a text description", domain.ErrInvalidInput)
	}

	parts := []ai.Part{{Text: prompt.AnalysisTask()}}
	if text != "" {
		parts = append(parts, ai.Part{Text: prompt.UserContext(text)})
	}
	if len(cmd.Image) > 0 {
		parts = append(parts, ai.Part{Image: cmd.Image, MIMEType: cmd.MIMEType})
	}

	raw, err := s.AI.Generate(ctx, ai.GenerateRequest{
		System: prompt.SystemPrompt(),
		Parts:  parts,
	})
	if err != nil {
		s.Log.Error().Err(err).Msg("analysis inference failed")
		return Output{}, err
	}

	result, err := s.parse(ctx, raw)
	if err != nil {
		return Output{}, err
	}

	pc := session.Derive(result)
	id, err := s.Sessions.Create(ctx, pc)
	if err != nil {
		s.Log.Error().Err(err).Msg("session create failed")
		return Output{}, err
	}

	s.Log.Info().
		Str("session_id", string(id)).
		Str("product", pc.ProductName).
		Str("verdict", string(result.Verdict)).
		Msg("session created")

	return Output{Result: result, SessionID: id}, nil
}

// parse validates the raw payload against the analysis contract and decodes
// it. A non-conforming payload is archived for diagnosis and fails the call.
func (s *Service) parse(ctx context.Context, raw string) (domain.Result, error) {
	if _, err := schema.Parse(schema.Analysis(), []byte(raw)); err != nil {
		s.archivePayload(ctx, raw)
		s.Log.Error().Err(err).Str("payload", raw).Msg("analysis payload rejected")
		return domain.Result{}, fmt.Errorf("%w: %v", domain.ErrUpstreamFormat, err)
	}

	var result domain.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.archivePayload(ctx, raw)
		s.Log.Error().Err(err).Str("payload", raw).Msg("analysis payload rejected")
		return domain.Result{}, fmt.Errorf("%w: %v", domain.ErrUpstreamFormat, err)
	}
	if len(result.KeyFactors) == 0 {
		s.archivePayload(ctx, raw)
		s.Log.Error().Str("payload", raw).Msg("analysis payload has no key factors")
		return domain.Result{}, fmt.Errorf("%w: keyFactors is empty", domain.ErrUpstreamFormat)
	}
	return result, nil
}

func (s *Service) archivePayload(ctx context.Context, raw string) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("analysis/%s/%s.json",
		s.Clock.Now().UTC().Format("20060102"), uuid.New().String())
	if _, err := s.Archive.Archive(ctx, key, []byte(raw), "application/json"); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("payload archive failed")
	}
}
