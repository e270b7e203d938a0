package followup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutricheck/nutricheck/internal/application"
	"github.com/nutricheck/nutricheck/internal/domain/ai"
	"github.com/nutricheck/nutricheck/internal/domain/analysis"
	"github.com/nutricheck/nutricheck/internal/domain/chat"
	"github.com/nutricheck/nutricheck/internal/domain/session"
	"github.com/nutricheck/nutricheck/internal/infra/store"
)

// fakeChat scripts one response (or error) per attempt.
type fakeChat struct {
	responses []string
	errs      []error
	calls     int
	requests  []ai.ChatRequest
}

func (f *fakeChat) Generate(context.Context, ai.GenerateRequest) (string, error) {
	return "", errors.New("unexpected generate call")
}

func (f *fakeChat) Chat(_ context.Context, req ai.ChatRequest) (string, error) {
	i := f.calls
	f.calls++
	f.requests = append(f.requests, req)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp string
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func newService(client *fakeChat) (*Service, *store.SessionStore) {
	sessions := store.New(16, time.Hour)
	return &Service{
		AI:       client,
		Sessions: sessions,
		Clock:    application.SystemClock{},
		Log:      zerolog.Nop(),
	}, sessions
}

func seedSession(t *testing.T, sessions *store.SessionStore) session.ID {
	t.Helper()
	id, err := sessions.Create(context.Background(), session.ProductContext{
		ProductName: "Super Snax Cheezy Puffs",
		Ingredients: []string{"Corn meal", "yellow 6"},
		Nutrition:   analysis.Nutrition{},
		RiskFlags:   []string{"Artificial Colors"},
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return id
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	client := &fakeChat{}
	svc, _ := newService(client)

	_, err := svc.Answer(context.Background(), Command{Question: "   "})
	if !errors.Is(err, analysis.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if client.calls != 0 {
		t.Errorf("inference called %d times for empty question", client.calls)
	}
}

func TestAnswer_GroundedContext(t *testing.T) {
	client := &fakeChat{responses: []string{`{"answer":"Yes, it contains yellow 6, an artificial color."}`}}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	answer, err := svc.Answer(context.Background(), Command{
		Question:  "Does it contain any artificial colors?",
		SessionID: string(id),
	})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(answer, "yellow 6") {
		t.Errorf("answer = %q, want reference to yellow 6", answer)
	}

	msg := client.requests[0].Message
	if !strings.Contains(msg, "IMMUTABLE GROUND TRUTH") {
		t.Error("final turn does not mark the context as ground truth")
	}
	if !strings.Contains(msg, "Super Snax Cheezy Puffs") {
		t.Error("final turn does not embed the product name")
	}
	if !strings.Contains(msg, "USER QUESTION: Does it contain any artificial colors?") {
		t.Error("final turn does not embed the question")
	}
}

func TestAnswer_UnknownSessionDegrades(t *testing.T) {
	client := &fakeChat{responses: []string{`{"answer":"Generally, check the label for color additives."}`}}
	svc, _ := newService(client)

	answer, err := svc.Answer(context.Background(), Command{
		Question:  "Does it contain any artificial colors?",
		SessionID: "b2c155a3-0000-0000-0000-000000000000",
	})
	if err != nil {
		t.Fatalf("Answer must not fail on unknown session: %v", err)
	}
	if answer == "" {
		t.Fatal("no answer returned in degraded mode")
	}
	if !strings.Contains(client.requests[0].Message, "none available") {
		t.Error("prompt does not carry the no-context marker")
	}
}

func TestAnswer_HistoryForwarded(t *testing.T) {
	client := &fakeChat{responses: []string{`{"answer":"ok"}`}}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	history := []chat.Turn{
		{Role: chat.RoleUser, Text: "Is it healthy?"},
		{Role: chat.RoleAssistant, Text: "It is ultra-processed; best avoided."},
	}
	if _, err := svc.Answer(context.Background(), Command{
		History: history, Question: "Why?", SessionID: string(id),
	}); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	got := client.requests[0].History
	if len(got) != 2 {
		t.Fatalf("forwarded %d history turns, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Errorf("history roles = %q, %q", got[0].Role, got[1].Role)
	}
}

func TestAnswer_RetryThenSuccess(t *testing.T) {
	client := &fakeChat{
		errs:      []error{ai.ErrUpstream, nil},
		responses: []string{"", `{"answer":"It has 160 calories per serving."}`},
	}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	answer, err := svc.Answer(context.Background(), Command{Question: "How many calories?", SessionID: string(id)})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("inference called %d times, want 2", client.calls)
	}
	if answer != "It has 160 calories per serving." {
		t.Errorf("answer = %q", answer)
	}
}

func TestAnswer_RetryIdenticalRequest(t *testing.T) {
	client := &fakeChat{
		responses: []string{"garbage", `{"answer":"ok"}`},
	}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	if _, err := svc.Answer(context.Background(), Command{Question: "q", SessionID: string(id)}); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("inference called %d times, want 2", client.calls)
	}
	if client.requests[0].Message != client.requests[1].Message {
		t.Error("retry mutated the prompt")
	}
	if client.requests[0].System != client.requests[1].System {
		t.Error("retry mutated the system instruction")
	}
}

func TestAnswer_FallbackAfterTwoFailures(t *testing.T) {
	client := &fakeChat{
		responses: []string{`{"no_answer":true}`, "still not conforming"},
	}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	answer, err := svc.Answer(context.Background(), Command{Question: "q", SessionID: string(id)})
	if err != nil {
		t.Fatalf("Answer must not propagate inference failures: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("inference called %d times, want exactly 2", client.calls)
	}
	if answer != FallbackAnswer {
		t.Errorf("answer = %q, want fallback sentinel", answer)
	}
}

func TestAnswer_FallbackOnTransportFailure(t *testing.T) {
	client := &fakeChat{errs: []error{ai.ErrUpstream, ai.ErrQuotaExceeded}}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	answer, err := svc.Answer(context.Background(), Command{Question: "q", SessionID: string(id)})
	if err != nil {
		t.Fatalf("Answer must not propagate transport failures: %v", err)
	}
	if answer != FallbackAnswer {
		t.Errorf("answer = %q, want fallback sentinel", answer)
	}
}

func TestAnswer_FencedResponseAccepted(t *testing.T) {
	client := &fakeChat{responses: []string{"```json\n{\"answer\":\"Fenced but fine.\"}\n```"}}
	svc, sessions := newService(client)
	id := seedSession(t, sessions)

	answer, err := svc.Answer(context.Background(), Command{Question: "q", SessionID: string(id)})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "Fenced but fine." {
		t.Errorf("answer = %q", answer)
	}
	if client.calls != 1 {
		t.Errorf("fence cleanup should not cost a retry; calls = %d", client.calls)
	}
}
