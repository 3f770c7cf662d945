package generate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/testhr/llamagate/internal/config"
	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/observability"
	"github.com/testhr/llamagate/internal/service/memory"
	"github.com/testhr/llamagate/internal/service/quality"
	"github.com/testhr/llamagate/pkg/log"
)

// Request is one generation call. When FileContent is present the
// extracted text replaces Prompt as the model input.
type Request struct {
	Prompt       string
	Model        string
	MaxNewTokens int
	SessionID    string
	Filename     string
	FileContent  []byte
}

// Response carries the quality-gated text and the session the turn was
// recorded under, which the caller needs when the session was synthesized.
type Response struct {
	Text      string
	SessionID string
}

// ContextComposer renders the blended history block for one session and day.
type ContextComposer interface {
	Compose(ctx context.Context, sessionID, day string) (string, error)
}

// InputExtractor converts an uploaded attachment into prompt text.
type InputExtractor interface {
	Extract(filename string, content []byte) (string, error)
}

// ResponseGate validates a raw completion and may regenerate it.
type ResponseGate interface {
	Check(ctx context.Context, in quality.CheckInput) quality.Result
}

// Service drives a generation request through extraction, model
// validation, context composition, completion, quality gating and
// write-through persistence.
type Service struct {
	models    *config.OllamaConfig
	extractor InputExtractor
	composer  ContextComposer
	completer core.Completer
	gate      ResponseGate
	cache     core.SessionCache
	store     core.HistoryRepository
	metrics   *observability.Metrics
}

func NewService(
	models *config.OllamaConfig,
	extractor InputExtractor,
	composer ContextComposer,
	completer core.Completer,
	gate ResponseGate,
	cache core.SessionCache,
	store core.HistoryRepository,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		models:    models,
		extractor: extractor,
		composer:  composer,
		completer: completer,
		gate:      gate,
		cache:     cache,
		store:     store,
		metrics:   metrics,
	}
}

func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	input := req.Prompt
	if req.Filename != "" {
		extracted, err := s.extractor.Extract(req.Filename, req.FileContent)
		if err != nil {
			return Response{}, err
		}
		input = extracted
	}
	input = strings.TrimSpace(input)

	friendly := req.Model
	if friendly == "" {
		friendly = "basic"
	}
	model, ok := s.models.ResolveModel(friendly)
	if !ok {
		return Response{}, &core.InvalidModelError{Name: friendly, Valid: s.models.FriendlyModels()}
	}

	day := time.Now().UTC().Format(core.DayFormat)
	history, err := s.composer.Compose(ctx, sessionID, day)
	if err != nil {
		return Response{}, err
	}

	instruction := memory.InstructionFor(input)
	prompt := memory.BuildPrompt(instruction, history, input)

	raw, err := s.completer.Complete(ctx, model, prompt, req.MaxNewTokens)
	if err != nil {
		return Response{}, err
	}

	verdict := s.gate.Check(ctx, quality.CheckInput{
		Prompt:    input,
		History:   history,
		Model:     model,
		MaxTokens: req.MaxNewTokens,
		Response:  raw,
	})

	s.persist(ctx, core.NewTurn(sessionID, input, verdict.Text))

	log.FromCtx(ctx).Info().
		Str("session_id", sessionID).
		Str("model", model).
		Str("list_outcome", string(verdict.List)).
		Bool("echo_retried", verdict.EchoRetried).
		Int("extra_completion_calls", verdict.CompletionCalls).
		Msg("generation completed")

	return Response{Text: verdict.Text, SessionID: sessionID}, nil
}

// persist writes the turn through to both memory tiers. The response has
// already been computed, so a store failure is logged and counted but
// does not fail the request.
func (s *Service) persist(ctx context.Context, t core.Turn) {
	s.cache.Append(t.SessionID, t)

	if err := s.store.Append(ctx, t); err != nil {
		log.FromCtx(ctx).Error().Err(err).
			Str("session_id", t.SessionID).
			Msg("failed to persist turn to durable store")
		if s.metrics != nil {
			s.metrics.PersistFailures.WithLabelValues("sqlite").Inc()
		}
	}
}

// Conversation returns the recent turns for a session, oldest-first,
// preferring the volatile cache and falling back to the durable store.
func (s *Service) Conversation(ctx context.Context, sessionID string) ([]core.Turn, error) {
	turns := s.cache.Get(sessionID, 0)
	if len(turns) > 0 {
		return turns, nil
	}

	stored, err := s.store.BySession(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	// the store returns newest-first; flip to the cache's oldest-first order
	for i, j := 0, len(stored)-1; i < j; i, j = i+1, j-1 {
		stored[i], stored[j] = stored[j], stored[i]
	}
	return stored, nil
}

// ConversationsByDate returns every turn recorded on the given day across
// all sessions, newest-first.
func (s *Service) ConversationsByDate(ctx context.Context, day string) ([]core.Turn, error) {
	return s.store.ByDay(ctx, day, 0)
}
