package service

import (
	"context"
	"fmt"
	"log"

	"github.com/chatda/chatda-api/internal/models"
)

// Turn is the outcome of dispatching one utterance: the envelope to send and
// the generation result it was built from.
type Turn struct {
	Envelope models.Envelope
	Result   models.GenerationResult
}

// ChatService dispatches utterances to the generation engine and shapes the replies.
type ChatService interface {
	// Chat handles one conversational turn.
	Chat(ctx context.Context, req models.ChatRequest) (Turn, error)
	// Search runs the engine in search mode and always answers with a search envelope.
	Search(ctx context.Context, req models.ChatRequest) (models.SearchEnvelope, error)
}

type chatService struct {
	gen           Generator
	examples      *Examples
	maxCandidates int
	logger        *log.Logger
}

// NewChatService wires dependencies and returns ChatService.
func NewChatService(gen Generator, examples *Examples, maxCandidates int, logger *log.Logger) ChatService {
	return &chatService{
		gen:           gen,
		examples:      examples,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// Chat answers canned example data for the trigger contents and otherwise
// consults the generation engine.
func (s *chatService) Chat(ctx context.Context, req models.ChatRequest) (Turn, error) {
	// 1. Literal triggers bypass the engine.
	if result, ok := s.examples.Lookup(req.Content); ok {
		s.logger.Printf("[Chat] serving example %q for session %s", req.Content, req.UUID)
		env, err := buildEnvelope(result, s.maxCandidates)
		if err != nil {
			return Turn{}, err
		}
		return Turn{Envelope: env, Result: result}, nil
	}

	// 2. Ask the engine.
	result, err := s.gen.Generate(ctx, req.Content, false)
	if err != nil {
		return Turn{}, fmt.Errorf("generate: %w", err)
	}

	// 3. No candidates at all means the catalog had nothing.
	if result.Products == nil {
		s.logger.Printf("[Chat] no data for session %s (declared type %q)", req.UUID, result.Type)
		env := models.NewExceptionEnvelope()
		drain(result.Answer)
		result.Answer = models.TextAnswer(env.Content)
		return Turn{Envelope: env, Result: result}, nil
	}

	// 4. Shape by declared type.
	env, err := buildEnvelope(result, s.maxCandidates)
	if err != nil {
		drain(result.Answer)
		return Turn{}, err
	}
	return Turn{Envelope: env, Result: result}, nil
}

// Search always uses the search shape; the engine's candidate lists are cut to
// maxCandidates first.
func (s *chatService) Search(ctx context.Context, req models.ChatRequest) (models.SearchEnvelope, error) {
	result, err := s.gen.Generate(ctx, req.Content, true)
	if err != nil {
		return models.SearchEnvelope{}, fmt.Errorf("generate: %w", err)
	}
	result = result.Truncate(s.maxCandidates)

	content, err := result.Answer.Collect(ctx)
	if err != nil {
		return models.SearchEnvelope{}, fmt.Errorf("collect answer: %w", err)
	}
	return models.NewSearchEnvelope(content, result.CandidateIDs()), nil
}

// drain discards an unused token stream so its producer can finish.
func drain(a models.Answer) {
	if tokens := a.Tokens(); tokens != nil {
		go func() {
			for range tokens {
			}
		}()
	}
}
