package service

import (
	"context"
	"fmt"
	"log"

	"github.com/chatda/chatda-api/internal/models"
)

// Generator is the retrieval/generation engine behind the chat endpoints.
// search=true asks for the natural-language search shape only.
type Generator interface {
	Generate(ctx context.Context, userInput string, search bool) (models.GenerationResult, error)
}

// ---- Collaborator contracts ------------------------------------------------

// LLMClient abstracts the language model.
type LLMClient interface {
	// Classify returns the response type the utterance calls for. Labels the
	// model invents are passed through unchanged.
	Classify(ctx context.Context, userInput string) (models.ResponseType, error)
	// Stream generates an answer for prompt as a token answer. Its channel is
	// closed when generation ends or ctx is cancelled; a failure part-way is
	// reported by Answer.Err.
	Stream(ctx context.Context, prompt string) (models.Answer, error)
}

// EmbeddingClient turns text into a vector comparable with the catalog embeddings.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProductSearcher exposes vector search over the product catalog.
type ProductSearcher interface {
	VectorSearch(ctx context.Context, queryVec []float32, k int) ([]models.Product, error)
}

// ---- RAG implementation ----------------------------------------------------

type ragGenerator struct {
	llm      LLMClient
	embedder EmbeddingClient
	products ProductSearcher
	chatK    int // products retrieved per chat turn
	searchK  int // products retrieved in search mode
	logger   *log.Logger
}

// NewRAGGenerator wires an LLM, an embedder and the catalog into a Generator.
func NewRAGGenerator(llm LLMClient, embedder EmbeddingClient, products ProductSearcher, chatK, searchK int, logger *log.Logger) Generator {
	return &ragGenerator{
		llm:      llm,
		embedder: embedder,
		products: products,
		chatK:    chatK,
		searchK:  searchK,
		logger:   logger,
	}
}

// Generate runs classify → embed → retrieve → answer.
func (g *ragGenerator) Generate(ctx context.Context, userInput string, search bool) (models.GenerationResult, error) {
	// 1. Decide the response shape.
	typ, k := models.TypeSearch, g.searchK
	if !search {
		var err error
		if typ, err = g.llm.Classify(ctx, userInput); err != nil {
			return models.GenerationResult{}, fmt.Errorf("classify: %w", err)
		}
		k = g.chatK
	}
	g.logger.Printf("[RAG] classified %q as %q", userInput, typ)

	// 2. Retrieve candidates.
	vec, err := g.embedder.Embed(ctx, userInput)
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("embed: %w", err)
	}
	products, err := g.products.VectorSearch(ctx, vec, k)
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("vector search: %w", err)
	}
	g.logger.Printf("[RAG] vector search returned %d products", len(products))

	if len(products) == 0 {
		if typ.NeedsCandidates() {
			return models.GenerationResult{Type: typ}, nil
		}
		products = []models.Product{}
	}
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ModelNo
	}

	// 3. Search mode needs no generated prose.
	if search {
		return models.GenerationResult{
			Type:        models.TypeSearch,
			Answer:      models.TextAnswer(searchSummary(len(products))),
			Products:    products,
			ModelNoList: ids,
		}, nil
	}

	// 4. A type we cannot shape is rejected by the dispatcher; skip the answer.
	if !typ.Valid() {
		return models.GenerationResult{
			Type:        typ,
			Answer:      models.TextAnswer(""),
			Products:    products,
			ModelNoList: ids,
		}, nil
	}

	// 5. Stream a grounded answer.
	answer, err := g.llm.Stream(ctx, answerPrompt(typ, userInput, products))
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("generate answer: %w", err)
	}

	return models.GenerationResult{
		Type:        typ,
		Answer:      answer,
		Products:    products,
		ModelNoList: ids,
	}, nil
}
