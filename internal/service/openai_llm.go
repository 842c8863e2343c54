package service

import (
	"context"
	"fmt"
	"log"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/chatda/chatda-api/internal/models"
)

// NewOpenAIClient returns a client for an OpenAI-compatible server. baseURL
// must include the /v1 suffix; empty means api.openai.com.
func NewOpenAIClient(baseURL, apiKey string) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(opts...)
}

// OpenAILLM implements LLMClient over the chat completions API.
type OpenAILLM struct {
	client openai.Client
	model  string
	logger *log.Logger
}

// NewOpenAILLM wires a client and a model name.
func NewOpenAILLM(client openai.Client, model string, logger *log.Logger) *OpenAILLM {
	return &OpenAILLM{client: client, model: model, logger: logger}
}

// Classify requests a structured classification constrained by a JSON schema.
func (l *OpenAILLM) Classify(ctx context.Context, userInput string) (models.ResponseType, error) {
	completion, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifyInstruction),
			openai.UserMessage(userInput),
		},
		Model:          shared.ChatModel(l.model),
		ResponseFormat: classificationFormat(),
		Temperature:    openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to classify: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("classifier returned no choices")
	}
	return parseClassification(completion.Choices[0].Message.Content)
}

// Stream generates an answer with a streaming chat completion, one token per
// delta. A transport or decode error is reported by the answer's Err.
func (l *OpenAILLM) Stream(ctx context.Context, prompt string) (models.Answer, error) {
	stream := l.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       shared.ChatModel(l.model),
		Temperature: openai.Float(0.7),
	})

	var streamErr error
	tokens := make(chan string)
	go func() {
		defer close(tokens)
		defer stream.Close()
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case tokens <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil {
			l.logger.Printf("[OpenAI] stream error: %v", err)
			streamErr = fmt.Errorf("openai stream: %w", err)
		}
	}()
	return models.TokenAnswer(tokens, func() error { return streamErr }), nil
}

// classificationFormat builds the response_format for Classify.
func classificationFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        "classification",
				Description: openai.String("response type for a shopping assistant message"),
				Schema:      reflector.Reflect(classification{}),
				Strict:      openai.Bool(true),
			},
		},
	}
}

// OpenAIEmbedder implements EmbeddingClient over the embeddings API.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

// NewOpenAIEmbedder wires a client and an embedding model name.
func NewOpenAIEmbedder(client openai.Client, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model}
}

// Embed returns the embedding of text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	out := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		out[i] = float32(v)
	}
	return out, nil
}
