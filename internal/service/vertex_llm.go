package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/chatda/chatda-api/internal/models"
)

// VertexLLM implements LLMClient on Gemini through Vertex AI.
type VertexLLM struct {
	client     *genai.Client
	model      *genai.GenerativeModel // answers
	classifier *genai.GenerativeModel // JSON-only, deterministic
	logger     *log.Logger
}

// NewVertexLLM creates a Vertex AI client for modelName. credentialsFile may be
// empty to use application default credentials.
func NewVertexLLM(ctx context.Context, projectID, location, modelName, credentialsFile string, logger *log.Logger) (*VertexLLM, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.8)
	model.SetTopK(40)

	classifier := client.GenerativeModel(modelName)
	classifier.SetTemperature(0)
	classifier.ResponseMIMEType = "application/json"
	classifier.SystemInstruction = genai.NewUserContent(genai.Text(classifyInstruction))

	return &VertexLLM{
		client:     client,
		model:      model,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Classify asks the classifier model for the response type.
func (l *VertexLLM) Classify(ctx context.Context, userInput string) (models.ResponseType, error) {
	resp, err := l.classifier.GenerateContent(ctx, genai.Text(userInput))
	if err != nil {
		return "", fmt.Errorf("failed to classify: %w", err)
	}
	return parseClassification(responseText(resp))
}

// Stream generates an answer with GenerateContentStream and forwards each text
// part as one token. An iterator error ends the stream and is reported by the
// answer's Err.
func (l *VertexLLM) Stream(ctx context.Context, prompt string) (models.Answer, error) {
	iter := l.model.GenerateContentStream(ctx, genai.Text(prompt))

	var streamErr error
	tokens := make(chan string)
	go func() {
		defer close(tokens)
		for {
			resp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				l.logger.Printf("[Vertex] stream error: %v", err)
				streamErr = fmt.Errorf("vertex stream: %w", err)
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			select {
			case tokens <- text:
			case <-ctx.Done():
				return
			}
		}
	}()
	return models.TokenAnswer(tokens, func() error { return streamErr }), nil
}

// Close closes the Vertex AI client.
func (l *VertexLLM) Close() error {
	return l.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
