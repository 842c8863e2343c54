package service

import (
	"context"
	"fmt"

	"github.com/chatda/chatda-api/internal/models"
)

// echoGenerator is an offline Generator for local development and demos. It
// answers every utterance as general chat and never references products.
type echoGenerator struct{}

// NewEchoGenerator returns the offline Generator.
func NewEchoGenerator() Generator {
	return echoGenerator{}
}

func (echoGenerator) Generate(_ context.Context, userInput string, search bool) (models.GenerationResult, error) {
	if search {
		return models.GenerationResult{
			Type:        models.TypeSearch,
			Answer:      models.TextAnswer(searchSummary(0)),
			Products:    []models.Product{},
			ModelNoList: []string{},
		}, nil
	}
	return models.GenerationResult{
		Type:     models.TypeGeneral,
		Answer:   models.TextAnswer(fmt.Sprintf("You said: %s", userInput)),
		Products: []models.Product{},
	}, nil
}
