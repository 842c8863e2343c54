package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/chatda/chatda-api/internal/models"
)

//go:embed examples.yaml
var examplesYAML []byte

// ExampleTriggers are the literal contents that bypass the generation engine.
var ExampleTriggers = []string{"info", "compare", "recommend", "naturalSearch"}

type exampleProduct struct {
	ModelNo      string  `yaml:"model_no"`
	Name         string  `yaml:"name"`
	Category     string  `yaml:"category"`
	Price        int64   `yaml:"price"`
	BenefitPrice int64   `yaml:"benefit_price"`
	Rating       float64 `yaml:"rating"`
	ReviewCount  int     `yaml:"review_count"`
}

type exampleTurn struct {
	Type     models.ResponseType `yaml:"type"`
	Content  string              `yaml:"content"`
	Products []exampleProduct    `yaml:"products"`
}

// Examples holds the canned generation results keyed by trigger content.
type Examples struct {
	byTrigger map[string]models.GenerationResult
}

// LoadExamples parses the embedded example data.
func LoadExamples() (*Examples, error) {
	return parseExamples(examplesYAML)
}

func parseExamples(data []byte) (*Examples, error) {
	var raw map[string]exampleTurn
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse examples: %w", err)
	}

	ex := &Examples{byTrigger: make(map[string]models.GenerationResult, len(raw))}
	for _, trigger := range ExampleTriggers {
		turn, ok := raw[trigger]
		if !ok {
			return nil, fmt.Errorf("examples: missing trigger %q", trigger)
		}
		if !turn.Type.Valid() {
			return nil, fmt.Errorf("examples: trigger %q has unknown type %q", trigger, turn.Type)
		}
		products := make([]models.Product, len(turn.Products))
		ids := make([]string, len(turn.Products))
		for i, p := range turn.Products {
			products[i] = models.Product{
				ModelNo:      p.ModelNo,
				Name:         p.Name,
				Category:     p.Category,
				Price:        p.Price,
				BenefitPrice: p.BenefitPrice,
				Rating:       p.Rating,
				ReviewCount:  p.ReviewCount,
			}
			ids[i] = p.ModelNo
		}
		ex.byTrigger[trigger] = models.GenerationResult{
			Type:        turn.Type,
			Answer:      models.TextAnswer(turn.Content),
			Products:    products,
			ModelNoList: ids,
		}
	}
	return ex, nil
}

// Lookup returns the canned result for content if it is a trigger.
func (e *Examples) Lookup(content string) (models.GenerationResult, bool) {
	if e == nil {
		return models.GenerationResult{}, false
	}
	r, ok := e.byTrigger[content]
	return r, ok
}
