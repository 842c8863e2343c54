package service

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/chatda/chatda-api/internal/models"
)

// classification is the structured output asked of the classifier.
type classification struct {
	Type string `json:"type" jsonschema:"title=type,description=Response shape for the user's message.,enum=info,enum=compare,enum=recommend,enum=ranking,enum=general,enum=search,enum=dictionary"`
}

const classifyInstruction = `You route messages for a refrigerator shopping assistant.
Pick exactly one response type for the user's message:
- "info": questions about one specific product's specs or features
- "compare": comparing two or more products
- "recommend": asking which product to buy for their needs
- "ranking": best-sellers, top rated, cheapest and similar rankings
- "search": looking for products matching conditions
- "dictionary": what an appliance term or feature means
- "general": greetings and anything else
Reply with JSON: {"type": "<one of the above>"}`

// parseClassification extracts the type from a classifier reply. It tolerates
// code fences around the JSON.
func parseClassification(reply string) (models.ResponseType, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var c classification
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &c); err != nil {
		return "", fmt.Errorf("parse classification %q: %w", reply, err)
	}
	return models.ParseResponseType(c.Type), nil
}

var answerGuides = map[models.ResponseType]string{
	models.TypeInfo:       "Describe the first product's key specs and strengths.",
	models.TypeCompare:    "Compare the products point by point and say who each one suits.",
	models.TypeRecommend:  "Recommend the products that best fit the request and explain why.",
	models.TypeRanking:    "Present the products as a ranked list with a one-line reason each.",
	models.TypeGeneral:    "Answer conversationally. Mention products only if they help.",
	models.TypeDictionary: "Explain the term plainly, with an example from the products if one fits.",
}

// answerPrompt grounds the answer on the retrieved products.
func answerPrompt(typ models.ResponseType, userInput string, products []models.Product) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly refrigerator shopping assistant. Answer in the user's language.\n")
	if guide, ok := answerGuides[typ]; ok {
		sb.WriteString(guide)
		sb.WriteString("\n")
	}
	if len(products) > 0 {
		sb.WriteString("\nProducts:\n")
		for i, p := range products {
			fmt.Fprintf(&sb, "%d. %s (%s) category=%s price=%d benefit_price=%d rating=%.1f reviews=%d\n",
				i+1, p.Name, p.ModelNo, p.Category, p.Price, p.BenefitPrice, p.Rating, p.ReviewCount)
			for _, k := range slices.Sorted(maps.Keys(p.Spec)) {
				fmt.Fprintf(&sb, "   %s: %s\n", k, p.Spec[k])
			}
		}
	}
	fmt.Fprintf(&sb, "\nUser: %s\n", userInput)
	return sb.String()
}

func searchSummary(n int) string {
	if n == 0 {
		return "No products matched your search."
	}
	return fmt.Sprintf("Found %d products matching your search.", n)
}
