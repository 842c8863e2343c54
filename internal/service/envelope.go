package service

import (
	"errors"
	"fmt"

	"github.com/chatda/chatda-api/internal/models"
)

// ErrUnknownType is returned when the engine declares a type with no envelope.
var ErrUnknownType = errors.New("unknown response type")

// envelopeBuilder turns a (truncated) result into an envelope. Streamed answers
// start with empty content; the caller fills it in once collected.
type envelopeBuilder func(r models.GenerationResult) models.Envelope

// builders has one entry per member of models.ResponseTypes.
var builders = map[models.ResponseType]envelopeBuilder{
	models.TypeInfo: func(r models.GenerationResult) models.Envelope {
		var modelNo string
		if ids := r.CandidateIDs(); len(ids) > 0 {
			modelNo = ids[0]
		}
		return models.NewInfoEnvelope(r.Answer.Text(), modelNo)
	},
	models.TypeCompare: func(r models.GenerationResult) models.Envelope {
		return models.NewCompareEnvelope(r.Answer.Text(), r.CandidateIDs())
	},
	models.TypeRecommend: func(r models.GenerationResult) models.Envelope {
		return models.NewRecommendEnvelope(r.Answer.Text(), r.CandidateIDs())
	},
	models.TypeRanking: func(r models.GenerationResult) models.Envelope {
		return models.NewRankingEnvelope(r.Answer.Text(), r.CandidateIDs())
	},
	models.TypeGeneral: func(r models.GenerationResult) models.Envelope {
		return models.NewGeneralEnvelope(r.Answer.Text())
	},
	models.TypeSearch: func(r models.GenerationResult) models.Envelope {
		return models.NewSearchEnvelope(r.Answer.Text(), r.CandidateIDs())
	},
	models.TypeDictionary: func(r models.GenerationResult) models.Envelope {
		return models.NewDictionaryEnvelope(r.Answer.Text())
	},
}

// buildEnvelope selects the builder for r.Type after truncating the candidates
// to maxCandidates.
func buildEnvelope(r models.GenerationResult, maxCandidates int) (models.Envelope, error) {
	build, ok := builders[r.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, r.Type)
	}
	return build(r.Truncate(maxCandidates)), nil
}
