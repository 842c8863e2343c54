package models

import (
	"context"
	"strings"
)

// ResponseType is the response-shape tag declared by the generation engine.
type ResponseType string

const (
	TypeInfo       ResponseType = "info"
	TypeCompare    ResponseType = "compare"
	TypeRecommend  ResponseType = "recommend"
	TypeRanking    ResponseType = "ranking"
	TypeGeneral    ResponseType = "general"
	TypeSearch     ResponseType = "search"
	TypeDictionary ResponseType = "dictionary"

	// TypeError tags the exception envelope. The engine never declares it.
	TypeError ResponseType = "error"
)

// ResponseTypes lists every type the engine may declare.
var ResponseTypes = []ResponseType{
	TypeInfo, TypeCompare, TypeRecommend, TypeRanking, TypeGeneral, TypeSearch, TypeDictionary,
}

// Valid reports whether t is one of ResponseTypes.
func (t ResponseType) Valid() bool {
	for _, known := range ResponseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// NeedsCandidates reports whether an answer of this type is about specific products.
// General chat and dictionary lookups are answerable without any.
func (t ResponseType) NeedsCandidates() bool {
	return t != TypeGeneral && t != TypeDictionary
}

// ParseResponseType normalises a label produced by a classifier. Unknown labels are
// returned as-is so the caller can reject them.
func ParseResponseType(s string) ResponseType {
	return ResponseType(strings.ToLower(strings.TrimSpace(s)))
}

// Answer is the primary content of a GenerationResult: either a complete text or a
// channel of pre-chunked tokens that is closed by the producer when it is done.
type Answer struct {
	text   string
	tokens <-chan string
	err    func() error
}

// TextAnswer wraps a complete answer.
func TextAnswer(s string) Answer { return Answer{text: s} }

// TokenAnswer wraps a token stream. err reports why the producer stopped and is
// only consulted once tokens is closed; nil means the stream cannot fail.
func TokenAnswer(tokens <-chan string, err func() error) Answer {
	return Answer{tokens: tokens, err: err}
}

// Streamed reports whether the answer is a token stream.
func (a Answer) Streamed() bool { return a.tokens != nil }

// Text returns the complete answer, or "" for a token stream.
func (a Answer) Text() string { return a.text }

// Tokens returns the token stream, or nil for a text answer.
func (a Answer) Tokens() <-chan string { return a.tokens }

// Err returns the failure that ended the token stream early, if any. Call it
// only after Tokens has been drained.
func (a Answer) Err() error {
	if a.err == nil {
		return nil
	}
	return a.err()
}

// Collect returns the whole answer, draining the token stream if there is one.
// A stream that ended with an error yields the partial text and that error.
func (a Answer) Collect(ctx context.Context) (string, error) {
	if a.tokens == nil {
		return a.text, nil
	}
	var sb strings.Builder
	for {
		select {
		case tok, ok := <-a.tokens:
			if !ok {
				return sb.String(), a.Err()
			}
			sb.WriteString(tok)
		case <-ctx.Done():
			return sb.String(), ctx.Err()
		}
	}
}

// GenerationResult is what the generation engine returns for one utterance.
//
// A nil Products slice means nothing matched in the catalog; an empty, non-nil slice
// means the answer simply does not reference any product.
type GenerationResult struct {
	Type        ResponseType
	Answer      Answer
	Products    []Product
	ModelNoList []string
}

// CandidateIDs returns the model numbers of the candidates, preferring ModelNoList.
func (r GenerationResult) CandidateIDs() []string {
	if len(r.ModelNoList) > 0 {
		return r.ModelNoList
	}
	ids := make([]string, 0, len(r.Products))
	for _, p := range r.Products {
		ids = append(ids, p.ModelNo)
	}
	return ids
}

// Truncate returns a copy with both candidate lists cut to at most n entries.
// A nil product list stays nil.
func (r GenerationResult) Truncate(n int) GenerationResult {
	if len(r.Products) > n {
		r.Products = r.Products[:n]
	}
	if len(r.ModelNoList) > n {
		r.ModelNoList = r.ModelNoList[:n]
	}
	return r
}
