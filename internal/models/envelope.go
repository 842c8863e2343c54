package models

// Envelope is the client-facing payload for one turn. The set of implementations is
// closed: only the types in this file satisfy it.
type Envelope interface {
	ResponseType() ResponseType
	// WithContent returns a copy carrying the given content.
	WithContent(content string) Envelope
	envelope()
}

// ExceptionMessage is sent when the catalog has nothing for the utterance.
const ExceptionMessage = "Sorry, I couldn't find any products matching your request. Could you describe it a little differently?"

type base struct {
	Type    ResponseType `json:"type"`
	Content string       `json:"content"`
}

func (b base) ResponseType() ResponseType { return b.Type }

type InfoEnvelope struct {
	base
	ModelNo string `json:"modelNo"`
}

type CompareEnvelope struct {
	base
	ModelNoList []string `json:"modelNoList"`
}

type RecommendEnvelope struct {
	base
	ModelNoList []string `json:"modelNoList"`
}

type RankingEnvelope struct {
	base
	ModelNoList []string `json:"modelNoList"`
}

type GeneralEnvelope struct {
	base
}

type SearchEnvelope struct {
	base
	ModelNoList []string `json:"modelNoList"`
}

type DictionaryEnvelope struct {
	base
}

type ExceptionEnvelope struct {
	base
}

func NewInfoEnvelope(content, modelNo string) InfoEnvelope {
	return InfoEnvelope{base: base{TypeInfo, content}, ModelNo: modelNo}
}

func NewCompareEnvelope(content string, ids []string) CompareEnvelope {
	return CompareEnvelope{base: base{TypeCompare, content}, ModelNoList: nonNil(ids)}
}

func NewRecommendEnvelope(content string, ids []string) RecommendEnvelope {
	return RecommendEnvelope{base: base{TypeRecommend, content}, ModelNoList: nonNil(ids)}
}

func NewRankingEnvelope(content string, ids []string) RankingEnvelope {
	return RankingEnvelope{base: base{TypeRanking, content}, ModelNoList: nonNil(ids)}
}

func NewGeneralEnvelope(content string) GeneralEnvelope {
	return GeneralEnvelope{base: base{TypeGeneral, content}}
}

func NewSearchEnvelope(content string, ids []string) SearchEnvelope {
	return SearchEnvelope{base: base{TypeSearch, content}, ModelNoList: nonNil(ids)}
}

func NewDictionaryEnvelope(content string) DictionaryEnvelope {
	return DictionaryEnvelope{base: base{TypeDictionary, content}}
}

func NewExceptionEnvelope() ExceptionEnvelope {
	return ExceptionEnvelope{base: base{TypeError, ExceptionMessage}}
}

func (e InfoEnvelope) WithContent(c string) Envelope       { e.Content = c; return e }
func (e CompareEnvelope) WithContent(c string) Envelope    { e.Content = c; return e }
func (e RecommendEnvelope) WithContent(c string) Envelope  { e.Content = c; return e }
func (e RankingEnvelope) WithContent(c string) Envelope    { e.Content = c; return e }
func (e GeneralEnvelope) WithContent(c string) Envelope    { e.Content = c; return e }
func (e SearchEnvelope) WithContent(c string) Envelope     { e.Content = c; return e }
func (e DictionaryEnvelope) WithContent(c string) Envelope { e.Content = c; return e }
func (e ExceptionEnvelope) WithContent(c string) Envelope  { e.Content = c; return e }

func (InfoEnvelope) envelope()       {}
func (CompareEnvelope) envelope()    {}
func (RecommendEnvelope) envelope()  {}
func (RankingEnvelope) envelope()    {}
func (GeneralEnvelope) envelope()    {}
func (SearchEnvelope) envelope()     {}
func (DictionaryEnvelope) envelope() {}
func (ExceptionEnvelope) envelope()  {}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
