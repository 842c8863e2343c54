package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatda/chatda-api/internal/models"
)

func TestRAGGeneratorStreamsGroundedAnswer(t *testing.T) {
	llm := &fakeLLM{typ: models.TypeCompare, tokens: []string{"tok1", "tok2"}}
	searcher := &fakeSearcher{products: productsN(3)}
	gen := NewRAGGenerator(llm, fakeEmbedder{}, searcher, 10, 50, discardLogger())

	result, err := gen.Generate(context.Background(), "compare these", false)
	require.NoError(t, err)

	assert.Equal(t, models.TypeCompare, result.Type)
	assert.Equal(t, 10, searcher.gotK)
	assert.Equal(t, []string{"MA", "MB", "MC"}, result.ModelNoList)
	assert.Contains(t, llm.gotPrompt, "compare these")
	assert.Contains(t, llm.gotPrompt, "(MB)")

	content, err := result.Answer.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok1tok2", content)
}

func TestRAGGeneratorNoProducts(t *testing.T) {
	t.Run("type needs candidates", func(t *testing.T) {
		gen := NewRAGGenerator(&fakeLLM{typ: models.TypeRecommend}, fakeEmbedder{}, &fakeSearcher{}, 10, 50, discardLogger())

		result, err := gen.Generate(context.Background(), "x", false)
		require.NoError(t, err)
		assert.Equal(t, models.TypeRecommend, result.Type)
		assert.Nil(t, result.Products)
	})

	t.Run("general chat", func(t *testing.T) {
		llm := &fakeLLM{typ: models.TypeGeneral, tokens: []string{"hi"}}
		gen := NewRAGGenerator(llm, fakeEmbedder{}, &fakeSearcher{}, 10, 50, discardLogger())

		result, err := gen.Generate(context.Background(), "hello", false)
		require.NoError(t, err)
		assert.NotNil(t, result.Products)
		assert.Empty(t, result.Products)
		assert.True(t, result.Answer.Streamed())
	})
}

func TestRAGGeneratorSearchMode(t *testing.T) {
	llm := &fakeLLM{classErr: assert.AnError}
	searcher := &fakeSearcher{products: productsN(15)}
	gen := NewRAGGenerator(llm, fakeEmbedder{}, searcher, 10, 50, discardLogger())

	result, err := gen.Generate(context.Background(), "quiet fridge", true)
	require.NoError(t, err, "search mode must not classify")

	assert.Equal(t, models.TypeSearch, result.Type)
	assert.Equal(t, 50, searcher.gotK)
	assert.Len(t, result.Products, 15)
	assert.False(t, result.Answer.Streamed())
	assert.Equal(t, "Found 15 products matching your search.", result.Answer.Text())
}

func TestRAGGeneratorClassifyError(t *testing.T) {
	gen := NewRAGGenerator(&fakeLLM{classErr: assert.AnError}, fakeEmbedder{}, &fakeSearcher{}, 10, 50, discardLogger())

	_, err := gen.Generate(context.Background(), "x", false)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRAGGeneratorPassesUnknownTypeThrough(t *testing.T) {
	llm := &fakeLLM{typ: "unknown-type"}
	gen := NewRAGGenerator(llm, fakeEmbedder{}, &fakeSearcher{products: productsN(1)}, 10, 50, discardLogger())

	result, err := gen.Generate(context.Background(), "x", false)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseType("unknown-type"), result.Type)
	assert.Equal(t, []string{"MA"}, result.ModelNoList)
	assert.False(t, llm.streamed, "no answer is generated for a type that will be rejected")
	assert.False(t, result.Answer.Streamed())
}

func TestRAGGeneratorUnknownTypeWithoutProducts(t *testing.T) {
	llm := &fakeLLM{typ: "unknown-type"}
	gen := NewRAGGenerator(llm, fakeEmbedder{}, &fakeSearcher{}, 10, 50, discardLogger())

	result, err := gen.Generate(context.Background(), "x", false)
	require.NoError(t, err)
	assert.Nil(t, result.Products)
	assert.False(t, llm.streamed)
}

func TestRAGGeneratorStreamFailureReachesCollect(t *testing.T) {
	llm := &fakeLLM{typ: models.TypeInfo, tokens: []string{"tok1"}, streamErr: assert.AnError}
	gen := NewRAGGenerator(llm, fakeEmbedder{}, &fakeSearcher{products: productsN(1)}, 10, 50, discardLogger())

	result, err := gen.Generate(context.Background(), "x", false)
	require.NoError(t, err)

	content, err := result.Answer.Collect(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "tok1", content)
}

func TestEchoGenerator(t *testing.T) {
	gen := NewEchoGenerator()

	result, err := gen.Generate(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, models.TypeGeneral, result.Type)
	assert.Equal(t, "You said: hello", result.Answer.Text())
	assert.NotNil(t, result.Products)

	result, err = gen.Generate(context.Background(), "hello", true)
	require.NoError(t, err)
	assert.Equal(t, models.TypeSearch, result.Type)
	assert.Empty(t, result.ModelNoList)
}
