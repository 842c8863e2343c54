package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseType(t *testing.T) {
	assert.Equal(t, TypeCompare, ParseResponseType("  Compare\n"))
	assert.True(t, ParseResponseType("SEARCH").Valid())
	assert.False(t, ParseResponseType("unknown-type").Valid())
	assert.False(t, TypeError.Valid())
}

func TestNeedsCandidates(t *testing.T) {
	assert.True(t, TypeInfo.NeedsCandidates())
	assert.True(t, TypeSearch.NeedsCandidates())
	assert.False(t, TypeGeneral.NeedsCandidates())
	assert.False(t, TypeDictionary.NeedsCandidates())
}

func TestAnswerCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		got, err := TextAnswer("hello").Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})

	t.Run("tokens", func(t *testing.T) {
		tokens := make(chan string, 2)
		tokens <- "tok1"
		tokens <- "tok2"
		close(tokens)

		a := TokenAnswer(tokens, nil)
		assert.True(t, a.Streamed())
		got, err := a.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok1tok2", got)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := TokenAnswer(make(chan string), nil).Collect(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("stream failed", func(t *testing.T) {
		tokens := make(chan string, 1)
		tokens <- "tok1"
		close(tokens)

		got, err := TokenAnswer(tokens, func() error { return assert.AnError }).Collect(ctx)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, "tok1", got)
	})
}

func TestCandidateIDs(t *testing.T) {
	products := []Product{{ModelNo: "A"}, {ModelNo: "B"}}

	assert.Equal(t, []string{"X"}, GenerationResult{Products: products, ModelNoList: []string{"X"}}.CandidateIDs())
	assert.Equal(t, []string{"A", "B"}, GenerationResult{Products: products}.CandidateIDs())
	assert.Empty(t, GenerationResult{}.CandidateIDs())
}

func TestTruncate(t *testing.T) {
	products := make([]Product, 15)
	ids := make([]string, 15)
	for i := range products {
		products[i].ModelNo = string(rune('a' + i))
		ids[i] = products[i].ModelNo
	}
	r := GenerationResult{Products: products, ModelNoList: ids}

	cut := r.Truncate(10)
	assert.Len(t, cut.Products, 10)
	assert.Len(t, cut.ModelNoList, 10)
	assert.Len(t, r.Products, 15, "receiver must be unchanged")

	assert.Nil(t, GenerationResult{}.Truncate(10).Products)
}
