package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ragsearch/internal/core/model"
)

func TestKeywordStore_Query(t *testing.T) {
	s := NewKeywordStore(NewChunker(1024, 0))
	ctx := context.Background()

	results := []model.SearchResult{
		{UUID: "u1", Title: "Banana bread", Snippet: "banana recipe with flour and sugar"},
		{UUID: "u2", Title: "iPhone iPhone", Snippet: "iphone iphone release"},
		{UUID: "u3", Title: "Phones", Snippet: "the iphone is one of many phones sold by many vendors across many countries every year"},
	}
	idx, err := s.Store(ctx, results)
	require.NoError(t, err)
	defer idx.Close()
	assert.Equal(t, 3, idx.Size())

	matches, err := s.Query(ctx, idx, "iphone", 0.0, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "u2", matches[0].UUID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "u3", matches[1].UUID)
	assert.Less(t, matches[1].Score, 1.0)

	matches, err = s.Query(ctx, idx, "iphone", 0.0, 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = s.Query(ctx, idx, "iphone", 0.0, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestKeywordStore_ClosedAndForeign(t *testing.T) {
	s := NewKeywordStore(NewChunker(1024, 0))
	ctx := context.Background()

	_, err := s.Query(ctx, otherIndex{}, "q", 0, 1)
	assert.ErrorIs(t, err, ErrForeignIndex)

	idx, err := s.Store(ctx, []model.SearchResult{{UUID: "u1", Title: "t", Snippet: "s"}})
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())

	_, err = s.Query(ctx, idx, "t", 0, 1)
	assert.ErrorIs(t, err, ErrIndexClosed)
}
