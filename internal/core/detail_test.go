package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_TakesOneExtraLink(t *testing.T) {
	in := scored(sampleResults(), 0.9, 0.6, 0.1)
	fetcher := &MockFetcher{Pages: map[string]string{
		in[0].Link: "page one",
		in[1].Link: "page two",
		in[2].Link: "page three",
	}}
	d := NewDetailEnricher(fetcher)

	out, err := d.Enrich(context.Background(), in, 0.5, 1)
	require.NoError(t, err)

	require.Len(t, fetcher.Requested, 1)
	assert.Equal(t, []string{in[0].Link, in[1].Link}, fetcher.Requested[0])
	assert.Equal(t, "page one", out[0].ContentValue())
	assert.Equal(t, "page two", out[1].ContentValue())
	assert.Nil(t, out[2].Content)
}

func TestEnrich_BelowThresholdDoesNotCount(t *testing.T) {
	in := scored(sampleResults(), 0.9, 0.3, 0.8)
	fetcher := &MockFetcher{Pages: map[string]string{}}

	_, err := NewDetailEnricher(fetcher).Enrich(context.Background(), in, 0.5, 0)
	require.NoError(t, err)

	// one link already exceeds topK=0, so the walk stops at u2
	assert.Equal(t, []string{in[0].Link}, fetcher.Requested[0])

	fetcher = &MockFetcher{Pages: map[string]string{}}
	_, err = NewDetailEnricher(fetcher).Enrich(context.Background(), in, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{in[0].Link, in[2].Link}, fetcher.Requested[0])
}

func TestEnrich_SkipsUnscoredResults(t *testing.T) {
	in := scored(sampleResults(), 0.9)
	in[2] = in[2].WithScore(0.8)
	fetcher := &MockFetcher{Pages: map[string]string{
		in[0].Link: "one",
		in[1].Link: "two",
		in[2].Link: "three",
	}}

	out, err := NewDetailEnricher(fetcher).Enrich(context.Background(), in, 0.5, 6)
	require.NoError(t, err)

	assert.Equal(t, []string{in[0].Link, in[2].Link}, fetcher.Requested[0])
	assert.Nil(t, out[1].Content)
	assert.Equal(t, "three", out[2].ContentValue())
}

func TestEnrich_FailedFetchLeavesNoContent(t *testing.T) {
	in := scored(sampleResults(), 0.9, 0.8, 0.7)
	fetcher := &MockFetcher{Pages: map[string]string{in[1].Link: "only this"}}

	out, err := NewDetailEnricher(fetcher).Enrich(context.Background(), in, 0.5, 6)
	require.NoError(t, err)

	assert.Nil(t, out[0].Content)
	assert.Equal(t, "only this", out[1].ContentValue())
	assert.Nil(t, out[2].Content)
}

func TestEnrich_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewDetailEnricher(&MockFetcher{}).Enrich(ctx, sampleResults(), 0.5, 6)
	assert.ErrorIs(t, err, ErrUnscoredResult)

	fetcher := &MockFetcher{Err: errors.New("pool closed")}
	_, err = NewDetailEnricher(fetcher).Enrich(ctx, scored(sampleResults(), 0.9, 0.9, 0.9), 0.5, 6)
	assert.ErrorContains(t, err, "failed to fetch details: pool closed")

	_, err = NewDetailEnricher(nil).Enrich(ctx, scored(sampleResults(), 0.9), 0.5, 6)
	assert.ErrorIs(t, err, ErrNoFetcher)
}
