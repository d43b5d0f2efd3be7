package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/ingest/mocks"
	"github.com/umputun/newsbeat/pkg/llm"
)

func TestBackfiller_BackfillAI(t *testing.T) {
	store := &mocks.BackfillStoreMock{
		ArticlesMissingSummaryFunc: func(ctx context.Context, limit int) ([]domain.Article, error) {
			return []domain.Article{
				{ID: 1, Title: "complete", CanonicalURL: "https://example.com/1"},
				{ID: 2, Title: "partial", CanonicalURL: "https://example.com/2"},
				{ID: 3, Title: "failing", CanonicalURL: "https://example.com/3"},
				{ID: 4, Title: "complete too", CanonicalURL: "https://example.com/4"},
			}, nil
		},
		UpdateEnrichmentFunc: func(ctx context.Context, id int64, e domain.Enrichment) error { return nil },
	}
	enricher := &mocks.EnricherMock{
		SummarizeFunc: func(ctx context.Context, req llm.Request) (*domain.Enrichment, error) {
			switch req.Title {
			case "partial":
				return &domain.Enrichment{Headline: "only headline"}, nil
			case "failing":
				return nil, llm.ErrMalformedResponse
			}
			return &domain.Enrichment{Headline: "h " + req.Title, Summary: "s"}, nil
		},
	}

	var waits []time.Duration
	b := NewBackfiller(BackfillConfig{Store: store, Enricher: enricher, AIDelay: 800 * time.Millisecond})
	b.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	res, err := b.BackfillAI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BackfillSummary{Candidates: 4, Updated: 2, Failed: 2}, res)

	require.Len(t, store.ArticlesMissingSummaryCalls(), 1)
	assert.Equal(t, 25, store.ArticlesMissingSummaryCalls()[0].Limit)

	updates := store.UpdateEnrichmentCalls()
	require.Len(t, updates, 2)
	assert.Equal(t, int64(1), updates[0].Id)
	assert.Equal(t, int64(4), updates[1].Id)
	assert.Equal(t, "h complete too", updates[1].E.Headline)

	assert.Equal(t, []time.Duration{800 * time.Millisecond, 800 * time.Millisecond, 800 * time.Millisecond}, waits,
		"delay between calls only")
	for _, c := range enricher.SummarizeCalls() {
		assert.Empty(t, c.Req.Content, "backfill summarises from title and url")
	}
}

func TestBackfiller_BackfillAIErrors(t *testing.T) {
	t.Run("no enricher", func(t *testing.T) {
		b := NewBackfiller(BackfillConfig{Store: &mocks.BackfillStoreMock{}})
		_, err := b.BackfillAI(context.Background())
		require.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &mocks.BackfillStoreMock{
			ArticlesMissingSummaryFunc: func(ctx context.Context, limit int) ([]domain.Article, error) {
				return nil, errors.New("db down")
			},
		}
		b := NewBackfiller(BackfillConfig{Store: store, Enricher: &mocks.EnricherMock{}})
		_, err := b.BackfillAI(context.Background())
		require.ErrorContains(t, err, "db down")
	})

	t.Run("canceled between calls", func(t *testing.T) {
		store := &mocks.BackfillStoreMock{
			ArticlesMissingSummaryFunc: func(ctx context.Context, limit int) ([]domain.Article, error) {
				return []domain.Article{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil
			},
			UpdateEnrichmentFunc: func(ctx context.Context, id int64, e domain.Enrichment) error { return nil },
		}
		ctx, cancel := context.WithCancel(context.Background())
		enricher := &mocks.EnricherMock{
			SummarizeFunc: func(ctx context.Context, req llm.Request) (*domain.Enrichment, error) {
				cancel()
				return &domain.Enrichment{Headline: "h", Summary: "s"}, nil
			},
		}
		b := NewBackfiller(BackfillConfig{Store: store, Enricher: enricher, AIDelay: time.Hour})
		res, err := b.BackfillAI(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, res.Updated)
		assert.Len(t, enricher.SummarizeCalls(), 1)
	})
}

func TestBackfiller_BackfillImages(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store := &mocks.BackfillStoreMock{
		ArticlesMissingImageFunc: func(ctx context.Context, since time.Time, sourceID int64, limit int) ([]domain.Article, error) {
			return []domain.Article{
				{ID: 10, CanonicalURL: "https://example.com/with-og"},
				{ID: 11, CanonicalURL: "https://example.com/nothing"},
				{ID: 12, CanonicalURL: "https://example.com/store-fails"},
			}, nil
		},
		UpdateImageFunc: func(ctx context.Context, id int64, imageURL string) error {
			if id == 12 {
				return errors.New("locked")
			}
			return nil
		},
	}
	scraper := &mocks.PageScraperMock{
		ScrapeFunc: func(ctx context.Context, pageURL string) string {
			if pageURL == "https://example.com/nothing" {
				return ""
			}
			return pageURL + ".jpg"
		},
	}

	var waits []time.Duration
	b := NewBackfiller(BackfillConfig{Store: store, Scraper: scraper, ImageDelay: 250 * time.Millisecond, ImageSourceID: 5})
	b.now = func() time.Time { return now }
	b.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	res, err := b.BackfillImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BackfillSummary{Candidates: 3, Updated: 1, Failed: 2}, res)

	calls := store.ArticlesMissingImageCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, now.Add(-14*24*time.Hour), calls[0].Since)
	assert.Equal(t, int64(5), calls[0].SourceID)
	assert.Equal(t, 80, calls[0].Limit)

	updates := store.UpdateImageCalls()
	require.Len(t, updates, 2)
	assert.Equal(t, "https://example.com/with-og.jpg", updates[0].ImageURL)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, waits)
}

func TestBackfiller_BackfillImagesNoScraper(t *testing.T) {
	b := NewBackfiller(BackfillConfig{Store: &mocks.BackfillStoreMock{}})
	_, err := b.BackfillImages(context.Background())
	require.Error(t, err)
}

func TestSleep(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, sleep(context.Background(), 0))
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
	assert.ErrorIs(t, sleep(canceled, 0), context.Canceled)
	assert.ErrorIs(t, sleep(canceled, time.Second), context.Canceled)
}
