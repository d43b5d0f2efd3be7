package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsbeat/pkg/config"
	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/ingest"
	"github.com/umputun/newsbeat/pkg/repository"
)

// compile time checks the service satisfies ingestion interfaces
var (
	_ ingest.Store         = (*IngestService)(nil)
	_ ingest.BackfillStore = (*IngestService)(nil)
)

func setupService(t *testing.T) *IngestService {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return NewIngestService(repos)
}

func TestIngestService_SeedSources(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	seed := []config.SourceConfig{
		{Name: "BBC World", RSSURL: "https://feeds.bbci.co.uk/news/world/rss.xml", Category: "World"},
		{Name: "Guardian World", RSSURL: "https://www.theguardian.com/world/rss", Category: "World"},
		{Name: "Ars", RSSURL: "https://feeds.arstechnica.com/arstechnica/index"},
	}
	require.NoError(t, svc.SeedSources(ctx, seed))
	require.NoError(t, svc.SeedSources(ctx, seed), "seeding is idempotent")

	sources, err := svc.GetSources(ctx, domain.SourceFilter{})
	require.NoError(t, err)
	require.Len(t, sources, 3)
	require.NotNil(t, sources[0].CategoryID)
	require.NotNil(t, sources[1].CategoryID)
	assert.Equal(t, *sources[0].CategoryID, *sources[1].CategoryID)
	assert.Nil(t, sources[2].CategoryID)

	require.NoError(t, svc.SeedSources(ctx, []config.SourceConfig{{Name: "no feed", RSSURL: " "}}))
	sources, err = svc.GetSources(ctx, domain.SourceFilter{})
	require.NoError(t, err)
	assert.Len(t, sources, 3, "sources without feed url are skipped")
}

func TestIngestService_Articles(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedSources(ctx, []config.SourceConfig{{Name: "src", RSSURL: "https://example.com/rss"}}))
	sources, err := svc.GetSources(ctx, domain.SourceFilter{})
	require.NoError(t, err)
	require.Len(t, sources, 1)

	res, err := svc.UpsertArticle(ctx, &domain.Article{SourceID: sources[0].ID, Title: "t", CanonicalURL: "https://example.com/a"})
	require.NoError(t, err)
	assert.True(t, res.Inserted)

	missing, err := svc.ArticlesMissingSummary(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, missing, 1)
	require.NoError(t, svc.UpdateEnrichment(ctx, res.ID, domain.Enrichment{Headline: "h", Summary: "s"}))
	missing, err = svc.ArticlesMissingSummary(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, missing)

	noImage, err := svc.ArticlesMissingImage(ctx, time.Now().Add(-time.Hour), 0, 10)
	require.NoError(t, err)
	assert.Len(t, noImage, 1)
	require.NoError(t, svc.UpdateImage(ctx, res.ID, "https://example.com/a.jpg"))
	noImage, err = svc.ArticlesMissingImage(ctx, time.Now().Add(-time.Hour), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, noImage)

	deleted, err := svc.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
