// Package ingest runs ingestion batches: load sources of a shard, fetch their feeds, upsert articles
// on canonical url, enrich new articles, prune old rows and invalidate the read cache.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsbeat/pkg/content"
	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/feed"
	"github.com/umputun/newsbeat/pkg/llm"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/image_resolver.go -pkg mocks -skip-ensure -fmt goimports . ImageResolver
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/invalidator.go -pkg mocks -skip-ensure -fmt goimports . Invalidator

// Store is the persistence used by ingestion
type Store interface {
	GetSources(ctx context.Context, filter domain.SourceFilter) ([]domain.Source, error)
	UpsertArticle(ctx context.Context, article *domain.Article) (domain.UpsertResult, error)
	UpdateEnrichment(ctx context.Context, id int64, e domain.Enrichment) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Parser fetches and parses a feed
type Parser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// ImageResolver picks a representative image for an item, "" if none
type ImageResolver interface {
	Resolve(ctx context.Context, media domain.ItemMedia, link string) string
}

// Enricher generates AI headline and summary
type Enricher interface {
	Summarize(ctx context.Context, req llm.Request) (*domain.Enrichment, error)
}

// Extractor pulls article text from the article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Invalidator drops cached read responses
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// Config holds ingester dependencies and settings
type Config struct {
	Store       Store
	Parser      Parser
	Images      ImageResolver
	Enricher    Enricher    // optional, nil disables enrichment
	Extractor   Extractor   // optional, used when feed text is shorter than MinContentLength
	Invalidator Invalidator // optional

	Filter            domain.SourceFilter
	MaxItemsPerSource int // 0 means all items
	Workers           int // sources processed concurrently, 1 if not set
	Retention         time.Duration
	MinContentLength  int
}

// Ingester runs ingestion batches
type Ingester struct {
	Config
	now func() time.Time
}

// New makes an ingester
func New(cfg Config) *Ingester {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 20 * 24 * time.Hour
	}
	return &Ingester{Config: cfg, now: time.Now}
}

// Run executes one batch. Failure to load sources is the only batch-fatal error, all per-source
// and per-item failures are recorded in the summary. On context cancellation the partial summary
// is returned together with ctx.Err().
func (in *Ingester) Run(ctx context.Context) (domain.BatchSummary, error) {
	started := in.now()
	summary := domain.BatchSummary{StartedAt: started}

	sources, err := in.Store.GetSources(ctx, in.Filter)
	if err != nil {
		return summary, fmt.Errorf("load sources: %w", err)
	}
	summary.SourcesSelected = len(sources)
	lgr.Printf("[INFO] ingesting %d sources, %s", len(sources), shardInfo(in.Filter))

	for _, res := range in.processSources(ctx, sources) {
		summary.Add(res)
	}

	if err := ctx.Err(); err != nil {
		summary.Duration = in.now().Sub(started)
		return summary, err
	}

	if in.Filter.SweepsRetention() {
		in.sweep(ctx, &summary)
	}
	in.invalidate(ctx, &summary)

	summary.Duration = in.now().Sub(started)
	lgr.Printf("[INFO] batch completed in %v: sources %d/%d (failed %d), items upserted %d (inserted %d, updated %d), skipped %d, failed %d, enriched %d, retention deleted %d",
		summary.Duration, summary.SourcesProcessed, summary.SourcesSelected, summary.SourcesFailed,
		summary.Upserted(), summary.ItemsInserted, summary.ItemsUpdated, summary.ItemsSkipped, summary.ItemsFailed,
		summary.Enriched, summary.RetentionDeleted)
	return summary, nil
}

// processSources handles sources sequentially or with a bounded worker pool.
// Sources not started before cancellation are left out of the results.
func (in *Ingester) processSources(ctx context.Context, sources []domain.Source) []domain.SourceResult {
	results := make([]domain.SourceResult, len(sources))
	done := make([]bool, len(sources))

	if in.Workers == 1 {
		for i, src := range sources {
			if ctx.Err() != nil {
				break
			}
			results[i], done[i] = in.processSource(ctx, src), true
		}
	} else {
		var g errgroup.Group
		g.SetLimit(in.Workers)
		for i, src := range sources {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				results[i], done[i] = in.processSource(ctx, src), true
				return nil
			})
		}
		_ = g.Wait()
	}

	res := make([]domain.SourceResult, 0, len(sources))
	for i := range results {
		if done[i] {
			res = append(res, results[i])
		}
	}
	return res
}

// processSource fetches one feed and upserts its items
func (in *Ingester) processSource(ctx context.Context, src domain.Source) domain.SourceResult {
	res := domain.SourceResult{Source: src}
	lgr.Printf("[DEBUG] fetching %s (%d): %s", src.Name, src.ID, src.RSSURL)

	parsed, err := in.Parser.Parse(ctx, src.RSSURL)
	if err != nil {
		lgr.Printf("[WARN] skip source %s (%d): %v", src.Name, src.ID, err)
		res.Err = fmt.Errorf("fetch %s: %w", src.RSSURL, err)
		return res
	}

	items := parsed.Items
	if in.MaxItemsPerSource > 0 && len(items) > in.MaxItemsPerSource {
		items = items[:in.MaxItemsPerSource]
	}

	res.Items = make([]domain.ItemResult, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		res.Items = append(res.Items, in.processItem(ctx, src, item))
	}

	inserted := 0
	for _, r := range res.Items {
		if r.Status == domain.ItemInserted {
			inserted++
		}
	}
	lgr.Printf("[DEBUG] source %s: %d items, %d new", src.Name, len(res.Items), inserted)
	return res
}

// processItem upserts a single item and enriches it if it was inserted
func (in *Ingester) processItem(ctx context.Context, src domain.Source, item domain.ParsedItem) domain.ItemResult {
	link := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if link == "" || title == "" {
		return domain.ItemResult{Status: domain.ItemSkipped, Reason: "missing link or title"}
	}

	article := &domain.Article{
		SourceID:     src.ID,
		Title:        title,
		CanonicalURL: feed.Canonicalize(link),
		CreatedAt:    in.now(),
	}
	if !item.Published.IsZero() {
		published := item.Published
		article.PublishedAt = &published
	}
	if in.Images != nil {
		article.ImageURL = in.Images.Resolve(ctx, item.Media, link)
	}

	upsert, err := in.Store.UpsertArticle(ctx, article)
	if err != nil {
		lgr.Printf("[WARN] source %s: failed to upsert %s: %v", src.Name, article.CanonicalURL, err)
		return domain.ItemResult{Status: domain.ItemFailed, Reason: err.Error()}
	}

	res := domain.ItemResult{Status: domain.ItemUpdated, ArticleID: upsert.ID}
	if !upsert.Inserted {
		return res
	}
	res.Status = domain.ItemInserted

	if in.Enricher != nil {
		text := content.FirstText(item.Content, item.Description)
		res.EnrichErr = in.enrich(ctx, upsert.ID, article, text)
		res.Enriched = res.EnrichErr == nil
	}
	return res
}

// enrich summarises a newly inserted article and patches it by id
func (in *Ingester) enrich(ctx context.Context, id int64, a *domain.Article, text string) error {
	if in.Extractor != nil && len([]rune(text)) < in.MinContentLength {
		extracted, err := in.Extractor.Extract(ctx, a.CanonicalURL)
		if err != nil {
			lgr.Printf("[DEBUG] article %d: extraction failed, using feed text: %v", id, err)
		} else {
			text = extracted
		}
	}

	e, err := in.Enricher.Summarize(ctx, llm.Request{Title: a.Title, URL: a.CanonicalURL, Content: text})
	if err != nil {
		lgr.Printf("[WARN] article %d: enrichment failed: %v", id, err)
		return err
	}
	if err := in.Store.UpdateEnrichment(ctx, id, *e); err != nil {
		lgr.Printf("[WARN] article %d: failed to store enrichment: %v", id, err)
		return err
	}
	return nil
}

// sweep deletes articles older than retention window
func (in *Ingester) sweep(ctx context.Context, summary *domain.BatchSummary) {
	cutoff := in.now().Add(-in.Retention)
	deleted, err := in.Store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		lgr.Printf("[WARN] retention sweep failed: %v", err)
		return
	}
	summary.RetentionRan = true
	summary.RetentionDeleted = deleted
	lgr.Printf("[INFO] retention removed %d articles older than %s", deleted, cutoff.Format(time.RFC3339))
}

func (in *Ingester) invalidate(ctx context.Context, summary *domain.BatchSummary) {
	if in.Invalidator == nil {
		return
	}
	n, err := in.Invalidator.Invalidate(ctx)
	if err != nil {
		lgr.Printf("[WARN] cache invalidation failed: %v", err)
		return
	}
	summary.CacheInvalidated = n
}

func shardInfo(f domain.SourceFilter) string {
	if !f.Sharded() {
		return "no sharding"
	}
	return fmt.Sprintf("shard %d of %d", f.ShardIndex, f.ShardCount)
}
