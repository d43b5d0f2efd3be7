package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/llm"
)

//go:generate moq -out mocks/backfill_store.go -pkg mocks -skip-ensure -fmt goimports . BackfillStore
//go:generate moq -out mocks/page_scraper.go -pkg mocks -skip-ensure -fmt goimports . PageScraper

// BackfillStore is the persistence used by backfill passes
type BackfillStore interface {
	ArticlesMissingSummary(ctx context.Context, limit int) ([]domain.Article, error)
	ArticlesMissingImage(ctx context.Context, since time.Time, sourceID int64, limit int) ([]domain.Article, error)
	UpdateEnrichment(ctx context.Context, id int64, e domain.Enrichment) error
	UpdateImage(ctx context.Context, id int64, imageURL string) error
}

// PageScraper finds an image on the article page, "" if none
type PageScraper interface {
	Scrape(ctx context.Context, pageURL string) string
}

// BackfillConfig holds backfill dependencies and settings
type BackfillConfig struct {
	Store    BackfillStore
	Enricher Enricher
	Scraper  PageScraper

	AILimit       int
	AIDelay       time.Duration
	ImageLimit    int
	ImageDays     int
	ImageDelay    time.Duration
	ImageSourceID int64
}

// Backfiller fills fields missed by the main ingestion path
type Backfiller struct {
	BackfillConfig
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBackfiller makes a backfiller with defaults for unset limits
func NewBackfiller(cfg BackfillConfig) *Backfiller {
	if cfg.AILimit <= 0 {
		cfg.AILimit = 25
	}
	if cfg.ImageLimit <= 0 {
		cfg.ImageLimit = 80
	}
	if cfg.ImageDays <= 0 {
		cfg.ImageDays = 14
	}
	return &Backfiller{BackfillConfig: cfg, now: time.Now, sleep: sleep}
}

// BackfillAI summarises articles without AI summary, newest first. Only complete results
// (both headline and summary) are stored.
func (b *Backfiller) BackfillAI(ctx context.Context) (domain.BackfillSummary, error) {
	var res domain.BackfillSummary
	if b.Enricher == nil {
		return res, fmt.Errorf("enrichment is not configured")
	}

	articles, err := b.Store.ArticlesMissingSummary(ctx, b.AILimit)
	if err != nil {
		return res, fmt.Errorf("load articles missing summary: %w", err)
	}
	res.Candidates = len(articles)
	lgr.Printf("[INFO] ai backfill, %d candidates", len(articles))

	for i, a := range articles {
		if i > 0 {
			if err := b.sleep(ctx, b.AIDelay); err != nil {
				return res, err
			}
		}

		e, err := b.Enricher.Summarize(ctx, llm.Request{Title: a.Title, URL: a.CanonicalURL})
		if err != nil {
			lgr.Printf("[WARN] ai backfill, article %d: %v", a.ID, err)
			res.Failed++
			continue
		}
		if !e.Complete() {
			lgr.Printf("[DEBUG] ai backfill, article %d: incomplete result skipped", a.ID)
			res.Failed++
			continue
		}
		if err := b.Store.UpdateEnrichment(ctx, a.ID, *e); err != nil {
			lgr.Printf("[WARN] ai backfill, article %d: %v", a.ID, err)
			res.Failed++
			continue
		}
		res.Updated++
	}

	lgr.Printf("[INFO] ai backfill done, updated %d of %d", res.Updated, res.Candidates)
	return res, ctx.Err()
}

// BackfillImages scrapes pages of recent articles without image
func (b *Backfiller) BackfillImages(ctx context.Context) (domain.BackfillSummary, error) {
	var res domain.BackfillSummary
	if b.Scraper == nil {
		return res, fmt.Errorf("image scraper is not configured")
	}

	since := b.now().Add(-time.Duration(b.ImageDays) * 24 * time.Hour)
	articles, err := b.Store.ArticlesMissingImage(ctx, since, b.ImageSourceID, b.ImageLimit)
	if err != nil {
		return res, fmt.Errorf("load articles missing image: %w", err)
	}
	res.Candidates = len(articles)
	lgr.Printf("[INFO] image backfill, %d candidates since %s", len(articles), since.Format(time.DateOnly))

	for i, a := range articles {
		if i > 0 {
			if err := b.sleep(ctx, b.ImageDelay); err != nil {
				return res, err
			}
		}

		img := b.Scraper.Scrape(ctx, a.CanonicalURL)
		if img == "" {
			res.Failed++
			continue
		}
		if err := b.Store.UpdateImage(ctx, a.ID, img); err != nil {
			lgr.Printf("[WARN] image backfill, article %d: %v", a.ID, err)
			res.Failed++
			continue
		}
		res.Updated++
	}

	lgr.Printf("[INFO] image backfill done, updated %d of %d", res.Updated, res.Candidates)
	return res, ctx.Err()
}

// sleep waits for d or until ctx is done, non-positive d only checks ctx
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
