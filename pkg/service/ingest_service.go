package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsbeat/pkg/config"
	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/repository"
)

// IngestService provides unified access to repositories for ingestion and backfill
type IngestService struct {
	sourceRepo  *repository.SourceRepository
	articleRepo *repository.ArticleRepository
}

// NewIngestService creates a new ingest service
func NewIngestService(repos *repository.Repositories) *IngestService {
	return &IngestService{sourceRepo: repos.Source, articleRepo: repos.Article}
}

// Source methods

func (s *IngestService) GetSources(ctx context.Context, filter domain.SourceFilter) ([]domain.Source, error) {
	return s.sourceRepo.GetSources(ctx, filter)
}

// SeedSources upserts configured sources and their categories
func (s *IngestService) SeedSources(ctx context.Context, sources []config.SourceConfig) error {
	categories := map[string]int64{}
	seeded := 0
	for _, sc := range sources {
		if strings.TrimSpace(sc.RSSURL) == "" {
			lgr.Printf("[WARN] source %q has no feed url, not seeded", sc.Name)
			continue
		}
		src := domain.Source{Name: sc.Name, RSSURL: sc.RSSURL}
		if sc.Category != "" {
			id, ok := categories[sc.Category]
			if !ok {
				var err error
				if id, err = s.sourceRepo.UpsertCategory(ctx, sc.Category); err != nil {
					return fmt.Errorf("seed category for %s: %w", sc.Name, err)
				}
				categories[sc.Category] = id
			}
			src.CategoryID = &id
		}
		if err := s.sourceRepo.UpsertSource(ctx, &src); err != nil {
			return fmt.Errorf("seed source: %w", err)
		}
		seeded++
	}
	if seeded > 0 {
		lgr.Printf("[INFO] seeded %d sources, %d categories", seeded, len(categories))
	}
	return nil
}

// Article methods

func (s *IngestService) UpsertArticle(ctx context.Context, article *domain.Article) (domain.UpsertResult, error) {
	return s.articleRepo.UpsertArticle(ctx, article)
}

func (s *IngestService) UpdateEnrichment(ctx context.Context, id int64, e domain.Enrichment) error {
	return s.articleRepo.UpdateEnrichment(ctx, id, e)
}

func (s *IngestService) UpdateImage(ctx context.Context, id int64, imageURL string) error {
	return s.articleRepo.UpdateImage(ctx, id, imageURL)
}

func (s *IngestService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.articleRepo.DeleteOlderThan(ctx, cutoff)
}

// Backfill methods

func (s *IngestService) ArticlesMissingSummary(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.articleRepo.ArticlesMissingSummary(ctx, limit)
}

func (s *IngestService) ArticlesMissingImage(ctx context.Context, since time.Time, sourceID int64, limit int) ([]domain.Article, error) {
	return s.articleRepo.ArticlesMissingImage(ctx, since, sourceID, limit)
}
