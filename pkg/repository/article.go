package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsbeat/pkg/domain"
)

var articleColumns = []string{"id", "source_id", "title", "canonical_url", "published_at", "created_at",
	"image_url", "ai_headline", "ai_summary"}

// ArticleRepository handles article database operations
type ArticleRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// articleRow is the articles table row
type articleRow struct {
	ID           int64          `db:"id"`
	SourceID     int64          `db:"source_id"`
	Title        string         `db:"title"`
	CanonicalURL string         `db:"canonical_url"`
	PublishedAt  sql.NullTime   `db:"published_at"`
	CreatedAt    time.Time      `db:"created_at"`
	ImageURL     sql.NullString `db:"image_url"`
	AIHeadline   sql.NullString `db:"ai_headline"`
	AISummary    sql.NullString `db:"ai_summary"`
}

func (r articleRow) toDomain() domain.Article {
	res := domain.Article{
		ID:           r.ID,
		SourceID:     r.SourceID,
		Title:        r.Title,
		CanonicalURL: r.CanonicalURL,
		CreatedAt:    r.CreatedAt,
		ImageURL:     r.ImageURL.String,
		AIHeadline:   r.AIHeadline.String,
		AISummary:    r.AISummary.String,
	}
	if r.PublishedAt.Valid {
		ts := r.PublishedAt.Time
		res.PublishedAt = &ts
	}
	return res
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB, builder sq.StatementBuilderType) *ArticleRepository {
	return &ArticleRepository{db: db, builder: builder}
}

// UpsertArticle inserts the article or, if the canonical url is already stored, updates its title
// and (only when a new one is given) its image. Inserted is true only for the first insertion, both
// statements run in one transaction so concurrent upserts of the same url report a single insert.
func (r *ArticleRepository) UpsertArticle(ctx context.Context, a *domain.Article) (domain.UpsertResult, error) {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	insert := `INSERT INTO articles (source_id, title, canonical_url, published_at, created_at, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (canonical_url) DO NOTHING
		RETURNING id`
	res := domain.UpsertResult{}
	err = tx.GetContext(ctx, &res.ID, tx.Rebind(insert), a.SourceID, a.Title, a.CanonicalURL,
		nullTime(a.PublishedAt), createdAt.UTC(), nullString(a.ImageURL))
	switch {
	case err == nil:
		res.Inserted = true
	case errors.Is(err, sql.ErrNoRows):
		update := `UPDATE articles SET title = ?, image_url = COALESCE(?, image_url)
			WHERE canonical_url = ?
			RETURNING id`
		if err := tx.GetContext(ctx, &res.ID, tx.Rebind(update), a.Title, nullString(a.ImageURL), a.CanonicalURL); err != nil {
			return domain.UpsertResult{}, fmt.Errorf("update article %s: %w", a.CanonicalURL, err)
		}
	default:
		return domain.UpsertResult{}, fmt.Errorf("insert article %s: %w", a.CanonicalURL, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.UpsertResult{}, fmt.Errorf("commit transaction: %w", err)
	}
	a.ID = res.ID
	return res, nil
}

// GetArticle retrieves an article by id
func (r *ArticleRepository) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	query, args, err := r.builder.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}
	var row articleRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	res := row.toDomain()
	return &res, nil
}

// UpdateEnrichment stores AI headline and summary by article id, blank fields are stored as NULL
func (r *ArticleRepository) UpdateEnrichment(ctx context.Context, id int64, e domain.Enrichment) error {
	query := `UPDATE articles SET ai_headline = ?, ai_summary = ? WHERE id = ?`
	if _, err := execWithLockRetry(ctx, r.db, query, nullString(e.Headline), nullString(e.Summary), id); err != nil {
		return fmt.Errorf("update enrichment for %d: %w", id, err)
	}
	return nil
}

// UpdateImage sets the image url of an article
func (r *ArticleRepository) UpdateImage(ctx context.Context, id int64, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil
	}
	query := `UPDATE articles SET image_url = ? WHERE id = ?`
	if _, err := execWithLockRetry(ctx, r.db, query, imageURL, id); err != nil {
		return fmt.Errorf("update image for %d: %w", id, err)
	}
	return nil
}

// DeleteOlderThan removes articles whose publish time (or creation time if unknown) is before cutoff
func (r *ArticleRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM articles WHERE COALESCE(published_at, created_at) < ?`
	res, err := execWithLockRetry(ctx, r.db, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete articles older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get deleted count: %w", err)
	}
	return n, nil
}

// ArticlesMissingSummary returns up to limit articles without AI summary, newest first
func (r *ArticleRepository) ArticlesMissingSummary(ctx context.Context, limit int) ([]domain.Article, error) {
	qb := r.builder.Select(articleColumns...).
		From("articles").
		Where(sq.Or{sq.Eq{"ai_summary": nil}, sq.Eq{"ai_summary": ""}}).
		OrderBy("COALESCE(published_at, created_at) DESC", "id DESC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	return r.selectArticles(ctx, qb, "articles missing summary")
}

// ArticlesMissingImage returns up to limit articles without image, not older than since, newest first.
// A non-zero sourceID restricts the selection to that source.
func (r *ArticleRepository) ArticlesMissingImage(ctx context.Context, since time.Time, sourceID int64, limit int) ([]domain.Article, error) {
	qb := r.builder.Select(articleColumns...).
		From("articles").
		Where(sq.Or{sq.Eq{"image_url": nil}, sq.Eq{"image_url": ""}}).
		Where(sq.Expr("COALESCE(published_at, created_at) >= ?", since.UTC())).
		OrderBy("COALESCE(published_at, created_at) DESC", "id DESC")
	if sourceID > 0 {
		qb = qb.Where(sq.Eq{"source_id": sourceID})
	}
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	return r.selectArticles(ctx, qb, "articles missing image")
}

// CountArticles returns the number of stored articles
func (r *ArticleRepository) CountArticles(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

func (r *ArticleRepository) selectArticles(ctx context.Context, qb sq.SelectBuilder, what string) ([]domain.Article, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", what, err)
	}
	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get %s: %w", what, err)
	}
	res := make([]domain.Article, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}
