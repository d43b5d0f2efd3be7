package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsbeat/pkg/domain"
)

// SourceRepository handles source and category database operations
type SourceRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// sourceRow is the sources table row
type sourceRow struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	RSSURL     sql.NullString `db:"rss_url"`
	CategoryID sql.NullInt64  `db:"category_id"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r sourceRow) toDomain() domain.Source {
	res := domain.Source{ID: r.ID, Name: r.Name, RSSURL: r.RSSURL.String, CreatedAt: r.CreatedAt}
	if r.CategoryID.Valid {
		id := r.CategoryID.Int64
		res.CategoryID = &id
	}
	return res
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB, builder sq.StatementBuilderType) *SourceRepository {
	return &SourceRepository{db: db, builder: builder}
}

// GetSources returns sources with a non-empty feed url, ordered by id.
// Sharded filters keep only sources with id % count = index.
func (r *SourceRepository) GetSources(ctx context.Context, filter domain.SourceFilter) ([]domain.Source, error) {
	qb := r.builder.Select("id", "name", "rss_url", "category_id", "created_at").
		From("sources").
		Where(sq.NotEq{"rss_url": nil}).
		Where(sq.NotEq{"rss_url": ""}).
		OrderBy("id")
	if filter.Sharded() {
		qb = qb.Where(sq.Expr("id % ? = ?", filter.ShardCount, filter.ShardIndex))
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sources query: %w", err)
	}

	var rows []sourceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	res := make([]domain.Source, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

// UpsertCategory returns the id of the category with the given name, creating it if needed
func (r *SourceRepository) UpsertCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty category name")
	}
	query := `INSERT INTO categories (name) VALUES (?)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, r.db.Rebind(query), name); err != nil {
		return 0, fmt.Errorf("upsert category %q: %w", name, err)
	}
	return id, nil
}

// UpsertSource creates a source or updates name and category of the one with the same feed url
func (r *SourceRepository) UpsertSource(ctx context.Context, src *domain.Source) error {
	rssURL := strings.TrimSpace(src.RSSURL)
	if rssURL == "" {
		return fmt.Errorf("source %q has no feed url", src.Name)
	}
	var categoryID sql.NullInt64
	if src.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *src.CategoryID, Valid: true}
	}

	query := `INSERT INTO sources (name, rss_url, category_id, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (rss_url) DO UPDATE SET name = excluded.name, category_id = excluded.category_id
		RETURNING id`
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind(query), src.Name, rssURL, categoryID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert source %q: %w", src.Name, err)
	}
	src.ID = id
	return nil
}

// CreateSource inserts a source as is, feed url may be empty
func (r *SourceRepository) CreateSource(ctx context.Context, src *domain.Source) error {
	var categoryID sql.NullInt64
	if src.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *src.CategoryID, Valid: true}
	}
	query := `INSERT INTO sources (name, rss_url, category_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind(query), src.Name, nullString(src.RSSURL), categoryID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create source %q: %w", src.Name, err)
	}
	src.ID = id
	return nil
}
