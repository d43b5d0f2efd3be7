package repository

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema_sqlite.sql schema_postgres.sql
var schemaFS embed.FS

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories contains all repository instances
type Repositories struct {
	Source  *SourceRepository
	Article *ArticleRepository
	DB      *sqlx.DB
}

// NewRepositories opens the database, applies the schema and creates all repositories.
// postgres:// and postgresql:// DSNs use lib/pq, anything else is treated as a sqlite DSN.
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:newsbeat.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	driver, dsn := driverFor(cfg.DSN)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// remote databases may come up later than we do
	retrier := repeater.NewBackoff(5, 200*time.Millisecond, repeater.WithMaxDelay(5*time.Second))
	if err := retrier.Do(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if driver == driverSQLite {
		if err := applyPragmas(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if err := initSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	lgr.Printf("[DEBUG] database ready, driver %s", driver)

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == driverPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return &Repositories{
		Source:  NewSourceRepository(db, builder),
		Article: NewArticleRepository(db, builder),
		DB:      db,
	}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// driverFor picks the sql driver for dsn. Sqlite DSNs get _time_format=sqlite so timestamps
// are stored in a sortable text form and read back as time.Time.
func driverFor(dsn string) (driver, resDSN string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres, dsn
	}
	if strings.Contains(dsn, "_time_format=") {
		return driverSQLite, dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return driverSQLite, dsn + sep + "_time_format=sqlite"
}

func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	// enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	// optimize SQLite settings
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sqlx.DB, driver string) error {
	schema, err := schemaFS.ReadFile("schema_" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}
