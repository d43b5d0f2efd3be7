package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// postgres codes for lock timeouts, deadlocks and serialization failures
var pgLockCodes = map[pq.ErrorCode]bool{
	"55P03": true,
	"40P01": true,
	"40001": true,
}

// isLockError checks if an error is a transient lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgLockCodes[pgErr.Code]
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// execWithLockRetry runs a single statement, retrying only on lock errors.
// Any other error stops the retries and is returned as is.
func execWithLockRetry(ctx context.Context, db *sqlx.DB, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	var opErr error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		r, err := db.ExecContext(ctx, db.Rebind(query), args...)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			opErr = err
			return nil
		}
		res, opErr = r, nil
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("retries exhausted: %w", err)
	}
	return res, opErr
}

// nullString maps empty strings to NULL
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps nil and zero times to NULL, valid times are stored in UTC
func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
