package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"

	"github.com/bingbr/League-API-datastore/internal/storage/logs"
)

// Insert stores one mirrored log record.
func (db *Database) Insert(ctx context.Context, entry logs.LogEntry) error {
	if err := db.ensureReady(); err != nil {
		return err
	}
	attrs, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(orEmpty(entry.Attrs))
	if err != nil {
		return fmt.Errorf("marshal log attrs: %w", err)
	}
	loggedAt := entry.Time
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	stmt, args, err := goqu.Dialect(dialect).
		Insert("datastore_logs").
		Rows(goqu.Record{
			"logged_at": loggedAt.UTC(),
			"level":     entry.Level,
			"message":   entry.Message,
			"attrs":     attrs,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build log insert: %w", err)
	}
	if _, err := db.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func orEmpty(attrs map[string]any) map[string]any {
	if attrs == nil {
		return map[string]any{}
	}
	return attrs
}
