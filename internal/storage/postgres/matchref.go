package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/bingbr/League-API-datastore/internal/storage"
)

const upsertMatchReferenceSQL = `
INSERT INTO match_references (account_id, platform_id, game_id, champion, queue, season, created_ms, role, lane, data, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (account_id, platform_id, game_id) DO UPDATE
SET champion = excluded.champion,
    queue = excluded.queue,
    season = excluded.season,
    created_ms = excluded.created_ms,
    role = excluded.role,
    lane = excluded.lane,
    data = excluded.data,
    fetched_at = excluded.fetched_at`

func queueUpsertMatchReferences(b *pgx.Batch, refs []storage.MatchReference, fetchedAt time.Time) error {
	for _, ref := range refs {
		if ref.AccountID == 0 || ref.GameID == 0 {
			continue
		}
		payload, err := jsoniter.ConfigFastest.Marshal(ref)
		if err != nil {
			return fmt.Errorf("marshal match reference %d: %w", ref.GameID, err)
		}
		b.Queue(upsertMatchReferenceSQL,
			ref.AccountID, storage.NormalizePlatform(ref.PlatformID), ref.GameID,
			ref.Champion, ref.Queue, ref.Season, ref.Creation.UnixMilli(),
			ref.Role, ref.Lane, payload, fetchedAt,
		)
	}
	return nil
}

func (db *Database) UpsertMatchReferences(ctx context.Context, refs []storage.MatchReference) error {
	if err := db.ensureReady(); err != nil {
		return err
	}
	b := &pgx.Batch{}
	if err := queueUpsertMatchReferences(b, refs, time.Now().UTC()); err != nil {
		return err
	}
	return db.sendBatch(ctx, "upsert match references", b)
}

type matchReferenceRow struct {
	GameID     int64
	PlatformID string
	AccountID  int64
	Champion   int
	Queue      int
	Season     int
	CreatedMS  int64
	Role       string
	Lane       string
}

func (r matchReferenceRow) reference() storage.MatchReference {
	return storage.MatchReference{
		GameID:     r.GameID,
		PlatformID: r.PlatformID,
		AccountID:  r.AccountID,
		Champion:   r.Champion,
		Queue:      r.Queue,
		Season:     r.Season,
		Creation:   time.UnixMilli(r.CreatedMS).UTC(),
		Role:       r.Role,
		Lane:       r.Lane,
	}
}

func (db *Database) ListMatchReferences(ctx context.Context, filter storage.MatchReferenceFilter) ([]storage.MatchReference, error) {
	if err := db.ensureReady(); err != nil {
		return nil, err
	}
	query, args, err := storage.SelectMatchReferences(dialect, filter)
	if err != nil {
		return nil, fmt.Errorf("build match reference query: %w", err)
	}
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query match references: %w", err)
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByPos[matchReferenceRow])
	if err != nil {
		return nil, fmt.Errorf("collect match reference rows: %w", err)
	}
	out := make([]storage.MatchReference, len(collected))
	for i, row := range collected {
		out[i] = row.reference()
	}
	return out, nil
}

func (db *Database) KnownGameIDs(ctx context.Context, accountID int64, platform string) ([]int64, error) {
	if err := db.ensureReady(); err != nil {
		return nil, err
	}
	query, args, err := storage.SelectKnownGameIDs(dialect, accountID, platform)
	if err != nil {
		return nil, fmt.Errorf("build known game ids query: %w", err)
	}
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query known game ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect known game ids: %w", err)
	}
	return ids, nil
}
