// Package sqlite is a single-file match reference cache for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
	"github.com/bingbr/League-API-datastore/internal/storage"
)

var ErrDbNotInitialized = errors.New("sqlite database not initialized")

const (
	driverName = "sqlite"
	dialect    = "sqlite3"
)

type Database struct {
	db *sqlx.DB
}

var _ storage.CacheDB = (*Database)(nil)

// Open creates the file and its parent directory when missing.
func Open(ctx context.Context, path string) (*Database, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// One writer; also keeps ":memory:" on a single database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *Database) ensureReady() error {
	if d == nil || d.db == nil {
		return ErrDbNotInitialized
	}
	return nil
}

func (d *Database) init(ctx context.Context) error {
	for _, statement := range []string{
		`PRAGMA journal_mode = WAL`,
		createMatchReferencesSQL,
		createMatchReferencesIndexSQL,
		createStaticSyncSQL,
	} {
		if _, err := d.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("init sqlite schema: %w", err)
		}
	}
	return nil
}

const createMatchReferencesSQL = `
CREATE TABLE IF NOT EXISTS match_references (
	account_id INTEGER NOT NULL,
	platform_id TEXT NOT NULL,
	game_id INTEGER NOT NULL,
	champion INTEGER NOT NULL,
	queue INTEGER NOT NULL,
	season INTEGER NOT NULL,
	created_ms INTEGER NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	lane TEXT NOT NULL DEFAULT '',
	fetched_ms INTEGER NOT NULL,
	PRIMARY KEY (account_id, platform_id, game_id)
)`

const createMatchReferencesIndexSQL = `
CREATE INDEX IF NOT EXISTS match_references_history_idx
ON match_references (account_id, platform_id, created_ms)`

const createStaticSyncSQL = `
CREATE TABLE IF NOT EXISTS static_sync (
	version TEXT NOT NULL,
	locale TEXT NOT NULL,
	champions INTEGER NOT NULL,
	items INTEGER NOT NULL,
	summoner_spells INTEGER NOT NULL,
	runes INTEGER NOT NULL,
	maps INTEGER NOT NULL,
	profile_icons INTEGER NOT NULL,
	fetched_ms INTEGER NOT NULL,
	PRIMARY KEY (version, locale)
)`

type matchReferenceRow struct {
	GameID     int64  `db:"game_id"`
	PlatformID string `db:"platform_id"`
	AccountID  int64  `db:"account_id"`
	Champion   int    `db:"champion"`
	Queue      int    `db:"queue"`
	Season     int    `db:"season"`
	CreatedMS  int64  `db:"created_ms"`
	Role       string `db:"role"`
	Lane       string `db:"lane"`
	FetchedMS  int64  `db:"fetched_ms"`
}

func rowFromReference(ref storage.MatchReference, fetchedAt time.Time) matchReferenceRow {
	return matchReferenceRow{
		GameID:     ref.GameID,
		PlatformID: storage.NormalizePlatform(ref.PlatformID),
		AccountID:  ref.AccountID,
		Champion:   ref.Champion,
		Queue:      ref.Queue,
		Season:     ref.Season,
		CreatedMS:  ref.Creation.UnixMilli(),
		Role:       ref.Role,
		Lane:       ref.Lane,
		FetchedMS:  fetchedAt.UnixMilli(),
	}
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

const upsertMatchReferenceSQL = `
INSERT INTO match_references (account_id, platform_id, game_id, champion, queue, season, created_ms, role, lane, fetched_ms)
VALUES (:account_id, :platform_id, :game_id, :champion, :queue, :season, :created_ms, :role, :lane, :fetched_ms)
ON CONFLICT (account_id, platform_id, game_id) DO UPDATE
SET champion = excluded.champion,
	queue = excluded.queue,
	season = excluded.season,
	created_ms = excluded.created_ms,
	role = excluded.role,
	lane = excluded.lane,
	fetched_ms = excluded.fetched_ms`

func (d *Database) UpsertMatchReferences(ctx context.Context, refs []storage.MatchReference) error {
	if err := d.ensureReady(); err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareNamedContext(ctx, upsertMatchReferenceSQL)
	if err != nil {
		return fmt.Errorf("prepare match reference upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	fetchedAt := time.Now().UTC()
	for _, ref := range refs {
		if ref.AccountID == 0 || ref.GameID == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rowFromReference(ref, fetchedAt)); err != nil {
			return fmt.Errorf("upsert match reference %d: %w", ref.GameID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (d *Database) ListMatchReferences(ctx context.Context, filter storage.MatchReferenceFilter) ([]storage.MatchReference, error) {
	if err := d.ensureReady(); err != nil {
		return nil, err
	}
	query, args, err := storage.SelectMatchReferences(dialect, filter)
	if err != nil {
		return nil, fmt.Errorf("build match reference query: %w", err)
	}
	var rows []matchReferenceRow
	if err := d.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query match references: %w", err)
	}
	out := make([]storage.MatchReference, len(rows))
	for i, row := range rows {
		out[i] = row.reference()
	}
	return out, nil
}

func (d *Database) KnownGameIDs(ctx context.Context, accountID int64, platform string) ([]int64, error) {
	if err := d.ensureReady(); err != nil {
		return nil, err
	}
	query, args, err := storage.SelectKnownGameIDs(dialect, accountID, platform)
	if err != nil {
		return nil, fmt.Errorf("build known game ids query: %w", err)
	}
	var ids []int64
	if err := d.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("query known game ids: %w", err)
	}
	return ids, nil
}

type staticSyncRow struct {
	Version        string `db:"version"`
	Locale         string `db:"locale"`
	Champions      int    `db:"champions"`
	Items          int    `db:"items"`
	SummonerSpells int    `db:"summoner_spells"`
	Runes          int    `db:"runes"`
	Maps           int    `db:"maps"`
	ProfileIcons   int    `db:"profile_icons"`
	FetchedMS      int64  `db:"fetched_ms"`
}

func (d *Database) RecordStaticSync(ctx context.Context, sync cdn.StaticSync) error {
	if err := d.ensureReady(); err != nil {
		return err
	}
	if strings.TrimSpace(sync.Version) == "" {
		return fmt.Errorf("version is required")
	}
	if sync.FetchedAt.IsZero() {
		sync.FetchedAt = time.Now().UTC()
	}
	row := staticSyncRow{
		Version:        sync.Version,
		Locale:         sync.Locale,
		Champions:      sync.Champions,
		Items:          sync.Items,
		SummonerSpells: sync.SummonerSpells,
		Runes:          sync.Runes,
		Maps:           sync.Maps,
		ProfileIcons:   sync.ProfileIcons,
		FetchedMS:      sync.FetchedAt.UnixMilli(),
	}
	query := `
	INSERT INTO static_sync (version, locale, champions, items, summoner_spells, runes, maps, profile_icons, fetched_ms)
	VALUES (:version, :locale, :champions, :items, :summoner_spells, :runes, :maps, :profile_icons, :fetched_ms)
	ON CONFLICT (version, locale) DO UPDATE
	SET champions = excluded.champions,
		items = excluded.items,
		summoner_spells = excluded.summoner_spells,
		runes = excluded.runes,
		maps = excluded.maps,
		profile_icons = excluded.profile_icons,
		fetched_ms = excluded.fetched_ms`
	if _, err := d.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert static sync %q: %w", sync.Version, err)
	}
	return nil
}

func (d *Database) LatestStaticSync(ctx context.Context) (cdn.StaticSync, bool, error) {
	if err := d.ensureReady(); err != nil {
		return cdn.StaticSync{}, false, err
	}
	var row staticSyncRow
	err := d.db.GetContext(ctx, &row, `
	SELECT version, locale, champions, items, summoner_spells, runes, maps, profile_icons, fetched_ms
	FROM static_sync
	ORDER BY fetched_ms DESC
	LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cdn.StaticSync{}, false, nil
		}
		return cdn.StaticSync{}, false, fmt.Errorf("query latest static sync: %w", err)
	}
	return cdn.StaticSync{
		Version:        row.Version,
		Locale:         row.Locale,
		Champions:      row.Champions,
		Items:          row.Items,
		SummonerSpells: row.SummonerSpells,
		Runes:          row.Runes,
		Maps:           row.Maps,
		ProfileIcons:   row.ProfileIcons,
		FetchedAt:      time.UnixMilli(row.FetchedMS).UTC(),
	}, true, nil
}
