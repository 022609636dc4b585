package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

func (db *Database) RecordStaticSync(ctx context.Context, sync cdn.StaticSync) error {
	if err := db.ensureReady(); err != nil {
		return err
	}
	if strings.TrimSpace(sync.Version) == "" {
		return fmt.Errorf("version is required")
	}
	if sync.FetchedAt.IsZero() {
		sync.FetchedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO static_sync (version, locale, champions, items, summoner_spells, runes, maps, profile_icons, fetched_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (version, locale) DO UPDATE
	SET champions = excluded.champions,
		items = excluded.items,
		summoner_spells = excluded.summoner_spells,
		runes = excluded.runes,
		maps = excluded.maps,
		profile_icons = excluded.profile_icons,
		fetched_at = excluded.fetched_at`
	if _, err := db.pool.Exec(ctx, query,
		sync.Version, sync.Locale, sync.Champions, sync.Items, sync.SummonerSpells,
		sync.Runes, sync.Maps, sync.ProfileIcons, sync.FetchedAt,
	); err != nil {
		return fmt.Errorf("upsert static sync %q: %w", sync.Version, err)
	}
	return nil
}

func (db *Database) LatestStaticSync(ctx context.Context) (cdn.StaticSync, bool, error) {
	if err := db.ensureReady(); err != nil {
		return cdn.StaticSync{}, false, err
	}
	query := `
	SELECT version, locale, champions, items, summoner_spells, runes, maps, profile_icons, fetched_at
	FROM static_sync
	ORDER BY fetched_at DESC
	LIMIT 1`
	var s cdn.StaticSync
	err := db.pool.QueryRow(ctx, query).Scan(
		&s.Version, &s.Locale, &s.Champions, &s.Items, &s.SummonerSpells,
		&s.Runes, &s.Maps, &s.ProfileIcons, &s.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cdn.StaticSync{}, false, nil
		}
		return cdn.StaticSync{}, false, fmt.Errorf("query latest static sync: %w", err)
	}
	s.FetchedAt = s.FetchedAt.UTC()
	return s, true, nil
}
