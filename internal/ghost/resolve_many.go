package ghost

import (
	"context"
	"fmt"
	"time"

	"github.com/bingbr/League-API-datastore/internal/core"
	"github.com/bingbr/League-API-datastore/internal/history"
	"github.com/bingbr/League-API-datastore/internal/lazy"
	"github.com/bingbr/League-API-datastore/internal/query"
	"github.com/bingbr/League-API-datastore/internal/riot"
)

type manyResolver func(s *Store, ctx context.Context, q query.Normalized) (core.Many, error)

var manyResolvers = map[core.Kind]manyResolver{
	core.KindMatchHistory:      getMatchHistory,
	core.KindChampions:         getChampions,
	core.KindItems:             getItems,
	core.KindMaps:              getMaps,
	core.KindProfileIcons:      getProfileIcons,
	core.KindLocales:           getLocales,
	core.KindRunes:             getRunes,
	core.KindSummonerSpells:    getSummonerSpells,
	core.KindVersions:          getVersions,
	core.KindChampionMasteries: getChampionMasteries,
	core.KindLeagueEntries:     getLeagueEntries,
	core.KindFeaturedMatches:   getFeaturedMatches,
}

func metadataOf(q query.Normalized) lazy.Metadata {
	return lazy.Metadata{
		Region:   string(q.Region(keyRegion)),
		Platform: string(q.Platform(keyPlatform)),
		Version:  q.String(keyVersion),
		Locale:   q.String(keyLocale),
	}
}

func staticQueryOf(q query.Normalized) StaticQuery {
	return StaticQuery{
		Region:       q.Region(keyRegion),
		Version:      q.String(keyVersion),
		Locale:       q.String(keyLocale),
		IncludedData: q.Strings(keyIncludedData),
	}
}

// once builds a collection filled by a single upstream call.
func once[T any](kind core.Kind, meta lazy.Metadata, fetch func(ctx context.Context) ([]T, error)) core.Many {
	return core.NewCollection(kind, lazy.New(meta, func(ctx context.Context) ([]T, bool, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, true, fmt.Errorf("%s: %w", kind, err)
		}
		return items, true, nil
	}))
}

func getMatchHistory(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	region := q.Region(keyRegion)
	filter := history.Filter{
		AccountID: q.Int64(keyAccountID),
		Platform:  q.Platform(keyPlatform),
		Queues:    q.Ints(keyQueues),
		Seasons:   q.Ints(keySeasons),
		Champions: q.Ints(keyChampionIDs),
	}
	bounds := history.Bounds{
		BeginIndex: q.Int(keyBeginIndex),
		BeginTime:  time.UnixMilli(q.Int64(keyBeginTime)).UTC(),
	}
	if q.Has(keyEndIndex) {
		end := q.Int(keyEndIndex)
		bounds.EndIndex = &end
	}
	if q.Has(keyEndTime) {
		bounds.EndTime = time.UnixMilli(q.Int64(keyEndTime)).UTC()
	}

	fetcher, err := history.NewFetcher(s.pages, filter, bounds,
		history.WithLogger(s.logger),
		history.WithObserver(s.pageObs),
	)
	if err != nil {
		return nil, err
	}

	meta := metadataOf(q)
	meta.Filters = map[string]any{
		keyAccountID:   filter.AccountID,
		keyBeginIndex:  bounds.BeginIndex,
		keyBeginTime:   bounds.BeginTime,
		keyQueues:      filter.Queues,
		keySeasons:     filter.Seasons,
		keyChampionIDs: filter.Champions,
	}
	if bounds.EndIndex != nil {
		meta.Filters[keyEndIndex] = *bounds.EndIndex
	}
	if bounds.HasEndTime() {
		meta.Filters[keyEndTime] = bounds.EndTime
	}

	step := func(ctx context.Context) ([]core.Match, bool, error) {
		records, done, err := fetcher.Next(ctx)
		matches := make([]core.Match, len(records))
		for i, r := range records {
			matches[i] = core.MatchFromReference(r.Reference(), region)
		}
		return matches, done, err
	}
	return core.NewCollection(core.KindMatchHistory, lazy.New(meta, step)), nil
}

func getChampions(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	sq := staticQueryOf(q)
	meta := metadataOf(q)
	meta.Filters = map[string]any{keyIncludedData: sq.IncludedData, keyDataByID: q.Bool(keyDataByID)}
	return once(core.KindChampions, meta, func(ctx context.Context) ([]core.Champion, error) {
		list, err := s.pipeline.Champions(ctx, sq)
		if err != nil {
			return nil, err
		}
		return core.ChampionsFromData(list, core.Static{Region: sq.Region, Version: sq.Version, Locale: sq.Locale}), nil
	}), nil
}

func getItems(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	sq := staticQueryOf(q)
	meta := metadataOf(q)
	meta.Filters = map[string]any{keyIncludedData: sq.IncludedData}
	return once(core.KindItems, meta, func(ctx context.Context) ([]core.Item, error) {
		list, err := s.pipeline.Items(ctx, sq)
		if err != nil {
			return nil, err
		}
		return core.ItemsFromData(list, core.Static{Region: sq.Region, Version: sq.Version, Locale: sq.Locale}), nil
	}), nil
}

func getMaps(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	sq := staticQueryOf(q)
	return once(core.KindMaps, metadataOf(q), func(ctx context.Context) ([]core.Map, error) {
		list, err := s.pipeline.Maps(ctx, sq)
		if err != nil {
			return nil, err
		}
		return core.MapsFromData(list, core.Static{Region: sq.Region, Version: sq.Version, Locale: sq.Locale}), nil
	}), nil
}

func getProfileIcons(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	sq := staticQueryOf(q)
	return once(core.KindProfileIcons, metadataOf(q), func(ctx context.Context) ([]core.ProfileIcon, error) {
		list, err := s.pipeline.ProfileIcons(ctx, sq)
		if err != nil {
			return nil, err
		}
		return core.ProfileIconsFromData(list, core.Static{Region: sq.Region, Version: sq.Version, Locale: sq.Locale}), nil
	}), nil
}

func getRunes(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	sq := staticQueryOf(q)
	meta := metadataOf(q)
	meta.Filters = map[string]any{keyIncludedData: sq.IncludedData}
	return once(core.KindRunes, meta, func(ctx context.Context) ([]core.Rune, error) {
		trees, err := s.pipeline.Runes(ctx, sq)
		if err != nil {
			return nil, err
		}
		return core.RunesFromData(trees, core.Static{Region: sq.Region, Version: sq.Version, Locale: sq.Locale}), nil
	}), nil
}

func getSummonerSpells(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	sq := staticQueryOf(q)
	meta := metadataOf(q)
	meta.Filters = map[string]any{keyIncludedData: sq.IncludedData}
	return once(core.KindSummonerSpells, meta, func(ctx context.Context) ([]core.SummonerSpell, error) {
		list, err := s.pipeline.SummonerSpells(ctx, sq)
		if err != nil {
			return nil, err
		}
		return core.SummonerSpellsFromData(list, core.Static{Region: sq.Region, Version: sq.Version, Locale: sq.Locale}), nil
	}), nil
}

func getLocales(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	region := q.Region(keyRegion)
	return once(core.KindLocales, metadataOf(q), func(ctx context.Context) ([]string, error) {
		return s.pipeline.Languages(ctx, region)
	}), nil
}

func getVersions(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	region := q.Region(keyRegion)
	return once(core.KindVersions, metadataOf(q), func(ctx context.Context) ([]string, error) {
		return s.pipeline.Versions(ctx, region)
	}), nil
}

// getChampionMasteries lists the summoner's masteries followed by a level 0
// entry for every champion never played.
func getChampionMasteries(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	region := q.Region(keyRegion)
	platform := q.Platform(keyPlatform)
	summonerID := q.Int64(keySummonerID)
	meta := metadataOf(q)
	meta.Filters = map[string]any{keySummonerID: summonerID}

	return once(core.KindChampionMasteries, meta, func(ctx context.Context) ([]core.ChampionMastery, error) {
		champions, err := s.pipeline.Champions(ctx, StaticQuery{Region: region})
		if err != nil {
			return nil, err
		}
		wire, err := s.pipeline.ChampionMasteries(ctx, platform, summonerID)
		if err != nil {
			return nil, err
		}
		played := make([]core.ChampionMastery, len(wire))
		for i, m := range wire {
			played[i] = core.ChampionMasteryFromData(m, region)
		}
		ids := make([]int, 0, len(champions.Data))
		for _, c := range core.ChampionsFromData(champions, core.Static{Region: region}) {
			ids = append(ids, c.ID)
		}
		return core.CompleteMasteries(played, ids, summonerID, region), nil
	}), nil
}

func getLeagueEntries(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	region := q.Region(keyRegion)
	platform := q.Platform(keyPlatform)
	summonerID := q.Int64(keySummonerID)
	meta := metadataOf(q)
	meta.Filters = map[string]any{keySummonerID: summonerID}
	return once(core.KindLeagueEntries, meta, func(ctx context.Context) ([]core.LeagueEntry, error) {
		entries, err := s.pipeline.LeagueEntries(ctx, platform, summonerID)
		if err != nil {
			return nil, err
		}
		return core.LeagueEntriesFromData(entries, region), nil
	}), nil
}

func getFeaturedMatches(s *Store, _ context.Context, q query.Normalized) (core.Many, error) {
	region := q.Region(keyRegion)
	platform := q.Platform(keyPlatform)
	return once(core.KindFeaturedMatches, metadataOf(q), func(ctx context.Context) ([]core.CurrentMatch, error) {
		games, err := s.pipeline.FeaturedGames(ctx, platform)
		if err != nil {
			return nil, err
		}
		out := make([]core.CurrentMatch, 0, len(games.Games))
		for _, g := range games.Games {
			out = append(out, core.CurrentMatchFromData(g, platformRegion(g.PlatformID, region)))
		}
		return out, nil
	}), nil
}

func platformRegion(platformID string, fallback riot.Region) riot.Region {
	if region := riot.Platform(platformID).Region(); region != "" {
		return region
	}
	return fallback
}
