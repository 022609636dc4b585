// Package datasource implements the ghost pipeline over the Riot API and Data
// Dragon, plus cache-backed match history sources.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bingbr/League-API-datastore/internal/ghost"
	"github.com/bingbr/League-API-datastore/internal/history"
	"github.com/bingbr/League-API-datastore/internal/riot"
	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

// Riot reads live data from the Riot API and static data from Data Dragon.
type Riot struct {
	api    *riot.Client
	static *cdn.Client
	realms *cdn.Realms
}

var _ ghost.Pipeline = (*Riot)(nil)

func NewRiot(api *riot.Client, static *cdn.Client, realms *cdn.Realms) (*Riot, error) {
	if api == nil {
		return nil, errors.New("datasource: riot client is required")
	}
	if static == nil {
		static = cdn.NewClient()
	}
	if realms == nil {
		realms = cdn.NewRealms(static, 0)
	}
	return &Riot{api: api, static: static, realms: realms}, nil
}

// pageSize is the number of references to ask for: the remaining quota capped
// at the widest page the endpoint serves.
func pageSize(maxCount float64, limit int) int {
	if maxCount <= 0 || maxCount >= float64(limit) {
		return limit
	}
	return int(math.Ceil(maxCount))
}

// FetchMatchPage reads one matchlist page. Pages are index based; the endpoint
// reports no end time.
func (r *Riot) FetchMatchPage(ctx context.Context, req history.PageRequest) (history.Page, error) {
	params := riot.MatchListParams{
		BeginIndex: req.BeginIndex,
		EndIndex:   req.BeginIndex + pageSize(req.MaxCount, riot.MaxMatchListPage),
		Queues:     req.Queues,
		Seasons:    req.Seasons,
		Champions:  req.Champions,
	}
	if ms := req.BeginTime.UnixMilli(); !req.BeginTime.IsZero() && ms > 0 {
		params.BeginTime = ms
	}
	if !req.EndTime.IsZero() {
		params.EndTime = req.EndTime.UnixMilli()
	}

	list, err := r.api.FetchMatchList(ctx, req.Platform, req.AccountID, params)
	if err != nil {
		return history.Page{}, err
	}
	page := history.Page{
		Records:    make([]history.Record, len(list.Matches)),
		HasIndex:   true,
		StartIndex: list.StartIndex,
		EndIndex:   list.EndIndex,
	}
	for i, ref := range list.Matches {
		page.Records[i] = history.RecordFromReference(ref)
	}
	return page, nil
}

// release resolves an empty version or locale to the region's current one.
func (r *Riot) release(ctx context.Context, q ghost.StaticQuery) (ver, loc string, err error) {
	ver, loc = q.Version, q.Locale
	if ver == "" {
		if ver, err = r.realms.LatestVersion(ctx, string(q.Region)); err != nil {
			return "", "", fmt.Errorf("resolve version: %w", err)
		}
	}
	if loc == "" {
		if loc, err = r.realms.DefaultLocale(ctx, string(q.Region)); err != nil {
			return "", "", fmt.Errorf("resolve locale: %w", err)
		}
	}
	return ver, loc, nil
}

// withRelease runs fetch against the resolved release of q.
func withRelease[T any](ctx context.Context, r *Riot, q ghost.StaticQuery, fetch func(ctx context.Context, ver, loc string) (T, error)) (T, error) {
	ver, loc, err := r.release(ctx, q)
	if err != nil {
		var zero T
		return zero, err
	}
	return fetch(ctx, ver, loc)
}

func (r *Riot) Champions(ctx context.Context, q ghost.StaticQuery) (cdn.ChampionList, error) {
	return withRelease(ctx, r, q, r.static.FetchChampions)
}

func (r *Riot) Items(ctx context.Context, q ghost.StaticQuery) (cdn.ItemList, error) {
	return withRelease(ctx, r, q, r.static.FetchItems)
}

func (r *Riot) Maps(ctx context.Context, q ghost.StaticQuery) (cdn.MapList, error) {
	return withRelease(ctx, r, q, r.static.FetchMaps)
}

func (r *Riot) ProfileIcons(ctx context.Context, q ghost.StaticQuery) (cdn.ProfileIconList, error) {
	return withRelease(ctx, r, q, r.static.FetchProfileIcons)
}

func (r *Riot) Runes(ctx context.Context, q ghost.StaticQuery) ([]cdn.RuneTree, error) {
	return withRelease(ctx, r, q, r.static.FetchRunes)
}

func (r *Riot) SummonerSpells(ctx context.Context, q ghost.StaticQuery) (cdn.SummonerSpellList, error) {
	return withRelease(ctx, r, q, r.static.FetchSummonerSpells)
}

func (r *Riot) Languages(ctx context.Context, _ riot.Region) ([]string, error) {
	return r.static.FetchLanguages(ctx)
}

func (r *Riot) Versions(ctx context.Context, _ riot.Region) ([]string, error) {
	return r.static.FetchVersions(ctx)
}

func (r *Riot) ChampionMasteries(ctx context.Context, platform riot.Platform, summonerID int64) ([]riot.ChampionMastery, error) {
	return r.api.FetchChampionMasteries(ctx, platform, summonerID)
}

func (r *Riot) LeagueEntries(ctx context.Context, platform riot.Platform, summonerID int64) ([]riot.LeagueEntry, error) {
	return r.api.FetchLeagueEntries(ctx, platform, summonerID)
}

func (r *Riot) FeaturedGames(ctx context.Context, platform riot.Platform) (riot.FeaturedGames, error) {
	return r.api.FetchFeaturedGames(ctx, platform)
}
