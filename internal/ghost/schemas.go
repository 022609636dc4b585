package ghost

import (
	"context"
	"errors"

	"github.com/bingbr/League-API-datastore/internal/core"
	"github.com/bingbr/League-API-datastore/internal/query"
)

const (
	keyPlatform     = query.KeyPlatform
	keyRegion       = query.KeyRegion
	keyID           = "id"
	keyName         = "name"
	keyVersion      = "version"
	keyLocale       = "locale"
	keyIncludedData = "includedData"
	keyDataByID     = "dataById"
	keyQueue        = "queue"
	keySummonerID   = "summoner.id"
	keyChampionID   = "champion.id"
	keyAccountID    = "account.id"
	keyBeginTime    = "beginTime"
	keyEndTime      = "endTime"
	keyBeginIndex   = "beginIndex"
	keyEndIndex     = "endIndex"
	keySeasons      = "seasons"
	keyChampionIDs  = "champion.ids"
	keyQueues       = "queues"
)

var allIncludedData = []string{"all"}

// define starts a schema whose requests may name a region instead of a
// platform. The normalized result always carries both.
func define(kind core.Kind) *query.Builder {
	return query.Define(kind.String()).Prepare(query.RegionToPlatform)
}

func build(b *query.Builder) query.Schema {
	return b.Finish(query.AttachRegion).Build()
}

func (s *Store) buildSchemas() map[core.Kind]query.Schema {
	latest := s.latestVersion
	locale := s.defaultLocale

	return map[core.Kind]query.Schema{
		core.KindVersions: build(define(core.KindVersions).
			Has(keyPlatform, query.Platform)),
		core.KindRealms: build(define(core.KindRealms).
			Has(keyPlatform, query.Platform)),
		core.KindLocales: build(define(core.KindLocales).
			Has(keyPlatform, query.Platform)),
		core.KindShardStatus: build(define(core.KindShardStatus).
			Has(keyPlatform, query.Platform)),
		core.KindFeaturedMatches: build(define(core.KindFeaturedMatches).
			Has(keyPlatform, query.Platform)),

		core.KindChampion: build(define(core.KindChampion).
			Has(keyPlatform, query.Platform).
			Has(keyID, query.Int).Or(keyName, query.String).
			CanHave(keyVersion, query.String).WithProvider(latest, query.String).
			CanHave(keyLocale, query.Locale).
			CanHave(keyIncludedData, query.StringSet)),
		core.KindChampions: build(define(core.KindChampions).
			Has(keyPlatform, query.Platform).
			CanHave(keyVersion, query.String).
			CanHave(keyLocale, query.Locale).WithProvider(locale, query.Locale).
			CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData).
			CanHave(keyDataByID, query.Bool).WithDefault(true)),

		core.KindRune:          build(staticEntity(core.KindRune, latest, locale).CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData)),
		core.KindItem:          build(staticEntity(core.KindItem, latest, locale).CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData)),
		core.KindSummonerSpell: build(staticEntity(core.KindSummonerSpell, latest, locale).CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData)),
		core.KindMap:           build(staticEntity(core.KindMap, latest, locale)),

		core.KindRunes:          build(staticList(core.KindRunes, locale).CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData)),
		core.KindItems:          build(staticList(core.KindItems, locale).CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData)),
		core.KindSummonerSpells: build(staticList(core.KindSummonerSpells, locale).CanHave(keyIncludedData, query.StringSet).WithDefault(allIncludedData)),
		core.KindMaps:           build(staticList(core.KindMaps, locale)),
		core.KindProfileIcons:   build(staticList(core.KindProfileIcons, locale)),

		core.KindLanguageStrings: build(staticList(core.KindLanguageStrings, locale)),

		core.KindProfileIcon: build(define(core.KindProfileIcon).
			Has(keyPlatform, query.Platform).
			Has(keyID, query.Int).
			CanHave(keyVersion, query.String).
			CanHave(keyLocale, query.Locale).WithProvider(locale, query.Locale)),

		core.KindSummoner: build(define(core.KindSummoner).
			Has(keyID, query.Int).Or(keyAccountID, query.Int).Or(keyName, query.String).
			Has(keyPlatform, query.Platform)),
		core.KindChampionMastery: build(define(core.KindChampionMastery).
			Has(keyPlatform, query.Platform).
			Has(keySummonerID, query.Int).
			Has(keyChampionID, query.Int)),
		core.KindChampionMasteries: build(define(core.KindChampionMasteries).
			Has(keyPlatform, query.Platform).
			Has(keySummonerID, query.Int)),
		core.KindLeagueEntries: build(define(core.KindLeagueEntries).
			Has(keySummonerID, query.Int).
			Has(keyPlatform, query.Platform)),
		core.KindVerificationString: build(define(core.KindVerificationString).
			Has(keyPlatform, query.Platform).
			Has(keySummonerID, query.Int)),
		core.KindCurrentMatch: build(define(core.KindCurrentMatch).
			Has(keyPlatform, query.Platform).
			Has(keySummonerID, query.Int)),

		core.KindLeague: build(define(core.KindLeague).
			Has(keyID, query.String).
			Has(keyPlatform, query.Platform)),
		core.KindChallengerLeague: build(define(core.KindChallengerLeague).
			Has(keyQueue, query.Queue).
			Has(keyPlatform, query.Platform)),
		core.KindMasterLeague: build(define(core.KindMasterLeague).
			Has(keyQueue, query.Queue).
			Has(keyPlatform, query.Platform)),

		core.KindMatch: build(define(core.KindMatch).
			Has(keyID, query.Int).
			Has(keyPlatform, query.Platform)),
		core.KindTimeline: build(define(core.KindTimeline).
			Has(keyID, query.Int).
			Has(keyPlatform, query.Platform)),
		core.KindMatchHistory: build(define(core.KindMatchHistory).
			Has(keyAccountID, query.Int).
			Has(keyPlatform, query.Platform).
			CanHave(keyBeginTime, query.Int).WithDefault(0).
			CanHave(keyEndTime, query.Int).
			CanHave(keyBeginIndex, query.Int).WithDefault(0).
			CanHave(keyEndIndex, query.Int).
			CanHave(keySeasons, query.IntSet).
			CanHave(keyChampionIDs, query.IntSet).
			CanHave(keyQueues, query.IntSet).
			Finish(checkHistoryWindow)),
	}
}

// staticEntity is the schema shape of a single static data entry.
func staticEntity(kind core.Kind, latest, locale query.Provider) *query.Builder {
	return define(kind).
		Has(keyID, query.Int).Or(keyName, query.String).
		Has(keyPlatform, query.Platform).
		CanHave(keyVersion, query.String).WithProvider(latest, query.String).
		CanHave(keyLocale, query.Locale).WithProvider(locale, query.Locale)
}

// staticList is the schema shape of a static data list. An absent version
// means the current one and is resolved by the pipeline.
func staticList(kind core.Kind, locale query.Provider) *query.Builder {
	return define(kind).
		Has(keyPlatform, query.Platform).
		CanHave(keyVersion, query.String).
		CanHave(keyLocale, query.Locale).WithProvider(locale, query.Locale)
}

func checkHistoryWindow(v query.Values) error {
	if v.Int64(keyBeginTime) < 0 {
		return query.Invalid(keyBeginTime, errors.New("must not be negative"))
	}
	if v.Has(keyEndTime) && v.Int64(keyEndTime) <= v.Int64(keyBeginTime) {
		return query.Invalid(keyEndTime, errors.New("must be after beginTime"))
	}
	if v.Int64(keyBeginIndex) < 0 {
		return query.Invalid(keyBeginIndex, errors.New("must not be negative"))
	}
	if v.Has(keyEndIndex) && v.Int64(keyEndIndex) < v.Int64(keyBeginIndex) {
		return query.Invalid(keyEndIndex, errors.New("must not be before beginIndex"))
	}
	return nil
}

func (s *Store) latestVersion(ctx context.Context, partial query.Values) (any, error) {
	if s.defaults == nil {
		return nil, ErrNoDefaults
	}
	return s.defaults.LatestVersion(ctx, string(partial.Platform(keyPlatform).Region()))
}

func (s *Store) defaultLocale(ctx context.Context, partial query.Values) (any, error) {
	if s.defaults == nil {
		return nil, ErrNoDefaults
	}
	return s.defaults.DefaultLocale(ctx, string(partial.Platform(keyPlatform).Region()))
}
