package ghost

import (
	"context"

	"github.com/bingbr/League-API-datastore/internal/core"
	"github.com/bingbr/League-API-datastore/internal/query"
)

type getResolver func(s *Store, ctx context.Context, q query.Normalized) (core.Entity, error)

var getResolvers = map[core.Kind]getResolver{
	core.KindChampion:           getChampion,
	core.KindRune:               getRune,
	core.KindItem:               getItem,
	core.KindMap:                getMap,
	core.KindSummonerSpell:      getSummonerSpell,
	core.KindRealms:             getRealms,
	core.KindProfileIcon:        getProfileIcon,
	core.KindLanguageStrings:    getLanguageStrings,
	core.KindSummoner:           getSummoner,
	core.KindChampionMastery:    getChampionMastery,
	core.KindMatch:              getMatch,
	core.KindTimeline:           getTimeline,
	core.KindCurrentMatch:       getCurrentMatch,
	core.KindShardStatus:        getShardStatus,
	core.KindChallengerLeague:   getChallengerLeague,
	core.KindMasterLeague:       getMasterLeague,
	core.KindLeague:             getLeague,
	core.KindVerificationString: getVerificationString,
}

func staticOf(q query.Normalized) core.Static {
	return core.Static{
		Region:  q.Region(keyRegion),
		Version: q.String(keyVersion),
		Locale:  q.String(keyLocale),
	}
}

func getChampion(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Champion{
		Static:       staticOf(q),
		ID:           q.Int(keyID),
		Name:         q.String(keyName),
		IncludedData: q.Strings(keyIncludedData),
	}, nil
}

func getRune(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Rune{
		Static:       staticOf(q),
		ID:           q.Int(keyID),
		Name:         q.String(keyName),
		IncludedData: q.Strings(keyIncludedData),
	}, nil
}

func getItem(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Item{
		Static:       staticOf(q),
		ID:           q.Int(keyID),
		Name:         q.String(keyName),
		IncludedData: q.Strings(keyIncludedData),
	}, nil
}

func getMap(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Map{Static: staticOf(q), ID: q.Int(keyID), Name: q.String(keyName)}, nil
}

func getSummonerSpell(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.SummonerSpell{
		Static:       staticOf(q),
		ID:           q.Int(keyID),
		Name:         q.String(keyName),
		IncludedData: q.Strings(keyIncludedData),
	}, nil
}

func getRealms(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Realms{Region: q.Region(keyRegion)}, nil
}

func getProfileIcon(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.ProfileIcon{Static: staticOf(q), ID: q.Int(keyID)}, nil
}

func getLanguageStrings(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.LanguageStrings{Static: staticOf(q)}, nil
}

func getSummoner(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Summoner{
		Region:    q.Region(keyRegion),
		ID:        q.Int64(keyID),
		AccountID: q.Int64(keyAccountID),
		Name:      q.String(keyName),
	}, nil
}

func getChampionMastery(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.ChampionMastery{
		Region:     q.Region(keyRegion),
		SummonerID: q.Int64(keySummonerID),
		ChampionID: q.Int(keyChampionID),
	}, nil
}

func getMatch(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Match{Region: q.Region(keyRegion), ID: q.Int64(keyID)}, nil
}

func getTimeline(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.Timeline{Region: q.Region(keyRegion), MatchID: q.Int64(keyID)}, nil
}

func getCurrentMatch(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.CurrentMatch{Region: q.Region(keyRegion), SummonerID: q.Int64(keySummonerID)}, nil
}

func getShardStatus(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.ShardStatus{Region: q.Region(keyRegion)}, nil
}

func getChallengerLeague(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.ChallengerLeague{Region: q.Region(keyRegion), Queue: q.Queue(keyQueue)}, nil
}

func getMasterLeague(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.MasterLeague{Region: q.Region(keyRegion), Queue: q.Queue(keyQueue)}, nil
}

func getLeague(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	return core.League{Region: q.Region(keyRegion), ID: q.String(keyID)}, nil
}

func getVerificationString(_ *Store, _ context.Context, q query.Normalized) (core.Entity, error) {
	region := q.Region(keyRegion)
	return core.VerificationString{
		Region:   region,
		Summoner: core.Summoner{Region: region, ID: q.Int64(keySummonerID)},
	}, nil
}
