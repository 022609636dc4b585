package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

// Summoner is identified by exactly one of ID, AccountID or Name.
type Summoner struct {
	Region    riot.Region
	ID        int64
	AccountID int64
	Name      string
}

func (Summoner) Kind() Kind { return KindSummoner }

const unplayedPointsUntilNextLevel = 1800

type ChampionMastery struct {
	Region     riot.Region
	SummonerID int64
	ChampionID int

	Level                int
	Points               int
	PointsSinceLastLevel int64
	PointsUntilNextLevel int64
	ChestGranted         bool
	TokensEarned         int
	LastPlayed           time.Time
	Loaded               bool
}

func (ChampionMastery) Kind() Kind { return KindChampionMastery }

func ChampionMasteryFromData(m riot.ChampionMastery, region riot.Region) ChampionMastery {
	var lastPlayed time.Time
	if m.LastPlayTime > 0 {
		lastPlayed = time.UnixMilli(m.LastPlayTime).UTC()
	}
	return ChampionMastery{
		Region:               region,
		SummonerID:           m.PlayerID,
		ChampionID:           m.ChampionID,
		Level:                m.ChampionLevel,
		Points:               m.ChampionPoints,
		PointsSinceLastLevel: m.ChampionPointsSinceLastLevel,
		PointsUntilNextLevel: m.ChampionPointsUntilNextLevel,
		ChestGranted:         m.ChestGranted,
		TokensEarned:         m.TokensEarned,
		LastPlayed:           lastPlayed,
		Loaded:               true,
	}
}

// UnplayedMastery is the mastery of a champion the summoner never played.
func UnplayedMastery(summonerID int64, championID int, region riot.Region) ChampionMastery {
	return ChampionMastery{
		Region:               region,
		SummonerID:           summonerID,
		ChampionID:           championID,
		PointsUntilNextLevel: unplayedPointsUntilNextLevel,
		Loaded:               true,
	}
}

// CompleteMasteries appends an unplayed mastery for every champion in
// championIDs missing from played, in ascending champion id order.
func CompleteMasteries(played []ChampionMastery, championIDs []int, summonerID int64, region riot.Region) []ChampionMastery {
	seen := make(map[int]struct{}, len(played))
	for _, m := range played {
		seen[m.ChampionID] = struct{}{}
	}
	ids := slices.Clone(championIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := slices.Clone(played)
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, UnplayedMastery(summonerID, id, region))
	}
	return out
}

type ChallengerLeague struct {
	Region riot.Region
	Queue  riot.Queue
}

func (ChallengerLeague) Kind() Kind { return KindChallengerLeague }

type MasterLeague struct {
	Region riot.Region
	Queue  riot.Queue
}

func (MasterLeague) Kind() Kind { return KindMasterLeague }

type League struct {
	Region riot.Region
	ID     string
}

func (League) Kind() Kind { return KindLeague }

// LeagueEntry is one ranked queue position of a summoner.
type LeagueEntry struct {
	Region       riot.Region
	LeagueID     string
	Queue        riot.Queue
	Tier         string
	Division     string
	LeaguePoints int
	Wins         int
	Losses       int
	HotStreak    bool
	Veteran      bool
	FreshBlood   bool
	Inactive     bool
}

func LeagueEntriesFromData(entries []riot.LeagueEntry, region riot.Region) []LeagueEntry {
	out := make([]LeagueEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeagueEntry{
			Region:       region,
			LeagueID:     e.LeagueID,
			Queue:        riot.Queue(e.QueueType),
			Tier:         e.Tier,
			Division:     e.Rank,
			LeaguePoints: e.LeaguePoints,
			Wins:         e.Wins,
			Losses:       e.Losses,
			HotStreak:    e.HotStreak,
			Veteran:      e.Veteran,
			FreshBlood:   e.FreshBlood,
			Inactive:     e.Inactive,
		})
	}
	slices.SortStableFunc(out, func(a, b LeagueEntry) int { return cmp.Compare(a.Queue, b.Queue) })
	return out
}

type VerificationString struct {
	Region   riot.Region
	Summoner Summoner
}

func (VerificationString) Kind() Kind { return KindVerificationString }

type ShardStatus struct {
	Region riot.Region
}

func (ShardStatus) Kind() Kind { return KindShardStatus }
