package core

import (
	"time"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

// Match is a game. Values built from a match history carry the reference
// fields; identity-only values carry just ID and Region.
type Match struct {
	Region riot.Region
	ID     int64

	Platform riot.Platform
	Champion int
	Queue    int
	Season   int
	Creation time.Time
	Role     string
	Lane     string
	Loaded   bool
}

func (Match) Kind() Kind { return KindMatch }

func MatchFromReference(ref riot.MatchReference, region riot.Region) Match {
	platform := riot.Platform(ref.PlatformID)
	if r := platform.Region(); r != "" {
		region = r
	}
	return Match{
		Region:   region,
		ID:       ref.GameID,
		Platform: platform,
		Champion: ref.Champion,
		Queue:    ref.Queue,
		Season:   ref.Season,
		Creation: time.UnixMilli(ref.Timestamp).UTC(),
		Role:     ref.Role,
		Lane:     ref.Lane,
		Loaded:   true,
	}
}

type Timeline struct {
	Region  riot.Region
	MatchID int64
}

func (Timeline) Kind() Kind { return KindTimeline }

// CurrentMatch is a game in progress. Featured games have no SummonerID.
type CurrentMatch struct {
	Region     riot.Region
	SummonerID int64

	GameID       int64
	Mode         string
	Type         string
	QueueID      int
	MapID        int
	Started      time.Time
	Length       time.Duration
	Participants []Participant
	Bans         []Ban
	Loaded       bool
}

func (CurrentMatch) Kind() Kind { return KindCurrentMatch }

type Participant struct {
	TeamID        int
	ChampionID    int
	SummonerName  string
	Spell1ID      int
	Spell2ID      int
	ProfileIconID int
	Bot           bool
}

type Ban struct {
	TeamID     int
	ChampionID int
	PickTurn   int
}

func CurrentMatchFromData(g riot.SpectatorGame, region riot.Region) CurrentMatch {
	m := CurrentMatch{
		Region:  region,
		GameID:  g.GameID,
		Mode:    g.Mode,
		Type:    g.Type,
		QueueID: g.QueueID,
		MapID:   g.MapID,
		Started: g.Started(),
		Length:  g.Length(),
		Loaded:  true,
	}
	for _, p := range g.Participants {
		m.Participants = append(m.Participants, Participant{
			TeamID:        p.TeamID,
			ChampionID:    p.ChampionID,
			SummonerName:  p.SummonerName,
			Spell1ID:      p.Spell1ID,
			Spell2ID:      p.Spell2ID,
			ProfileIconID: p.ProfileIconID,
			Bot:           p.Bot,
		})
	}
	for _, b := range g.Bans {
		m.Bans = append(m.Bans, Ban{TeamID: b.TeamID, ChampionID: b.ChampionID, PickTurn: b.PickTurn})
	}
	return m
}
