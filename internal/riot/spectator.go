package riot

import (
	"context"
	"fmt"
	"time"
)

// SpectatorGame is one in-progress game as listed by spectator-v4.
type SpectatorGame struct {
	GameID     int64  `json:"gameId"`
	PlatformID string `json:"platformId"`
	MapID      int    `json:"mapId"`
	QueueID    int    `json:"gameQueueConfigId"`
	Mode       string `json:"gameMode"`
	Type       string `json:"gameType"`
	// StartTime is in epoch milliseconds and is zero while the game is loading.
	StartTime    int64                  `json:"gameStartTime"`
	LengthSecs   int64                  `json:"gameLength"`
	Participants []SpectatorParticipant `json:"participants"`
	Bans         []SpectatorBan         `json:"bannedChampions"`
}

type SpectatorParticipant struct {
	SummonerName  string `json:"summonerName"`
	TeamID        int    `json:"teamId"`
	ChampionID    int    `json:"championId"`
	Spell1ID      int    `json:"spell1Id"`
	Spell2ID      int    `json:"spell2Id"`
	ProfileIconID int    `json:"profileIconId"`
	Bot           bool   `json:"bot"`
}

type SpectatorBan struct {
	TeamID     int `json:"teamId"`
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

func (g SpectatorGame) Started() time.Time {
	if g.StartTime <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(g.StartTime).UTC()
}

func (g SpectatorGame) Length() time.Duration {
	return time.Duration(g.LengthSecs) * time.Second
}

type FeaturedGames struct {
	Games []SpectatorGame `json:"gameList"`
	// RefreshSecs is how long clients should wait before polling again.
	RefreshSecs int64 `json:"clientRefreshInterval"`
}

func (f FeaturedGames) RefreshInterval() time.Duration {
	return time.Duration(f.RefreshSecs) * time.Second
}

// FetchFeaturedGames lists the games spectator-v4 currently features on platform.
func (c *Client) FetchFeaturedGames(ctx context.Context, platform Platform) (FeaturedGames, error) {
	var featured FeaturedGames
	if err := c.getJSON(ctx, c.platformURL(platform, "/lol/spectator/v4/featured-games"), &featured); err != nil {
		return FeaturedGames{}, fmt.Errorf("featured games on %s: %w", platform, err)
	}
	return featured, nil
}
