package riot

import (
	"context"
	"fmt"
)

type ChampionMastery struct {
	ChampionID                   int    `json:"championId"`
	PlayerID                     int64  `json:"playerId"`
	ChampionLevel                int    `json:"championLevel"`
	ChampionPoints               int    `json:"championPoints"`
	ChampionPointsSinceLastLevel int64  `json:"championPointsSinceLastLevel"`
	ChampionPointsUntilNextLevel int64  `json:"championPointsUntilNextLevel"`
	ChestGranted                 bool   `json:"chestGranted"`
	LastPlayTime                 int64  `json:"lastPlayTime"`
	TokensEarned                 int    `json:"tokensEarned"`
}

type LeagueEntry struct {
	LeagueID     string `json:"leagueId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	SummonerID   string `json:"summonerId"`
	SummonerName string `json:"summonerName"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Veteran      bool   `json:"veteran"`
	Inactive     bool   `json:"inactive"`
	FreshBlood   bool   `json:"freshBlood"`
	HotStreak    bool   `json:"hotStreak"`
}

func (c *Client) FetchChampionMasteries(ctx context.Context, platform Platform, summonerID int64) ([]ChampionMastery, error) {
	endpoint := c.platformURL(platform, fmt.Sprintf("/lol/champion-mastery/v4/champion-masteries/by-summoner/%d", summonerID))
	var masteries []ChampionMastery
	if err := c.getJSON(ctx, endpoint, &masteries); err != nil {
		return nil, fmt.Errorf("fetch champion masteries: %w", err)
	}
	return masteries, nil
}

func (c *Client) FetchLeagueEntries(ctx context.Context, platform Platform, summonerID int64) ([]LeagueEntry, error) {
	endpoint := c.platformURL(platform, fmt.Sprintf("/lol/league/v4/entries/by-summoner/%d", summonerID))
	var entries []LeagueEntry
	if err := c.getJSON(ctx, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("fetch league entries: %w", err)
	}
	return entries, nil
}
