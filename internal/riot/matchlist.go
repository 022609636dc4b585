package riot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// MaxMatchListPage is the widest index range the matchlist endpoint serves per call.
const MaxMatchListPage = 100

type MatchReference struct {
	GameID     int64  `json:"gameId"`
	PlatformID string `json:"platformId"`
	Champion   int    `json:"champion"`
	Queue      int    `json:"queue"`
	Season     int    `json:"season"`
	Timestamp  int64  `json:"timestamp"`
	Role       string `json:"role"`
	Lane       string `json:"lane"`
}

type MatchList struct {
	Matches    []MatchReference `json:"matches"`
	StartIndex int              `json:"startIndex"`
	EndIndex   int              `json:"endIndex"`
	TotalGames int              `json:"totalGames"`
}

// MatchListParams mirrors the query string of the matchlist endpoint.
// Zero BeginTime/EndTime and a zero EndIndex are omitted.
type MatchListParams struct {
	BeginIndex int
	EndIndex   int
	BeginTime  int64
	EndTime    int64
	Queues     []int
	Seasons    []int
	Champions  []int
}

func (p MatchListParams) values() url.Values {
	v := url.Values{}
	v.Set("beginIndex", strconv.Itoa(p.BeginIndex))
	if p.EndIndex > 0 {
		v.Set("endIndex", strconv.Itoa(p.EndIndex))
	}
	if p.BeginTime > 0 {
		v.Set("beginTime", strconv.FormatInt(p.BeginTime, 10))
	}
	if p.EndTime > 0 {
		v.Set("endTime", strconv.FormatInt(p.EndTime, 10))
	}
	for _, id := range p.Queues {
		v.Add("queue", strconv.Itoa(id))
	}
	for _, id := range p.Seasons {
		v.Add("season", strconv.Itoa(id))
	}
	for _, id := range p.Champions {
		v.Add("champion", strconv.Itoa(id))
	}
	return v
}

// FetchMatchList returns one page of an account's match history. The API answers
// 404 when the requested window holds no games; that is reported as an empty page.
func (c *Client) FetchMatchList(ctx context.Context, platform Platform, accountID int64, params MatchListParams) (MatchList, error) {
	endpoint := c.platformURL(platform, fmt.Sprintf("/lol/match/v4/matchlists/by-account/%d", accountID)) + "?" + params.values().Encode()
	var list MatchList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		if IsNotFound(err) {
			return MatchList{StartIndex: params.BeginIndex, EndIndex: params.BeginIndex}, nil
		}
		return MatchList{}, fmt.Errorf("fetch match list: %w", err)
	}
	return list, nil
}
