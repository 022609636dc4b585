package storage

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const MatchReferenceTable = "match_references"

// Column names of the match reference table. Creation is stored as unix
// milliseconds in every backend.
const (
	ColGameID     = "game_id"
	ColPlatformID = "platform_id"
	ColAccountID  = "account_id"
	ColChampion   = "champion"
	ColQueue      = "queue"
	ColSeason     = "season"
	ColCreatedMS  = "created_ms"
	ColRole       = "role"
	ColLane       = "lane"
)

var matchReferenceColumns = []any{
	ColGameID, ColPlatformID, ColAccountID, ColChampion, ColQueue, ColSeason, ColCreatedMS, ColRole, ColLane,
}

// SelectMatchReferences builds the prepared select for filter. The dialect
// must be registered by the caller's backend package.
func SelectMatchReferences(dialect string, filter MatchReferenceFilter) (string, []any, error) {
	if filter.AccountID == 0 {
		return "", nil, ErrAccountRequired
	}
	ds := goqu.Dialect(dialect).
		From(MatchReferenceTable).
		Select(matchReferenceColumns...).
		Where(filter.expressions()...).
		Order(goqu.C(ColCreatedMS).Asc(), goqu.C(ColGameID).Asc()).
		Prepared(true)
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	return ds.ToSQL()
}

// SelectKnownGameIDs builds the prepared select of every cached game id of one history.
func SelectKnownGameIDs(dialect string, accountID int64, platform string) (string, []any, error) {
	if accountID == 0 {
		return "", nil, ErrAccountRequired
	}
	return goqu.Dialect(dialect).
		From(MatchReferenceTable).
		Select(ColGameID).
		Where(goqu.Ex{ColAccountID: accountID, ColPlatformID: NormalizePlatform(platform)}).
		Order(goqu.C(ColGameID).Asc()).
		Prepared(true).
		ToSQL()
}

func (f MatchReferenceFilter) expressions() []exp.Expression {
	out := []exp.Expression{goqu.C(ColAccountID).Eq(f.AccountID)}
	if platform := NormalizePlatform(f.Platform); platform != "" {
		out = append(out, goqu.C(ColPlatformID).Eq(platform))
	}
	if len(f.Queues) > 0 {
		out = append(out, goqu.C(ColQueue).In(f.Queues))
	}
	if len(f.Seasons) > 0 {
		out = append(out, goqu.C(ColSeason).In(f.Seasons))
	}
	if len(f.Champions) > 0 {
		out = append(out, goqu.C(ColChampion).In(f.Champions))
	}
	if !f.After.IsZero() {
		out = append(out, goqu.C(ColCreatedMS).Gt(f.After.UnixMilli()))
	}
	if !f.Before.IsZero() {
		out = append(out, goqu.C(ColCreatedMS).Lt(f.Before.UnixMilli()))
	}
	return out
}

func NormalizePlatform(platform string) string {
	return strings.ToUpper(strings.TrimSpace(platform))
}
