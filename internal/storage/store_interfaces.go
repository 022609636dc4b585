// Package storage declares the cache the datasource writes match references
// to. Implementations live in the postgres and sqlite subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

var ErrAccountRequired = errors.New("account id is required")

// MatchReference is one cached match history row. GameID and PlatformID form
// the key; AccountID is the history it was listed in.
type MatchReference struct {
	GameID     int64     `db:"game_id"`
	PlatformID string    `db:"platform_id"`
	AccountID  int64     `db:"account_id"`
	Champion   int       `db:"champion"`
	Queue      int       `db:"queue"`
	Season     int       `db:"season"`
	Creation   time.Time `db:"created_at"`
	Role       string    `db:"role"`
	Lane       string    `db:"lane"`
}

// MatchReferenceFilter selects cached references. Empty slices match every
// value. After and Before are exclusive; zero means unbounded. Results are
// ordered by creation ascending, then game id.
type MatchReferenceFilter struct {
	AccountID int64
	Platform  string
	Queues    []int
	Seasons   []int
	Champions []int
	After     time.Time
	Before    time.Time
	Limit     int
}

type MatchReferenceDB interface {
	UpsertMatchReferences(ctx context.Context, refs []MatchReference) error
	ListMatchReferences(ctx context.Context, filter MatchReferenceFilter) ([]MatchReference, error)
	KnownGameIDs(ctx context.Context, accountID int64, platform string) ([]int64, error)
}

type StaticSyncDB interface {
	cdn.SyncRecorder
	LatestStaticSync(ctx context.Context) (cdn.StaticSync, bool, error)
}

type CacheDB interface {
	MatchReferenceDB
	StaticSyncDB
	Close() error
}
