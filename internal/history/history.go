// Package history pages through an account's match history. The cursor state
// machine lives in Advance; Fetcher adds the I/O around it.
package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

var (
	// ErrCursorStalled means a page neither ended the fetch nor moved the
	// cursor. Continuing would loop forever.
	ErrCursorStalled = errors.New("history: page did not advance the cursor")
	ErrInvalidBounds = errors.New("history: invalid bounds")
)

// Record is one match reference as reported by the upstream.
type Record struct {
	GameID     int64
	PlatformID string
	Champion   int
	Queue      int
	Season     int
	Creation   time.Time
	Role       string
	Lane       string
}

func RecordFromReference(ref riot.MatchReference) Record {
	return Record{
		GameID:     ref.GameID,
		PlatformID: ref.PlatformID,
		Champion:   ref.Champion,
		Queue:      ref.Queue,
		Season:     ref.Season,
		Creation:   time.UnixMilli(ref.Timestamp).UTC(),
		Role:       ref.Role,
		Lane:       ref.Lane,
	}
}

func (r Record) Reference() riot.MatchReference {
	return riot.MatchReference{
		GameID:     r.GameID,
		PlatformID: r.PlatformID,
		Champion:   r.Champion,
		Queue:      r.Queue,
		Season:     r.Season,
		Timestamp:  r.Creation.UnixMilli(),
		Role:       r.Role,
		Lane:       r.Lane,
	}
}

// Filter is the part of a request that never changes between pages.
type Filter struct {
	AccountID int64
	Platform  riot.Platform
	Queues    []int
	Seasons   []int
	Champions []int
}

// Bounds limits which records a fetch yields. A zero EndTime is unbounded, as
// is a nil EndIndex.
type Bounds struct {
	BeginIndex int
	EndIndex   *int
	BeginTime  time.Time
	EndTime    time.Time
}

func (b Bounds) Validate() error {
	if b.BeginIndex < 0 {
		return fmt.Errorf("%w: negative begin index %d", ErrInvalidBounds, b.BeginIndex)
	}
	if b.EndIndex != nil && *b.EndIndex < b.BeginIndex {
		return fmt.Errorf("%w: end index %d before begin index %d", ErrInvalidBounds, *b.EndIndex, b.BeginIndex)
	}
	if b.HasEndTime() && !b.EndTime.After(b.BeginTime) {
		return fmt.Errorf("%w: end time %s not after begin time %s", ErrInvalidBounds, b.EndTime, b.BeginTime)
	}
	return nil
}

func (b Bounds) HasEndTime() bool {
	return !b.EndTime.IsZero()
}

// Quota is the number of records the bounds allow, +Inf when unbounded.
func (b Bounds) Quota() float64 {
	if b.EndIndex == nil {
		return math.Inf(1)
	}
	return float64(*b.EndIndex - b.BeginIndex)
}

// contains applies the yield rule: strictly after the begin time and, when
// bounded, strictly before the end time.
func (b Bounds) contains(t time.Time) bool {
	return t.After(b.BeginTime) && (!b.HasEndTime() || t.Before(b.EndTime))
}

// PageRequest is what a PageSource receives for one page.
type PageRequest struct {
	Filter
	BeginIndex int
	BeginTime  time.Time
	// EndTime is the requested end time, zero when unbounded.
	EndTime time.Time
	// MaxCount is the remaining quota. It is a hint; sources may return more.
	MaxCount float64
}

// Page is one upstream response. HasIndex is false for sources that only
// paginate by time; a zero EndTime means the source reported none.
type Page struct {
	Records    []Record
	HasIndex   bool
	StartIndex int
	EndIndex   int
	EndTime    time.Time
}

type PageSource interface {
	FetchMatchPage(ctx context.Context, req PageRequest) (Page, error)
}

// UpstreamFetchError wraps a PageSource failure. It ends the fetch.
type UpstreamFetchError struct {
	Request PageRequest
	Err     error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch match page (account %d, index %d, time %d): %v",
		e.Request.AccountID, e.Request.BeginIndex, e.Request.BeginTime.UnixMilli(), e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
