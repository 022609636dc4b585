package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/bingbr/League-API-datastore/internal/history"
	"github.com/bingbr/League-API-datastore/internal/storage"
)

const (
	seenEstimate      = 100000
	seenFalsePositive = 0.001
)

// CacheObserver is told how many references of each page were written and
// how many were skipped as already cached.
type CacheObserver interface {
	ObserveCacheWrite(written, skipped int)
}

// Cached writes every page its source returns to a match reference store. A
// bloom filter per history skips references already written; a false positive
// leaves that one reference out of the cache. Store failures are logged and
// never fail the fetch.
type Cached struct {
	source   history.PageSource
	db       storage.MatchReferenceDB
	logger   *slog.Logger
	observer CacheObserver

	mu   sync.Mutex
	seen map[historyKey]*bloom.BloomFilter
}

type historyKey struct {
	accountID int64
	platform  string
}

type CachedOption func(*Cached)

func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithCacheObserver(observer CacheObserver) CachedOption {
	return func(c *Cached) {
		c.observer = observer
	}
}

func NewCached(source history.PageSource, db storage.MatchReferenceDB, opts ...CachedOption) *Cached {
	c := &Cached{
		source: source,
		db:     db,
		logger: slog.Default(),
		seen:   make(map[historyKey]*bloom.BloomFilter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cached) FetchMatchPage(ctx context.Context, req history.PageRequest) (history.Page, error) {
	page, err := c.source.FetchMatchPage(ctx, req)
	if err != nil || len(page.Records) == 0 {
		return page, err
	}

	key := historyKey{accountID: req.AccountID, platform: storage.NormalizePlatform(string(req.Platform))}
	seen, err := c.filter(ctx, key)
	if err != nil {
		c.logger.Warn("Match reference cache unavailable", "account_id", key.accountID, "platform", key.platform, "error", err)
		return page, nil
	}

	fresh := make([]storage.MatchReference, 0, len(page.Records))
	c.mu.Lock()
	for _, r := range page.Records {
		if seen.Test(gameKey(r.GameID)) {
			continue
		}
		fresh = append(fresh, ReferenceFromRecord(r, req.AccountID))
	}
	c.mu.Unlock()

	if len(fresh) > 0 {
		if err := c.db.UpsertMatchReferences(ctx, fresh); err != nil {
			c.logger.Warn("Match reference cache write failed", "account_id", key.accountID, "count", len(fresh), "error", err)
			return page, nil
		}
		c.mu.Lock()
		for _, ref := range fresh {
			seen.Add(gameKey(ref.GameID))
		}
		c.mu.Unlock()
	}
	if c.observer != nil {
		c.observer.ObserveCacheWrite(len(fresh), len(page.Records)-len(fresh))
	}
	return page, nil
}

// filter returns the seen set of one history, loading it from the store on
// first use.
func (c *Cached) filter(ctx context.Context, key historyKey) (*bloom.BloomFilter, error) {
	c.mu.Lock()
	seen, ok := c.seen[key]
	c.mu.Unlock()
	if ok {
		return seen, nil
	}

	ids, err := c.db.KnownGameIDs(ctx, key.accountID, key.platform)
	if err != nil {
		return nil, fmt.Errorf("load known game ids: %w", err)
	}
	seen = bloom.NewWithEstimates(uint(max(seenEstimate, 2*len(ids))), seenFalsePositive)
	for _, id := range ids {
		seen.Add(gameKey(id))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.seen[key]; ok {
		return existing, nil
	}
	c.seen[key] = seen
	return seen, nil
}

func gameKey(gameID int64) []byte {
	return strconv.AppendInt(nil, gameID, 10)
}

func ReferenceFromRecord(r history.Record, accountID int64) storage.MatchReference {
	return storage.MatchReference{
		GameID:     r.GameID,
		PlatformID: r.PlatformID,
		AccountID:  accountID,
		Champion:   r.Champion,
		Queue:      r.Queue,
		Season:     r.Season,
		Creation:   r.Creation,
		Role:       r.Role,
		Lane:       r.Lane,
	}
}

func RecordFromReference(ref storage.MatchReference) history.Record {
	return history.Record{
		GameID:     ref.GameID,
		PlatformID: ref.PlatformID,
		Champion:   ref.Champion,
		Queue:      ref.Queue,
		Season:     ref.Season,
		Creation:   ref.Creation,
		Role:       ref.Role,
		Lane:       ref.Lane,
	}
}
