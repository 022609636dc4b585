package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/bingbr/League-API-datastore/internal/history"
	"github.com/bingbr/League-API-datastore/internal/storage"
)

const DefaultReplayPageSize = 100

// Replay serves match history from the cache alone. Pages are time based:
// each holds the references created after the request's begin time, oldest
// first, and reports the last one's creation as its end time. A page never
// ends inside a group of references sharing one creation time.
type Replay struct {
	db       storage.MatchReferenceDB
	pageSize int
}

func NewReplay(db storage.MatchReferenceDB, pageSize int) (*Replay, error) {
	if db == nil {
		return nil, errors.New("datasource: replay store is required")
	}
	if pageSize <= 0 {
		pageSize = DefaultReplayPageSize
	}
	return &Replay{db: db, pageSize: pageSize}, nil
}

func (r *Replay) FetchMatchPage(ctx context.Context, req history.PageRequest) (history.Page, error) {
	filter := storage.MatchReferenceFilter{
		AccountID: req.AccountID,
		Platform:  string(req.Platform),
		Queues:    req.Queues,
		Seasons:   req.Seasons,
		Champions: req.Champions,
		After:     req.BeginTime,
		Before:    req.EndTime,
		Limit:     pageSize(req.MaxCount, r.pageSize),
	}
	refs, err := r.db.ListMatchReferences(ctx, filter)
	if err != nil {
		return history.Page{}, err
	}
	if len(refs) == filter.Limit {
		if refs, err = r.completeLastTie(ctx, filter, refs); err != nil {
			return history.Page{}, err
		}
	}

	page := history.Page{Records: make([]history.Record, len(refs))}
	for i, ref := range refs {
		page.Records[i] = RecordFromReference(ref)
	}
	if len(refs) > 0 {
		page.EndTime = refs[len(refs)-1].Creation
	}
	return page, nil
}

// completeLastTie appends the references created at the same millisecond as
// the page's last one that the limit cut off. The next page starts strictly
// after that millisecond.
func (r *Replay) completeLastTie(ctx context.Context, filter storage.MatchReferenceFilter, refs []storage.MatchReference) ([]storage.MatchReference, error) {
	last := refs[len(refs)-1]
	filter.After = last.Creation.Add(-time.Millisecond)
	filter.Before = last.Creation.Add(time.Millisecond)
	filter.Limit = 0
	tied, err := r.db.ListMatchReferences(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, ref := range tied {
		if ref.GameID > last.GameID {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}
