package history

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Unix(0, 0).UTC()

func at(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func records(creations ...int64) []Record {
	out := make([]Record, len(creations))
	for i, c := range creations {
		out[i] = Record{GameID: int64(i + 1), PlatformID: "NA1", Creation: at(c)}
	}
	return out
}

// indexSource serves fixed-size index pages. When reportRequested is set the
// page reports the full requested range, so the final page comes back short.
type indexSource struct {
	records         []Record
	pageSize        int
	reportRequested bool
	requests        []PageRequest
}

func (s *indexSource) FetchMatchPage(_ context.Context, req PageRequest) (Page, error) {
	s.requests = append(s.requests, req)
	start := min(req.BeginIndex, len(s.records))
	end := min(start+s.pageSize, len(s.records))
	page := Page{Records: append([]Record(nil), s.records[start:end]...), HasIndex: true, StartIndex: start, EndIndex: end}
	if s.reportRequested {
		page.EndIndex = start + s.pageSize
	}
	return page, nil
}

// timeSource pages by time only: records strictly after the cursor, reporting
// the last creation time as the page end.
type timeSource struct {
	records  []Record
	pageSize int
	requests []PageRequest
}

func (s *timeSource) FetchMatchPage(_ context.Context, req PageRequest) (Page, error) {
	s.requests = append(s.requests, req)
	var page Page
	for _, r := range s.records {
		if r.Creation.After(req.BeginTime) && len(page.Records) < s.pageSize {
			page.Records = append(page.Records, r)
		}
	}
	if n := len(page.Records); n > 0 {
		page.EndTime = page.Records[n-1].Creation
	}
	return page, nil
}

type failingSource struct{ err error }

func (s failingSource) FetchMatchPage(context.Context, PageRequest) (Page, error) {
	return Page{}, s.err
}

func drain(t *testing.T, f *Fetcher) ([]Record, error) {
	t.Helper()
	var out []Record
	for range 1000 {
		kept, done, err := f.Next(context.Background())
		out = append(out, kept...)
		if err != nil || done {
			return out, err
		}
	}
	t.Fatalf("fetch did not terminate")
	return nil, nil
}

func creations(rs []Record) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.Creation.UnixMilli()
	}
	return out
}

func TestFetch_UnboundedStopsOnShortPage(t *testing.T) {
	src := &indexSource{records: records(0, 10, 20, 30, 40, 50, 60), pageSize: 3, reportRequested: true}
	f, err := NewFetcher(src, Filter{AccountID: 1, Platform: "NA1"}, Bounds{BeginTime: epoch})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30, 40, 50, 60}, creations(got), "record at exactly begin time is excluded")
	assert.Len(t, src.requests, 3)
	assert.Equal(t, []int{0, 3, 6}, []int{src.requests[0].BeginIndex, src.requests[1].BeginIndex, src.requests[2].BeginIndex})
	assert.True(t, f.State().Done)
}

func TestFetch_UnboundedStopsOnEmptyPage(t *testing.T) {
	src := &indexSource{records: records(10, 20, 30, 40), pageSize: 2}
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: epoch})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30, 40}, creations(got))
	assert.Len(t, src.requests, 3)
}

func TestFetch_EndTimeBound(t *testing.T) {
	src := &indexSource{records: records(10, 20, 30, 40, 50, 60, 70, 80, 90), pageSize: 3, reportRequested: true}
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: epoch, EndTime: at(50)})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30, 40}, creations(got))
	assert.Len(t, src.requests, 2, "second page ends at 60 >= end time")
	for _, req := range src.requests {
		assert.Equal(t, at(50), req.EndTime, "every request carries the requested end time")
	}
}

func TestFetch_CountBound(t *testing.T) {
	src := &indexSource{records: records(10, 20, 30, 40, 50, 60, 70, 80, 90), pageSize: 4, reportRequested: true}
	end := 3
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: epoch, EndIndex: &end})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, creations(got))
	assert.Len(t, src.requests, 1)
	assert.Equal(t, float64(3), src.requests[0].MaxCount)
}

func TestFetch_CountBoundAcrossPages(t *testing.T) {
	src := &indexSource{records: records(10, 20, 30, 40, 50, 60, 70, 80, 90), pageSize: 2, reportRequested: true}
	end := 5
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: epoch, EndIndex: &end})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 5)
	assert.Equal(t, float64(5), src.requests[0].MaxCount)
	assert.Equal(t, float64(3), src.requests[1].MaxCount, "quota hint shrinks by the page size")
}

func TestFetch_QuotaSpentByFilteredRecords(t *testing.T) {
	src := &indexSource{records: records(1, 2, 3, 4, 50, 60), pageSize: 4, reportRequested: true}
	end := 10
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: at(5), EndIndex: &end})
	require.NoError(t, err)

	kept, done, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, kept)
	assert.False(t, done)
	assert.Equal(t, float64(6), f.State().Remaining)
	assert.Equal(t, 4, f.State().Pulled)
}

func TestFetch_Deterministic(t *testing.T) {
	run := func() []Record {
		src := &indexSource{records: records(5, 15, 25, 35, 45, 55, 65), pageSize: 2, reportRequested: true}
		end := 6
		f, err := NewFetcher(src, Filter{AccountID: 7, Queues: []int{420}}, Bounds{BeginTime: at(10), EndTime: at(60), EndIndex: &end})
		require.NoError(t, err)
		got, err := drain(t, f)
		require.NoError(t, err)
		return got
	}
	first := run()
	assert.Equal(t, first, run())
	assert.NotEmpty(t, first)
}

func TestFetch_TimeCursor(t *testing.T) {
	src := &timeSource{records: records(10, 20, 30, 40, 50), pageSize: 2}
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: epoch})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30, 40, 50}, creations(got))
	require.Len(t, src.requests, 4)
	assert.Equal(t, at(20), src.requests[1].BeginTime)
	assert.Equal(t, at(40), src.requests[2].BeginTime)
	assert.Equal(t, at(50), src.requests[3].BeginTime)
}

func TestFetch_TimeCursorReachesEnd(t *testing.T) {
	src := &timeSource{records: records(10, 20, 30, 40, 50), pageSize: 2}
	f, err := NewFetcher(src, Filter{AccountID: 1}, Bounds{BeginTime: epoch, EndTime: at(20)})
	require.NoError(t, err)

	got, err := drain(t, f)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, creations(got))
	assert.Len(t, src.requests, 1)
}

func TestFetch_UpstreamFailure(t *testing.T) {
	boom := errors.New("503 from upstream")
	f, err := NewFetcher(failingSource{err: boom}, Filter{AccountID: 3}, Bounds{BeginTime: epoch})
	require.NoError(t, err)

	_, done, err := f.Next(context.Background())
	assert.True(t, done)
	require.ErrorIs(t, err, boom)
	upstream, ok := errors.AsType[*UpstreamFetchError](err)
	require.True(t, ok)
	assert.Equal(t, int64(3), upstream.Request.AccountID)

	kept, done, err := f.Next(context.Background())
	assert.Empty(t, kept)
	assert.True(t, done)
	assert.NoError(t, err)
}

func TestNewFetcher_InvalidBounds(t *testing.T) {
	_, err := NewFetcher(&indexSource{}, Filter{}, Bounds{BeginTime: at(10), EndTime: at(10)})
	assert.ErrorIs(t, err, ErrInvalidBounds)

	end := 1
	_, err = NewFetcher(&indexSource{}, Filter{}, Bounds{BeginIndex: 2, EndIndex: &end})
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = NewFetcher(nil, Filter{}, Bounds{})
	assert.Error(t, err)
}

func TestNewFetcher_ZeroQuotaIsDone(t *testing.T) {
	src := &indexSource{records: records(10), pageSize: 1}
	end := 4
	f, err := NewFetcher(src, Filter{}, Bounds{BeginIndex: 4, EndIndex: &end})
	require.NoError(t, err)

	_, done, err := f.Next(context.Background())
	assert.True(t, done)
	assert.NoError(t, err)
	assert.Empty(t, src.requests)
}

func TestAdvance_StalledCursor(t *testing.T) {
	s := NewState(Bounds{BeginTime: epoch})
	page := Page{Records: records(10, 20)}

	kept, next, err := Advance(s, Bounds{BeginTime: epoch}, page)
	require.ErrorIs(t, err, ErrCursorStalled)
	assert.Len(t, kept, 2)
	assert.Equal(t, 2, next.Pulled)
}

func TestAdvance_DoesNotAdvanceCursorOnTermination(t *testing.T) {
	b := Bounds{BeginTime: epoch}
	s := NewState(b)
	page := Page{Records: records(10), HasIndex: true, StartIndex: 0, EndIndex: 5}

	_, next, err := Advance(s, b, page)
	require.NoError(t, err)
	assert.True(t, next.Done)
	assert.Equal(t, 0, next.BeginIndex)
	assert.True(t, math.IsInf(next.Remaining, 1))
	assert.Equal(t, 1, next.LastPage.Records)
}
