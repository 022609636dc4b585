package history

import (
	"math"
	"time"
)

// State is the cursor of one fetch. It is a plain value: Advance returns the
// next state instead of mutating it.
type State struct {
	BeginIndex int
	BeginTime  time.Time
	// Remaining is the quota left. It shrinks by the number of records each
	// page reported, whether or not they were yielded.
	Remaining float64
	// Pulled counts every record seen, across all pages.
	Pulled   int
	Pages    int
	LastPage PageSummary
	Done     bool
}

type PageSummary struct {
	Records    int
	HasIndex   bool
	StartIndex int
	EndIndex   int
	EndTime    time.Time
}

func NewState(b Bounds) State {
	return State{
		BeginIndex: b.BeginIndex,
		BeginTime:  b.BeginTime,
		Remaining:  b.Quota(),
	}
}

// Request builds the page request for the current cursor.
func (s State) Request(f Filter, b Bounds) PageRequest {
	return PageRequest{
		Filter:     f,
		BeginIndex: s.BeginIndex,
		BeginTime:  s.BeginTime,
		EndTime:    b.EndTime,
		MaxCount:   s.Remaining,
	}
}

// more reports whether another page should be requested.
func (s State) more() bool {
	return !s.Done && float64(s.Pulled) < s.Remaining
}

// Advance applies one page to s. It returns the records to yield and the next
// state. The page ends the fetch when:
//   - the quota is spent,
//   - the page is empty or shorter than the index range it reports,
//   - the last record reached the end time, or the time cursor did.
//
// A page that ends nothing and moves neither cursor returns ErrCursorStalled.
func Advance(s State, b Bounds, page Page) ([]Record, State, error) {
	next := s
	next.Pages++
	next.LastPage = PageSummary{
		Records:    len(page.Records),
		HasIndex:   page.HasIndex,
		StartIndex: page.StartIndex,
		EndIndex:   page.EndIndex,
		EndTime:    page.EndTime,
	}

	var kept []Record
	var last *Record
	for i := range page.Records {
		r := &page.Records[i]
		last = r
		next.Pulled++
		if b.contains(r.Creation) {
			kept = append(kept, *r)
		}
		if float64(next.Pulled) >= s.Remaining {
			break
		}
	}

	switch {
	case len(page.Records) == 0:
		next.Done = true
	case page.HasIndex && len(page.Records) < page.EndIndex-page.StartIndex:
		next.Done = true
	case b.HasEndTime() && last != nil && !last.Creation.Before(b.EndTime):
		next.Done = true
	}
	if next.Done {
		return kept, next, nil
	}

	if page.HasIndex {
		next.BeginIndex = page.EndIndex
	}
	if !page.EndTime.IsZero() {
		next.BeginTime = page.EndTime
	}
	next.Remaining -= float64(len(page.Records))

	if b.HasEndTime() && !next.BeginTime.Before(b.EndTime) {
		next.Done = true
		return kept, next, nil
	}
	if !next.more() {
		next.Done = true
		return kept, next, nil
	}
	if next.BeginIndex == s.BeginIndex && next.BeginTime.Equal(s.BeginTime) {
		return kept, next, ErrCursorStalled
	}
	return kept, next, nil
}

// unbounded reports whether the quota is infinite.
func (s State) unbounded() bool {
	return math.IsInf(s.Remaining, 1)
}
