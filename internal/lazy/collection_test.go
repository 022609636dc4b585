package lazy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagedStep(pages [][]int, calls *int) Step[int] {
	return func(context.Context) ([]int, bool, error) {
		i := *calls
		*calls++
		return pages[i], i == len(pages)-1, nil
	}
}

func TestCollection_NextAcrossPages(t *testing.T) {
	calls := 0
	c := New(Metadata{Region: "NA"}, pagedStep([][]int{{1, 2}, {}, {3}}, &calls))

	var got []int
	for {
		item, ok, err := c.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, item)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 3, calls)

	_, ok, err := c.Next(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls, "exhausted collection must not refetch")
}

func TestCollection_LazyUntilPulled(t *testing.T) {
	calls := 0
	c := New(Metadata{}, pagedStep([][]int{{1}, {2}}, &calls))
	assert.Zero(t, calls)

	for item, err := range c.All(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, 1, item)
		break
	}
	assert.Equal(t, 1, calls, "breaking early must not fetch the next page")
}

func TestCollection_SecondPassYieldsErrConsumed(t *testing.T) {
	calls := 0
	c := New(Metadata{}, pagedStep([][]int{{1, 2}}, &calls))

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	var errs []error
	for item, err := range c.All(context.Background()) {
		assert.Zero(t, item)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrConsumed)
	assert.Equal(t, 1, calls)
}

func TestCollection_StepErrorEndsIteration(t *testing.T) {
	boom := errors.New("upstream down")
	steps := 0
	c := New(Metadata{}, func(context.Context) ([]string, bool, error) {
		steps++
		if steps == 1 {
			return []string{"a"}, false, nil
		}
		return nil, false, boom
	})

	got, err := c.Collect(context.Background())
	assert.Equal(t, []string{"a"}, got)
	require.ErrorIs(t, err, boom)

	_, ok, err := c.Next(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestCollection_ItemsBeforeStepError(t *testing.T) {
	stalled := errors.New("cursor stalled")
	c := New(Metadata{}, func(context.Context) ([]string, bool, error) {
		return []string{"a", "b"}, false, stalled
	})

	got, err := c.Collect(context.Background())
	assert.Equal(t, []string{"a", "b"}, got)
	require.ErrorIs(t, err, stalled)
	assert.Equal(t, 1, c.Pages())

	_, ok, err := c.Next(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestCollection_CanceledContext(t *testing.T) {
	calls := 0
	c := New(Metadata{}, pagedStep([][]int{{1}}, &calls))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := c.Next(ctx)
	assert.False(t, ok)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestCollection_MetadataIsCopied(t *testing.T) {
	c := FromSlice(Metadata{Region: "EUW", Filters: map[string]any{"queues": []int{420}}}, []int{1})
	meta := c.Metadata()
	meta.Filters["queues"] = nil
	assert.Equal(t, []int{420}, c.Metadata().Filters["queues"])
}

func TestCollection_Close(t *testing.T) {
	calls := 0
	c := New(Metadata{}, pagedStep([][]int{{1, 2}, {3}}, &calls))
	_, _, err := c.Next(context.Background())
	require.NoError(t, err)

	c.Close()
	_, ok, err := c.Next(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
