// Package lazy turns a page-at-a-time step function into a single-pass,
// pull-driven collection.
package lazy

import (
	"context"
	"errors"
	"iter"
	"maps"
)

// ErrConsumed is yielded when All is called on a collection that was already iterated.
var ErrConsumed = errors.New("lazy: collection already consumed")

// Metadata describes the request a collection was built from.
type Metadata struct {
	Region   string
	Platform string
	Version  string
	Locale   string
	Filters  map[string]any
}

// Step produces the next page. It returns done=true with the final page or
// once nothing is left. Items returned with an error are yielded before the
// error, which ends the collection. A step must release any resource it
// acquires before returning; nothing stays open between pages.
type Step[T any] func(ctx context.Context) (items []T, done bool, err error)

// Collection is a single-pass sequence. Iterating it again after a pass has
// started yields ErrConsumed instead of refetching.
type Collection[T any] struct {
	meta    Metadata
	step    Step[T]
	buf     []T
	err     error
	done    bool
	ranged  bool
	fetched int
}

func New[T any](meta Metadata, step Step[T]) *Collection[T] {
	return &Collection[T]{meta: meta, step: step}
}

// FromSlice wraps an already materialized list.
func FromSlice[T any](meta Metadata, items []T) *Collection[T] {
	return New(meta, func(context.Context) ([]T, bool, error) {
		return items, true, nil
	})
}

// Next returns the next item. ok is false once the collection is exhausted or
// after a step error, which is returned exactly once after the items of its page.
func (c *Collection[T]) Next(ctx context.Context) (item T, ok bool, err error) {
	for len(c.buf) == 0 {
		if c.err != nil {
			err, c.err = c.err, nil
			return item, false, err
		}
		if c.done || c.step == nil {
			return item, false, nil
		}
		if err := ctx.Err(); err != nil {
			return item, false, err
		}
		page, done, err := c.step(ctx)
		c.fetched++
		c.buf = page
		c.done = done || err != nil
		c.err = err
	}
	item = c.buf[0]
	var zero T
	c.buf[0] = zero
	c.buf = c.buf[1:]
	return item, true, nil
}

// All ranges over the remaining items. A second call yields one ErrConsumed.
func (c *Collection[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if c.ranged {
			var zero T
			yield(zero, ErrConsumed)
			return
		}
		c.ranged = true
		for {
			item, ok, err := c.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains the collection.
func (c *Collection[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for item, err := range c.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Collection[T]) Metadata() Metadata {
	m := c.meta
	m.Filters = maps.Clone(c.meta.Filters)
	return m
}

// Pages reports how many steps ran so far.
func (c *Collection[T]) Pages() int {
	return c.fetched
}

// Close drops buffered items and stops further fetching.
func (c *Collection[T]) Close() {
	c.buf = nil
	c.err = nil
	c.done = true
}
