package core

import (
	"context"

	"github.com/bingbr/League-API-datastore/internal/lazy"
)

// Many is a lazily fetched collection of one kind.
type Many interface {
	Kind() Kind
	Metadata() lazy.Metadata
	Each(ctx context.Context, fn func(item any) error) error
}

// Collection tags a lazy collection with the kind it was requested as.
type Collection[T any] struct {
	*lazy.Collection[T]
	kind Kind
}

func NewCollection[T any](kind Kind, c *lazy.Collection[T]) *Collection[T] {
	return &Collection[T]{Collection: c, kind: kind}
}

func (c *Collection[T]) Kind() Kind { return c.kind }

// Each drains the collection for callers that do not know its element type.
func (c *Collection[T]) Each(ctx context.Context, fn func(item any) error) error {
	for item, err := range c.All(ctx) {
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}
