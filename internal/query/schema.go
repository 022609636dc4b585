// Package query declares per-entity request schemas and normalizes raw
// requests against them.
package query

import (
	"context"
	"fmt"
)

// Query is a raw request. Keys may be dotted paths such as "summoner.id".
type Query map[string]any

// Provider supplies a default for an absent optional key. It sees the values
// normalized so far and may block on I/O.
type Provider func(ctx context.Context, partial Values) (any, error)

// Transform rewrites a value set in place.
type Transform func(Values) error

// Alternative is one key that can satisfy a required group.
type Alternative struct {
	Key  string
	Type Coercer
}

// Group is a required key with its ordered alternatives. The first declared
// alternative present in a request wins.
type Group []Alternative

func (g Group) Keys() []string {
	keys := make([]string, len(g))
	for i, alt := range g {
		keys[i] = alt.Key
	}
	return keys
}

type Default struct {
	Value    any
	Provider Provider
	Supplies Coercer
}

type Field struct {
	Key     string
	Type    Coercer
	Default *Default
}

// Schema is the immutable rule set of one entity kind.
type Schema struct {
	Name     string
	Required []Group
	Optional []Field
	Prepare  []Transform
	Finish   []Transform
}

// Builder assembles a Schema. Misuse panics in Build, since schemas are
// declared at package initialization.
type Builder struct {
	schema   Schema
	lastOpt  int
	misuse   error
	hasGroup bool
}

func Define(name string) *Builder {
	return &Builder{schema: Schema{Name: name}, lastOpt: -1}
}

// Has starts a new required group.
func (b *Builder) Has(key string, c Coercer) *Builder {
	b.schema.Required = append(b.schema.Required, Group{{Key: key, Type: c}})
	b.hasGroup = true
	b.lastOpt = -1
	return b
}

// Or adds an alternative to the most recent required group.
func (b *Builder) Or(key string, c Coercer) *Builder {
	if !b.hasGroup {
		b.fail("Or(%q) without a preceding Has", key)
		return b
	}
	last := len(b.schema.Required) - 1
	b.schema.Required[last] = append(b.schema.Required[last], Alternative{Key: key, Type: c})
	return b
}

func (b *Builder) CanHave(key string, c Coercer) *Builder {
	b.schema.Optional = append(b.schema.Optional, Field{Key: key, Type: c})
	b.lastOpt = len(b.schema.Optional) - 1
	b.hasGroup = false
	return b
}

// WithDefault sets a literal default on the most recent optional key.
func (b *Builder) WithDefault(value any) *Builder {
	if b.lastOpt < 0 {
		b.fail("WithDefault without a preceding CanHave")
		return b
	}
	b.schema.Optional[b.lastOpt].Default = &Default{Value: value}
	return b
}

// WithProvider sets a computed default on the most recent optional key. The
// provider's output is coerced with supplies.
func (b *Builder) WithProvider(p Provider, supplies Coercer) *Builder {
	if b.lastOpt < 0 {
		b.fail("WithProvider without a preceding CanHave")
		return b
	}
	if p == nil {
		b.fail("WithProvider(nil) on %q", b.schema.Optional[b.lastOpt].Key)
		return b
	}
	b.schema.Optional[b.lastOpt].Default = &Default{Provider: p, Supplies: supplies}
	return b
}

// Prepare registers a transform applied to a copy of the raw request before validation.
func (b *Builder) Prepare(t Transform) *Builder {
	b.schema.Prepare = append(b.schema.Prepare, t)
	return b
}

// Finish registers a transform applied to the normalized result.
func (b *Builder) Finish(t Transform) *Builder {
	b.schema.Finish = append(b.schema.Finish, t)
	return b
}

func (b *Builder) Build() Schema {
	if b.misuse != nil {
		panic(fmt.Sprintf("query %s: %v", b.schema.Name, b.misuse))
	}
	seen := make(map[string]struct{})
	check := func(key string) {
		if _, dup := seen[key]; dup {
			panic(fmt.Sprintf("query %s: key %q declared twice", b.schema.Name, key))
		}
		seen[key] = struct{}{}
	}
	for _, g := range b.schema.Required {
		for _, alt := range g {
			check(alt.Key)
		}
	}
	for _, f := range b.schema.Optional {
		check(f.Key)
	}
	return b.schema
}

func (b *Builder) fail(format string, args ...any) {
	if b.misuse == nil {
		b.misuse = fmt.Errorf(format, args...)
	}
}
