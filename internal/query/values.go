package query

import (
	"maps"
	"slices"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

// Values holds coerced parameters. Getters return the zero value for absent
// keys; a normalized set always holds its required keys.
type Values map[string]any

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) Get(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

func (v Values) Int64(key string) int64 {
	n, _ := v[key].(int64)
	return n
}

func (v Values) Int(key string) int {
	return int(v.Int64(key))
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

func (v Values) Platform(key string) riot.Platform {
	p, _ := v[key].(riot.Platform)
	return p
}

func (v Values) Region(key string) riot.Region {
	r, _ := v[key].(riot.Region)
	return r
}

func (v Values) Queue(key string) riot.Queue {
	q, _ := v[key].(riot.Queue)
	return q
}

func (v Values) Ints(key string) []int {
	ids, _ := v[key].([]int)
	return slices.Clone(ids)
}

func (v Values) Strings(key string) []string {
	s, _ := v[key].([]string)
	return slices.Clone(s)
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	return maps.Clone(v)
}

// Normalized is a request that passed its schema.
type Normalized struct {
	Values
	Schema string
}
