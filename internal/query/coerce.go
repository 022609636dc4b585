package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

// Coercer converts a raw value into the declared type. The zero Coercer
// accepts any value unchanged.
type Coercer struct {
	name  string
	apply func(any) (any, error)
}

func (c Coercer) Name() string {
	if c.name == "" {
		return "any"
	}
	return c.name
}

func (c Coercer) Coerce(v any) (any, error) {
	if c.apply == nil {
		return v, nil
	}
	return c.apply(v)
}

var (
	Any       = Coercer{}
	Int       = Coercer{name: "int", apply: func(v any) (any, error) { return toInt64(v) }}
	String    = Coercer{name: "string", apply: func(v any) (any, error) { return toString(v) }}
	Bool      = Coercer{name: "bool", apply: func(v any) (any, error) { return toBool(v) }}
	Platform  = Coercer{name: "platform", apply: func(v any) (any, error) { return toPlatform(v) }}
	Region    = Coercer{name: "region", apply: func(v any) (any, error) { return toRegion(v) }}
	Queue     = Coercer{name: "queue", apply: func(v any) (any, error) { return toQueue(v) }}
	IntSet    = Coercer{name: "int set", apply: func(v any) (any, error) { return toIntSet(v) }}
	StringSet = Coercer{name: "string set", apply: func(v any) (any, error) { return toStringSet(v) }}
	Locale    = Coercer{name: "locale", apply: func(v any) (any, error) { return toLocale(v) }}
)

var errUnsupportedType = errors.New("unsupported type")

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		return strconv.ParseInt(n.String(), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("%w %T for int", errUnsupportedType, v)
	}
}

// floatToInt rejects non-integral values and anything outside int64.
// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
func floatToInt(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("%w %T for string", errUnsupportedType, v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(b))
	default:
		return false, fmt.Errorf("%w %T for bool", errUnsupportedType, v)
	}
}

func toPlatform(v any) (riot.Platform, error) {
	switch p := v.(type) {
	case riot.Platform:
		return riot.ParsePlatform(string(p))
	case riot.Region:
		if platform := p.Platform(); platform != "" {
			return platform, nil
		}
		return "", fmt.Errorf("%w %q", riot.ErrUnknownRegion, string(p))
	case string:
		if platform, err := riot.ParsePlatform(p); err == nil {
			return platform, nil
		}
		region, err := riot.ParseRegion(p)
		if err != nil {
			return "", fmt.Errorf("%w %q", riot.ErrUnknownPlatform, p)
		}
		return region.Platform(), nil
	default:
		return "", fmt.Errorf("%w %T for platform", errUnsupportedType, v)
	}
}

func toRegion(v any) (riot.Region, error) {
	switch r := v.(type) {
	case riot.Region:
		return riot.ParseRegion(string(r))
	case riot.Platform:
		if region := r.Region(); region != "" {
			return region, nil
		}
		return "", fmt.Errorf("%w %q", riot.ErrUnknownPlatform, string(r))
	case string:
		return riot.ParseRegion(r)
	default:
		return "", fmt.Errorf("%w %T for region", errUnsupportedType, v)
	}
}

func toQueue(v any) (riot.Queue, error) {
	switch q := v.(type) {
	case riot.Queue:
		return riot.ParseQueue(string(q))
	case string:
		return riot.ParseQueue(q)
	default:
		return "", fmt.Errorf("%w %T for queue", errUnsupportedType, v)
	}
}

// toIntSet accepts any slice, array or set-shaped map of integers and returns
// the sorted distinct values.
func toIntSet(v any) ([]int, error) {
	var out []int
	err := eachElement(v, func(elem any) error {
		n, err := toInt64(elem)
		if err != nil {
			return err
		}
		out = append(out, int(n))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func toStringSet(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	var out []string
	err := eachElement(v, func(elem any) error {
		s, err := toString(elem)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func eachElement(v any, fn func(any) error) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := fn(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := fn(iter.Key().Interface()); err != nil {
				return fmt.Errorf("element %v: %w", iter.Key().Interface(), err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w %T for set", errUnsupportedType, v)
	}
}

// toLocale validates a BCP 47 tag carrying an explicit region and renders it
// the way the static data endpoints expect it ("en_US").
func toLocale(v any) (string, error) {
	raw, err := toString(v)
	if err != nil {
		return "", err
	}
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("locale %q: %w", raw, err)
	}
	base, _ := tag.Base()
	region, confidence := tag.Region()
	if confidence != language.Exact {
		return "", fmt.Errorf("locale %q has no region", raw)
	}
	return base.String() + "_" + region.String(), nil
}
