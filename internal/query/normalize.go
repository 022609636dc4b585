package query

import (
	"context"
	"errors"
)

// Normalize validates raw against s and returns the coerced, defaulted
// parameters. raw is never modified. Keys the schema does not declare are
// dropped, except for keys added by Finish transforms.
//
// Default providers run at most once per absent key and may block.
func Normalize(ctx context.Context, s Schema, raw Query) (Normalized, error) {
	work := make(Values, len(raw))
	for k, v := range raw {
		if v != nil {
			work[k] = v
		}
	}
	for _, t := range s.Prepare {
		if err := t(work); err != nil {
			return Normalized{}, s.wrap(err)
		}
	}

	chosen := make([]Alternative, 0, len(s.Required))
	for _, g := range s.Required {
		alt, ok := g.pick(work)
		if !ok {
			return Normalized{}, s.unsatisfied(g)
		}
		chosen = append(chosen, alt)
	}

	out := make(Values, len(chosen)+len(s.Optional))
	for _, alt := range chosen {
		v, err := alt.Type.Coerce(work[alt.Key])
		if err != nil {
			return Normalized{}, &ValidationError{Schema: s.Name, Keys: []string{alt.Key}, Reason: ReasonTypeCoercion, Err: err}
		}
		out[alt.Key] = v
	}
	for _, f := range s.Optional {
		raw, ok := work[f.Key]
		if !ok {
			continue
		}
		v, err := f.Type.Coerce(raw)
		if err != nil {
			return Normalized{}, &ValidationError{Schema: s.Name, Keys: []string{f.Key}, Reason: ReasonTypeCoercion, Err: err}
		}
		out[f.Key] = v
	}

	for _, f := range s.Optional {
		if f.Default == nil || out.Has(f.Key) {
			continue
		}
		v, err := f.Default.resolve(ctx, f, out)
		if err != nil {
			return Normalized{}, &ValidationError{Schema: s.Name, Keys: []string{f.Key}, Reason: ReasonDefaultFailed, Err: err}
		}
		out[f.Key] = v
	}

	for _, t := range s.Finish {
		if err := t(out); err != nil {
			return Normalized{}, s.wrap(err)
		}
	}
	return Normalized{Values: out, Schema: s.Name}, nil
}

func (g Group) pick(work Values) (Alternative, bool) {
	for _, alt := range g {
		if work.Has(alt.Key) {
			return alt, true
		}
	}
	return Alternative{}, false
}

func (d *Default) resolve(ctx context.Context, f Field, partial Values) (any, error) {
	if d.Provider == nil {
		return f.Type.Coerce(d.Value)
	}
	v, err := d.Provider(ctx, partial.Clone())
	if err != nil {
		return nil, err
	}
	return d.Supplies.Coerce(v)
}

func (s Schema) unsatisfied(g Group) error {
	if len(g) == 1 {
		return &ValidationError{Schema: s.Name, Keys: g.Keys(), Reason: ReasonMissingKey}
	}
	return &ValidationError{Schema: s.Name, Keys: g.Keys(), Reason: ReasonUnsatisfiedAlternative}
}

func (s Schema) wrap(err error) error {
	if verr, ok := errors.AsType[*ValidationError](err); ok {
		if verr.Schema == "" {
			verr.Schema = s.Name
		}
		return verr
	}
	return &ValidationError{Schema: s.Name, Reason: ReasonInvalidValue, Err: err}
}
