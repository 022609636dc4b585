package query

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("query validation failed")

// Reason classifies a validation failure. Each Reason is itself an error so
// callers can match it with errors.Is.
type Reason uint8

const (
	ReasonMissingKey Reason = iota + 1
	ReasonTypeCoercion
	ReasonUnsatisfiedAlternative
	ReasonDefaultFailed
	ReasonInvalidValue
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingKey:
		return "missing required key"
	case ReasonTypeCoercion:
		return "type coercion failed"
	case ReasonUnsatisfiedAlternative:
		return "no alternative present"
	case ReasonDefaultFailed:
		return "default provider failed"
	case ReasonInvalidValue:
		return "invalid value"
	default:
		return "unknown reason"
	}
}

func (r Reason) Error() string {
	return r.String()
}

type ValidationError struct {
	Schema string
	Keys   []string
	Reason Reason
	Err    error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "query %s: %s", e.Schema, e.Reason)
	switch len(e.Keys) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " %q", e.Keys[0])
	default:
		fmt.Fprintf(&b, " (one of %q)", e.Keys)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidation, e.Reason}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Invalid reports a semantically wrong value for key. Transforms use it to
// reject requests that coerce cleanly but cannot be served.
func Invalid(key string, err error) error {
	return &ValidationError{Keys: []string{key}, Reason: ReasonInvalidValue, Err: err}
}
