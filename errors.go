package sparser

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// The five error kinds of spec.md §7, mapped onto
// github.com/grailbio/base/errors.Kind values (see SPEC_FULL.md §2):
// InputValidation -> errors.Invalid, InsufficientSamples ->
// errors.Precondition, AllocationFailed -> errors.Fatal,
// KernelUnsupported -> errors.NotSupported, ParserError -> errors.Other.
// Validation and allocation errors abort the current call; per-record
// parser errors are recorded in Stats and never abort the scan.

func errInputValidation(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, "sparser: "+fmt.Sprintf(format, args...))
}

func errInsufficientSamples(format string, args ...interface{}) error {
	return errors.E(errors.Precondition, "sparser: "+fmt.Sprintf(format, args...))
}

func errAllocationFailed(format string, args ...interface{}) error {
	return errors.E(errors.Fatal, "sparser: "+fmt.Sprintf(format, args...))
}

// ErrEmptyQuery is returned by Calibrate when the query has no
// predicates (spec.md §6, §7).
var ErrEmptyQuery = errInputValidation("query has no predicates")

// ErrTooManyPredicates is returned by Query.Add once the query already
// holds Opts.MaxPredicateCount predicates.
var ErrTooManyPredicates = errInputValidation("query exceeds max predicate count")

// ErrEmptyPredicate is returned by Decompose for a zero-length
// predicate (spec.md §4.B).
var ErrEmptyPredicate = errInputValidation("predicate must not be empty")

// ErrInsufficientSamples is returned by Calibrate when the sample
// buffer yields zero delimited records (spec.md §7).
var ErrInsufficientSamples = errInsufficientSamples("sample buffer yields no delimited records")

// ErrAllocationFailed is returned by Sample and Search when
// Opts.MaxSampleRecords is not positive, so the per-filter and joint
// selectivity bitmaps (spec.md §4.A, sized N_max bits) have no usable
// capacity to allocate (spec.md §7).
var ErrAllocationFailed = errAllocationFailed("cannot allocate selectivity bitmap: MaxSampleRecords must be positive")

// WrapParserError wraps a structural error a ParserCallback
// implementation encountered (e.g. malformed input it could not parse
// at all) so it surfaces through Stats as spec.md §7's ParserError
// kind rather than an opaque error.
func WrapParserError(err error) error {
	if err == nil {
		return nil
	}
	return errors.E(errors.Other, "sparser: parser callback", err)
}

// IsParserError reports whether err originated from a parser callback
// signaling a per-record structural error (spec.md §7's ParserError
// kind). Such errors are recorded in Stats and never abort a scan.
func IsParserError(err error) bool {
	return errors.Is(errors.Other, err)
}
