package sparser

import "github.com/grailbio/base/errors"

// Stats is the cumulative sparser_stats surface of spec.md §6, §4.F.
type Stats struct {
	// Records is the number of delimited records the Executor saw.
	Records int
	// TotalMatches counts records that survived the full filter
	// schedule, regardless of what the parser callback decided.
	TotalMatches int
	// SparserPassed is an alias for TotalMatches kept distinct because
	// the two diverge in spec.md's naming (§6's fraction formulas refer
	// to sparser_passed specifically); both are always equal in this
	// implementation and are not independently derived.
	SparserPassed int
	// CallbackPassed counts records the parser callback accepted, among
	// those that survived the schedule.
	CallbackPassed int
	// BytesSeekedForward/BytesSeekedBackward count delimiter-seek bytes
	// spent reconstructing a record when the Executor is handed an
	// arbitrary byte split rather than line-framed input (spec.md §4.F).
	BytesSeekedForward  int64
	BytesSeekedBackward int64
	// ParserErrors counts records for which the parser callback
	// returned a non-nil error; these records are treated as rejected
	// but never abort the scan (spec.md §7).
	ParserErrors int

	// FractionPassedCorrect and FractionPassedIncorrect are derived by
	// Finalize, not maintained incrementally.
	FractionPassedCorrect   float64
	FractionPassedIncorrect float64

	// errs accumulates per-record parser errors without aborting the
	// scan, the way encoding/fastq/downsample.go collects per-record
	// errors via errors.Once.
	errs errors.Once
}

// Finalize computes the fraction fields from the accumulated counters.
// fraction_passed_incorrect is reported as 0, not NaN, when
// sparser_passed is 0 (spec.md §6).
func (s *Stats) Finalize() {
	if s.SparserPassed == 0 {
		s.FractionPassedCorrect = 0
		s.FractionPassedIncorrect = 0
		return
	}
	s.FractionPassedCorrect = float64(s.CallbackPassed) / float64(s.SparserPassed)
	s.FractionPassedIncorrect = 1 - s.FractionPassedCorrect
}

// Err returns the first parser error recorded during the scan, if any,
// wrapped with a ParserError kind (spec.md §7). A non-nil Err never
// means the scan aborted early; it is diagnostic only.
func (s *Stats) Err() error {
	return s.errs.Err()
}

func (s *Stats) recordParserError(err error) {
	s.ParserErrors++
	s.errs.Set(errors.E(errors.Other, "sparser: parser callback error", err))
}
