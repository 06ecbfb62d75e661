// Package sparser implements a raw-filtering accelerator for
// record-oriented text: it decomposes a conjunctive set of substring
// predicates into short "raw filters," samples representative input to
// measure each filter's selectivity and the real parser's cost, picks
// the cheapest-expected filter ordering via a cost model, and then
// scans the full input applying that ordering before ever invoking the
// caller's (expensive) parser -- so records that can be rejected by a
// cheap substring scan never reach it.
package sparser

// Schedule is produced by Calibrate and consumed by Scan; see
// schedule.go.

// CalibrationResult bundles everything Calibrate learns from a sample,
// in case a caller wants to inspect intermediate state (filter table,
// per-filter selectivity) rather than just the chosen Schedule.
type CalibrationResult struct {
	Table    *RawFilterTable
	Sample   *SampleResult
	Schedule *Schedule
}

// Calibrate runs the full offline pipeline of spec.md §4: decompose
// query's predicates into raw filters, sample sampleBytes (split on
// delim) to measure each filter's selectivity and parser's cost, and
// search for the lowest-expected-cost filter ordering.
//
// Calibrate returns ErrEmptyQuery if query has no predicates, and
// ErrInsufficientSamples if sampleBytes yields no delimited records.
func Calibrate(sampleBytes []byte, query *Query, delim byte, parser ParserCallback) (*CalibrationResult, error) {
	if query.Len() == 0 {
		return nil, ErrEmptyQuery
	}
	opts := query.Opts()

	table, err := Decompose(query.Predicates(), opts)
	if err != nil {
		return nil, err
	}

	sample, err := Sample(sampleBytes, delim, table, parser, opts)
	if err != nil {
		return nil, err
	}

	schedule, err := Search(table, sample, opts)
	if err != nil {
		return nil, err
	}

	return &CalibrationResult{Table: table, Sample: sample, Schedule: schedule}, nil
}
