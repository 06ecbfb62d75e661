package sparser

import (
	"time"

	"github.com/grailbio/sparser/bitset"
	"github.com/grailbio/sparser/kernel"
)

// SampleResult is the Sampler's output (spec.md §4.D): one selectivity
// bitmap per considered raw filter, the number of sample records
// actually seen, and the measured mean parser cost P_cost the
// Scheduler's cost model needs.
type SampleResult struct {
	// Bitmaps[i] has bit k set iff table.Filters[i].Bytes occurs in the
	// k'th sample record. len(Bitmaps) == min(len(table.Filters),
	// opts.MaxConsideredFilters); filters beyond MaxConsideredFilters
	// are never measured and the Scheduler must not consider them.
	Bitmaps []*bitset.Bitset
	// NumRecords is N, the number of delimited records the sampler
	// actually read (N <= opts.MaxSampleRecords).
	NumRecords int
	// ParserCost is P_cost, the mean wall-clock cost in nanoseconds of
	// one ParserCallback invocation, measured over the first
	// min(N, opts.ParserMeasurementSamples) records.
	ParserCost float64
}

// Sample streams sample, split on delim, through every raw filter in
// table (up to opts.MaxConsideredFilters of them), recording which
// sample records each filter matches, and times parser over the
// leading records to estimate its per-record cost (spec.md §4.D).
//
// Sample returns ErrInsufficientSamples if the sample buffer yields no
// delimited records at all.
func Sample(sample []byte, delim byte, table *RawFilterTable, parser ParserCallback, opts Opts) (*SampleResult, error) {
	if opts.MaxSampleRecords <= 0 {
		return nil, ErrAllocationFailed
	}

	nFilters := len(table.Filters)
	if nFilters > opts.MaxConsideredFilters {
		nFilters = opts.MaxConsideredFilters
	}

	bitmaps := make([]*bitset.Bitset, nFilters)
	for i := range bitmaps {
		bitmaps[i] = bitset.New(opts.MaxSampleRecords)
	}

	var (
		parserCostTotal time.Duration
		parserMeasured  int
		n               int
	)
	scanner := newRecordScanner(sample, delim)
	for n < opts.MaxSampleRecords {
		rec, ok := scanner.next()
		if !ok {
			break
		}
		for i := 0; i < nFilters; i++ {
			hit, err := kernel.MemMem(rec, table.Filters[i].Bytes)
			if err != nil {
				return nil, err
			}
			if hit {
				bitmaps[i].Set(n)
			}
		}
		if parserMeasured < opts.ParserMeasurementSamples {
			start := time.Now()
			_, _ = parser(rec)
			parserCostTotal += time.Since(start)
			parserMeasured++
		}
		n++
	}
	if n == 0 {
		return nil, ErrInsufficientSamples
	}

	var parserCost float64
	if parserMeasured > 0 {
		parserCost = float64(parserCostTotal.Nanoseconds()) / float64(parserMeasured)
	}

	return &SampleResult{
		Bitmaps:    bitmaps,
		NumRecords: n,
		ParserCost: parserCost,
	}, nil
}
