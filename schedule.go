package sparser

import (
	"time"

	"github.com/grailbio/sparser/bitset"
)

// Schedule is the Scheduler's output: an ordered sequence of raw-filter
// indices (into the RawFilterTable the Scheduler was given) to apply, in
// ascending index order, before ever invoking the parser callback.
type Schedule struct {
	Filters []int // indices into RawFilterTable.Filters

	// Needles holds the actual filter byte strings in schedule order,
	// resolved from Filters against the RawFilterTable Search was given,
	// so the Executor can apply a Schedule without also needing the
	// table around (matching spec.md §6's scan(input_bytes, Schedule,
	// delimiter, parser_cb, on_match_cb) signature).
	Needles [][]byte

	BestCost float64

	// Skipped counts k-tuples rejected by the same-source rule.
	Skipped int
	// Processed counts k-tuples that were actually costed.
	Processed int
	// TotalCycles is the wall-clock time spent searching, in
	// nanoseconds (spec.md §4.E's "monotonic counter" accumulation).
	TotalCycles int64
}

// rfCost is c(f) = 8*|f|, the vector-lane cost model of spec.md §4.E.
func rfCost(filterLen int) float64 {
	return 8 * float64(filterLen)
}

// Search enumerates every valid schedule of length 1..opts.MaxScheduleDepth
// over table's filters, using sample's selectivity bitmaps and N, and
// returns the lowest-cost one found (spec.md §4.E).
//
// Enumeration visits k-combinations of distinct filter indices (each
// tuple in strictly increasing index order, so no permutation of a
// combination is costed) in lexicographic order for each k from 1 to
// opts.MaxScheduleDepth; a
// tuple is skipped (and not costed) if any two of its filters share a
// Source predicate, since a record can never be rejected twice by the
// same predicate's own substrings in a way that's independent of
// itself. Ties keep the first (lexicographically earliest, smallest k
// first) schedule found.
func Search(table *RawFilterTable, sample *SampleResult, opts Opts) (*Schedule, error) {
	start := time.Now()

	if opts.MaxSampleRecords <= 0 {
		return nil, ErrAllocationFailed
	}

	f := len(sample.Bitmaps)
	if f == 0 {
		return nil, errInputValidation("no sampled filters to schedule")
	}
	n := sample.NumRecords

	sched := &Schedule{BestCost: -1}
	joint := bitset.New(opts.MaxSampleRecords)

	maxDepth := opts.MaxScheduleDepth
	if maxDepth > f {
		maxDepth = f
	}

	indices := make([]int, 0, maxDepth)
	for k := 1; k <= maxDepth; k++ {
		searchDepth(table, sample, n, k, f, indices, joint, sched)
	}

	sched.TotalCycles = time.Since(start).Nanoseconds()
	if sched.BestCost < 0 {
		return nil, errInputValidation("no valid schedule found (every filter shares a source?)")
	}
	sched.Needles = make([][]byte, len(sched.Filters))
	for i, idx := range sched.Filters {
		sched.Needles[i] = table.Filters[idx].Bytes
	}
	return sched, nil
}

// searchDepth enumerates every ordered k-length combination of distinct
// indices from [0, f) in lexicographic order by recursive extension of
// the prefix `chosen`, scoring each complete tuple against sched.
func searchDepth(table *RawFilterTable, sample *SampleResult, n, k, f int, chosen []int, joint *bitset.Bitset, sched *Schedule) {
	if len(chosen) == k {
		scoreTuple(table, sample, n, chosen, joint, sched)
		return
	}
	lo := 0
	if len(chosen) > 0 {
		lo = chosen[len(chosen)-1] + 1
	}
	for i := lo; i < f; i++ {
		searchDepth(table, sample, n, k, f, append(chosen, i), joint, sched)
	}
}

func scoreTuple(table *RawFilterTable, sample *SampleResult, n int, tuple []int, joint *bitset.Bitset, sched *Schedule) {
	if sameSource(table, tuple) {
		sched.Skipped++
		return
	}
	sched.Processed++

	cost := rfCost(len(table.Filters[tuple[0]].Bytes))
	joint.CopyFrom(sample.Bitmaps[tuple[0]])
	prevSelectivity := selectivity(joint, n)
	for j := 1; j < len(tuple); j++ {
		cost += prevSelectivity * rfCost(len(table.Filters[tuple[j]].Bytes))
		joint.AndInto(joint, sample.Bitmaps[tuple[j]])
		prevSelectivity = selectivity(joint, n)
	}
	cost += prevSelectivity * sample.ParserCost

	if sched.BestCost < 0 || cost < sched.BestCost {
		sched.BestCost = cost
		sched.Filters = append(sched.Filters[:0], tuple...)
	}
}

func selectivity(b *bitset.Bitset, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(b.Count()) / float64(n)
}

func sameSource(table *RawFilterTable, tuple []int) bool {
	seen := make(map[int]struct{}, len(tuple))
	for _, idx := range tuple {
		src := table.Filters[idx].Source
		if _, dup := seen[src]; dup {
			return true
		}
		seen[src] = struct{}{}
	}
	return false
}
