package sparser

import (
	farm "github.com/dgryski/go-farm"
	gunsafe "github.com/grailbio/base/unsafe"
)

// RawFilter is a short byte string used as a cheap presence test before
// full parsing (spec.md §3). Source identifies the original predicate
// (by index into RawFilterTable.Predicates) it was extracted from.
type RawFilter struct {
	Bytes  []byte
	Source int
}

// RawFilterTable is the Decomposer's output: an ordered sequence of raw
// filters (in emission order) with the retained original predicate
// strings, indexed by Source.
type RawFilterTable struct {
	Filters    []RawFilter
	Predicates []string
}

// Decompose splits each predicate into fixed-width ASCII raw filters
// per spec.md §4.B: predicates no longer than opts.RawFilterWidth
// become a single filter; longer predicates become the sequence of
// sliding opts.RawFilterWidth-byte windows. Windows repeated within one
// predicate's own emission are deduplicated (see SPEC_FULL.md §3);
// filters from different predicates are never merged, even if
// bit-identical, so the scheduler's same-source exclusion rule stays
// sound.
//
// Decompose rejects an empty predicates slice or any empty predicate
// string with an InputValidation error, before any decomposition runs
// (spec.md §4.B).
func Decompose(predicates []string, opts Opts) (*RawFilterTable, error) {
	if len(predicates) == 0 {
		return nil, ErrEmptyQuery
	}
	w := opts.RawFilterWidth
	table := &RawFilterTable{
		Predicates: append([]string(nil), predicates...),
	}
	for source, predicate := range predicates {
		if len(predicate) == 0 {
			return nil, ErrEmptyPredicate
		}
		windows := slidingWindows(predicate, w)
		seen := make(map[uint64]struct{}, len(windows))
		for _, win := range windows {
			h := farm.Hash64(win)
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			table.Filters = append(table.Filters, RawFilter{Bytes: win, Source: source})
		}
	}
	return table, nil
}

// kernelWidth clamps a raw-filter width down to one the kernel package
// actually supports (1, 2, or 4 bytes). The only case spec.md §4.B's
// "L <= W" branch can hand us that isn't already a supported width is
// L==3: rather than zero-pad to 4 (which would make the filter's last
// byte an implicit 0x00 that ordinary ASCII text never contains,
// effectively disabling the filter), this truncates to the 2
// left-most bytes -- a resolved Open Question, see DESIGN.md.
func kernelWidth(l int) int {
	switch {
	case l >= 4:
		return 4
	case l == 3:
		return 2
	default:
		return l
	}
}

func slidingWindows(predicate string, width int) [][]byte {
	l := len(predicate)
	if l <= width {
		kw := kernelWidth(l)
		return [][]byte{gunsafe.StringToBytes(predicate[:kw])}
	}
	windows := make([][]byte, 0, l-width+1)
	for t := 0; t <= l-width; t++ {
		windows = append(windows, gunsafe.StringToBytes(predicate[t:t+width]))
	}
	return windows
}
