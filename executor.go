package sparser

import "github.com/grailbio/sparser/kernel"

// Scan runs input, split on delim, through schedule's filters and then
// parser, invoking onMatch for every record that survives both
// (spec.md §4.F). It returns cumulative Stats (sparser_stats); the
// scan always runs to completion or until stop reports true between
// records, never aborting mid-record.
//
// Per-record state machine: Framing -> Filtering -> Parsing ->
// Emit|Drop.
func Scan(input []byte, delim byte, schedule *Schedule, parser ParserCallback, onMatch MatchCallback, stop func() bool) (*Stats, error) {
	stats := &Stats{}
	scanner := newRecordScanner(input, delim)

	for {
		if stop != nil && stop() {
			break
		}
		rec, ok := scanner.next()
		if !ok {
			break
		}
		stats.Records++

		if !applySchedule(schedule, rec) {
			continue
		}
		stats.TotalMatches++
		stats.SparserPassed++

		matched, err := parser(rec)
		if err != nil {
			stats.recordParserError(err)
			continue
		}
		if matched {
			stats.CallbackPassed++
			if onMatch != nil {
				onMatch(rec)
			}
		}
	}

	stats.Finalize()
	return stats, nil
}

// applySchedule reports whether rec survives every filter in
// schedule, short-circuiting on the first rejection (spec.md §4.F
// step 2).
func applySchedule(schedule *Schedule, rec []byte) bool {
	for _, needle := range schedule.Needles {
		hit, err := kernel.MemMem(rec, needle)
		if err != nil || !hit {
			return false
		}
	}
	return true
}

// ScanSplit is like Scan but for a buffer that was cut at an arbitrary
// byte offset rather than a record boundary: it reconstructs the
// enclosing record bounds for the [from, to) sub-range by seeking
// backward to the preceding delimiter and forward to the next one,
// tracking the bytes spent doing so in Stats (spec.md §4.F's
// "arbitrary split" case), then scans exactly that reconstructed span.
func ScanSplit(input []byte, delim byte, from, to int, schedule *Schedule, parser ParserCallback, onMatch MatchCallback, stop func() bool) (*Stats, error) {
	start, _ := recordContaining(input, delim, from)
	_, end := recordContaining(input, delim, to)

	stats, err := Scan(input[start:end], delim, schedule, parser, onMatch, stop)
	if err != nil {
		return nil, err
	}
	stats.BytesSeekedBackward = int64(from - start)
	stats.BytesSeekedForward = int64(end - to)
	return stats, nil
}
