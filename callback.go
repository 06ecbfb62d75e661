package sparser

// ParserCallback is the caller-supplied full-record parser (spec.md
// §6). It reports whether the record matches the caller's actual
// (non-substring) semantics, or a non-nil err if the record could not
// be parsed at all. A parser error never aborts a Scan or Sample run:
// Scan records it in Stats and treats the record as not matched, and
// Sample only times the callback and ignores both of its results.
type ParserCallback func(record []byte) (matched bool, err error)

// MatchCallback is invoked once per record that both survives the
// filter schedule and is accepted by ParserCallback (spec.md §6's
// on_match_cb).
type MatchCallback func(record []byte)
