package sparser

// Opts holds the tunable limits spec'd as normative constants in
// spec.md §3. The zero value is not meaningful; use DefaultOpts, or
// copy and override individual fields the way fusion.Opts/DefaultOpts
// are used in the teacher.
type Opts struct {
	// MaxPredicateLen is L_max: predicates longer than this are
	// truncated silently by Query.Add.
	MaxPredicateLen int
	// MaxPredicateCount is Q_max: Query.Add rejects the (MaxPredicateCount+1)'th
	// predicate.
	MaxPredicateCount int
	// MaxSampleRecords is N_max: the Sampler stops after this many
	// delimited sample records.
	MaxSampleRecords int
	// MaxConsideredFilters is S_max: the Sampler allocates at most this
	// many selectivity bitmaps, one per raw filter considered.
	MaxConsideredFilters int
	// MaxScheduleDepth is K_max: the Scheduler enumerates schedules of
	// length 1..MaxScheduleDepth.
	MaxScheduleDepth int
	// ParserMeasurementSamples is M: the number of leading sample
	// records over which the parser callback is timed.
	ParserMeasurementSamples int
	// RawFilterWidth is W: the sliding-window width in bytes the
	// Decomposer uses for predicates longer than W.
	RawFilterWidth int
}

// DefaultOpts holds the normative constants from spec.md §3.
var DefaultOpts = Opts{
	MaxPredicateLen:          16,
	MaxPredicateCount:        32,
	MaxSampleRecords:         1024,
	MaxConsideredFilters:     32,
	MaxScheduleDepth:         4,
	ParserMeasurementSamples: 10,
	RawFilterWidth:           4,
}
