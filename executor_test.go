package sparser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/grailbio/sparser"
	"github.com/stretchr/testify/assert"
)

// S6: end-to-end. Calibrate on the first 2000 bytes (113 full sample
// records plus one partial one), scan 10,000 records, assert
// sparser_passed >= callback_passed and records == 10,000.
func TestScanScenarioS6EndToEnd(t *testing.T) {
	const nRecords = 10000
	var buf strings.Builder
	for i := 0; i < nRecords; i++ {
		if i%7 == 0 {
			fmt.Fprintf(&buf, "user=alovelace id=%d\n", i)
		} else {
			fmt.Fprintf(&buf, "user=other id=%d\n", i)
		}
	}
	data := []byte(buf.String())

	query := sparser.NewQuery()
	assert.NoError(t, query.Add("alovelace"))

	parser := func(rec []byte) (bool, error) {
		return strings.Contains(string(rec), "user=alovelace"), nil
	}

	cal, err := sparser.Calibrate(data[:2000], query, '\n', parser)
	assert.NoError(t, err)

	stats, err := sparser.Scan(data, '\n', cal.Schedule, parser, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, nRecords, stats.Records)
	assert.GreaterOrEqual(t, stats.SparserPassed, stats.CallbackPassed)
}

func TestScanAppliesScheduleShortCircuit(t *testing.T) {
	table, err := sparser.Decompose([]string{"needle"}, sparser.DefaultOpts)
	assert.NoError(t, err)
	sample, err := sparser.Sample([]byte("has needle here\nno match\n"), '\n', table,
		func([]byte) (bool, error) { return true, nil }, sparser.DefaultOpts)
	assert.NoError(t, err)
	sched, err := sparser.Search(table, sample, sparser.DefaultOpts)
	assert.NoError(t, err)

	var seen [][]byte
	parser := func(rec []byte) (bool, error) { return true, nil }
	onMatch := func(rec []byte) { seen = append(seen, append([]byte(nil), rec...)) }

	stats, err := sparser.Scan([]byte("has needle here\nno match\n"), '\n', sched, parser, onMatch, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.SparserPassed)
	assert.Len(t, seen, 1)
	assert.Contains(t, string(seen[0]), "needle")
}

func TestScanRecordsParserErrorsWithoutAborting(t *testing.T) {
	sched := &sparser.Schedule{} // empty schedule: every record survives filtering
	callCount := 0
	parser := func(rec []byte) (bool, error) {
		callCount++
		if string(rec) == "bad" {
			return false, sparser.WrapParserError(fmt.Errorf("malformed"))
		}
		return true, nil
	}
	stats, err := sparser.Scan([]byte("good\nbad\ngood\n"), '\n', sched, parser, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 1, stats.ParserErrors)
	assert.Equal(t, 2, stats.CallbackPassed)
	assert.Error(t, stats.Err())
}

func TestStatsFractionIncorrectZeroWhenNothingPassed(t *testing.T) {
	sched := &sparser.Schedule{Needles: [][]byte{[]byte("xyz")}}
	parser := func(rec []byte) (bool, error) { return true, nil }
	stats, err := sparser.Scan([]byte("nope\nnothere\n"), '\n', sched, parser, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.SparserPassed)
	assert.Equal(t, 0.0, stats.FractionPassedCorrect)
	assert.Equal(t, 0.0, stats.FractionPassedIncorrect)
}

func TestScanHonorsStopFlag(t *testing.T) {
	sched := &sparser.Schedule{}
	calls := 0
	parser := func(rec []byte) (bool, error) { return true, nil }
	stop := func() bool {
		calls++
		return calls > 2
	}
	stats, err := sparser.Scan([]byte("a\nb\nc\nd\ne\n"), '\n', sched, parser, nil, stop)
	assert.NoError(t, err)
	assert.Less(t, stats.Records, 5)
}
