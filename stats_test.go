package sparser_test

import (
	"testing"

	"github.com/grailbio/sparser"
	"github.com/grailbio/testutil/assert"
)

func TestStatsFinalizeDerivesFractions(t *testing.T) {
	sched := &sparser.Schedule{}
	parser := func(rec []byte) (bool, error) { return string(rec) == "yes", nil }
	stats, err := sparser.Scan([]byte("yes\nno\nyes\nno\nyes\n"), '\n', sched, parser, nil, nil)
	assert.NoError(t, err)
	assert.EQ(t, 5, stats.Records)
	assert.EQ(t, 5, stats.SparserPassed)
	assert.EQ(t, 3, stats.CallbackPassed)
	assert.EQ(t, 0.6, stats.FractionPassedCorrect)
	assert.EQ(t, 0.4, stats.FractionPassedIncorrect)
}

func TestStatsErrNilWhenNoParserErrors(t *testing.T) {
	sched := &sparser.Schedule{}
	parser := func(rec []byte) (bool, error) { return true, nil }
	stats, err := sparser.Scan([]byte("a\nb\n"), '\n', sched, parser, nil, nil)
	assert.NoError(t, err)
	assert.True(t, stats.Err() == nil)
}
