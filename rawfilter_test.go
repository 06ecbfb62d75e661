package sparser_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/sparser"
	"github.com/stretchr/testify/assert"
)

func TestDecomposeRejectsEmptyQuery(t *testing.T) {
	_, err := sparser.Decompose(nil, sparser.DefaultOpts)
	assert.Error(t, err)
}

func TestDecomposeRejectsEmptyPredicate(t *testing.T) {
	_, err := sparser.Decompose([]string{"abc", ""}, sparser.DefaultOpts)
	assert.Error(t, err)
}

// Every emitted raw filter must be a substring of the predicate it
// claims to come from (spec.md §8.3).
func TestDecomposeSoundness(t *testing.T) {
	predicates := []string{"the quick brown fox", "lazy", "ab"}
	table, err := sparser.Decompose(predicates, sparser.DefaultOpts)
	assert.NoError(t, err)
	for _, f := range table.Filters {
		assert.True(t, bytes.Contains([]byte(predicates[f.Source]), f.Bytes),
			"filter %q not a substring of predicate %q", f.Bytes, predicates[f.Source])
	}
}

func TestDecomposeShortPredicateSingleFilter(t *testing.T) {
	table, err := sparser.Decompose([]string{"ab"}, sparser.DefaultOpts)
	assert.NoError(t, err)
	assert.Len(t, table.Filters, 1)
	assert.Equal(t, []byte("ab"), table.Filters[0].Bytes)
}

func TestDecomposeSlidingWindows(t *testing.T) {
	// "world" has length 5 > W=4: sliding 4-byte windows "worl", "orld".
	table, err := sparser.Decompose([]string{"world"}, sparser.DefaultOpts)
	assert.NoError(t, err)
	var got [][]byte
	for _, f := range table.Filters {
		got = append(got, f.Bytes)
	}
	assert.Equal(t, [][]byte{[]byte("worl"), []byte("orld")}, got)
}

func TestDecomposeDedupesWithinOwnPredicate(t *testing.T) {
	// "aaaa-aaaa" repeats the "aaaa" window; it must appear once, not
	// twice, since it's the same predicate re-emitting the same window.
	table, err := sparser.Decompose([]string{"aaaa-aaaa"}, sparser.DefaultOpts)
	assert.NoError(t, err)
	count := 0
	for _, f := range table.Filters {
		if string(f.Bytes) == "aaaa" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDecomposeNeverMergesAcrossPredicates(t *testing.T) {
	// Two different predicates that happen to share a raw filter must
	// still produce two distinct filters, each with its own Source.
	table, err := sparser.Decompose([]string{"abcd", "abcdxyz"}, sparser.DefaultOpts)
	assert.NoError(t, err)
	var sources []int
	for _, f := range table.Filters {
		if string(f.Bytes) == "abcd" {
			sources = append(sources, f.Source)
		}
	}
	assert.ElementsMatch(t, []int{0, 1}, sources)
}

func TestDecomposeLength3PredicateTruncatesToWidth2(t *testing.T) {
	table, err := sparser.Decompose([]string{"abc"}, sparser.DefaultOpts)
	assert.NoError(t, err)
	assert.Len(t, table.Filters, 1)
	assert.Equal(t, []byte("ab"), table.Filters[0].Bytes)
}
