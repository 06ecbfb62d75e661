package main

/*
sparser-grep is a demo CLI for github.com/grailbio/sparser: it
calibrates a raw-filter schedule against a sample of a JSON-lines file,
then scans the whole file, parsing each surviving record as JSON and
checking one field for equality against a target value.

Example:

    sparser-grep -field=user -value=alovelace -query=alovelace input.jsonl.gz
*/

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/sparser"
	"github.com/grailbio/sparser/internal/source"
)

var (
	queryFlag   = flag.String("query", "", "comma-separated substring predicates the record must contain")
	field       = flag.String("field", "", "JSON field to check for equality once a record survives the raw filters")
	value       = flag.String("value", "", "value -field must equal for the record to be a true match")
	delimFlag   = flag.String("delim", "\n", "record delimiter (single byte)")
	sampleBytes = flag.Int("sample-bytes", 1<<20, "bytes from the start of the input used for calibration")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] path\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one positional argument (input path) required")
	}
	if *delimFlag == "" {
		log.Fatalf("-delim must not be empty")
	}
	delim := (*delimFlag)[0]

	ctx := context.Background()
	data, err := source.Load(ctx, flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	query := sparser.NewQuery()
	for _, p := range strings.Split(*queryFlag, ",") {
		if p == "" {
			continue
		}
		if err := query.Add(p); err != nil {
			log.Fatalf("query.Add(%q): %v", p, err)
		}
	}

	parser := jsonFieldEquals(*field, *value)

	n := len(data)
	if n > *sampleBytes {
		n = *sampleBytes
	}
	cal, err := sparser.Calibrate(data[:n], query, delim, parser)
	if err != nil {
		log.Fatalf("calibrate: %v", err)
	}
	log.Debug.Printf("schedule: filters=%v cost=%.1f skipped=%d processed=%d",
		cal.Schedule.Filters, cal.Schedule.BestCost, cal.Schedule.Skipped, cal.Schedule.Processed)

	stats, err := sparser.Scan(data, delim, cal.Schedule, parser, func(rec []byte) {
		os.Stdout.Write(rec)
		os.Stdout.Write([]byte{'\n'})
	}, nil)
	if err != nil {
		log.Fatalf("scan: %v", err)
	}
	if stats.Err() != nil {
		log.Error.Printf("parser errors during scan: %v", stats.Err())
	}

	log.Printf("records=%d sparser_passed=%d callback_passed=%d fraction_passed_correct=%.4f fraction_passed_incorrect=%.4f",
		stats.Records, stats.SparserPassed, stats.CallbackPassed,
		stats.FractionPassedCorrect, stats.FractionPassedIncorrect)
}

// jsonFieldEquals is a toy ParserCallback (spec.md §6): it parses a
// record as a flat JSON object and reports a match if field's value,
// stringified, equals want. A record that isn't valid JSON surfaces as
// a per-record ParserError rather than a match.
func jsonFieldEquals(field, want string) sparser.ParserCallback {
	return func(record []byte) (bool, error) {
		var doc map[string]interface{}
		if err := json.Unmarshal(record, &doc); err != nil {
			return false, sparser.WrapParserError(err)
		}
		v, ok := doc[field]
		if !ok {
			return false, nil
		}
		return fmt.Sprint(v) == want, nil
	}
}
