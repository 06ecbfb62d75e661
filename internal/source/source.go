// Package source turns a path on disk into a contiguous in-memory byte
// region for the sparser-grep demo CLI. It is not part of the sparser
// core: Calibrate and Scan only ever see a []byte and a delimiter, the
// way spec.md §6 describes; this package exists purely so the CLI has
// something real to hand them.
package source

import (
	"context"
	"io/ioutil"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Load reads path into memory in full, transparently gunzipping it if
// the name ends in ".gz". Regular, non-gzipped local files are mapped
// read-only via mmap when the platform supports it (see mmap_unix.go);
// anything else -- gzip input, or a non-local file.File implementation
// -- is read the ordinary way.
func Load(ctx context.Context, path string) ([]byte, error) {
	if strings.HasSuffix(path, ".gz") {
		return loadGzip(ctx, path)
	}
	if data, ok, err := tryMmap(path); err != nil {
		return nil, errors.Wrapf(err, "source: mmap %s", path)
	} else if ok {
		return data, nil
	}
	return loadPlain(ctx, path)
}

func loadPlain(ctx context.Context, path string) ([]byte, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "source: open %s", path)
	}
	defer func() { _ = f.Close(ctx) }()

	data, err := ioutil.ReadAll(f.Reader(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "source: read %s", path)
	}
	return data, nil
}

func loadGzip(ctx context.Context, path string) ([]byte, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "source: open %s", path)
	}
	defer func() { _ = f.Close(ctx) }()

	gz, err := gzip.NewReader(f.Reader(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "source: gzip %s", path)
	}
	defer func() { _ = gz.Close() }()

	data, err := ioutil.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrapf(err, "source: inflate %s", path)
	}
	return data, nil
}
