// +build linux darwin

package source

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryMmap maps path read-only for zero-copy access, the way
// fusion/kmer_index.go reaches for unix.Mmap to avoid a copy into Go's
// heap -- there it maps an anonymous scratch region; here it maps an
// actual file descriptor, which is the usual use of the same call.
// ok is false (data, err both zero) if path isn't a regular file we
// can map this way; the caller falls back to an ordinary read.
func tryMmap(path string) (data []byte, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return nil, false, nil
	}

	data, err = unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
