// +build !linux,!darwin

package source

// tryMmap is unsupported on this platform; Load always falls back to
// an ordinary read.
func tryMmap(path string) (data []byte, ok bool, err error) {
	return nil, false, nil
}
