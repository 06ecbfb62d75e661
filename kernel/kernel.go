// Package kernel implements the width-specialized vectorized presence
// scans spec'd in the raw-filter accelerator: an 8/16/32-bit needle
// broadcast into a 32-byte lane, a masked movemask-equivalent population
// count per width, and the conjunctive MemMem substring test the
// sampler and executor use to evaluate a single raw filter against a
// record.
//
// The lane arithmetic mirrors the AVX2 shape in the original Rust
// prototype's sparser_kernels.rs (_mm256_cmpeq_epi{8,16,32} +
// _mm256_movemask_epi8, masked with 0x55555555/0x11111111 to de-alias
// the 16/32-bit comparisons down to one bit per logical lane) but is
// written in portable Go: there is no hardware register here, only a
// [LaneWidth]byte standing in for one, and the "movemask" is built
// byte-by-byte rather than with an intrinsic. Correctness, not cycle
// count, is the property this package is tested against; see
// DESIGN.md for why no arch-specific assembly variant is included.
package kernel

import (
	"math/bits"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/simd"
)

// LaneWidth is the width in bytes of one SIMD lane. Real AVX2 registers
// are 256 bits; base/simd.BytesPerVec reports the machine's actual
// native vector width, but the kernels here are spec'd against a fixed
// 32-byte lane regardless of what the host CPU actually has, exactly as
// spec.md §4.C requires.
const LaneWidth = 32

// groupMaskForWidth returns the repeating bit pattern that, ANDed with a
// raw per-byte equality mask, keeps exactly one bit per width-byte group:
// width=1 -> 0xffffffff (no aliasing), width=2 -> 0x55555555, width=4 ->
// 0x11111111, matching spec.md §4.C exactly.
func groupMaskForWidth(width int) uint32 {
	var unit uint32 = 1
	var mask uint32
	for shift := 0; shift < 32; shift += width {
		mask |= unit << uint(shift)
	}
	return mask
}

// BuildNeedleLane broadcast-fills a 1/2/4-byte raw filter into a
// LaneWidth-byte needle register: needle is replicated end to end so
// every width-aligned position in the lane carries a fresh copy.
func BuildNeedleLane(needle []byte) (lane [LaneWidth]byte, err error) {
	width := len(needle)
	if width != 1 && width != 2 && width != 4 {
		return lane, errors.E(errors.NotSupported, "kernel: unsupported needle width", width)
	}
	for i := 0; i < LaneWidth; i++ {
		lane[i] = needle[i%width]
	}
	return lane, nil
}

// rawEqualityMask compares haystackLane and needleLane byte-wise and
// returns a 32-bit mask with bit i set iff haystackLane[i] ==
// needleLane[i] -- the Go stand-in for _mm256_movemask_epi8(
// _mm256_cmpeq_epi8(haystackLane, needleLane)).
func rawEqualityMask(haystackLane, needleLane [LaneWidth]byte) uint32 {
	var mask uint32
	for i := 0; i < LaneWidth; i++ {
		if haystackLane[i] == needleLane[i] {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// groupMatchMask AND-reduces raw, a per-byte equality mask, within each
// width-byte group, so that bit i of the result is set only when
// position i starts a group (i.e. i is a multiple of width) *and*
// every one of that group's width bytes equalled the corresponding
// needle byte. A single equal byte at a width-aligned offset is not
// enough for width > 1 -- every byte in the group must match, or the
// needle has not actually occurred there. de-aliasing with
// groupMaskForWidth only happens after this reduction, to discard the
// non-group-start bits the shifted ANDs also touch.
func groupMatchMask(raw uint32, width int) uint32 {
	reduced := raw
	for shift := 1; shift < width; shift++ {
		reduced &= raw >> uint(shift)
	}
	return reduced & groupMaskForWidth(width)
}

// SearchEpi8 counts lane positions where an 8-bit (1-byte) needle
// matches, one bit per byte, no de-aliasing required.
func SearchEpi8(needleLane, haystackLane [LaneWidth]byte) int {
	mask := groupMatchMask(rawEqualityMask(haystackLane, needleLane), 1)
	return bits.OnesCount32(mask)
}

// SearchEpi16 counts lane positions where a 16-bit (2-byte) needle
// matches: both bytes of a 2-byte group must equal the corresponding
// needle byte, not merely the group's first byte, before that group's
// representative bit (masked with 0x55555555) counts.
func SearchEpi16(needleLane, haystackLane [LaneWidth]byte) int {
	mask := groupMatchMask(rawEqualityMask(haystackLane, needleLane), 2)
	return bits.OnesCount32(mask)
}

// SearchEpi32 counts lane positions where a 32-bit (4-byte) needle
// matches: all four bytes of a 4-byte group must equal the
// corresponding needle byte before that group's representative bit
// (masked with 0x11111111) counts.
func SearchEpi32(needleLane, haystackLane [LaneWidth]byte) int {
	mask := groupMatchMask(rawEqualityMask(haystackLane, needleLane), 4)
	return bits.OnesCount32(mask)
}

// search dispatches to the width-specialized kernel and returns the
// number of width-aligned positions in haystackLane that matched
// needleLane (0 for an unsupported width).
func search(width int, needleLane, haystackLane [LaneWidth]byte) int {
	switch width {
	case 1:
		return SearchEpi8(needleLane, haystackLane)
	case 2:
		return SearchEpi16(needleLane, haystackLane)
	case 4:
		return SearchEpi32(needleLane, haystackLane)
	default:
		return 0
	}
}

func loadLane(haystack []byte, start int) (lane [LaneWidth]byte) {
	end := start + LaneWidth
	if end > len(haystack) {
		end = len(haystack)
	}
	if end > start {
		copy(lane[:], haystack[start:end])
	}
	// Bytes beyond the haystack stay zero: spec.md §4.C's sentinel pad for
	// the tail lane.
	return lane
}

// MemMem reports whether needle occurs as a contiguous byte subsequence
// at any offset (width-aligned or not) in haystack. needle must be 1, 2,
// or 4 bytes; any other width returns a KernelUnsupported-kind error.
//
// The haystack is walked in LaneWidth-byte windows advancing by
// LaneWidth-(width-1) bytes so consecutive windows overlap by width-1
// bytes. Within one window, width distinct byte-shifted sub-lanes are
// checked (shift 0..width-1), each testing the width-aligned positions
// relative to its own shifted start; together they cover every
// unshifted absolute offset in the window exactly once, which is how
// this realizes spec.md §4.C's "lanes overlap by W-1 to cover unaligned
// offsets" with only width-aligned per-lane comparisons.
func MemMem(haystack, needle []byte) (bool, error) {
	width := len(needle)
	needleLane, err := BuildNeedleLane(needle)
	if err != nil {
		return false, err
	}
	if len(haystack) == 0 {
		return false, nil
	}
	step := LaneWidth - (width - 1)
	for start := 0; ; start += step {
		for shift := 0; shift < width; shift++ {
			if start+shift >= len(haystack) {
				break
			}
			lane := loadLane(haystack, start+shift)
			if search(width, needleLane, lane) > 0 {
				return true, nil
			}
		}
		if start+LaneWidth >= len(haystack) {
			return false, nil
		}
	}
}

// NativeVectorWidth reports the host's actual native SIMD vector width
// in bytes, for diagnostics only: the kernels above always compute
// against a fixed LaneWidth-byte lane regardless of what this returns.
func NativeVectorWidth() int {
	return simd.BytesPerVec()
}
