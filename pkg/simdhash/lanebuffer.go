// Package simdhash provides the lane-buffer abstraction the build and
// crack engines batch work through, and a batched hash kernel that
// fronts it. The kernel's contract (HashLanes over a whole lane buffer,
// Hash for a single input) stands in for a true SIMD hash primitive
// that processes Lanes digests in lockstep; this implementation runs
// the lanes through the standard library's crypto/md5, crypto/sha1 and
// crypto/sha256 instead of hand-written SIMD assembly, which Go cannot
// express portably without a cgo dependency the rest of this module
// avoids.
package simdhash

// Lanes is the SIMD width every lane buffer and kernel call is sized
// to. It stands in for the hardware vector width (e.g. AVX2 8-wide
// uint32) a true SIMD kernel would be compiled for.
const Lanes = 8

// MaxHashSize is the widest digest this package produces (sha256).
const MaxHashSize = 32

// LaneBuffer is a row-major width x count byte matrix exposed as a
// set of independently addressable, independently sized lanes. Build
// uses it to hold Lanes words or Lanes hash digests in flight at once;
// crack uses it the same way for batches of candidate targets.
type LaneBuffer struct {
	width   int
	count   int
	buf     []byte
	lengths []int
}

// NewLaneBuffer allocates a buffer of count lanes, each width bytes wide.
func NewLaneBuffer(width, count int) *LaneBuffer {
	return &LaneBuffer{
		width:   width,
		count:   count,
		buf:     make([]byte, width*count),
		lengths: make([]int, count),
	}
}

// NewDefaultLaneBuffer allocates a buffer with Lanes lanes.
func NewDefaultLaneBuffer(width int) *LaneBuffer {
	return NewLaneBuffer(width, Lanes)
}

// Width returns the per-lane capacity in bytes.
func (b *LaneBuffer) Width() int { return b.width }

// Count returns the number of lanes.
func (b *LaneBuffer) Count() int { return b.count }

// Lane returns the full-width backing slice for lane i. Callers track
// the meaningful prefix themselves via SetLength/Length.
func (b *LaneBuffer) Lane(i int) []byte {
	return b.buf[i*b.width : (i+1)*b.width]
}

// SetLength records the number of meaningful bytes currently in lane i.
func (b *LaneBuffer) SetLength(i, n int) {
	b.lengths[i] = n
}

// Length returns the number of meaningful bytes in lane i.
func (b *LaneBuffer) Length(i int) int {
	return b.lengths[i]
}

// Lengths returns the backing lengths slice. Callers must not resize it.
func (b *LaneBuffer) Lengths() []int {
	return b.lengths
}

// Reset zeroes every lane's recorded length without touching the
// underlying bytes, so a buffer can be reused across chain columns.
func (b *LaneBuffer) Reset() {
	for i := range b.lengths {
		b.lengths[i] = 0
	}
}
