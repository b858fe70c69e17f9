package simdhash

import (
	"github.com/kryc/rainbowcrack-go/pkg/hashalgo"
)

// Kernel batches hashing of up to Lanes independently-sized inputs
// under one algorithm: HashLanes hashes a whole lane buffer, Hash a
// single input.
type Kernel struct {
	algo  hashalgo.Algorithm
	width int
}

// NewKernel constructs a Kernel for the given algorithm.
func NewKernel(algo hashalgo.Algorithm) *Kernel {
	return &Kernel{algo: algo, width: algo.Width()}
}

// Width returns the digest size this kernel produces.
func (k *Kernel) Width() int { return k.width }

// HashLanes hashes in.Lane(i)[:in.Length(i)] for every lane i < in.Count()
// and writes the digest into out.Lane(i), setting out's per-lane length
// to k.Width(). in and out may have different widths but must have the
// same lane count.
func (k *Kernel) HashLanes(in, out *LaneBuffer) {
	for i := 0; i < in.Count(); i++ {
		digest := hashalgo.Hash(k.algo, in.Lane(i)[:in.Length(i)], out.Lane(i)[:0])
		out.SetLength(i, len(digest))
	}
}

// Hash is the scalar single-input path used outside of batched chain
// columns (single-hash crack, chain validation).
func (k *Kernel) Hash(data []byte, dst []byte) []byte {
	return hashalgo.Hash(k.algo, data, dst)
}
