package reduce

import (
	"fmt"

	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// Bytewise is the fixed-length reducer: it consumes hash bytes
// left-to-right, rejecting any byte that would introduce modulo bias,
// and never touches the column (the fixed-length password space is
// small enough that per-column salting isn't needed to avoid chain
// merges in practice, matching the reference behavior).
type Bytewise struct {
	length  int
	charset *wordcodec.Charset
	modMax  int
}

// NewBytewise constructs a Bytewise reducer. min must equal max.
func NewBytewise(min, max int, charset *wordcodec.Charset) (*Bytewise, error) {
	if err := validateBounds(min, max, charset); err != nil {
		return nil, err
	}
	if min != max {
		return nil, fmt.Errorf("reduce: bytewise reducer requires min == max, got min=%d max=%d", min, max)
	}
	m := charset.Len()
	modMax := (256 / m) * m
	return &Bytewise{length: max, charset: charset, modMax: modMax}, nil
}

// Reduce implements Reducer. column is accepted for interface
// uniformity but unused.
func (r *Bytewise) Reduce(dst []byte, hash []byte, column uint64) ([]byte, error) {
	if cap(dst) < r.length {
		return nil, fmt.Errorf("reduce: destination capacity %d smaller than length %d", cap(dst), r.length)
	}

	buf := make([]byte, len(hash))
	copy(buf, hash)

	out := dst[:r.length]
	offset := 0
	count := 0
	charsetSize := r.charset.Len()

	for count < r.length {
		if offset == len(buf) {
			extendEntropyBytes(buf)
			offset = 0
		}
		next := buf[offset]
		offset++
		if int(next) < r.modMax {
			out[count] = r.charset.At(int(next) % charsetSize)
			count++
		}
	}

	return out, nil
}
