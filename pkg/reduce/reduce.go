// Package reduce implements the two reducers that turn a hash digest
// plus a chain column number back into a word drawn uniformly from the
// password space without modulo bias: Bytewise for fixed-length
// passwords and Modulo for variable-length ones.
package reduce

import (
	"fmt"

	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// Reducer maps a hash digest and a chain column to a word in
// [Min, Max] bytes long, deterministically and without bias. dst must
// have capacity for Max bytes; the returned slice aliases dst.
type Reducer interface {
	Reduce(dst []byte, hash []byte, column uint64) ([]byte, error)
}

// New picks the concrete reducer implied by min and max: Bytewise when
// they're equal (fixed length), Modulo otherwise.
func New(min, max int, hashWidth int, charset *wordcodec.Charset) (Reducer, error) {
	if min == max {
		return NewBytewise(min, max, charset)
	}
	return NewModulo(min, max, hashWidth, charset)
}

func validateBounds(min, max int, charset *wordcodec.Charset) error {
	if min <= 0 || max <= 0 {
		return fmt.Errorf("reduce: min and max must be positive, got min=%d max=%d", min, max)
	}
	if min > max {
		return fmt.Errorf("reduce: min (%d) exceeds max (%d)", min, max)
	}
	if charset == nil || charset.Len() == 0 {
		return fmt.Errorf("reduce: charset must not be empty")
	}
	return nil
}
