package engine

import (
	"bytes"
	"math/big"

	"github.com/kryc/rainbowcrack-go/pkg/pools"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// ValidateChain regenerates the chain starting at start_idx and walks
// it forward, hashing and reducing column by column, looking for an
// exact match against target. A positive endpoint lookup that fails
// this check is a false positive: the endpoint collided without the
// underlying hash chain actually passing through target.
func (e *Engine) ValidateChain(startIdx uint64, target []byte, chainLength uint64) (plaintext []byte, ok bool) {
	idx := new(big.Int).Add(e.lower, new(big.Int).SetUint64(startIdx))
	word := wordcodec.GenerateWord(idx, e.charset)

	hashBuf := pools.GetBytes(e.kernel.Width())
	defer pools.PutBytes(hashBuf)
	for k := uint64(0); k < chainLength; k++ {
		h := e.kernel.Hash(word, hashBuf[:0])
		if bytes.Equal(h, target) {
			return word, true
		}
		reduced, err := e.reducer.Reduce(make([]byte, 0, e.cfg.Max), h, k)
		if err != nil {
			return nil, false
		}
		word = reduced
	}
	return nil, false
}
