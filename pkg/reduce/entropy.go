package reduce

import (
	"encoding/binary"
	"math/bits"
)

// extendEntropyWords replaces words in place with SHA-1-message-schedule
// style extension: build a temporary array twice the length, with the
// input as the first half, then T[i] = rotl32(T[i-w] ^ T[i-2], 1) for
// the second half, and copy the second half back over the input.
func extendEntropyWords(words []uint32) {
	w := len(words)
	t := make([]uint32, w*2)
	copy(t, words)
	for i := w; i < 2*w; i++ {
		t[i] = bits.RotateLeft32(t[i-w]^t[i-2], 1)
	}
	copy(words, t[w:])
}

// extendEntropyBytes applies extendEntropyWords to a byte buffer whose
// length must be a multiple of 4, viewing it as big-endian uint32 words.
func extendEntropyBytes(buf []byte) {
	n := len(buf) / 4
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		words[i] = binary.BigEndian.Uint32(buf[i*4:])
	}
	extendEntropyWords(words)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint32(buf[i*4:], words[i])
	}
}
