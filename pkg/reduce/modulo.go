package reduce

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// Modulo is the variable-length reducer. It samples a uniform index in
// [minIndex, maxIndex) by windowed rejection sampling over 32-bit-word
// slices of the hash, avoiding the bias a plain "hash mod range" would
// introduce, then decodes that index to a word with the word codec.
type Modulo struct {
	charset  *wordcodec.Charset
	minIndex *big.Int
	maxIndex *big.Int
	// indexRange is maxIndex - minIndex, the size of the sampled space.
	indexRange *big.Int

	hashLenWords  int
	wordsRequired int
	msbMask       uint32
}

// NewModulo constructs a Modulo reducer for words of length [min, max]
// over charset, drawing entropy from digests of hashWidth bytes.
func NewModulo(min, max int, hashWidth int, charset *wordcodec.Charset) (*Modulo, error) {
	if err := validateBounds(min, max, charset); err != nil {
		return nil, err
	}
	if hashWidth%4 != 0 {
		return nil, fmt.Errorf("reduce: hash width %d is not a multiple of 4", hashWidth)
	}

	minIndex := wordcodec.WordLengthIndex(min, charset)
	maxIndex := wordcodec.WordLengthIndex(max+1, charset)
	indexRange := new(big.Int).Sub(maxIndex, minIndex)

	bitsRequired := 0
	mask := new(big.Int)
	one := big.NewInt(1)
	for mask.Cmp(indexRange) < 0 {
		mask.Lsh(mask, 1)
		mask.Or(mask, one)
		bitsRequired++
	}

	wordsRequired := bitsRequired / 32
	overflow := bitsRequired % 32
	if overflow != 0 {
		wordsRequired++
	}

	var msbMask uint32
	if overflow == 0 {
		msbMask = 0xffffffff
	} else {
		msbMask = (uint32(1) << overflow) - 1
	}

	hashLenWords := hashWidth / 4
	if wordsRequired > hashLenWords {
		return nil, fmt.Errorf("reduce: hash width %d too small for charset/length range (need %d words)", hashWidth, wordsRequired)
	}

	return &Modulo{
		charset:       charset,
		minIndex:      minIndex,
		maxIndex:      maxIndex,
		indexRange:    indexRange,
		hashLenWords:  hashLenWords,
		wordsRequired: wordsRequired,
		msbMask:       msbMask,
	}, nil
}

// Reduce implements Reducer.
func (r *Modulo) Reduce(dst []byte, hash []byte, column uint64) ([]byte, error) {
	words := make([]uint32, r.hashLenWords)
	for i := 0; i < r.hashLenWords; i++ {
		words[i] = binary.BigEndian.Uint32(hash[i*4:])
	}

	var v *big.Int
	offset := 0
	for {
		if offset+r.wordsRequired > len(words) {
			extendEntropyWords(words)
			offset = 0
		}

		saved := words[offset]
		words[offset] = saved & r.msbMask
		v = importWordsBE(words[offset : offset+r.wordsRequired])
		words[offset] = saved

		if v.Cmp(r.indexRange) <= 0 {
			break
		}
		offset++
	}

	v.Xor(v, new(big.Int).SetUint64(column))
	if v.Cmp(r.indexRange) > 0 {
		v.Mod(v, r.indexRange)
	}
	v.Add(v, r.minIndex)

	return wordcodec.GenerateWordInto(dst[:0], v, r.charset)
}

func importWordsBE(words []uint32) *big.Int {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(buf[i*4:], w)
	}
	return new(big.Int).SetBytes(buf)
}
