package engine

import (
	"math/big"

	"github.com/kryc/rainbowcrack-go/pkg/table"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// Chain is a chain's start word, end word, its ordinal index and the
// chain length it was built with — the round-trip unit GetChain reads
// off disk and ComputeChain recomputes from scratch.
type Chain struct {
	Index int
	Start string
	End   string
	Length uint64
}

// GetChain reads chain Index straight out of the table at path: the
// stored endpoint, plus the start word reconstructed from the row's
// start index (or, for a compressed table, its ordinal position).
func GetChain(path string, index int) (Chain, error) {
	mt, err := table.OpenMappedTable(path)
	if err != nil {
		return Chain{}, err
	}
	defer mt.Close()

	header := mt.Header()
	charset, err := wordcodec.NewCharset(string(header.CharsetBytes()))
	if err != nil {
		return Chain{}, err
	}

	startIdx, err := rowStartIndex(mt, index)
	if err != nil {
		return Chain{}, err
	}

	lower := wordcodec.WordLengthIndex(int(header.Min), charset)
	startWordIdx := new(big.Int).Add(lower, new(big.Int).SetUint64(startIdx))
	start := wordcodec.GenerateWord(startWordIdx, charset)

	return Chain{
		Index:  index,
		Start:  string(start),
		End:    string(trimTrailingNuls(mt.Endpoint(index))),
		Length: header.Length,
	}, nil
}

// ComputeChain regenerates chain Index from scratch using the engine's
// reducer and hash kernel, independent of any on-disk table — the
// other half of the round-trip property: GetChain(path, i).End must
// equal ComputeChain(i, ...).End for the table built at that config.
func (e *Engine) ComputeChain(index int) (Chain, error) {
	counter := new(big.Int).Add(e.lower, big.NewInt(int64(index)))
	word := wordcodec.GenerateWord(counter, e.charset)
	start := string(word)

	hashBuf := make([]byte, 0, e.kernel.Width())
	for k := uint64(0); k < e.cfg.ChainLength; k++ {
		h := e.kernel.Hash(word, hashBuf[:0])
		reduced, err := e.reducer.Reduce(make([]byte, 0, e.cfg.Max), h, k)
		if err != nil {
			return Chain{}, err
		}
		word = reduced
	}

	return Chain{
		Index:  index,
		Start:  start,
		End:    string(word),
		Length: e.cfg.ChainLength,
	}, nil
}

func trimTrailingNuls(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
