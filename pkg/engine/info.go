package engine

import (
	"math/big"

	"github.com/kryc/rainbowcrack-go/pkg/table"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// Info is the full field dump the original's main.cpp prints for a
// table: its header fields plus the derived coverage percentage.
type Info struct {
	Type       string
	Algorithm  string
	Min        int
	Max        int
	Length     uint64
	Chains     uint64
	Charset    string
	Coverage   float64
}

// Inspect loads path's header and row count and computes Coverage as
// chains*chain_length / (S(Max+1) - S(Min)) times 100, the percentage
// of the nominal keyspace this table's chains could have visited.
func Inspect(path string) (Info, error) {
	header, err := table.LoadHeader(path)
	if err != nil {
		return Info{}, err
	}

	mt, err := table.OpenMappedTable(path)
	if err != nil {
		return Info{}, err
	}
	defer mt.Close()

	charset, err := wordcodec.NewCharset(string(header.CharsetBytes()))
	if err != nil {
		return Info{}, err
	}

	chains := uint64(mt.RowCount())
	keyspace := new(big.Int).Sub(
		wordcodec.WordLengthIndex(int(header.Max)+1, charset),
		wordcodec.WordLengthIndex(int(header.Min), charset),
	)

	var coverage float64
	if keyspace.Sign() > 0 {
		covered := new(big.Float).SetUint64(chains * header.Length)
		total := new(big.Float).SetInt(keyspace)
		ratio := new(big.Float).Quo(covered, total)
		coverage, _ = ratio.Float64()
	}

	return Info{
		Type:      header.Type.String(),
		Algorithm: header.Algorithm.String(),
		Min:       int(header.Min),
		Max:       int(header.Max),
		Length:    header.Length,
		Chains:    chains,
		Charset:   string(header.CharsetBytes()),
		Coverage:  coverage * 100,
	}, nil
}
