package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"

	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
	"golang.org/x/exp/mmap"
)

// MappedTable is a read-only, memory-mapped view of a table file used
// by the crack engine's lookup path. Rows are read straight out of
// the page cache instead of through buffered file I/O, the same
// tradeoff the teacher's SSTable reader makes for point lookups.
type MappedTable struct {
	header   *Header
	reader   *mmap.ReaderAt
	rowWidth int
	rowCount int
	charset  *wordcodec.Charset
}

// OpenMappedTable opens path and maps its row data for reading.
func OpenMappedTable(path string) (*MappedTable, error) {
	header, err := LoadHeader(path)
	if err != nil {
		return nil, err
	}

	charset, err := wordcodec.NewCharset(string(header.CharsetBytes()))
	if err != nil {
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrTableCorrupt, err)
	}

	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}

	rowWidth := header.ChainWidth()
	dataSize := r.Len() - HeaderSize
	if dataSize < 0 || dataSize%rowWidth != 0 {
		r.Close()
		return nil, fmt.Errorf("table: %w: row data is not a whole number of %d-byte rows", rterrors.ErrTableCorrupt, rowWidth)
	}

	return &MappedTable{
		header:   header,
		reader:   r,
		rowWidth: rowWidth,
		rowCount: dataSize / rowWidth,
		charset:  charset,
	}, nil
}

// Close unmaps the table file.
func (t *MappedTable) Close() error {
	return t.reader.Close()
}

// Header returns the table's parsed header.
func (t *MappedTable) Header() *Header { return t.header }

// Charset returns the charset decoded from the header.
func (t *MappedTable) Charset() *wordcodec.Charset { return t.charset }

// RowCount returns the number of rows in the table.
func (t *MappedTable) RowCount() int { return t.rowCount }

// RowWidth returns the per-row byte width.
func (t *MappedTable) RowWidth() int { return t.rowWidth }

func (t *MappedTable) readRow(i int) []byte {
	buf := make([]byte, t.rowWidth)
	off := int64(HeaderSize) + int64(i)*int64(t.rowWidth)
	if _, err := t.reader.ReadAt(buf, off); err != nil {
		panic(fmt.Sprintf("table: row %d unreadable: %v", i, err))
	}
	return buf
}

// Endpoint returns the Max-byte endpoint stored in row i.
func (t *MappedTable) Endpoint(i int) []byte {
	row := t.readRow(i)
	if t.header.Type == Compressed {
		return row
	}
	return row[RowIndexSize:]
}

// StartIndex returns the chain's starting word index for row i. It
// is only meaningful for uncompressed tables; compressed tables
// reconstruct the startpoint from the row's ordinal position instead
// (see RemoveStartpoints in convert.go).
func (t *MappedTable) StartIndex(i int) (uint64, error) {
	if t.header.Type != Uncompressed {
		return 0, fmt.Errorf("table: start index requires an uncompressed table")
	}
	row := t.readRow(i)
	return binary.LittleEndian.Uint64(row[:RowIndexSize]), nil
}

// LowerBoundIndex returns the word-length index of the first word in
// the table's word space, the S(Min) term in the word codec's bijection.
func (t *MappedTable) LowerBoundIndex() *big.Int {
	return wordcodec.WordLengthIndex(int(t.header.Min), t.charset)
}

// EndpointBinarySearch finds the row whose endpoint equals target in
// an uncompressed table sorted by endpoint, mirroring the teacher's
// sort.Search-plus-bytes.Compare index-block scan.
func (t *MappedTable) EndpointBinarySearch(target []byte) (int, bool) {
	n := t.rowCount
	idx := sort.Search(n, func(i int) bool {
		return bytes.Compare(t.Endpoint(i), target) >= 0
	})
	if idx < n && bytes.Equal(t.Endpoint(idx), target) {
		return idx, true
	}
	return 0, false
}
