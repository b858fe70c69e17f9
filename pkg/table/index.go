package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
)

// bucketCount is the number of buckets the first two endpoint bytes
// can select: one per distinct little-endian uint16 value.
const bucketCount = 65536

// readAhead is the scan stride used while seeding bucket_start; only a
// stride whose sampled key differs from the previous sample's is then
// walked row by row.
const readAhead = 64

// EndpointIndex is the 65536-bucket prefix index built over an
// uncompressed table's endpoint-sorted rows. It turns a linear scan
// for a target endpoint into a binary search within one bucket.
type EndpointIndex struct {
	table       *MappedTable
	bucketStart []int // row index of the bucket's first row, -1 if empty
	bucketLen   []int
}

// BuildEndpointIndex scans t's rows once (sampling at readAhead stride
// and walking row by row only through strides where the key changes)
// and builds the 65536-bucket prefix index over the first two endpoint
// bytes. t must already be endpoint-sorted: SortTable produces such a
// table, while a fresh build writes its rows in chain-index order.
func BuildEndpointIndex(t *MappedTable) (*EndpointIndex, error) {
	if t.Header().Type != Uncompressed {
		return nil, fmt.Errorf("table: %w: endpoint index requires an uncompressed table", rterrors.ErrConfigInvalid)
	}

	idx := &EndpointIndex{
		table:       t,
		bucketStart: make([]int, bucketCount),
		bucketLen:   make([]int, bucketCount),
	}
	for i := range idx.bucketStart {
		idx.bucketStart[i] = -1
	}

	n := t.RowCount()
	if n == 0 {
		return idx, nil
	}

	bucketKey := func(row int) uint16 {
		return binary.LittleEndian.Uint16(t.Endpoint(row)[:2])
	}

	last := bucketKey(0)
	idx.bucketStart[last] = 0

	for row := readAhead; row < n+readAhead-1; row += readAhead {
		sample := min(row, n-1)
		key := bucketKey(sample)
		if key == last {
			continue
		}
		// The key changed within this stride: walk it row by row so
		// buckets shorter than readAhead, which no sample hits, are seeded.
		for r := max(row-readAhead+1, 1); r <= sample; r++ {
			if k := bucketKey(r); k != bucketKey(r-1) {
				idx.bucketStart[k] = r
			}
		}
		last = key
	}

	// Walk each seeded bucket back to its first row. Seeds from the
	// stride walk above already sit on a bucket boundary, so none move.
	for k := 0; k < bucketCount; k++ {
		start := idx.bucketStart[k]
		if start < 0 {
			continue
		}
		for start > 0 && bucketKey(start-1) == uint16(k) {
			start--
		}
		idx.bucketStart[k] = start
	}

	// Lengths: distance to the next non-empty bucket's start, or to
	// end of file for the bucket with the largest start.
	order := make([]int, 0, bucketCount)
	for k := 0; k < bucketCount; k++ {
		if idx.bucketStart[k] >= 0 {
			order = append(order, k)
		}
	}
	sort.Slice(order, func(a, b int) bool { return idx.bucketStart[order[a]] < idx.bucketStart[order[b]] })

	for i, k := range order {
		if i+1 < len(order) {
			idx.bucketLen[k] = idx.bucketStart[order[i+1]] - idx.bucketStart[k]
		} else {
			idx.bucketLen[k] = n - idx.bucketStart[k]
		}
	}

	return idx, nil
}

// Lookup finds row whose endpoint equals the full Max-byte endpoint,
// by bucketing on its first two bytes then binary-searching within
// that bucket's row range.
func (idx *EndpointIndex) Lookup(endpoint []byte) (row int, found bool) {
	k := binary.LittleEndian.Uint16(endpoint[:2])
	start := idx.bucketStart[k]
	if start < 0 {
		return 0, false
	}
	length := idx.bucketLen[k]

	lo := sort.Search(length, func(i int) bool {
		return bytes.Compare(idx.table.Endpoint(start+i), endpoint) >= 0
	})
	if lo < length && bytes.Equal(idx.table.Endpoint(start+lo), endpoint) {
		return start + lo, true
	}
	return 0, false
}

// BucketRange returns the [start, start+len) row range covered by
// bucket k, or found=false if the bucket is empty.
func (idx *EndpointIndex) BucketRange(k uint16) (start, length int, found bool) {
	s := idx.bucketStart[k]
	if s < 0 {
		return 0, 0, false
	}
	return s, idx.bucketLen[k], true
}
