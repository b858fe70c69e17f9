package table

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildShuffledStartTable(t *testing.T, endpoints []string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.rt")
	h := testHeader()
	h.Max = 8
	require.NoError(t, StoreHeader(path, h))

	w, err := OpenWriter(path, h.ChainWidth())
	require.NoError(t, err)
	// Write start indices in reverse order so SortStartpoints has
	// actual work to do.
	for i, ep := range endpoints {
		start := uint64(len(endpoints) - i)
		require.NoError(t, w.WriteRow(EncodeRow(Uncompressed, int(h.Max), start, []byte(ep), nil)))
	}
	require.NoError(t, w.Close())
	return path
}

func TestSortStartpointsOrdersAscending(t *testing.T) {
	endpoints := []string{"cccccccc", "aaaaaaaa", "bbbbbbbb"}
	path := buildShuffledStartTable(t, endpoints)

	require.NoError(t, SortStartpoints(path))

	mt, err := OpenMappedTable(path)
	require.NoError(t, err)
	defer mt.Close()

	var prev uint64
	for i := 0; i < mt.RowCount(); i++ {
		idx, err := mt.StartIndex(i)
		require.NoError(t, err)
		if i > 0 {
			assert.GreaterOrEqual(t, idx, prev)
		}
		prev = idx
	}
}

func TestSortTableOrdersByEndpoint(t *testing.T) {
	endpoints := []string{"cccccccc", "aaaaaaaa", "bbbbbbbb"}
	path := buildShuffledStartTable(t, endpoints)

	require.NoError(t, SortTable(path))

	mt, err := OpenMappedTable(path)
	require.NoError(t, err)
	defer mt.Close()

	sorted := append([]string{}, endpoints...)
	sort.Strings(sorted)
	for i, want := range sorted {
		assert.Equal(t, want, string(mt.Endpoint(i)))
	}
}

func TestSortTableRejectsCompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compressed.rt")
	h := testHeader()
	h.Type = Compressed
	h.Max = 8
	require.NoError(t, StoreHeader(path, h))
	w, err := OpenWriter(path, h.ChainWidth())
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(EncodeRow(Compressed, int(h.Max), 0, []byte("abcdefgh"), nil)))
	require.NoError(t, w.Close())

	err = SortTable(path)
	assert.Error(t, err)
}

func TestRemoveStartpointsCompressesInPlace(t *testing.T) {
	endpoints := []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"}
	path := buildTestTable(t, endpoints)

	require.NoError(t, RemoveStartpoints(path))

	header, err := LoadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, Compressed, header.Type)

	mt, err := OpenMappedTable(path)
	require.NoError(t, err)
	defer mt.Close()
	require.Equal(t, len(endpoints), mt.RowCount())
	for i, ep := range endpoints {
		assert.Equal(t, ep, string(mt.Endpoint(i)))
	}
}

func TestChangeTypeUncompressedToCompressed(t *testing.T) {
	endpoints := []string{"cccccccc", "aaaaaaaa", "bbbbbbbb"}
	path := buildShuffledStartTable(t, endpoints)

	dest := filepath.Join(filepath.Dir(path), "compressed.rt")
	require.NoError(t, ChangeType(path, dest, Compressed))

	header, err := LoadHeader(dest)
	require.NoError(t, err)
	assert.Equal(t, Compressed, header.Type)

	// source untouched
	orig, err := LoadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, Uncompressed, orig.Type)
}

func TestChangeTypeCompressedToUncompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compressed.rt")
	h := testHeader()
	h.Type = Compressed
	h.Max = 8
	require.NoError(t, StoreHeader(path, h))
	w, err := OpenWriter(path, h.ChainWidth())
	require.NoError(t, err)
	endpoints := []string{"cccccccc", "aaaaaaaa", "bbbbbbbb"}
	for _, ep := range endpoints {
		require.NoError(t, w.WriteRow(EncodeRow(Compressed, int(h.Max), 0, []byte(ep), nil)))
	}
	require.NoError(t, w.Close())

	dest := filepath.Join(dir, "uncompressed.rt")
	require.NoError(t, ChangeType(path, dest, Uncompressed))

	header, err := LoadHeader(dest)
	require.NoError(t, err)
	assert.Equal(t, Uncompressed, header.Type)

	mt, err := OpenMappedTable(dest)
	require.NoError(t, err)
	defer mt.Close()

	sorted := append([]string{}, endpoints...)
	sort.Strings(sorted)
	for i, want := range sorted {
		assert.Equal(t, want, string(mt.Endpoint(i)))
	}
}
