package table

import "encoding/binary"

// EncodeRow builds one row's on-disk bytes for the given table type.
// endpoint is at most max bytes and is copied in without padding: a
// shorter endpoint is followed by whatever dst already holds there
// (zero bytes when EncodeRow allocates dst). startIndex is only encoded
// for uncompressed tables.
func EncodeRow(t Type, max int, startIndex uint64, endpoint []byte, dst []byte) []byte {
	width := ChainWidth(t, max)
	if cap(dst) < width {
		dst = make([]byte, width)
	}
	dst = dst[:width]

	if t == Compressed {
		copy(dst, endpoint)
		return dst
	}

	binary.LittleEndian.PutUint64(dst[:RowIndexSize], startIndex)
	copy(dst[RowIndexSize:], endpoint)
	return dst
}

// DecodeRow splits row into its startIndex (zero for compressed
// tables) and endpoint.
func DecodeRow(t Type, row []byte) (startIndex uint64, endpoint []byte) {
	if t == Compressed {
		return 0, row
	}
	return binary.LittleEndian.Uint64(row[:RowIndexSize]), row[RowIndexSize:]
}
