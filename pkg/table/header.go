// Package table implements the on-disk rainbow table format: the
// packed header, row layout for compressed and uncompressed tables,
// the endpoint prefix index, and the sort/compress/decompress
// conversions between the two row layouts.
package table

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/kryc/rainbowcrack-go/pkg/hashalgo"
	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
)

// Type distinguishes whether a table stores (start_index, endpoint)
// pairs or endpoints only.
type Type uint8

const (
	Uncompressed Type = 0
	Compressed   Type = 1
	InvalidType  Type = 2
)

func (t Type) String() string {
	switch t {
	case Uncompressed:
		return "uncompressed"
	case Compressed:
		return "compressed"
	default:
		return "invalid"
	}
}

// Magic is the four header bytes every table file must begin with,
// byte-identical to the reference implementation's packed 'r','t','-',' '
// constant written to a little-endian uint32 field.
var Magic = [4]byte{0x20, 0x2d, 0x74, 0x72}

const (
	// CharsetFieldSize is the fixed width of the header's charset
	// field; only the first CharsetLen bytes are meaningful.
	CharsetFieldSize = 128

	// HeaderSize is the fixed, packed size of every table header:
	// magic(4) + type/algorithm(1) + min(1) + max(1) + charsetlen(1)
	// + length(8) + charset(128).
	HeaderSize = 4 + 1 + 1 + 1 + 1 + 8 + CharsetFieldSize

	// RowIndexSize is sizeof(rowindex_t): this implementation fixes
	// rowindex_t at 64 bits (see DESIGN.md for the open-question
	// resolution on this width).
	RowIndexSize = 8
)

// Header is the packed, little-endian prefix of every table file.
type Header struct {
	Type       Type
	Algorithm  hashalgo.Algorithm
	Min        uint8
	Max        uint8
	CharsetLen uint8
	// Length is the chain length (number of hash/reduce rounds per chain).
	Length  uint64
	Charset [CharsetFieldSize]byte
}

// ChainWidth returns the per-row byte width for the header's table type.
func (h *Header) ChainWidth() int {
	return ChainWidth(h.Type, int(h.Max))
}

// ChainWidth returns the row width for a table of the given type and max
// word length: Max bytes for compressed rows, RowIndexSize+Max for
// uncompressed rows.
func ChainWidth(t Type, max int) int {
	if t == Compressed {
		return max
	}
	return RowIndexSize + max
}

// CharsetBytes returns the meaningful prefix of the charset field.
func (h *Header) CharsetBytes() []byte {
	return h.Charset[:h.CharsetLen]
}

// MarshalBinary encodes the header into its fixed HeaderSize-byte form.
func (h *Header) MarshalBinary() ([]byte, error) {
	if h.CharsetLen > CharsetFieldSize {
		return nil, fmt.Errorf("table: charset length %d exceeds %d", h.CharsetLen, CharsetFieldSize)
	}

	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic[:])
	buf[4] = (byte(h.Algorithm) << 2) | (byte(h.Type) & 0x3)
	buf[5] = h.Min
	buf[6] = h.Max
	buf[7] = h.CharsetLen
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	copy(buf[16:16+CharsetFieldSize], h.Charset[:])
	return buf, nil
}

// UnmarshalBinary decodes a HeaderSize-byte buffer into h.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("table: %w: header truncated (%d of %d bytes)", rterrors.ErrTableCorrupt, len(buf), HeaderSize)
	}
	if !bytes.Equal(buf[0:4], Magic[:]) {
		return fmt.Errorf("table: %w: magic mismatch (got %x)", rterrors.ErrTableCorrupt, buf[0:4])
	}

	h.Type = Type(buf[4] & 0x3)
	h.Algorithm = hashalgo.Algorithm(buf[4] >> 2)
	h.Min = buf[5]
	h.Max = buf[6]
	h.CharsetLen = buf[7]
	h.Length = binary.LittleEndian.Uint64(buf[8:16])
	copy(h.Charset[:], buf[16:16+CharsetFieldSize])

	if h.CharsetLen > CharsetFieldSize {
		return fmt.Errorf("table: %w: charsetlen %d exceeds field size", rterrors.ErrTableCorrupt, h.CharsetLen)
	}
	if h.Min == 0 || h.Max == 0 || h.Min > h.Max {
		return fmt.Errorf("table: %w: invalid min/max (%d/%d)", rterrors.ErrTableCorrupt, h.Min, h.Max)
	}

	return nil
}
