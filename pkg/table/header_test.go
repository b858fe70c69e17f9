package table

import (
	"testing"

	"github.com/kryc/rainbowcrack-go/pkg/hashalgo"
	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader() *Header {
	h := &Header{
		Type:       Uncompressed,
		Algorithm:  hashalgo.Sha1,
		Min:        1,
		Max:        8,
		CharsetLen: 26,
		Length:     10000,
	}
	copy(h.Charset[:], "abcdefghijklmnopqrstuvwxyz")
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()
	buf, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, HeaderSize)

	var got Header
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, h.Type, got.Type)
	assert.Equal(t, h.Algorithm, got.Algorithm)
	assert.Equal(t, h.Min, got.Min)
	assert.Equal(t, h.Max, got.Max)
	assert.Equal(t, h.CharsetLen, got.CharsetLen)
	assert.Equal(t, h.Length, got.Length)
	assert.Equal(t, h.CharsetBytes(), got.CharsetBytes())
}

func TestHeaderSizeIs144Bytes(t *testing.T) {
	assert.Equal(t, 144, HeaderSize)
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	h := sampleHeader()
	buf, err := h.MarshalBinary()
	require.NoError(t, err)
	buf[0] ^= 0xff

	var got Header
	err = got.UnmarshalBinary(buf)
	assert.ErrorIs(t, err, rterrors.ErrTableCorrupt)
}

func TestHeaderRejectsTruncatedBuffer(t *testing.T) {
	var got Header
	err := got.UnmarshalBinary(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, rterrors.ErrTableCorrupt)
}

func TestHeaderRejectsInvertedMinMax(t *testing.T) {
	h := sampleHeader()
	h.Min = 9
	h.Max = 8
	buf, err := h.MarshalBinary()
	require.NoError(t, err)

	var got Header
	err = got.UnmarshalBinary(buf)
	assert.ErrorIs(t, err, rterrors.ErrTableCorrupt)
}

func TestChainWidthCompressedVsUncompressed(t *testing.T) {
	assert.Equal(t, 8, ChainWidth(Compressed, 8))
	assert.Equal(t, 16, ChainWidth(Uncompressed, 8))
}

func TestAlgorithmAndTypePacking(t *testing.T) {
	for _, algo := range []hashalgo.Algorithm{hashalgo.Md5, hashalgo.Sha1, hashalgo.Sha256} {
		for _, typ := range []Type{Uncompressed, Compressed} {
			h := sampleHeader()
			h.Algorithm = algo
			h.Type = typ
			buf, err := h.MarshalBinary()
			require.NoError(t, err)

			var got Header
			require.NoError(t, got.UnmarshalBinary(buf))
			assert.Equal(t, algo, got.Algorithm)
			assert.Equal(t, typ, got.Type)
		}
	}
}
