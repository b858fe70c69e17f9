package reduce

import (
	"crypto/sha1"
	"testing"

	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytewiseRequiresEqualMinMax(t *testing.T) {
	c, err := wordcodec.NewCharset("ab")
	require.NoError(t, err)

	_, err = NewBytewise(3, 5, c)
	assert.Error(t, err)
}

func TestBytewiseOutputLengthAndAlphabet(t *testing.T) {
	c, err := wordcodec.NewCharset("abcdefgh")
	require.NoError(t, err)

	r, err := NewBytewise(6, 6, c)
	require.NoError(t, err)

	hash := sha1.Sum([]byte("some input"))
	dst := make([]byte, 0, 6)
	out, err := r.Reduce(dst, hash[:], 0)
	require.NoError(t, err)
	require.Len(t, out, 6)

	for _, b := range out {
		assert.NotEqual(t, -1, c.Rank(b))
	}
}

func TestBytewiseAllZeroHashIsFirstCharset(t *testing.T) {
	c, err := wordcodec.NewCharset("abcd")
	require.NoError(t, err)

	r, err := NewBytewise(5, 5, c)
	require.NoError(t, err)

	zeroHash := make([]byte, 20) // sha1-sized
	dst := make([]byte, 0, 5)
	out, err := r.Reduce(dst, zeroHash, 3)
	require.NoError(t, err)
	assert.Equal(t, "aaaaa", string(out))
}

func TestBytewiseExhaustsHashAndExtends(t *testing.T) {
	// A charset small enough, and a target length long enough, that
	// the 16-byte digest must be extended at least once.
	c, err := wordcodec.NewCharset("ab")
	require.NoError(t, err)

	r, err := NewBytewise(40, 40, c)
	require.NoError(t, err)

	hash := make([]byte, 16)
	for i := range hash {
		hash[i] = byte(i * 7)
	}
	dst := make([]byte, 0, 40)
	out, err := r.Reduce(dst, hash, 0)
	require.NoError(t, err)
	assert.Len(t, out, 40)
}

func TestModuloOutputLengthInRange(t *testing.T) {
	c, err := wordcodec.NewCharset("abcdefghijklmnopqrstuvwxyz")
	require.NoError(t, err)

	r, err := NewModulo(4, 10, 20, c)
	require.NoError(t, err)

	for column := uint64(0); column < 50; column++ {
		hash := sha1.Sum([]byte{byte(column)})
		dst := make([]byte, 0, 10)
		out, err := r.Reduce(dst, hash[:], column)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(out), 4)
		assert.LessOrEqual(t, len(out), 10)
		for _, b := range out {
			assert.NotEqual(t, -1, c.Rank(b))
		}
	}
}

func TestModuloRejectsHashTooSmall(t *testing.T) {
	c, err := wordcodec.NewCharset("abcdefghijklmnopqrstuvwxyz0123456789")
	require.NoError(t, err)

	// A huge length range needs more entropy bits than a 4-byte digest offers.
	_, err = NewModulo(1, 60, 4, c)
	assert.Error(t, err)
}

func TestModuloColumnAffectsOutput(t *testing.T) {
	c, err := wordcodec.NewCharset("abcdefghijklmnopqrstuvwxyz")
	require.NoError(t, err)

	r, err := NewModulo(4, 10, 20, c)
	require.NoError(t, err)

	hash := sha1.Sum([]byte("fixed input"))
	differs := 0
	var prev string
	for column := uint64(0); column < 20; column++ {
		dst := make([]byte, 0, 10)
		out, err := r.Reduce(dst, hash[:], column)
		require.NoError(t, err)
		if string(out) != prev {
			differs++
		}
		prev = string(out)
	}
	assert.Greater(t, differs, 1, "changing column should usually change output")
}

func TestNewPicksBytewiseOrModulo(t *testing.T) {
	c, err := wordcodec.NewCharset("ab")
	require.NoError(t, err)

	r, err := New(5, 5, 20, c)
	require.NoError(t, err)
	_, isBytewise := r.(*Bytewise)
	assert.True(t, isBytewise)

	r, err = New(3, 8, 20, c)
	require.NoError(t, err)
	_, isModulo := r.(*Modulo)
	assert.True(t, isModulo)
}
