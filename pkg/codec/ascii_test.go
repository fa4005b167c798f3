package codec_test

import (
	"errors"
	"testing"

	"github.com/cidlogsrv/cidlogsrv/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ASCII_Decode_Accepts_All_Bytes_Below_0x80(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.Throw())
	require.NoError(t, err)

	src := []byte("hello, world")
	dst := make([]rune, len(src))

	res, err := conv.Decode(src, dst)
	require.NoError(t, err)
	assert.Equal(t, len(src), res.SrcConsumed)
	assert.Equal(t, len(src), res.CharsProduced)
	assert.False(t, res.Halted)
}

func Test_ASCII_Decode_Throw_Raises_On_First_High_Bit_Byte(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.Throw())
	require.NoError(t, err)

	dst := make([]rune, 4)

	_, err = conv.Decode([]byte{0x80}, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrInvalidInput))
}

func Test_ASCII_Decode_Throw_Produces_Nothing_After_Valid_Prefix(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.Throw())
	require.NoError(t, err)

	dst := make([]rune, 8)

	res, err := conv.Decode([]byte{0x61, 0x62, 0x80, 0x63}, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrInvalidInput))
	assert.Zero(t, res.CharsProduced)
	assert.Zero(t, res.SrcConsumed)
}

func Test_ASCII_Encode_Throw_Produces_Nothing_After_Valid_Prefix(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.Throw())
	require.NoError(t, err)

	dst := make([]byte, 8)

	res, err := conv.Encode([]rune{'a', 'b', 0x2000, 'c'}, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrInvalidInput))
	assert.Zero(t, res.BytesProduced)
	assert.Zero(t, res.SrcConsumed)
}

// Scenario 6 from the spec: StopThenThrow boundary behavior.
func Test_ASCII_Decode_StopThenThrow_Halts_At_Boundary_Then_Raises_On_Retry(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.StopThenThrow())
	require.NoError(t, err)

	dst := make([]rune, 8)

	res, err := conv.Decode([]byte{0x61, 0x62, 0xCD, 0x63, 0x64}, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, res.SrcConsumed)
	assert.True(t, res.Halted)
	assert.Equal(t, []rune{'a', 'b'}, dst[:res.CharsProduced])

	_, err = conv.Decode([]byte{0xCD, 0x63, 0x64}, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrInvalidInput))
}

func Test_ASCII_Decode_Replace_Substitutes_And_Continues(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.ReplaceWith('?', '?'))
	require.NoError(t, err)

	dst := make([]rune, 8)

	res, err := conv.Decode([]byte{0x61, 0x80, 0x62}, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, res.CharsProduced)
	assert.Equal(t, []rune{'a', '?', 'b'}, dst[:3])
}

func Test_ASCII_Encode_Decode_Round_Trips_For_Every_Valid_Byte(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("US-ASCII", codec.Throw())
	require.NoError(t, err)

	for b := 0; b < 0x80; b++ {
		var runes [1]rune

		res, err := conv.Decode([]byte{byte(b)}, runes[:])
		require.NoError(t, err)
		require.Equal(t, 1, res.CharsProduced)

		var out [1]byte

		encRes, err := conv.Encode(runes[:1], out[:])
		require.NoError(t, err)
		require.Equal(t, 1, encRes.BytesProduced)
		assert.Equal(t, byte(b), out[0])
	}
}
