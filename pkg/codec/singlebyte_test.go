package codec_test

import (
	"testing"

	"github.com/cidlogsrv/cidlogsrv/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Property test from the spec: for every single-byte codec, for every byte
// whose decode table entry is not the invalid sentinel, encode(decode(b))
// must equal b.
func Test_SingleByteTableCodecs_Round_Trip_Every_Valid_Byte(t *testing.T) {
	t.Parallel()

	aliases := []string{
		"ISO-8859-1", "ISO-8859-2", "ISO-8859-3", "ISO-8859-4", "ISO-8859-5", "ISO-8859-6",
		"CP437", "CP850", "CP1251", "CP1252", "IBM037", "IBM1140",
	}

	for _, alias := range aliases {
		alias := alias

		t.Run(alias, func(t *testing.T) {
			t.Parallel()

			conv, err := codec.Make(alias, codec.Throw())
			require.NoError(t, err)

			for b := 0; b < 256; b++ {
				var runes [1]rune

				res, decErr := conv.Decode([]byte{byte(b)}, runes[:])
				if decErr != nil {
					// This byte is the codec's invalid sentinel; nothing
					// further to check for it.
					continue
				}

				require.Equal(t, 1, res.CharsProduced)

				var out [4]byte

				encRes, encErr := conv.Encode(runes[:1], out[:])
				require.NoError(t, encErr)
				require.Equal(t, 1, encRes.BytesProduced)
				assert.Equal(t, byte(b), out[0], "byte %#x did not round-trip", b)
			}
		})
	}
}

func Test_ISO8859_1_Decode_Rejects_C1_Control_Bytes(t *testing.T) {
	t.Parallel()

	conv, err := codec.Make("ISO-8859-1", codec.Throw())
	require.NoError(t, err)

	var dst [1]rune

	_, err = conv.Decode([]byte{0x90}, dst[:])
	require.Error(t, err)
}
