package codec_test

import (
	"errors"
	"testing"

	"github.com/cidlogsrv/cidlogsrv/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Registry_Make_Returns_ErrUnsupportedEncoding_When_Alias_Unknown(t *testing.T) {
	t.Parallel()

	r := codec.NewRegistry()

	_, err := r.Make("NOT-A-REAL-ENCODING", codec.Throw())
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrUnsupportedEncoding))
}

func Test_Registry_Supports_Is_Case_Insensitive(t *testing.T) {
	t.Parallel()

	r := codec.NewDefaultRegistry()

	assert.True(t, r.Supports("utf-8"))
	assert.True(t, r.Supports("UTF-8"))
	assert.True(t, r.Supports("Utf-8"))
}

func Test_Registry_AddMapping_Overwrites_Existing_Alias(t *testing.T) {
	t.Parallel()

	r := codec.NewRegistry()
	r.AddMapping("X", func(action codec.ErrorAction) codec.Converter {
		c, _ := codec.NewDefaultRegistry().Make("US-ASCII", action)

		return c
	})
	r.AddMapping("X", func(action codec.ErrorAction) codec.Converter {
		c, _ := codec.NewDefaultRegistry().Make("UTF-8", action)

		return c
	})

	conv, err := r.Make("X", codec.Throw())
	require.NoError(t, err)

	var dst [8]rune

	res, err := conv.Decode([]byte{0xC3, 0xA9}, dst[:])
	require.NoError(t, err)
	assert.Equal(t, 1, res.CharsProduced)
	assert.Equal(t, 'é', dst[0])
}

func Test_Registry_ListAll_Returns_Sorted_Snapshot(t *testing.T) {
	t.Parallel()

	r := codec.NewDefaultRegistry()

	all := r.ListAll()
	require.NotEmpty(t, all)

	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1], all[i])
	}

	assert.Contains(t, all, "UTF-8")
	assert.Contains(t, all, "CP1252")
}

func Test_ProbeForEncoding_Detects_Known_BOMs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		input  []byte
		want   string
		wantOK bool
	}{
		{"utf-8 bom", []byte{0xEF, 0xBB, 0xBF, 0x3C, 0x3F, 0x78, 0x6D, 0x6C}, "UTF-8", true},
		{"utf-16le bom", []byte{0xFF, 0xFE, 0x3C, 0x00}, "UTF-16LE", true},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0x00, 0x3C}, "UTF-16BE", true},
		{"no bom", []byte{0x3C, 0x3F, 0x78, 0x6D, 0x6C}, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := codec.ProbeForEncoding(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
