package entityspool_test

import (
	"bytes"
	"testing"

	"github.com/cidlogsrv/cidlogsrv/pkg/entityspool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 5 from the spec: codec auto-sense via the entity spooler.
func Test_NewStreamed_Senses_UTF16LE_From_Prefix_Bytes(t *testing.T) {
	t.Parallel()

	src := []byte{0x3C, 0x00, 0x3F, 0x00, 0x78, 0x00, 0x6D, 0x00, 0x6C, 0x00, 0x20, 0x00}

	sp, err := entityspool.NewStreamed(bytes.NewReader(src), "")
	require.NoError(t, err)
	assert.Equal(t, "UTF-16LE", sp.EncodingName())
}

func Test_NewStreamed_Senses_EBCDICUS_From_Prefix_Bytes(t *testing.T) {
	t.Parallel()

	src := []byte{0x4C, 0x6F, 0xA7, 0x94, 0x93, 0x40}

	sp, err := entityspool.NewStreamed(bytes.NewReader(src), "")
	require.NoError(t, err)
	assert.Equal(t, "EBCDIC-CP-US", sp.EncodingName())
}

func Test_NewStreamed_Honors_Declared_Encoding_In_XML_Prolog(t *testing.T) {
	t.Parallel()

	src := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><root/>`)

	sp, err := entityspool.NewStreamed(bytes.NewReader(src), "")
	require.NoError(t, err)
	assert.Equal(t, "ISO-8859-1", sp.EncodingName())
}

func Test_Spooler_Next_Normalizes_CR_And_CRLF_To_LF(t *testing.T) {
	t.Parallel()

	sp, err := entityspool.NewStreamed(bytes.NewReader([]byte("a\r\nb\rc\nd")), "UTF-8")
	require.NoError(t, err)

	var got []rune

	for {
		ch, ok := sp.Next()
		if !ok {
			break
		}

		got = append(got, ch)
	}

	assert.Equal(t, []rune("a\nb\nc\nd"), got)
}

func Test_Spooler_MatchLiteral_Consumes_On_Match_And_Leaves_Cursor_On_Mismatch(t *testing.T) {
	t.Parallel()

	sp := entityspool.NewInterned("hello world")

	assert.True(t, sp.MatchLiteral("hello"))
	assert.False(t, sp.MatchLiteral("xyz"))

	ch, ok := sp.Peek()
	require.True(t, ok)
	assert.Equal(t, ' ', ch)
}

func Test_Spooler_Pushback_Replays_Character(t *testing.T) {
	t.Parallel()

	sp := entityspool.NewInterned("ab")

	ch, _ := sp.Next()
	assert.Equal(t, 'a', ch)

	sp.Pushback(ch)

	replayed, _ := sp.Next()
	assert.Equal(t, 'a', replayed)

	next, _ := sp.Next()
	assert.Equal(t, 'b', next)
}

func Test_Spooler_Line_Suppressed_For_Interned_Entities(t *testing.T) {
	t.Parallel()

	sp := entityspool.NewInterned("a\nb\nc")

	for {
		_, ok := sp.Next()
		if !ok {
			break
		}
	}

	assert.Equal(t, 1, sp.Line())
}

func Test_NewParameterEntity_Synthesizes_Leading_And_Trailing_Space(t *testing.T) {
	t.Parallel()

	sp, err := entityspool.NewParameterEntity(bytes.NewReader([]byte("VALUE")), "US-ASCII")
	require.NoError(t, err)

	var got []rune

	for {
		ch, ok := sp.Next()
		if !ok {
			break
		}

		got = append(got, ch)
	}

	assert.Equal(t, []rune(" VALUE "), got)
}

func Test_NewStreamed_Rejects_Declared_Encoding_With_Incompatible_Byte_Width(t *testing.T) {
	t.Parallel()

	// Sensed as UTF-16LE from the prefix, but declares a single-byte
	// encoding — a contradiction the bootstrap decode cannot have
	// actually produced valid text from.
	src := []byte{
		0x3C, 0x00, 0x3F, 0x00, 0x78, 0x00, 0x6D, 0x00, 0x6C, 0x00, // <?xml
		0x20, 0x00, 0x65, 0x00, 0x6E, 0x00, 0x63, 0x00, 0x6F, 0x00, 0x64, 0x00,
		0x69, 0x00, 0x6E, 0x00, 0x67, 0x00, 0x3D, 0x00, 0x22, 0x00, // encoding="
		0x49, 0x00, 0x53, 0x00, 0x4F, 0x00, 0x2D, 0x00, 0x38, 0x00, 0x38, 0x00,
		0x35, 0x00, 0x39, 0x00, 0x2D, 0x00, 0x31, 0x00, 0x22, 0x00, // ISO-8859-1"
	}

	_, err := entityspool.NewStreamed(bytes.NewReader(src), "")
	require.Error(t, err)
}
