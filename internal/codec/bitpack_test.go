package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeCase struct {
	name     string
	input    string
	expected string
}

func runEncodeCases(t *testing.T, f Format, tests []encodeCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(f, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, encoded, "encode")

			decoded, err := Decode(f, tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded, "decode")
		})
	}
}

func TestBase64Codec(t *testing.T) {
	runEncodeCases(t, Base64, []encodeCase{
		{"simple text", "Hello World", "SGVsbG8gV29ybGQ="},
		{"empty string", "", ""},
		{"special characters", "Hello, World!", "SGVsbG8sIFdvcmxkIQ=="},
		{"utf8", "Hello 世界", "SGVsbG8g5LiW55WM"},
	})
}

func TestBase64DecodeIgnoresWhitespace(t *testing.T) {
	decoded, err := Decode(Base64, "SGVs bG8g\nV29y bGQ=")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", decoded)
}

func TestBase64DecodeRejectsMalformed(t *testing.T) {
	_, err := Decode(Base64, "abc")
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.Equal(t, KindMalformedInput, KindOf(err))

	_, err = Decode(Base64, "ab!d")
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.NotErrorIs(t, err, ErrInvalidLength)
}

func TestBase64URLCodec(t *testing.T) {
	runEncodeCases(t, Base64URL, []encodeCase{
		{"query characters", "test?&=", "dGVzdD8mPQ"},
		{"empty string", "", ""},
	})

	decoded, err := Decode(Base64URL, "SGVsbG8_V29ybGQh")
	require.NoError(t, err)
	assert.Equal(t, "Hello?World!", decoded)

	decoded, err = Decode(Base64URL, "dGVzdD8mPQ==")
	require.NoError(t, err, "padding is tolerated")
	assert.Equal(t, "test?&=", decoded)

	_, err = Decode(Base64URL, "ab+c")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Decode(Base64URL, "abcde")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestBase32Codec(t *testing.T) {
	runEncodeCases(t, Base32, []encodeCase{
		{"hello", "Hello", "JBSWY3DP"},
		{"padded", "é", "YOUQ===="},
		{"empty string", "", ""},
	})

	decoded, err := Decode(Base32, "jbswy3dp")
	require.NoError(t, err)
	assert.Equal(t, "Hello", decoded)

	_, err = Decode(Base32, "JBSWY3D1")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Decode(Base32, "A")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestBase58Codec(t *testing.T) {
	runEncodeCases(t, Base58, []encodeCase{
		{"hello world", "Hello World", "JxF12TrwUP45BMd"},
		{"hello", "hello", "Cn8eVZg"},
		{"empty string", "", "1"},
	})

	for _, bad := range []string{"0", "O", "I", "l", "abc+"} {
		_, err := Decode(Base58, bad)
		assert.ErrorIs(t, err, ErrMalformedInput, "decode %q", bad)
	}
}

func TestASCII85Codec(t *testing.T) {
	runEncodeCases(t, ASCII85, []encodeCase{
		{"hello world", "Hello World", `87cURD]i,"Ebo7`},
		{"hello", "Hello", "87cURDZ"},
		{"empty string", "", ""},
	})

	decoded, err := Decode(ASCII85, "<~87cURDZ~>")
	require.NoError(t, err)
	assert.Equal(t, "Hello", decoded)

	_, err = Decode(ASCII85, "87cURD{")
	assert.ErrorIs(t, err, ErrMalformedInput)
}
