package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexCodec(t *testing.T) {
	runEncodeCases(t, Hex, []encodeCase{
		{"two letters", "AB", "4142"},
		{"hello", "Hello", "48656c6c6f"},
		{"latin1 code point", "é", "e9"},
		{"top of byte range", "ÿ", "ff"},
		{"above byte range", "世", "e4b896"},
		{"empty string", "", ""},
	})
}

func TestHexDecodeAcceptsNoise(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"prefix", "0x4142"},
		{"prefix per token", "0x41 0x42"},
		{"uppercase prefix per token", "0X41,0X42"},
		{"uppercase", "4142"},
		{"colons", "41:42"},
		{"spaces", "41 42"},
		{"escapes", `\x41\x42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(Hex, tt.input)
			require.NoError(t, err)
			assert.Equal(t, "AB", decoded)
		})
	}
}

func TestHexDecodeLatin1Fallback(t *testing.T) {
	decoded, err := Decode(Hex, "e9")
	require.NoError(t, err)
	assert.Equal(t, "é", decoded)
}

func TestHexDecodeRejectsMalformed(t *testing.T) {
	_, err := Decode(Hex, "zz")
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.NotErrorIs(t, err, ErrInvalidLength)

	_, err = Decode(Hex, "414")
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestBinaryCodec(t *testing.T) {
	runEncodeCases(t, Binary, []encodeCase{
		{"two letters", "Hi", "01001000 01101001"},
		{"latin1 code point", "é", "11101001"},
		{"empty string", "", ""},
	})

	decoded, err := Decode(Binary, "0100100001101001")
	require.NoError(t, err)
	assert.Equal(t, "Hi", decoded)

	_, err = Decode(Binary, "0101")
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = Decode(Binary, "abc")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestOctalAndDecimalCodecs(t *testing.T) {
	t.Run("octal", func(t *testing.T) {
		runEncodeCases(t, Octal, []encodeCase{
			{"two letters", "Hi", "110 151"},
			{"non ascii", "é", "351"},
		})
	})
	t.Run("decimal", func(t *testing.T) {
		runEncodeCases(t, Decimal, []encodeCase{
			{"two letters", "Hi", "72 105"},
			{"astral", "😀", "128512"},
		})
	})

	_, err := Decode(Decimal, "72 x")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Decode(Decimal, "1114112")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Decode(Octal, "9")
	assert.ErrorIs(t, err, ErrMalformedInput)
}
