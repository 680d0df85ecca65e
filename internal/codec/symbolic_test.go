package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMorseCodec(t *testing.T) {
	runEncodeCases(t, Morse, []encodeCase{
		{"sos", "SOS", "... --- ..."},
		{"word gap", "HI THERE", ".... .. / - .... . .-. ."},
		{"digits", "73", "--... ...--"},
	})

	encoded, err := Encode(Morse, "a&b")
	require.NoError(t, err)
	assert.Equal(t, ".- ? -...", encoded, "unknown characters become ?")

	decoded, err := Decode(Morse, "...   ......")
	require.NoError(t, err)
	assert.Equal(t, "S?", decoded)
}

func TestBrailleCodec(t *testing.T) {
	runEncodeCases(t, Braille, []encodeCase{
		{"hello", "hello", "⠓⠑⠇⠇⠕"},
		{"space", "hi you", "⠓⠊⠀⠽⠕⠥"},
	})

	encoded, err := Encode(Braille, "Hi!")
	require.NoError(t, err)
	assert.Equal(t, "⠓⠊!", encoded)

	for _, r := range encoded[:len(encoded)-1] {
		assert.True(t, isBrailleCell(r))
	}
}
