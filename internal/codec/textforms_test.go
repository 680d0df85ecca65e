package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeetspeak(t *testing.T) {
	encoded, err := Encode(Leetspeak, "Leet Speak")
	require.NoError(t, err)
	assert.Equal(t, "l337 5p34k", encoded)

	decoded, err := Decode(Leetspeak, encoded)
	require.NoError(t, err)
	assert.Equal(t, "leet speak", decoded)
}

func TestPigLatin(t *testing.T) {
	encoded, err := Encode(PigLatin, "hello apple")
	require.NoError(t, err)
	assert.Equal(t, "ellohay appleway", encoded)

	decoded, err := Decode(PigLatin, encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello apple", decoded)
}

func TestUnicodeNormalization(t *testing.T) {
	const composed, decomposed = "\u00e9", "e\u0301"

	encoded, err := Encode(UnicodeNFC, decomposed)
	require.NoError(t, err)
	assert.Equal(t, composed, encoded)

	decoded, err := Decode(UnicodeNFC, composed)
	require.NoError(t, err)
	assert.Equal(t, decomposed, decoded)

	encoded, err = Encode(UnicodeNFD, composed)
	require.NoError(t, err)
	assert.Equal(t, decomposed, encoded)

	encoded, err = Encode(UnicodeNFKC, "\ufb01")
	require.NoError(t, err)
	assert.Equal(t, "fi", encoded)
}
