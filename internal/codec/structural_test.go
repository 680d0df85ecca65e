package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRailFenceCodec(t *testing.T) {
	runEncodeCases(t, RailFence, []encodeCase{
		{"classic", "WEAREDISCOVEREDFLEEATONCE", "WECRLTEERDSOEEFEAOCAIVDEN"},
		{"hello world", "Hello World", "Horel ollWd"},
		{"single rune", "a", "a"},
		{"empty string", "", ""},
	})
}

func TestNewRailFence(t *testing.T) {
	tests := []struct {
		rails    int
		input    string
		expected string
	}{
		{2, "HELLO", "HLOEL"},
		{1, "HELLO", "HELLO"},
		{0, "HELLO", "HELLO"},
		{10, "HELLO", "HELLO"},
	}
	for _, tt := range tests {
		c := NewRailFence(tt.rails)
		assert.Equal(t, RailFence, c.Format())

		encoded := c.Encode(tt.input)
		assert.Equal(t, tt.expected, encoded, "rails=%d", tt.rails)

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, tt.input, decoded, "rails=%d", tt.rails)
	}
}

func TestReverseCodec(t *testing.T) {
	runEncodeCases(t, Reverse, []encodeCase{
		{"ascii", "Hello", "olleH"},
		{"multibyte", "héllo 世界", "界世 olléh"},
	})
}
