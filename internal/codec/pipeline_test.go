package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps("base64:encode, HEX , rot13:Decode")
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Format: Base64, Direction: DirectionEncode},
		{Format: Hex, Direction: DirectionEncode},
		{Format: ROT13, Direction: DirectionDecode},
	}, steps)

	_, err = ParseSteps("")
	assert.Error(t, err)

	_, err = ParseSteps("base99:encode")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseSteps("base64:sideways")
	assert.Error(t, err)
}

func TestPipelineRun(t *testing.T) {
	p := &Pipeline{Steps: []Step{
		{Format: Base64, Direction: DirectionEncode},
		{Format: Hex, Direction: DirectionEncode},
	}}
	encoded, err := p.Run(nil, "test")
	require.NoError(t, err)
	assert.Equal(t, "6447567a64413d3d", encoded)

	reversed, err := p.Reverse()
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Format: Hex, Direction: DirectionDecode},
		{Format: Base64, Direction: DirectionDecode},
	}, reversed.Steps)

	decoded, err := reversed.Run(New(), encoded)
	require.NoError(t, err)
	assert.Equal(t, "test", decoded)
}

func TestPipelineRunWrapsStepErrors(t *testing.T) {
	p := &Pipeline{Steps: []Step{
		{Format: ROT13, Direction: DirectionEncode},
		{Format: Base64, Direction: DirectionDecode},
	}}
	_, err := p.Run(nil, "abc")
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "step 1 (base64 decode)")

	p = &Pipeline{Steps: []Step{{Format: Hex, Direction: "sideways"}}}
	_, err = p.Run(nil, "x")
	assert.ErrorContains(t, err, "invalid direction")
}

func TestPipelineReverseRejectsLossySteps(t *testing.T) {
	p := &Pipeline{Steps: []Step{
		{Format: Base64, Direction: DirectionEncode},
		{Format: SnakeCase, Direction: DirectionEncode},
	}}
	_, err := p.Reverse()
	assert.ErrorContains(t, err, "snake_case is not reversible")
}
