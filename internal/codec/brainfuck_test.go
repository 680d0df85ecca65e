package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloProgram = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++."

func TestBrainfuckDecodeHello(t *testing.T) {
	decoded, err := Decode(Brainfuck, helloProgram)
	require.NoError(t, err)
	assert.Equal(t, "Hello", decoded)
}

func TestBrainfuckIgnoresComments(t *testing.T) {
	decoded, err := Decode(Brainfuck, "eight ++++++++ [loop >++++++++<-] >+. print")
	require.NoError(t, err)
	assert.Equal(t, "A", decoded)
}

func TestBrainfuckEncode(t *testing.T) {
	encoded, err := Encode(Brainfuck, "Hi")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("+", 72)+"."+strings.Repeat("+", 33)+".", encoded)

	encoded, err = Encode(Brainfuck, "ba")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("+", 98)+".-.", encoded)

	encoded, err = Encode(Brainfuck, "é")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("+", 0xE9)+".", encoded)
}

func TestBrainfuckRoundTrip(t *testing.T) {
	for _, text := range []string{"", "Hello, World!", "héllo", "世界"} {
		for _, f := range []Format{Brainfuck, Ook} {
			encoded, err := Encode(f, text)
			require.NoError(t, err)
			decoded, err := Decode(f, encoded)
			require.NoError(t, err, "%s %q", f, text)
			assert.Equal(t, text, decoded, "%s %q", f, text)
		}
	}
}

func TestBrainfuckMalformed(t *testing.T) {
	tests := []struct {
		name    string
		program string
	}{
		{"unclosed loop", "+[."},
		{"unopened loop", "+]."},
		{"pointer below zero", "<+."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(Brainfuck, tt.program)
			require.ErrorIs(t, err, ErrMalformedInput)
			assert.Equal(t, KindMalformedInput, KindOf(err))
		})
	}
}

func TestBrainfuckPointerPastTape(t *testing.T) {
	_, err := Decode(Brainfuck, "+[>+]")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestBrainfuckStepLimit(t *testing.T) {
	table := New(WithStepLimit(1000))
	assert.Equal(t, 1000, table.StepLimit())

	_, err := table.Decode(Brainfuck, "+[]")
	require.ErrorIs(t, err, ErrExecutionLimitExceeded)
	assert.Equal(t, KindExecutionLimitExceeded, KindOf(err))
	assert.NotErrorIs(t, err, ErrMalformedInput)

	_, err = table.Decode(Ook, "Ook. Ook. Ook! Ook? Ook? Ook!")
	assert.ErrorIs(t, err, ErrExecutionLimitExceeded)
}

func TestOokCodec(t *testing.T) {
	encoded, err := Encode(Ook, "\x01")
	require.NoError(t, err)
	assert.Equal(t, "Ook. Ook. Ook! Ook.", encoded)

	decoded, err := Decode(Ook, "Ook. Ook.\nOok! Ook.")
	require.NoError(t, err)
	assert.Equal(t, "\x01", decoded)

	_, err = Decode(Ook, "Ook. Ook? Ook?")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Decode(Ook, "Ook? Ook?")
	assert.ErrorIs(t, err, ErrMalformedInput)
}
