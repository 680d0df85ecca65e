package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBase64(t *testing.T) {
	results := Detect("SGVsbG8gV29ybGQ=")
	require.NotEmpty(t, results)
	assert.Equal(t, Base64, results[0].Format)
	assert.Equal(t, "Hello World", results[0].Decoded)
	assert.Equal(t, 0.9, results[0].Confidence)
	assert.NotEmpty(t, results[0].Reasoning)
}

func TestDetectTopCandidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		decoded string
	}{
		{"hex", "48656c6c6f", Hex, "Hello"},
		{"binary", "01001000 01101001", Binary, "Hi"},
		{"url", "%48%65%6C%6C%6F", URL, "Hello"},
		{"html", "&lt;b&gt;", HTML, "<b>"},
		{"morse", "... --- ...", Morse, "SOS"},
		{"ascii codes", "72 101 108 108 111", ASCII, "Hello"},
		{"unicode escapes", `caf\u00e9`, Unicode, "caf\u00e9"},
		{"brainfuck", "++++++++[>++++++++<-]>+.", Brainfuck, "A"},
		{"rot13 fallback", "Uryyb", ROT13, "Hello"},
		{"base64url", "SGVsbG8_V29ybGQh", Base64URL, "Hello?World!"},
		{"punycode", "xn--mnchen-3ya", Punycode, "münchen"},
		{"braille", "⠓⠊", Braille, "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := NewDetector(nil).Best(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.format, best.Format)
			assert.Equal(t, tt.decoded, best.Decoded)
		})
	}
}

func TestDetectBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		results := Detect(input)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}

	_, ok := NewDetector(nil).Best("")
	assert.False(t, ok)
}

func TestDetectIsDeterministicAndOrdered(t *testing.T) {
	inputs := []string{
		"SGVsbG8gV29ybGQ=",
		"48656c6c6f",
		"Hello World",
		"72 101 108 108 111",
		"&amp; %20 \\u0041",
	}
	for _, input := range inputs {
		first := Detect(input)
		second := Detect(input)
		assert.Equal(t, first, second, "detect %q", input)
		for i := 1; i < len(first); i++ {
			assert.GreaterOrEqual(t, first[i-1].Confidence, first[i].Confidence, "detect %q", input)
		}
	}
}

func TestDetectKeepsEvaluationOrderOnTies(t *testing.T) {
	// URL and HTML both score 0.7; URL is evaluated first.
	results := Detect("a%20b &amp; c")
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, URL, results[0].Format)
	assert.Equal(t, HTML, results[1].Format)
}

func TestDetectRejectsImplausibleDecodes(t *testing.T) {
	// Looks like hex, but the bytes are control characters.
	for _, c := range Detect("0102030405") {
		assert.NotEqual(t, Hex, c.Format)
	}
	// Brainfuck shape that prints a NUL.
	for _, c := range Detect("...") {
		assert.NotEqual(t, Brainfuck, c.Format)
	}
}

func TestDetectMinConfidence(t *testing.T) {
	d := NewDetector(nil, WithMinConfidence(0.5))
	for _, c := range d.Detect("Uryyb Jbeyq") {
		assert.GreaterOrEqual(t, c.Confidence, 0.5)
	}
	assert.Empty(t, d.Detect("Uryyb"))
}

func TestDetectUsesTableLimits(t *testing.T) {
	d := NewDetector(New(WithStepLimit(10)))
	for _, c := range d.Detect("++++++++[>++++++++<-]>+.") {
		assert.NotEqual(t, Brainfuck, c.Format)
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := NewDetector(nil).SupportedFormats()
	assert.Equal(t, Base64, formats[0])
	assert.Contains(t, formats, ROT13)
	assert.Contains(t, formats, Ook)
	for _, f := range formats {
		assert.True(t, f.Valid())
	}
}
