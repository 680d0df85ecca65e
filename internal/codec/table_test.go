package codec

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCoversEveryFormat(t *testing.T) {
	table := New()
	for _, f := range Formats() {
		c, err := table.Lookup(f)
		require.NoError(t, err, "lookup %s", f)
		assert.Equal(t, f, c.Format())
	}

	_, err := table.Lookup(formatEnd)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = table.Lookup(0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(Format(200), "text")
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, KindUnknownFormat, KindOf(err))

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Format(200)", ce.Name)
}

// Sample texts per format, restricted to each format's domain.
var roundTripSamples = map[Format][]string{
	Morse:     {"HELLO WORLD", "SOS 2024", ""},
	Braille:   {"hello world", "the quick brown fox", ""},
	RunLength: {"aaabbbcc", "Hello World", "mississippi", ""},
	Punycode:  {"münchen", "bücher.example", "plain ascii"},
	Base58:    {"Hello World", "ÿ é ü", "symbols !@#$%^&*()"},
}

var defaultSamples = []string{
	"Hello World",
	"The quick brown fox jumps over the lazy dog",
	"",
	"ÿ é ü",
	"symbols !@#$%^&*()",
	"line one\nline two\ttabbed",
}

func TestRoundTripInvertibleFormats(t *testing.T) {
	table := New()
	for _, f := range Formats() {
		if !Describe(f).Invertible {
			continue
		}
		samples, ok := roundTripSamples[f]
		if !ok {
			samples = defaultSamples
		}
		t.Run(f.String(), func(t *testing.T) {
			for _, text := range samples {
				encoded, err := table.Encode(f, text)
				require.NoError(t, err)
				decoded, err := table.Decode(f, encoded)
				require.NoError(t, err, "decode %q", encoded)
				assert.Equal(t, text, decoded, "round trip of %q via %q", text, encoded)
			}
		})
	}
}

func TestLossyFormatsDecode(t *testing.T) {
	table := New()
	for _, f := range Formats() {
		if Describe(f).Invertible {
			continue
		}
		t.Run(f.String(), func(t *testing.T) {
			encoded, err := table.Encode(f, "Hello World 2024-01-01")
			require.NoError(t, err)
			assert.NotEmpty(t, encoded)
		})
	}
}

func TestDefaultTableIsShared(t *testing.T) {
	var wg sync.WaitGroup
	tables := make([]*Table, 8)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i] = Default()
			_, _ = tables[i].Encode(Base64, "concurrent")
		}(i)
	}
	wg.Wait()
	for _, tbl := range tables {
		assert.Same(t, tables[0], tbl)
	}
	assert.Equal(t, DefaultStepLimit, Default().StepLimit())
}

func TestTableOptions(t *testing.T) {
	table := New(WithStepLimit(0), WithTapeSize(10), WithMaxExpansion(-1), nil)
	assert.Equal(t, DefaultStepLimit, table.StepLimit())
	assert.Equal(t, DefaultTapeSize, table.opts.tapeSize)
	assert.Equal(t, DefaultMaxExpansion, table.opts.maxExpansion)

	table = New(WithTapeSize(60000))
	assert.Equal(t, 60000, table.opts.tapeSize)
}

func TestErrorMessages(t *testing.T) {
	_, err := ParseFormat("base99")
	require.Error(t, err)
	assert.Equal(t, `unknown format: "base99"`, err.Error())

	_, err = Decode(Hex, "zz")
	require.Error(t, err)
	assert.Equal(t, "hex decode failed: no hex digits found", err.Error())
	assert.Equal(t, "malformed_input", KindOf(err).String())
}
