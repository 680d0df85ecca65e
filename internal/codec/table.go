package codec

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Codec is a paired encode/decode transformation for one format.
type Codec interface {
	// Format returns the identifier this codec serves.
	Format() Format

	// Encode transforms text into the format. It never fails; out-of-domain
	// input produces a lossy result.
	Encode(text string) string

	// Decode reverses Encode, or fails with a *Error when text violates the
	// format's grammar.
	Decode(text string) (string, error)
}

type baseCodec struct {
	format Format
}

func (b baseCodec) Format() Format {
	return b.format
}

// transform adapts a pair of functions into a Codec.
type transform struct {
	baseCodec
	encode func(string) string
	decode func(string) (string, error)
}

func (t transform) Encode(text string) string {
	return t.encode(text)
}

func (t transform) Decode(text string) (string, error) {
	return t.decode(text)
}

func lossless(fn func(string) string) func(string) (string, error) {
	return func(s string) (string, error) {
		return fn(s), nil
	}
}

const (
	DefaultStepLimit    = 10_000_000
	DefaultTapeSize     = 30000
	DefaultMaxExpansion = 1 << 20
)

type options struct {
	stepLimit    int
	tapeSize     int
	maxExpansion int
}

// Option configures a Table.
type Option func(*options)

// WithStepLimit caps the number of Brainfuck instructions a single decode may
// execute. Values below one select the default.
func WithStepLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.stepLimit = n
		}
	}
}

// WithTapeSize sets the Brainfuck tape length. Sizes below 30000 are raised
// to 30000.
func WithTapeSize(n int) Option {
	return func(o *options) {
		if n > DefaultTapeSize {
			o.tapeSize = n
		}
	}
}

// WithMaxExpansion caps the number of characters run-length decode may
// produce.
func WithMaxExpansion(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxExpansion = n
		}
	}
}

// Table resolves formats to codecs. A Table is immutable and safe for
// concurrent use.
type Table struct {
	opts options
}

// New builds a Table.
func New(opts ...Option) *Table {
	o := options{
		stepLimit:    DefaultStepLimit,
		tapeSize:     DefaultTapeSize,
		maxExpansion: DefaultMaxExpansion,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Table{opts: o}
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the table used by the package-level helpers.
func Default() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = New()
	})
	return defaultTable
}

// StepLimit reports the configured Brainfuck instruction ceiling.
func (t *Table) StepLimit() int {
	return t.opts.stepLimit
}

// Lookup returns the codec for f.
func (t *Table) Lookup(f Format) (Codec, error) {
	b := baseCodec{format: f}
	switch f {
	case Base64:
		return base64Codec{b}, nil
	case Base64URL:
		return base64URLCodec{b}, nil
	case Base32:
		return base32Codec{b}, nil
	case Base58:
		return base58Codec{b}, nil
	case ASCII85:
		return ascii85Codec{b}, nil
	case Hex:
		return hexCodec{b}, nil
	case Binary:
		return binaryCodec{b}, nil
	case Octal:
		return radixCodec{baseCodec: b, base: 8}, nil
	case Decimal:
		return radixCodec{baseCodec: b, base: 10}, nil
	case URL:
		return urlCodec{b}, nil
	case HTML:
		return htmlCodec{b}, nil
	case QuotedPrintable:
		return quotedPrintableCodec{b}, nil
	case Punycode:
		return punycodeCodec{b}, nil
	case ROT13:
		return substitution(b, rot13, rot13), nil
	case ROT18:
		return substitution(b, rot18, rot18), nil
	case ROT47:
		return substitution(b, rot47, rot47), nil
	case Caesar:
		return substitution(b, shiftLetters(3), shiftLetters(-3)), nil
	case Atbash:
		return substitution(b, atbash, atbash), nil
	case UpperCase:
		return transform{b, toUpper, lossless(toLower)}, nil
	case LowerCase:
		return transform{b, toLower, lossless(toUpper)}, nil
	case TitleCase:
		return transform{b, toTitle, lossless(toLower)}, nil
	case CamelCase:
		return transform{b, toCamel, lossless(unjoinWords)}, nil
	case PascalCase:
		return transform{b, toPascal, lossless(unjoinWords)}, nil
	case SnakeCase:
		return transform{b, joinWords("_", toLower), lossless(unjoinWords)}, nil
	case KebabCase:
		return transform{b, joinWords("-", toLower), lossless(unjoinWords)}, nil
	case ConstantCase:
		return transform{b, joinWords("_", toUpper), lossless(unjoinWords)}, nil
	case DotCase:
		return transform{b, joinWords(".", toLower), lossless(unjoinWords)}, nil
	case SwapCase:
		return transform{b, swapCase, lossless(swapCase)}, nil
	case Morse:
		return morseCodec{b}, nil
	case Braille:
		return brailleCodec{b}, nil
	case Brainfuck:
		return brainfuckCodec{baseCodec: b, machine: t.machine()}, nil
	case Ook:
		return ookCodec{baseCodec: b, machine: t.machine()}, nil
	case RailFence:
		return railFenceCodec{baseCodec: b, rails: 3}, nil
	case Reverse:
		return transform{b, reverseRunes, lossless(reverseRunes)}, nil
	case ASCII:
		return asciiCodec{b}, nil
	case Unicode:
		return unicodeCodec{b}, nil
	case UnixTimestamp:
		return unixTimestampCodec{b}, nil
	case ISO8601:
		return iso8601Codec{b}, nil
	case HexColor:
		return hexColorCodec{b}, nil
	case RunLength:
		return runLengthCodec{baseCodec: b, maxExpansion: t.opts.maxExpansion}, nil
	case Leetspeak:
		return transform{b, leetEncode, lossless(leetDecode)}, nil
	case PigLatin:
		return transform{b, pigLatinEncode, lossless(pigLatinDecode)}, nil
	case UnicodeNFC:
		return normalization(b, norm.NFC, norm.NFD), nil
	case UnicodeNFD:
		return normalization(b, norm.NFD, norm.NFC), nil
	case UnicodeNFKC:
		return normalization(b, norm.NFKC, norm.NFKD), nil
	case UnicodeNFKD:
		return normalization(b, norm.NFKD, norm.NFKC), nil
	}
	return nil, unknownFormat(f.String())
}

func (t *Table) machine() machine {
	return machine{stepLimit: t.opts.stepLimit, tapeSize: t.opts.tapeSize}
}

// Encode encodes text into f. It only fails for unknown formats.
func (t *Table) Encode(f Format, text string) (string, error) {
	c, err := t.Lookup(f)
	if err != nil {
		return "", err
	}
	return c.Encode(text), nil
}

// Decode decodes text from f.
func (t *Table) Decode(f Format, text string) (string, error) {
	c, err := t.Lookup(f)
	if err != nil {
		return "", err
	}
	return c.Decode(text)
}

// Encode encodes text into f using the default table.
func Encode(f Format, text string) (string, error) {
	return Default().Encode(f, text)
}

// Decode decodes text from f using the default table.
func Decode(f Format, text string) (string, error) {
	return Default().Decode(f, text)
}
