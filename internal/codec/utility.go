package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/spf13/cast"
)

var digitRun = regexp.MustCompile(`\d+`)

type asciiCodec struct{ baseCodec }

func (asciiCodec) Encode(text string) string {
	codes := make([]string, 0, len(text))
	for _, r := range text {
		codes = append(codes, strconv.Itoa(int(r)))
	}
	return strings.Join(codes, " ")
}

func (c asciiCodec) Decode(text string) (string, error) {
	codes := digitRun.FindAllString(text, -1)
	if len(codes) == 0 {
		return "", malformed(c.format, "no ASCII codes found")
	}
	var sb strings.Builder
	for _, code := range codes {
		n, err := strconv.Atoi(code)
		if err != nil || n > 127 {
			return "", malformed(c.format, "code %s is outside the ASCII range", code)
		}
		sb.WriteByte(byte(n))
	}
	return sb.String(), nil
}

type unicodeCodec struct{ baseCodec }

// Encode escapes every code point above 127. Astral code points become a
// surrogate pair of escapes.
func (unicodeCodec) Encode(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch {
		case r <= 127:
			sb.WriteRune(r)
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, `\u%04x\u%04x`, hi, lo)
		default:
			fmt.Fprintf(&sb, `\u%04x`, r)
		}
	}
	return sb.String()
}

// Decode resolves \uXXXX and \xXX escapes and leaves everything else alone.
func (unicodeCodec) Decode(text string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(text); {
		if u, ok := escapeAt(text, i, 'u', 4); ok {
			i += 6
			if utf16.IsSurrogate(rune(u)) {
				if lo, ok := escapeAt(text, i, 'u', 4); ok {
					if r := utf16.DecodeRune(rune(u), rune(lo)); r != 0xFFFD {
						sb.WriteRune(r)
						i += 6
						continue
					}
				}
			}
			sb.WriteRune(rune(u))
			continue
		}
		if b, ok := escapeAt(text, i, 'x', 2); ok {
			sb.WriteRune(rune(b))
			i += 4
			continue
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String(), nil
}

// escapeAt parses a backslash escape with the given letter and hex width
// starting at text[i].
func escapeAt(text string, i int, letter byte, width int) (uint64, bool) {
	end := i + 2 + width
	if end > len(text) || text[i] != '\\' || text[i+1] != letter {
		return 0, false
	}
	v, err := strconv.ParseUint(text[i+2:end], 16, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(text string) (time.Time, error) {
	return cast.ToTimeE(strings.TrimSpace(text))
}

type unixTimestampCodec struct{ baseCodec }

// Encode renders whole seconds since the epoch, or "NaN" when text is not a
// recognizable date.
func (unixTimestampCodec) Encode(text string) string {
	t, err := parseDate(text)
	if err != nil {
		return "NaN"
	}
	return strconv.FormatInt(t.Unix(), 10)
}

func (c unixTimestampCodec) Decode(text string) (string, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return "", malformed(c.format, "%q is not a whole number of seconds", text)
	}
	return time.Unix(secs, 0).UTC().Format(time.RFC3339), nil
}

const isoMillis = "2006-01-02T15:04:05.000Z"

type iso8601Codec struct{ baseCodec }

// Encode renders UTC with millisecond precision, or "Invalid Date" when text
// is not a recognizable date.
func (iso8601Codec) Encode(text string) string {
	t, err := parseDate(text)
	if err != nil {
		return "Invalid Date"
	}
	return t.UTC().Format(isoMillis)
}

func (c iso8601Codec) Decode(text string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(text))
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return t.Format(time.RFC1123Z), nil
}

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

type hexColorCodec struct{ baseCodec }

// Encode folds the UTF-16 units of text into a 32-bit string hash and keeps
// the low 24 bits as an RGB color.
func (hexColorCodec) Encode(text string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(text)) {
		h = int32(u) + (h << 5) - h
	}
	return fmt.Sprintf("#%06X", uint32(h)&0xFFFFFF)
}

// Decode renders a hex color in rgb() notation. The hash is one-way, so this
// is a conversion, not an inverse.
func (c hexColorCodec) Decode(text string) (string, error) {
	m := hexColorPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", malformed(c.format, "%q is not a #RGB or #RRGGBB color", text)
	}
	digits := m[1]
	if len(digits) == 3 {
		digits = strings.Repeat(digits[:1], 2) + strings.Repeat(digits[1:2], 2) + strings.Repeat(digits[2:], 2)
	}
	v, _ := strconv.ParseUint(digits, 16, 32)
	return fmt.Sprintf("rgb(%d, %d, %d)", v>>16&0xFF, v>>8&0xFF, v&0xFF), nil
}

type runLengthCodec struct {
	baseCodec
	maxExpansion int
}

// Encode prefixes runs longer than one with their length. Digits in text
// are written as literals, so text containing digits does not decode back.
func (runLengthCodec) Encode(text string) string {
	runes := []rune(text)
	var sb strings.Builder
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if n := j - i; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
		sb.WriteRune(runes[i])
		i = j
	}
	return sb.String()
}

// Decode reads an optional digit run followed by exactly one literal
// character.
func (c runLengthCodec) Decode(text string) (string, error) {
	runes := []rune(text)
	var sb strings.Builder
	total := 0
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
			j++
		}
		count := 1
		if j > i {
			if j == len(runes) {
				return "", malformed(c.format, "count %s at position %d has no character to repeat", string(runes[i:j]), i)
			}
			n, err := strconv.Atoi(string(runes[i:j]))
			if err != nil {
				return "", malformed(c.format, "count %s at position %d is too large", string(runes[i:j]), i)
			}
			count = n
		}
		total += count
		if total > c.maxExpansion {
			return "", malformed(c.format, "output exceeds %d characters", c.maxExpansion)
		}
		sb.WriteString(strings.Repeat(string(runes[j]), count))
		i = j + 1
	}
	return sb.String(), nil
}
