package codec

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// textOf converts decoded bytes back into text. Valid UTF-8 is kept as is;
// anything else is read as Latin-1 so every byte maps to the code point of
// the same value.
func textOf(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// byteValues maps text onto byte values for the fixed-width byte codecs.
// Code points up to 0xFF become one byte of the same value; anything above
// is clamped to its UTF-8 bytes.
func byteValues(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if r <= 0xFF {
			out = append(out, byte(r))
			continue
		}
		out = utf8.AppendRune(out, r)
	}
	return out
}

// stripSpace removes all whitespace.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// plausibleText reports whether s is non-empty printable ASCII, allowing
// whitespace.
func plausibleText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if r < 0x20 || r > 0x7E {
			return false
		}
	}
	return true
}
