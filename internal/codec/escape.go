package codec

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/idna"
)

type urlCodec struct{ baseCodec }

// Encode percent-encodes every UTF-8 byte outside the URI component
// unreserved set.
func (urlCodec) Encode(text string) string {
	var sb strings.Builder
	for _, b := range []byte(text) {
		if isURIUnreserved(b) {
			sb.WriteByte(b)
			continue
		}
		fmt.Fprintf(&sb, "%%%02X", b)
	}
	return sb.String()
}

func (c urlCodec) Decode(text string) (string, error) {
	out, err := url.PathUnescape(text)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	if !utf8.ValidString(out) {
		return "", malformed(c.format, "percent sequences do not form valid UTF-8")
	}
	return out, nil
}

func isURIUnreserved(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", b) >= 0
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

type htmlCodec struct{ baseCodec }

func (htmlCodec) Encode(text string) string {
	return htmlEscaper.Replace(text)
}

// Decode resolves named and numeric entities. Unknown entities are left as
// they are.
func (htmlCodec) Decode(text string) (string, error) {
	return html.UnescapeString(text), nil
}

type quotedPrintableCodec struct{ baseCodec }

func (quotedPrintableCodec) Encode(text string) string {
	var sb strings.Builder
	for _, b := range []byte(text) {
		if b >= 0x20 && b <= 0x7E && b != '=' {
			sb.WriteByte(b)
			continue
		}
		fmt.Fprintf(&sb, "=%02X", b)
	}
	return sb.String()
}

// Decode accepts soft line breaks and lowercase hex digits.
func (c quotedPrintableCodec) Decode(text string) (string, error) {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b != '=' {
			out = append(out, b)
			continue
		}
		rest := text[i+1:]
		switch {
		case strings.HasPrefix(rest, "\r\n"):
			i += 2
		case strings.HasPrefix(rest, "\n"):
			i++
		case len(rest) < 2:
			return "", malformed(c.format, "truncated escape at position %d", i)
		case isHexDigit(rune(rest[0])) && isHexDigit(rune(rest[1])):
			out = append(out, unhex(rest[0])<<4|unhex(rest[1]))
			i += 2
		default:
			return "", malformed(c.format, "invalid escape %q at position %d", text[i:i+3], i)
		}
	}
	return textOf(out), nil
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

type punycodeCodec struct{ baseCodec }

// Encode converts every non-ASCII label into its xn-- form. Labels that
// cannot be converted are kept as produced by the converter.
func (punycodeCodec) Encode(text string) string {
	out, err := idna.Punycode.ToASCII(text)
	if err != nil && out == "" {
		return text
	}
	return out
}

func (c punycodeCodec) Decode(text string) (string, error) {
	out, err := idna.Punycode.ToUnicode(text)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return out, nil
}
