package codec

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// hexPrefixRe matches a 0x marker at the start of each token.
var hexPrefixRe = regexp.MustCompile(`(^|[^0-9A-Fa-f])0[xX]`)

type hexCodec struct{ baseCodec }

func (hexCodec) Encode(text string) string {
	return hex.EncodeToString(byteValues(text))
}

func (c hexCodec) Decode(text string) (string, error) {
	s := keepRunes(hexPrefixRe.ReplaceAllString(text, ""), isHexDigit)
	if s == "" && strings.TrimSpace(text) != "" {
		return "", malformed(c.format, "no hex digits found")
	}
	if len(s)%2 != 0 {
		return "", invalidLength(c.format, "%d hex digits do not form whole bytes", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return textOf(b), nil
}

type binaryCodec struct{ baseCodec }

func (binaryCodec) Encode(text string) string {
	b := byteValues(text)
	groups := make([]string, len(b))
	for i, c := range b {
		groups[i] = fmt.Sprintf("%08b", c)
	}
	return strings.Join(groups, " ")
}

func (c binaryCodec) Decode(text string) (string, error) {
	s := keepRunes(text, func(r rune) bool { return r == '0' || r == '1' })
	if s == "" && strings.TrimSpace(text) != "" {
		return "", malformed(c.format, "no binary digits found")
	}
	if len(s)%8 != 0 {
		return "", invalidLength(c.format, "%d bits do not form whole bytes", len(s))
	}
	out := make([]byte, len(s)/8)
	for i := range out {
		v, err := strconv.ParseUint(s[i*8:i*8+8], 2, 8)
		if err != nil {
			return "", malformedErr(c.format, err)
		}
		out[i] = byte(v)
	}
	return textOf(out), nil
}

// radixCodec renders code points in a variable-width radix separated by
// spaces.
type radixCodec struct {
	baseCodec
	base int
}

func (c radixCodec) Encode(text string) string {
	parts := make([]string, 0, len(text))
	for _, r := range text {
		parts = append(parts, strconv.FormatInt(int64(r), c.base))
	}
	return strings.Join(parts, " ")
}

func (c radixCodec) Decode(text string) (string, error) {
	var sb strings.Builder
	for _, tok := range strings.Fields(text) {
		v, err := strconv.ParseUint(tok, c.base, 32)
		if err != nil {
			return "", malformed(c.format, "invalid token %q", tok)
		}
		r := rune(v)
		if !utf8.ValidRune(r) {
			return "", malformed(c.format, "%q is not a valid code point", tok)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func keepRunes(s string, keep func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if keep(r) {
			return r
		}
		return -1
	}, s)
}
