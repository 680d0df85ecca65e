package codec

import (
	"encoding/ascii85"
	"encoding/base32"
	"encoding/base64"
	"math/big"
	"strings"
)

type base64Codec struct{ baseCodec }

func (base64Codec) Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

func (c base64Codec) Decode(text string) (string, error) {
	s := stripSpace(text)
	if len(s)%4 != 0 {
		return "", invalidLength(c.format, "length %d is not a multiple of 4", len(s))
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return textOf(b), nil
}

type base64URLCodec struct{ baseCodec }

func (base64URLCodec) Encode(text string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(text))
}

func (c base64URLCodec) Decode(text string) (string, error) {
	s := strings.TrimRight(stripSpace(text), "=")
	if len(s)%4 == 1 {
		return "", invalidLength(c.format, "length %d cannot be produced by base64url", len(s))
	}
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return textOf(b), nil
}

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var rawBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

type base32Codec struct{ baseCodec }

func (base32Codec) Encode(text string) string {
	return base32.StdEncoding.EncodeToString([]byte(text))
}

func (c base32Codec) Decode(text string) (string, error) {
	s := strings.ToUpper(strings.ReplaceAll(stripSpace(text), "=", ""))
	for i, r := range s {
		if !strings.ContainsRune(base32Alphabet, r) {
			return "", malformed(c.format, "invalid base32 character %q at position %d", r, i)
		}
	}
	switch len(s) % 8 {
	case 1, 3, 6:
		return "", invalidLength(c.format, "length %d cannot be produced by base32", len(s))
	}
	b, err := rawBase32.DecodeString(s)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return textOf(b), nil
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	base58Radix  = big.NewInt(58)
	base58Values [256]int8
)

func init() {
	for i := range base58Values {
		base58Values[i] = -1
	}
	for i := 0; i < len(base58Alphabet); i++ {
		base58Values[base58Alphabet[i]] = int8(i)
	}
}

type base58Codec struct{ baseCodec }

// Encode treats the bytes as one big-endian integer. Leading zero bytes do
// not survive, and the empty string encodes as the zero digit.
func (base58Codec) Encode(text string) string {
	n := new(big.Int).SetBytes([]byte(text))
	if n.Sign() == 0 {
		return base58Alphabet[:1]
	}
	var digits []byte
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base58Radix, mod)
		digits = append(digits, base58Alphabet[mod.Int64()])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

func (c base58Codec) Decode(text string) (string, error) {
	s := strings.TrimSpace(text)
	n := new(big.Int)
	digit := new(big.Int)
	for i, r := range s {
		if r > 0x7F || base58Values[r] < 0 {
			return "", malformed(c.format, "invalid base58 character %q at position %d", r, i)
		}
		n.Mul(n, base58Radix)
		n.Add(n, digit.SetInt64(int64(base58Values[r])))
	}
	return textOf(n.Bytes()), nil
}

type ascii85Codec struct{ baseCodec }

func (ascii85Codec) Encode(text string) string {
	src := []byte(text)
	dst := make([]byte, ascii85.MaxEncodedLen(len(src)))
	n := ascii85.Encode(dst, src)
	return string(dst[:n])
}

func (c ascii85Codec) Decode(text string) (string, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "<~")
	s = strings.TrimSuffix(s, "~>")
	dst := make([]byte, 4*len(s)+4)
	n, _, err := ascii85.Decode(dst, []byte(s), true)
	if err != nil {
		return "", malformedErr(c.format, err)
	}
	return textOf(dst[:n]), nil
}
