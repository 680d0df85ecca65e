package codec

import "strings"

// substitution builds a codec that maps each rune independently.
func substitution(b baseCodec, enc, dec func(rune) rune) Codec {
	return transform{
		baseCodec: b,
		encode:    func(s string) string { return strings.Map(enc, s) },
		decode:    func(s string) (string, error) { return strings.Map(dec, s), nil },
	}
}

// rotate shifts r by n within the window of size starting at lo.
func rotate(r, lo rune, size, n int) rune {
	off := (int(r-lo) + n) % size
	if off < 0 {
		off += size
	}
	return lo + rune(off)
}

func shiftLetters(n int) func(rune) rune {
	return func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return rotate(r, 'a', 26, n)
		case r >= 'A' && r <= 'Z':
			return rotate(r, 'A', 26, n)
		}
		return r
	}
}

var rot13 = shiftLetters(13)

func rot18(r rune) rune {
	if r >= '0' && r <= '9' {
		return rotate(r, '0', 10, 5)
	}
	return rot13(r)
}

func rot47(r rune) rune {
	if r >= '!' && r <= '~' {
		return rotate(r, '!', 94, 47)
	}
	return r
}

func atbash(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'z' - (r - 'a')
	case r >= 'A' && r <= 'Z':
		return 'Z' - (r - 'A')
	}
	return r
}
