package codec

import (
	"strings"
	"unicode"
)

// morseSymbols covers A-Z, 0-9 and the word gap.
var morseSymbols = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	' ': "/",
}

var brailleCells = map[rune]rune{
	'a': '⠁', 'b': '⠃', 'c': '⠉', 'd': '⠙', 'e': '⠑', 'f': '⠋', 'g': '⠛',
	'h': '⠓', 'i': '⠊', 'j': '⠚', 'k': '⠅', 'l': '⠇', 'm': '⠍', 'n': '⠝',
	'o': '⠕', 'p': '⠏', 'q': '⠟', 'r': '⠗', 's': '⠎', 't': '⠞', 'u': '⠥',
	'v': '⠧', 'w': '⠺', 'x': '⠭', 'y': '⠽', 'z': '⠵',
	' ': '⠀',
}

var (
	morseLetters   = make(map[string]rune, len(morseSymbols))
	brailleLetters = make(map[rune]rune, len(brailleCells))
)

func init() {
	for r, sym := range morseSymbols {
		morseLetters[sym] = r
	}
	for r, cell := range brailleCells {
		brailleLetters[cell] = r
	}
}

type morseCodec struct{ baseCodec }

// Encode maps characters without a Morse symbol to "?".
func (morseCodec) Encode(text string) string {
	upper := strings.ToUpper(text)
	out := make([]string, 0, len(upper))
	for _, r := range upper {
		sym, ok := morseSymbols[r]
		if !ok {
			sym = "?"
		}
		out = append(out, sym)
	}
	return strings.Join(out, " ")
}

func (morseCodec) Decode(text string) (string, error) {
	var sb strings.Builder
	for _, tok := range strings.Fields(text) {
		r, ok := morseLetters[tok]
		if !ok {
			r = '?'
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

type brailleCodec struct{ baseCodec }

func (brailleCodec) Encode(text string) string {
	return strings.Map(func(r rune) rune {
		if cell, ok := brailleCells[unicode.ToLower(r)]; ok {
			return cell
		}
		return r
	}, text)
}

func (brailleCodec) Decode(text string) (string, error) {
	return strings.Map(func(r rune) rune {
		if letter, ok := brailleLetters[r]; ok {
			return letter
		}
		return r
	}, text), nil
}

// isBrailleCell reports whether r is in the Braille Patterns block.
func isBrailleCell(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}
