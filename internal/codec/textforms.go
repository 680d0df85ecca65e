package codec

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	leetEncoder = strings.NewReplacer("a", "4", "e", "3", "i", "1", "o", "0", "s", "5", "t", "7")
	leetDecoder = strings.NewReplacer("4", "a", "3", "e", "1", "i", "0", "o", "5", "s", "7", "t")
)

func leetEncode(s string) string {
	return leetEncoder.Replace(toLower(s))
}

func leetDecode(s string) string {
	return leetDecoder.Replace(s)
}

var (
	vowelStart       = regexp.MustCompile(`(?i)^[aeiou]`)
	leadingConsonant = regexp.MustCompile(`(?i)^([^aeiou]+)(.*)$`)
	pigLatinSuffix   = regexp.MustCompile(`(?i)^(.*)([^aeiou]+)ay$`)
)

// pigLatinEncode works on space-separated words: vowel-initial words gain
// "way", others move their leading consonants to the end and gain "ay".
func pigLatinEncode(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if vowelStart.MatchString(w) {
			words[i] = w + "way"
			continue
		}
		if m := leadingConsonant.FindStringSubmatch(w); m != nil {
			words[i] = m[2] + m[1] + "ay"
		}
	}
	return strings.Join(words, " ")
}

// pigLatinDecode only restores the last moved consonant, so words that
// started with a cluster do not come back intact.
func pigLatinDecode(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if strings.HasSuffix(w, "way") {
			words[i] = strings.TrimSuffix(w, "way")
			continue
		}
		if m := pigLatinSuffix.FindStringSubmatch(w); m != nil {
			words[i] = m[2] + m[1]
		}
	}
	return strings.Join(words, " ")
}

// normalization pairs a normalization form with the form its decode
// produces.
func normalization(b baseCodec, enc, dec norm.Form) Codec {
	return transform{
		baseCodec: b,
		encode:    enc.String,
		decode:    lossless(dec.String),
	}
}
