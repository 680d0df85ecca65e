package codec

import (
	"fmt"
	"sort"
	"strings"
)

// Format identifies one supported codec. The set is closed: every value
// between Base64 and the last declared constant has exactly one encoder and
// one decoder.
type Format uint8

const (
	Base64 Format = iota + 1
	Base64URL
	Base32
	Base58
	ASCII85
	Hex
	Binary
	Octal
	Decimal
	URL
	HTML
	QuotedPrintable
	Punycode
	ROT13
	ROT18
	ROT47
	Caesar
	Atbash
	UpperCase
	LowerCase
	TitleCase
	CamelCase
	PascalCase
	SnakeCase
	KebabCase
	ConstantCase
	DotCase
	SwapCase
	Morse
	Braille
	Brainfuck
	Ook
	RailFence
	Reverse
	ASCII
	Unicode
	UnixTimestamp
	ISO8601
	HexColor
	RunLength
	Leetspeak
	PigLatin
	UnicodeNFC
	UnicodeNFD
	UnicodeNFKC
	UnicodeNFKD

	formatEnd
)

// Family groups related formats for listing.
type Family string

const (
	FamilyBitPacking Family = "bit-packing"
	FamilyRadix      Family = "radix"
	FamilyEscape     Family = "escape"
	FamilyClassical  Family = "classical"
	FamilyCase       Family = "case"
	FamilySymbolic   Family = "symbolic"
	FamilyEsoteric   Family = "esoteric"
	FamilyStructural Family = "structural"
	FamilyUtility    Family = "utility"
	FamilyText       Family = "text"
)

// Info describes a format.
type Info struct {
	Name        string `json:"name"`
	Family      Family `json:"family"`
	Description string `json:"description"`
	// Invertible reports whether decode exactly reverses encode over the
	// format's domain.
	Invertible bool `json:"invertible"`
}

var formatInfo = [formatEnd]Info{
	Base64:          {"base64", FamilyBitPacking, "Base64 with standard alphabet and padding", true},
	Base64URL:       {"base64url", FamilyBitPacking, "URL-safe Base64 without padding", true},
	Base32:          {"base32", FamilyBitPacking, "RFC 4648 Base32 (A-Z2-7) with padding", true},
	Base58:          {"base58", FamilyBitPacking, "Base58 with the Bitcoin alphabet", true},
	ASCII85:         {"ascii85", FamilyBitPacking, "Ascii85 (btoa) encoding", true},
	Hex:             {"hex", FamilyRadix, "Hexadecimal, two digits per byte", true},
	Binary:          {"binary", FamilyRadix, "Binary, eight digits per byte", true},
	Octal:           {"octal", FamilyRadix, "Octal code points separated by spaces", true},
	Decimal:         {"decimal", FamilyRadix, "Decimal code points separated by spaces", true},
	URL:             {"url", FamilyEscape, "Percent-encoding of URI components", true},
	HTML:            {"html", FamilyEscape, "HTML entity escaping", true},
	QuotedPrintable: {"quoted_printable", FamilyEscape, "Quoted-printable escaping of bytes outside printable ASCII", true},
	Punycode:        {"punycode", FamilyEscape, "IDNA Punycode for each dot-separated label", true},
	ROT13:           {"rot13", FamilyClassical, "Rotate letters by 13", true},
	ROT18:           {"rot18", FamilyClassical, "ROT13 on letters and ROT5 on digits", true},
	ROT47:           {"rot47", FamilyClassical, "Rotate printable ASCII by 47", true},
	Caesar:          {"caesar", FamilyClassical, "Caesar cipher with a shift of 3", true},
	Atbash:          {"atbash", FamilyClassical, "Reverse the alphabet", true},
	UpperCase:       {"upper_case", FamilyCase, "UPPER CASE", false},
	LowerCase:       {"lower_case", FamilyCase, "lower case", false},
	TitleCase:       {"title_case", FamilyCase, "Title Case", false},
	CamelCase:       {"camel_case", FamilyCase, "camelCase", false},
	PascalCase:      {"pascal_case", FamilyCase, "PascalCase", false},
	SnakeCase:       {"snake_case", FamilyCase, "snake_case", false},
	KebabCase:       {"kebab_case", FamilyCase, "kebab-case", false},
	ConstantCase:    {"constant_case", FamilyCase, "CONSTANT_CASE", false},
	DotCase:         {"dot_case", FamilyCase, "dot.case", false},
	SwapCase:        {"swap_case", FamilyCase, "sWAP cASE", false},
	Morse:           {"morse", FamilySymbolic, "International Morse code", true},
	Braille:         {"braille", FamilySymbolic, "Grade 1 Braille cells for a-z", true},
	Brainfuck:       {"brainfuck", FamilyEsoteric, "Brainfuck program that prints the text", true},
	Ook:             {"ook", FamilyEsoteric, "Ook! program that prints the text", true},
	RailFence:       {"rail_fence", FamilyStructural, "Rail fence cipher with three rails", true},
	Reverse:         {"reverse", FamilyStructural, "Reverse character order", true},
	ASCII:           {"ascii", FamilyUtility, "Decimal ASCII codes", false},
	Unicode:         {"unicode", FamilyUtility, `\uXXXX escapes for non-ASCII characters`, true},
	UnixTimestamp:   {"unix_timestamp", FamilyUtility, "Date to Unix seconds", false},
	ISO8601:         {"iso8601", FamilyUtility, "Date to ISO 8601", false},
	HexColor:        {"hex_color", FamilyUtility, "Deterministic color derived from a string hash", false},
	RunLength:       {"run_length", FamilyUtility, "Run-length encoding (input digits do not round-trip)", true},
	Leetspeak:       {"leetspeak", FamilyText, "1337 substitutions", false},
	PigLatin:        {"pig_latin", FamilyText, "Pig Latin", false},
	UnicodeNFC:      {"unicode_nfc", FamilyText, "Unicode canonical composition", false},
	UnicodeNFD:      {"unicode_nfd", FamilyText, "Unicode canonical decomposition", false},
	UnicodeNFKC:     {"unicode_nfkc", FamilyText, "Unicode compatibility composition", false},
	UnicodeNFKD:     {"unicode_nfkd", FamilyText, "Unicode compatibility decomposition", false},
}

var formatsByName = func() map[string]Format {
	m := make(map[string]Format, len(formatInfo))
	for f := Base64; f < formatEnd; f++ {
		m[formatInfo[f].Name] = f
	}
	return m
}()

// Valid reports whether f names a supported format.
func (f Format) Valid() bool {
	return f >= Base64 && f < formatEnd
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return formatInfo[f].Name
}

// MarshalText encodes the format as its name.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, unknownFormat(f.String())
	}
	return []byte(formatInfo[f].Name), nil
}

// UnmarshalText parses a format name.
func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// legacyNames are older case-style names kept working for existing clients.
// They parse but are not listed by FormatNames.
var legacyNames = map[string]Format{
	"uppercase": UpperCase,
	"lowercase": LowerCase,
	"swapcase":  SwapCase,
}

// ParseFormat resolves a format name. Matching ignores case and surrounding
// whitespace, and accepts '-' in place of '_'.
func ParseFormat(name string) (Format, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if f, ok := formatsByName[key]; ok {
		return f, nil
	}
	if f, ok := legacyNames[key]; ok {
		return f, nil
	}
	return 0, unknownFormat(name)
}

// Describe returns the metadata of f. The zero Info is returned for invalid
// formats.
func Describe(f Format) Info {
	if !f.Valid() {
		return Info{}
	}
	return formatInfo[f]
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	out := make([]Format, 0, int(formatEnd)-1)
	for f := Base64; f < formatEnd; f++ {
		out = append(out, f)
	}
	return out
}

// FormatNames returns the names of all supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(formatsByName))
	for name := range formatsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatsByFamily returns the formats of the given family in declaration order.
func FormatsByFamily(family Family) []Format {
	out := make([]Format, 0)
	for f := Base64; f < formatEnd; f++ {
		if formatInfo[f].Family == family {
			out = append(out, f)
		}
	}
	return out
}

// Families lists the known families.
func Families() []Family {
	return []Family{
		FamilyBitPacking,
		FamilyRadix,
		FamilyEscape,
		FamilyClassical,
		FamilyCase,
		FamilySymbolic,
		FamilyEsoteric,
		FamilyStructural,
		FamilyUtility,
		FamilyText,
	}
}
