package codec

import (
	"regexp"
	"sort"
	"strings"
)

// Candidate is one plausible reading of an unlabeled input.
type Candidate struct {
	Format     Format  `json:"format"`
	Decoded    string  `json:"decoded"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Reasoning  string  `json:"reasoning"`
}

// matcher pairs a structural precondition with a fixed confidence. When
// requirePlausible is set, the decoded text must be non-empty printable
// ASCII.
type matcher struct {
	format           Format
	confidence       float64
	reasoning        string
	shape            func(string) bool
	requirePlausible bool
}

var (
	base64Shape      = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
	base64URLShape   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hexShape         = regexp.MustCompile(`^[0-9a-fA-F\s]+$`)
	binaryShape      = regexp.MustCompile(`^[01\s]+$`)
	base32Shape      = regexp.MustCompile(`^[A-Z2-7]+=*$`)
	percentEscape    = regexp.MustCompile(`%[0-9a-fA-F]{2}`)
	htmlEntity       = regexp.MustCompile(`&[a-zA-Z]+;|&#\d+;`)
	brainfuckShape   = regexp.MustCompile(`^[><+\-.,\[\]\s]+$`)
	ookShape         = regexp.MustCompile(`^\s*Ook[.?!](\s+Ook[.?!])*\s*$`)
	asciiLetter      = regexp.MustCompile(`[a-zA-Z]`)
	asciiCodesShape  = regexp.MustCompile(`^\d+(\s+\d+)*$`)
	unicodeEscape    = regexp.MustCompile(`\\u[0-9a-fA-F]{4}|\\x[0-9a-fA-F]{2}`)
	morseShape       = regexp.MustCompile(`^[.\-\s/]+$`)
	morseMark        = regexp.MustCompile(`[.-]`)
	punycodeLabel    = regexp.MustCompile(`(?i)(^|[.\s])xn--[a-z0-9-]+`)
)

// defaultMatchers is the evaluation order. Ties keep this order.
var defaultMatchers = []matcher{
	{
		format:     Base64,
		confidence: 0.9,
		reasoning:  "Matches the Base64 alphabet with a length divisible by 4 and decodes to readable text",
		shape: func(s string) bool {
			s = stripSpace(s)
			return len(s)%4 == 0 && base64Shape.MatchString(s)
		},
		requirePlausible: true,
	},
	{
		format:     Base64URL,
		confidence: 0.85,
		reasoning:  "Uses the URL-safe Base64 alphabet including '-' or '_'",
		shape: func(s string) bool {
			s = strings.TrimSpace(s)
			return base64URLShape.MatchString(s) && strings.ContainsAny(s, "-_")
		},
		requirePlausible: true,
	},
	{
		format:     Hex,
		confidence: 0.8,
		reasoning:  "Contains only hexadecimal digits forming whole bytes",
		shape: func(s string) bool {
			return hexShape.MatchString(s) && len(stripSpace(s))%2 == 0
		},
		requirePlausible: true,
	},
	{
		format:     Binary,
		confidence: 0.8,
		reasoning:  "Contains only 0 and 1 in groups of eight",
		shape: func(s string) bool {
			return binaryShape.MatchString(s) && len(stripSpace(s))%8 == 0
		},
		requirePlausible: true,
	},
	{
		format:     Base32,
		confidence: 0.75,
		reasoning:  "Matches the Base32 alphabet with a length divisible by 8",
		shape: func(s string) bool {
			s = stripSpace(s)
			return len(s)%8 == 0 && base32Shape.MatchString(s)
		},
		requirePlausible: true,
	},
	{
		format:     URL,
		confidence: 0.7,
		reasoning:  "Contains percent-encoded bytes",
		shape:      percentEscape.MatchString,
	},
	{
		format:     HTML,
		confidence: 0.7,
		reasoning:  "Contains HTML entities",
		shape:      htmlEntity.MatchString,
	},
	{
		format:           Brainfuck,
		confidence:       0.6,
		reasoning:        "Consists of Brainfuck instructions and prints readable text",
		shape:            brainfuckShape.MatchString,
		requirePlausible: true,
	},
	{
		format:           Ook,
		confidence:       0.6,
		reasoning:        "Consists of Ook! words and prints readable text",
		shape:            ookShape.MatchString,
		requirePlausible: true,
	},
	{
		format:     ROT13,
		confidence: 0.3,
		reasoning:  "Contains letters; ROT13 is a low-confidence fallback",
		shape:      asciiLetter.MatchString,
	},
	{
		format:     ASCII,
		confidence: 0.7,
		reasoning:  "Sequence of decimal character codes",
		shape: func(s string) bool {
			return asciiCodesShape.MatchString(strings.TrimSpace(s))
		},
	},
	{
		format:     Unicode,
		confidence: 0.8,
		reasoning:  `Contains \u or \x escape sequences`,
		shape:      unicodeEscape.MatchString,
	},
	{
		format:     Morse,
		confidence: 0.6,
		reasoning:  "Consists of dots, dashes and word separators",
		shape: func(s string) bool {
			return morseShape.MatchString(s) && morseMark.MatchString(s)
		},
	},
	{
		format:     Braille,
		confidence: 0.7,
		reasoning:  "Contains Braille pattern cells",
		shape: func(s string) bool {
			return strings.ContainsFunc(s, isBrailleCell)
		},
	},
	{
		format:     Punycode,
		confidence: 0.7,
		reasoning:  "Contains an xn-- Punycode label",
		shape:      punycodeLabel.MatchString,
	},
}

// Detector ranks the formats an input could have been encoded with. A
// Detector is immutable and safe for concurrent use.
type Detector struct {
	table         *Table
	matchers      []matcher
	minConfidence float64
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithMinConfidence drops candidates scoring below min.
func WithMinConfidence(min float64) DetectorOption {
	return func(d *Detector) {
		d.minConfidence = min
	}
}

// NewDetector creates a detector that decodes through table. A nil table
// selects Default().
func NewDetector(table *Table, opts ...DetectorOption) *Detector {
	if table == nil {
		table = Default()
	}
	d := &Detector{table: table, matchers: defaultMatchers}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Detect runs every matcher against text and returns the successful
// candidates sorted by descending confidence. Blank input yields no
// candidates.
func (d *Detector) Detect(text string) []Candidate {
	results := []Candidate{}
	if strings.TrimSpace(text) == "" {
		return results
	}

	for _, m := range d.matchers {
		if m.confidence < d.minConfidence || !m.shape(text) {
			continue
		}
		decoded, err := d.table.Decode(m.format, text)
		if err != nil {
			continue
		}
		if m.requirePlausible && !plausibleText(decoded) {
			continue
		}
		results = append(results, Candidate{
			Format:     m.format,
			Decoded:    decoded,
			Confidence: m.confidence,
			Reasoning:  m.reasoning,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// Best returns the highest-ranked candidate.
func (d *Detector) Best(text string) (Candidate, bool) {
	results := d.Detect(text)
	if len(results) == 0 {
		return Candidate{}, false
	}
	return results[0], true
}

// SupportedFormats lists the formats the detector can recognize, in
// evaluation order.
func (d *Detector) SupportedFormats() []Format {
	out := make([]Format, len(d.matchers))
	for i, m := range d.matchers {
		out[i] = m.format
	}
	return out
}

// Detect ranks candidate formats for text using the default table.
func Detect(text string) []Candidate {
	return NewDetector(Default()).Detect(text)
}
