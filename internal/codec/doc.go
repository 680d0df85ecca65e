// Package codec converts text between textual and binary representations
// and guesses the representation of unlabeled input.
//
// # Overview
//
// Every supported representation is a Format. Formats form a closed set; a
// Table maps each one to a Codec holding a pure encoder and decoder:
//   - Encoding never fails. Out-of-domain input gives a lossy result.
//   - Decoding fails with a *Error when the text violates the format's
//     grammar.
//   - A Detector runs shape checks against unlabeled text, decodes the
//     matches and ranks them by a fixed per-format confidence.
//
// # Quick Start
//
//	out, _ := codec.Encode(codec.Base64, "Hello World")
//	// out: "SGVsbG8gV29ybGQ="
//
//	f, err := codec.ParseFormat("rot13")
//	if err != nil {
//	    // errors.Is(err, codec.ErrUnknownFormat)
//	}
//	plain, err := codec.Decode(f, "Uryyb")
//	// plain: "Hello"
//
// # Auto-Detection
//
//	detector := codec.NewDetector(nil)
//	for _, c := range detector.Detect("SGVsbG8gV29ybGQ=") {
//	    fmt.Printf("%s (%.0f%%): %q\n", c.Format, c.Confidence*100, c.Decoded)
//	}
//
// Confidences are fixed weights, not probabilities: Base64 0.9, Base64URL
// 0.85, hex, binary and Unicode escapes 0.8, Base32 0.75, URL, HTML, ASCII
// codes, Braille and Punycode 0.7, Brainfuck, Ook! and Morse 0.6, and ROT13
// 0.3 whenever letters are present. Ties keep evaluation order.
//
// # Pipelines
//
//	steps, _ := codec.ParseSteps("base64:encode,hex:encode")
//	p := &codec.Pipeline{Steps: steps}
//	encoded, _ := p.Run(nil, "test")
//
//	back, _ := p.Reverse()
//	decoded, _ := back.Run(nil, encoded)
//
// # Text and Bytes
//
// Byte-oriented formats (Base64/32/58/85, hex, binary, quoted-printable,
// Brainfuck, Ook!) encode the UTF-8 bytes of the text. Decoded bytes that
// are valid UTF-8 are returned as is; other byte sequences are read as
// Latin-1, one code point per byte.
//
// # Lossy Formats
//
// Case styles, leetspeak, Pig Latin, Unicode normalization forms, ASCII
// codes, dates and hex colors have decoders that are not inverses. Describe
// reports this through Info.Invertible.
//
// # Brainfuck Limits
//
// Brainfuck and Ook! decoding runs the program on a 30000-cell tape. A
// program that exceeds the table's step limit fails with
// ErrExecutionLimitExceeded instead of running forever.
//
// # Thread Safety
//
// Tables and Detectors are immutable. Codecs are stateless and safe for
// concurrent use.
package codec
