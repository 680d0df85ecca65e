package codec

import (
	"fmt"
	"regexp"
	"strings"
)

const brainfuckInstructions = "+-<>[].,"

// machine executes Brainfuck programs. Each run allocates its own tape.
type machine struct {
	stepLimit int
	tapeSize  int
}

// run executes program and returns the bytes written by '.'. Characters
// outside the instruction set are comments. ',' reads from an empty input
// stream and stores zero.
func (m machine) run(f Format, program string) ([]byte, error) {
	code := make([]byte, 0, len(program))
	depth := 0
	for i := 0; i < len(program); i++ {
		c := program[i]
		if strings.IndexByte(brainfuckInstructions, c) < 0 {
			continue
		}
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, malformed(f, "unmatched ']' at instruction %d", len(code))
			}
		}
		code = append(code, c)
	}
	if depth != 0 {
		return nil, malformed(f, "%d unmatched '['", depth)
	}

	tape := make([]byte, m.tapeSize)
	var (
		out   []byte
		loops []int
		ptr   int
		steps int
	)
	for ip := 0; ip < len(code); ip++ {
		steps++
		if steps > m.stepLimit {
			return nil, &Error{
				Kind:   KindExecutionLimitExceeded,
				Format: f,
				Reason: fmt.Sprintf("program did not halt within %d steps", m.stepLimit),
			}
		}
		switch code[ip] {
		case '+':
			tape[ptr]++
		case '-':
			tape[ptr]--
		case '>':
			if ptr == len(tape)-1 {
				return nil, malformed(f, "data pointer moved past cell %d", ptr)
			}
			ptr++
		case '<':
			if ptr == 0 {
				return nil, malformed(f, "data pointer moved below cell 0")
			}
			ptr--
		case '.':
			out = append(out, tape[ptr])
		case ',':
			tape[ptr] = 0
		case '[':
			if tape[ptr] != 0 {
				loops = append(loops, ip)
				continue
			}
			// Skip to the matching bracket.
			for d := 1; d > 0; {
				ip++
				switch code[ip] {
				case '[':
					d++
				case ']':
					d--
				}
			}
		case ']':
			if tape[ptr] != 0 {
				ip = loops[len(loops)-1]
				continue
			}
			loops = loops[:len(loops)-1]
		}
	}
	return out, nil
}

// brainfuckProgram emits '+' or '-' runs that walk one cell from code point
// to code point, printing each. Code points above 0xFF print their UTF-8
// bytes one by one.
func brainfuckProgram(text string) string {
	var sb strings.Builder
	cur := 0
	for _, b := range byteValues(text) {
		diff := int(b) - cur
		if diff > 0 {
			sb.WriteString(strings.Repeat("+", diff))
		} else if diff < 0 {
			sb.WriteString(strings.Repeat("-", -diff))
		}
		sb.WriteByte('.')
		cur = int(b)
	}
	return sb.String()
}

type brainfuckCodec struct {
	baseCodec
	machine machine
}

func (brainfuckCodec) Encode(text string) string {
	return brainfuckProgram(text)
}

func (c brainfuckCodec) Decode(text string) (string, error) {
	out, err := c.machine.run(c.format, text)
	if err != nil {
		return "", err
	}
	return textOf(out), nil
}

var ookPairs = map[byte]string{
	'+': "Ook. Ook.",
	'-': "Ook! Ook!",
	'>': "Ook. Ook?",
	'<': "Ook? Ook.",
	'.': "Ook! Ook.",
	',': "Ook. Ook!",
	'[': "Ook! Ook?",
	']': "Ook? Ook!",
}

var (
	ookInstructions = make(map[string]byte, len(ookPairs))
	ookWord         = regexp.MustCompile(`Ook[.?!]`)
)

func init() {
	for instr, pair := range ookPairs {
		ookInstructions[pair] = instr
	}
}

type ookCodec struct {
	baseCodec
	machine machine
}

func (ookCodec) Encode(text string) string {
	program := brainfuckProgram(text)
	words := make([]string, 0, len(program))
	for i := 0; i < len(program); i++ {
		words = append(words, ookPairs[program[i]])
	}
	return strings.Join(words, " ")
}

func (c ookCodec) Decode(text string) (string, error) {
	program, err := ookToBrainfuck(c.format, text)
	if err != nil {
		return "", err
	}
	out, err := c.machine.run(c.format, program)
	if err != nil {
		return "", err
	}
	return textOf(out), nil
}

func ookToBrainfuck(f Format, text string) (string, error) {
	words := ookWord.FindAllString(text, -1)
	if len(words)%2 != 0 {
		return "", malformed(f, "odd number of Ook words (%d)", len(words))
	}
	program := make([]byte, 0, len(words)/2)
	for i := 0; i < len(words); i += 2 {
		pair := words[i] + " " + words[i+1]
		instr, ok := ookInstructions[pair]
		if !ok {
			return "", malformed(f, "%q is not an Ook! instruction", pair)
		}
		program = append(program, instr)
	}
	return string(program), nil
}
