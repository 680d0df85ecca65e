package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

const productName = "endcode"
const cliBanner = productName + " CLI (endcodectl)"

// cli carries the streams every subcommand reads from and writes to.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) == 0 {
		c.usage()
		return 2
	}

	switch args[0] {
	case "encode":
		return c.runConvert("encode", args[1:])
	case "decode":
		return c.runConvert("decode", args[1:])
	case "detect":
		return c.runDetect(args[1:])
	case "formats":
		return c.runFormats(args[1:])
	case "pipeline":
		return c.runPipeline(args[1:])
	case "config":
		return c.runConfig(args[1:])
	case "version", "--version", "-version":
		return c.runVersion(args[1:])
	case "help", "-h", "--help":
		c.usage()
		return 0
	default:
		fmt.Fprintf(c.stderr, "unknown command: %s\n", args[0])
		c.usage()
		return 2
	}
}

func (c *cli) usage() {
	fmt.Fprintln(c.stderr, cliBanner)
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Usage: endcodectl <command> [flags]")
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Commands:")
	fmt.Fprintln(c.stderr, "  encode    --format F [--text T]       encode text (stdin when --text is absent)")
	fmt.Fprintln(c.stderr, "  decode    --format F [--text T]       decode text")
	fmt.Fprintln(c.stderr, "  detect    [--json] [--all]            guess how text was encoded")
	fmt.Fprintln(c.stderr, "  formats   [--family F]                list supported formats")
	fmt.Fprintln(c.stderr, "  pipeline  --steps f:dir,... [--reverse]  chain codecs")
	fmt.Fprintln(c.stderr, "  config    print                       show the resolved configuration")
	fmt.Fprintln(c.stderr, "  version                               print the version")
}

func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parseFlags maps flag errors to exit codes: 0 for -h, 2 otherwise.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// readInput returns --text when given, the positional arguments joined by
// spaces when present, and stdin otherwise. A single trailing newline read
// from stdin is dropped.
func (c *cli) readInput(fs *flag.FlagSet, text string) (string, error) {
	textSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "text" {
			textSet = true
		}
	})
	if textSet {
		return text, nil
	}
	if fs.NArg() > 0 {
		return strings.Join(fs.Args(), " "), nil
	}
	if c.stdin == nil {
		return "", nil
	}
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}
