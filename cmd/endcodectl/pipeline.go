package main

import (
	"fmt"
	"strings"

	"github.com/RowanDark/endcode/internal/codec"
)

func (c *cli) runPipeline(args []string) int {
	fs := c.newFlagSet("pipeline")
	steps := fs.String("steps", "", "comma-separated format:direction steps, e.g. base64:encode,hex:encode")
	reverse := fs.Bool("reverse", false, "run the inverse pipeline")
	text := fs.String("text", "", "input text (defaults to stdin)")
	configPath := fs.String("config", "", "explicit config file (.toml, .yml or .yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if strings.TrimSpace(*steps) == "" {
		fmt.Fprintln(c.stderr, "pipeline: --steps is required")
		return 2
	}

	parsed, err := codec.ParseSteps(*steps)
	if err != nil {
		fmt.Fprintf(c.stderr, "pipeline: %v\n", err)
		return 2
	}
	pipeline := &codec.Pipeline{Steps: parsed}
	if *reverse {
		if pipeline, err = pipeline.Reverse(); err != nil {
			fmt.Fprintf(c.stderr, "pipeline: %v\n", err)
			return 2
		}
	}

	input, err := c.readInput(fs, *text)
	if err != nil {
		fmt.Fprintf(c.stderr, "pipeline: %v\n", err)
		return 1
	}
	table, err := loadTable(*configPath)
	if err != nil {
		fmt.Fprintf(c.stderr, "load config: %v\n", err)
		return 1
	}
	output, err := pipeline.Run(table, input)
	if err != nil {
		fmt.Fprintf(c.stderr, "pipeline failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.stdout, output)
	return 0
}
