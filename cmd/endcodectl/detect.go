package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/RowanDark/endcode/internal/codec"
)

func (c *cli) runDetect(args []string) int {
	fs := c.newFlagSet("detect")
	asJSON := fs.Bool("json", false, "print candidates as JSON")
	all := fs.Bool("all", false, "print every candidate instead of the best one")
	minConfidence := fs.Float64("min-confidence", -1, "drop candidates below this confidence (defaults to the configured value)")
	text := fs.String("text", "", "input text (defaults to stdin)")
	configPath := fs.String("config", "", "explicit config file (.toml, .yml or .yaml)")
	addr := fs.String("addr", "", "send the request to an endcoded gRPC address instead of running locally")
	timeout := fs.Duration("timeout", 10*time.Second, "deadline for remote requests")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if *minConfidence > 1 {
		fmt.Fprintln(c.stderr, "detect: --min-confidence must be at most 1")
		return 2
	}

	input, err := c.readInput(fs, *text)
	if err != nil {
		fmt.Fprintf(c.stderr, "detect: %v\n", err)
		return 1
	}

	var candidates []codec.Candidate
	if remote := strings.TrimSpace(*addr); remote != "" {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		candidates, err = remoteDetect(ctx, remote, input)
		if err != nil {
			fmt.Fprintf(c.stderr, "detect failed: %v\n", err)
			return remoteExitCode(err)
		}
		if *minConfidence > 0 {
			candidates = filterConfidence(candidates, *minConfidence)
		}
	} else {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(c.stderr, "load config: %v\n", err)
			return 1
		}
		threshold := cfg.Codec.MinConfidence
		if *minConfidence >= 0 {
			threshold = *minConfidence
		}
		table := codec.New(cfg.Codec.TableOptions()...)
		candidates = codec.NewDetector(table, codec.WithMinConfidence(threshold)).Detect(input)
	}

	if !*all && len(candidates) > 1 {
		candidates = candidates[:1]
	}
	if *asJSON {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(candidates); err != nil {
			fmt.Fprintf(c.stderr, "detect: encode json: %v\n", err)
			return 1
		}
	} else {
		w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
		for _, cand := range candidates {
			fmt.Fprintf(w, "%s\t%.2f\t%s\n", cand.Format, cand.Confidence, cand.Decoded)
		}
		_ = w.Flush()
	}
	if len(candidates) == 0 {
		fmt.Fprintln(c.stderr, "detect: no candidate formats matched")
		return 1
	}
	return 0
}

func filterConfidence(candidates []codec.Candidate, min float64) []codec.Candidate {
	out := candidates[:0]
	for _, cand := range candidates {
		if cand.Confidence >= min {
			out = append(out, cand)
		}
	}
	return out
}
