package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RowanDark/endcode/internal/codec"
	"github.com/RowanDark/endcode/internal/config"
)

func (c *cli) runConvert(name string, args []string) int {
	fs := c.newFlagSet(name)
	format := fs.String("format", "", "format name (see `endcodectl formats`)")
	fs.StringVar(format, "f", "", "shorthand for --format")
	text := fs.String("text", "", "input text (defaults to stdin)")
	configPath := fs.String("config", "", "explicit config file (.toml, .yml or .yaml)")
	addr := fs.String("addr", "", "send the request to an endcoded gRPC address instead of running locally")
	timeout := fs.Duration("timeout", 10*time.Second, "deadline for remote requests")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if strings.TrimSpace(*format) == "" {
		fmt.Fprintf(c.stderr, "%s: --format is required\n", name)
		return 2
	}
	f, err := codec.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s: %v\n", name, err)
		return 2
	}
	input, err := c.readInput(fs, *text)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s: %v\n", name, err)
		return 1
	}
	dir, err := codec.ParseDirection(name)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 2
	}

	var output string
	if remote := strings.TrimSpace(*addr); remote != "" {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		output, err = remoteConvert(ctx, remote, dir, f, input)
		if err != nil {
			fmt.Fprintf(c.stderr, "%s failed: %v\n", name, err)
			return remoteExitCode(err)
		}
	} else {
		table, err := loadTable(*configPath)
		if err != nil {
			fmt.Fprintf(c.stderr, "load config: %v\n", err)
			return 1
		}
		if dir == codec.DirectionDecode {
			output, err = table.Decode(f, input)
		} else {
			output, err = table.Encode(f, input)
		}
		if err != nil {
			fmt.Fprintf(c.stderr, "%s failed: %v\n", name, err)
			return 1
		}
	}
	fmt.Fprintln(c.stdout, output)
	return 0
}

func loadConfig(path string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if strings.TrimSpace(path) != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadTable builds a codec table bounded by the configured limits.
func loadTable(path string) (*codec.Table, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return codec.New(cfg.Codec.TableOptions()...), nil
}
