package main

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func (c *cli) runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(c.stderr, "config subcommand required")
		return 2
	}

	switch args[0] {
	case "print":
		return c.runConfigPrint(args[1:])
	default:
		fmt.Fprintf(c.stderr, "unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func (c *cli) runConfigPrint(args []string) int {
	fs := c.newFlagSet("config print")
	configPath := fs.String("config", "", "explicit config file (.toml, .yml or .yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(c.stderr, "load config: %v\n", err)
		return 1
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(c.stderr, "render config: %v\n", err)
		return 1
	}
	_, _ = c.stdout.Write(out)
	return 0
}
