package main

import (
	"fmt"
)

var version = "dev"

func versionString() string {
	return fmt.Sprintf("%s %s", productName, version)
}

func (c *cli) runVersion(args []string) int {
	fs := c.newFlagSet("version")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(c.stderr, "version takes no arguments")
		return 2
	}
	fmt.Fprintln(c.stdout, versionString())
	return 0
}
