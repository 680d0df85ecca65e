package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/RowanDark/endcode/internal/codec"
)

func (c *cli) runFormats(args []string) int {
	fs := c.newFlagSet("formats")
	family := fs.String("family", "", "only list formats of this family")
	asJSON := fs.Bool("json", false, "print formats as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(c.stderr, "formats takes no arguments")
		return 2
	}

	formats := codec.Formats()
	if name := strings.ToLower(strings.TrimSpace(*family)); name != "" {
		formats = codec.FormatsByFamily(codec.Family(name))
		if len(formats) == 0 {
			families := make([]string, 0, len(codec.Families()))
			for _, f := range codec.Families() {
				families = append(families, string(f))
			}
			fmt.Fprintf(c.stderr, "unknown family %q: want one of %s\n", *family, strings.Join(families, ", "))
			return 2
		}
	}

	infos := make([]codec.Info, 0, len(formats))
	for _, f := range formats {
		infos = append(infos, codec.Describe(f))
	}
	if *asJSON {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			fmt.Fprintf(c.stderr, "formats: encode json: %v\n", err)
			return 1
		}
		return 0
	}

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tINVERTIBLE\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", info.Name, info.Family, info.Invertible, info.Description)
	}
	_ = w.Flush()
	return 0
}
