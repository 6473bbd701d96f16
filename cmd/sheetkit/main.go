package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/reoring/sheetkit/schema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "sheetkit CLI\n\nUsage:\n  sheetkit check schema.yaml\n\nNotes:\n  - check parses a YAML schema file and reports structural defects.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	fields, err := schema.ParseYAML(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := fields[name]
		line := fmt.Sprintf("%s: %s", name, f.Kind)
		if f.Kind == schema.KindArray {
			line = fmt.Sprintf("%s of %s", line, f.Item)
		}
		if f.Key != "" {
			line += fmt.Sprintf(" (column %q)", f.Key)
		}
		if f.Primary {
			line += " [primary]"
		}
		fmt.Println(line)
	}
	if _, _, err := fields.PrimaryKey(); err != nil {
		fmt.Fprintf(os.Stderr, "note: %v\n", err)
	}
	fmt.Printf("%s: %d fields, ok\n", path, len(fields))
}
