package main

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Usage: sqlitereader <database file>
//
// Opens the database, bootstraps the schema from sqlite_master, and drops
// into the interactive command loop described in SPEC_FULL.md §4.12. A
// failure to open or parse the file is fatal (§7: "the open-file path does
// not recover"); per-query failures inside the REPL are not.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sqlitereader <database file>")
		os.Exit(1)
	}

	pager, err := OpenPager(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer pager.Close()

	ctx := context.Background()
	schema, err := LoadSchema(ctx, pager)
	if err != nil {
		log.Fatal(err)
	}

	repl := NewREPL(schema, os.Stdout)
	repl.Run(ctx, os.Stdin)
}
