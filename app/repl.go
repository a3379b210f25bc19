package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// REPL is the interactive command loop described in SPEC_FULL.md §4.12: it
// reads one line at a time, recognizes .quit and .count <table>, and hands
// anything else to the SQL parser and query planner.
type REPL struct {
	schema    *Schema
	formatter OutputFormatter
	out       io.Writer
}

// NewREPL builds a REPL over an already-loaded schema.
func NewREPL(schema *Schema, out io.Writer) *REPL {
	return &REPL{schema: schema, formatter: NewConsoleFormatter(out), out: out}
}

// Run reads lines from in until EOF or .quit, printing results and errors to
// the REPL's writer. It never returns an error itself: per-query failures are
// printed and the loop continues, matching §7's "CLI recovers locally".
func (r *REPL) Run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ".quit" {
			return
		}
		if !r.dispatch(ctx, line) {
			return
		}
	}
}

// dispatch executes a single line and returns false if the REPL should stop.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	if rest, ok := strings.CutPrefix(line, ".count "); ok {
		r.handleCount(ctx, strings.TrimSpace(rest))
		return true
	}
	if line == ".count" {
		fmt.Fprintln(r.out, "unsupported")
		return true
	}

	stmt, err := sqlparser.Parse(line)
	if err != nil {
		fmt.Fprintln(r.out, "unsupported")
		return true
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		fmt.Fprintln(r.out, "unsupported")
		return true
	}

	r.handleSelect(ctx, sel)
	return true
}

func (r *REPL) handleCount(ctx context.Context, tableName string) {
	table, err := r.schema.Table(tableName)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	n, err := table.Len(ctx)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	fmt.Fprintln(r.out, r.formatter.FormatCount(n))
}

func (r *REPL) handleSelect(ctx context.Context, sel *sqlparser.Select) {
	plan, err := planSelect(r.schema, sel)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	table, err := r.schema.Table(plan.TableName)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	columns := plan.Columns
	if len(columns) == 0 {
		columns = make([]string, len(table.Columns()))
		for i, c := range table.Columns() {
			columns[i] = c.Name
		}
	}

	rows, err := plan.Execute(ctx, r.schema)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	fmt.Fprintln(r.out, r.formatter.FormatHeader(columns))
	for _, row := range rows {
		fmt.Fprintln(r.out, r.formatter.FormatRow(columns, row))
	}
}
