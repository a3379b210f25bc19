package main

import (
	"context"
	"math"
	"strconv"

	"github.com/xwb1989/sqlparser"
)

// QueryPlan describes how a single-table, single-equality SELECT is
// resolved: a direct row-id lookup, an index-backed lookup followed by a
// row-id re-fetch, or a full scan with a row-by-row filter.
type QueryPlan struct {
	TableName string
	Columns   []string // empty means every column, in schema order

	useRowID bool
	rowID    uint64

	useIndex  bool
	indexName string
	probe     *Record

	filterCol string
	filterVal string
	hasFilter bool
}

// planSelect extracts a QueryPlan from a parsed SELECT statement. It only
// recognizes a single table source and a WHERE clause that is one top-level
// "column = literal" equality. Such an equality that can use neither the
// row-id nor an index is applied as a post-filter over a full scan; a WHERE
// clause of any other shape is not applied, and the plan is an unfiltered
// full scan.
func planSelect(schema *Schema, sel *sqlparser.Select) (*QueryPlan, error) {
	tableName, err := selectTableName(sel)
	if err != nil {
		return nil, err
	}
	table, err := schema.Table(tableName)
	if err != nil {
		return nil, err
	}

	plan := &QueryPlan{TableName: tableName, Columns: selectColumnNames(sel)}

	for _, name := range plan.Columns {
		if _, ok := table.columnIndex(name); !ok {
			return nil, columnDoesNotExist(tableName, name)
		}
	}

	if sel.Where == nil {
		return plan, nil
	}

	colName, literal, ok := equalityClause(sel.Where.Expr)
	if !ok {
		return plan, nil
	}
	colIdx, ok := table.columnIndex(colName)
	if !ok {
		return nil, columnDoesNotExist(tableName, colName)
	}

	plan.hasFilter = true
	plan.filterCol = colName
	plan.filterVal = literal.text

	if colIdx == table.pkColumn {
		rowID, err := strconv.ParseUint(literal.text, 10, 64)
		if err == nil {
			plan.useRowID = true
			plan.rowID = rowID
			return plan, nil
		}
	}

	if ix, ok := schema.IndexOn(tableName, colName); ok {
		field, err := literalToField(literal)
		if err == nil {
			plan.useIndex = true
			plan.indexName = ix.Name()
			plan.probe = &Record{fields: []Field{field}}
			return plan, nil
		}
	}

	return plan, nil
}

// Execute runs the plan and returns the projected rows.
func (p *QueryPlan) Execute(ctx context.Context, schema *Schema) ([]map[string]CellValue, error) {
	table, err := schema.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	switch {
	case p.useRowID:
		row, err := table.Get(ctx, p.rowID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		return []map[string]CellValue{projectRow(row, p.Columns)}, nil

	case p.useIndex:
		ix, ok := schema.Index(p.indexName)
		if !ok {
			return nil, tableDoesNotExist(p.indexName)
		}
		matches, err := ix.Scan(ctx, p.probe)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]CellValue, 0, len(matches))
		for _, rec := range matches {
			rowID, err := RowID(rec)
			if err != nil {
				return nil, err
			}
			row, err := table.Get(ctx, rowID)
			if err != nil {
				return nil, err
			}
			if row != nil {
				rows = append(rows, projectRow(row, p.Columns))
			}
		}
		return rows, nil

	default:
		all, err := table.scanAll(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]CellValue, 0, len(all))
		for _, row := range all {
			if p.hasFilter && row[p.filterCol].String() != p.filterVal {
				continue
			}
			rows = append(rows, projectRow(row, p.Columns))
		}
		return rows, nil
	}
}

func projectRow(row map[string]CellValue, columns []string) map[string]CellValue {
	if len(columns) == 0 {
		return row
	}
	out := make(map[string]CellValue, len(columns))
	for _, c := range columns {
		out[c] = row[c]
	}
	return out
}

func selectTableName(sel *sqlparser.Select) (string, error) {
	if len(sel.From) == 0 {
		return "", newDatabaseError(KindText, "plan_select", "no table in FROM clause", nil, nil)
	}
	aliased, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", newDatabaseError(KindText, "plan_select", "unsupported FROM clause", nil, nil)
	}
	name, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", newDatabaseError(KindText, "plan_select", "unsupported FROM clause", nil, nil)
	}
	return name.Name.String(), nil
}

func selectColumnNames(sel *sqlparser.Select) []string {
	var names []string
	for _, expr := range sel.SelectExprs {
		switch e := expr.(type) {
		case *sqlparser.StarExpr:
			return nil
		case *sqlparser.AliasedExpr:
			if col, ok := e.Expr.(*sqlparser.ColName); ok {
				names = append(names, col.Name.String())
			}
		}
	}
	return names
}

type sqlLiteral struct {
	text string
}

// equalityClause recognizes a single top-level "column = literal" WHERE
// expression, unwrapping surrounding parens.
func equalityClause(expr sqlparser.Expr) (string, sqlLiteral, bool) {
	if p, ok := expr.(*sqlparser.ParenExpr); ok {
		return equalityClause(p.Expr)
	}
	cmp, ok := expr.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != "=" {
		return "", sqlLiteral{}, false
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return "", sqlLiteral{}, false
	}
	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok {
		return "", sqlLiteral{}, false
	}
	return col.Name.String(), sqlLiteral{text: string(val.Val)}, true
}

// literalToField encodes a WHERE-clause literal the same way the on-disk
// record format would, so it can be compared field-by-field against stored
// index keys via Prefix.
func literalToField(lit sqlLiteral) (Field, error) {
	if n, err := strconv.ParseInt(lit.text, 10, 64); err == nil {
		return encodeIntegerField(n), nil
	}
	if f, err := strconv.ParseFloat(lit.text, 64); err == nil {
		buf := make([]byte, 8)
		bits := math.Float64bits(f)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (56 - 8*i))
		}
		return Field{serialType: 7, data: buf}, nil
	}
	data := []byte(lit.text)
	return Field{serialType: uint64(13 + 2*len(data)), data: data}, nil
}

func encodeIntegerField(v int64) Field {
	widths := []struct {
		serialType uint64
		size       int
		min, max   int64
	}{
		{1, 1, -1 << 7, 1<<7 - 1},
		{2, 2, -1 << 15, 1<<15 - 1},
		{3, 3, -1 << 23, 1<<23 - 1},
		{4, 4, -1 << 31, 1<<31 - 1},
		{5, 6, -1 << 47, 1<<47 - 1},
	}
	for _, w := range widths {
		if v >= w.min && v <= w.max {
			return Field{serialType: w.serialType, data: bigEndianBytes(v, w.size)}
		}
	}
	return Field{serialType: 6, data: bigEndianBytes(v, 8)}
}

func bigEndianBytes(v int64, size int) []byte {
	buf := make([]byte, size)
	uv := uint64(v)
	for i := size - 1; i >= 0; i-- {
		buf[i] = byte(uv)
		uv >>= 8
	}
	return buf
}
