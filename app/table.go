package main

import "context"

// ColumnDef is one column of a table or index's parsed schema: a name, a
// type restricted to integer/text for this reader's scope, and whether it
// is (part of) the primary key.
type ColumnDef struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// Table is the façade over a table B-tree: root page, name, and a parsed
// column schema. pkColumn is the index of a single INTEGER PRIMARY KEY
// column, or -1 when the table has no such elided column.
type Table struct {
	pager    *Pager
	name     string
	rootPage int
	columns  []ColumnDef
	pkColumn int
}

func newTableFromSchema(pager *Pager, sr schemaRow) (*Table, error) {
	columns, err := parseCreateTable(sr.sql)
	if err != nil {
		return nil, newDatabaseError(KindText, "parse table schema", err.Error(), err, map[string]interface{}{"table": sr.name})
	}

	pk := -1
	pkCount := 0
	for i, c := range columns {
		if c.PrimaryKey {
			pkCount++
			pk = i
		}
	}
	if pkCount != 1 || columns[pk].Type != "integer" {
		pk = -1
	}

	return &Table{
		pager:    pager,
		name:     sr.name,
		rootPage: sr.rootPage,
		columns:  columns,
		pkColumn: pk,
	}, nil
}

func (t *Table) Name() string          { return t.name }
func (t *Table) Columns() []ColumnDef  { return t.columns }
func (t *Table) RootPage() int         { return t.rootPage }

func (t *Table) columnIndex(name string) (int, bool) {
	for i, c := range t.columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) newCursor(ctx context.Context, pred Predicate[uint64]) *Cursor[uint64, *tableInteriorCell, *tableLeafCell] {
	return newCursor[uint64, *tableInteriorCell, *tableLeafCell](ctx, t.pager, t.rootPage, decodeTableInteriorCell, decodeTableLeafCell, pred)
}

// rowFromCell builds the full column->value map for one leaf cell,
// substituting the row-id for an elided INTEGER PRIMARY KEY column. SQLite
// omits that column's slot from the stored record entirely rather than
// writing a NULL placeholder, so every column after it is shifted down by
// one position in the record relative to the schema's column list; recIdx
// tracks that shift instead of reusing the schema index directly.
func (t *Table) rowFromCell(cell *tableLeafCell) map[string]CellValue {
	row := make(map[string]CellValue, len(t.columns))
	recIdx := 0
	for i, col := range t.columns {
		if i == t.pkColumn {
			row[col.Name] = rowIDValue(cell.rowID)
			continue
		}
		if recIdx < cell.record.Len() {
			row[col.Name] = fieldValue(cell.record.Field(recIdx))
		} else {
			row[col.Name] = fieldValue(Field{})
		}
		recIdx++
	}
	return row
}

// scanAll materializes every row of the table, in row-id order.
func (t *Table) scanAll(ctx context.Context) ([]map[string]CellValue, error) {
	cur := t.newCursor(ctx, All[uint64]{})
	var rows []map[string]CellValue
	for {
		cell, ok, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rows = append(rows, t.rowFromCell(cell))
	}
	return rows, nil
}

// Len counts the table's rows via a full scan.
func (t *Table) Len(ctx context.Context) (int, error) {
	cur := t.newCursor(ctx, All[uint64]{})
	n := 0
	for {
		_, ok, err := cur.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}

// Select projects the named columns from every row, in row-id order.
func (t *Table) Select(ctx context.Context, columns []string) ([]map[string]CellValue, error) {
	for _, name := range columns {
		if _, ok := t.columnIndex(name); !ok {
			return nil, columnDoesNotExist(t.name, name)
		}
	}
	rows, err := t.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return rows, nil
	}
	projected := make([]map[string]CellValue, len(rows))
	for i, row := range rows {
		p := make(map[string]CellValue, len(columns))
		for _, name := range columns {
			p[name] = row[name]
		}
		projected[i] = p
	}
	return projected, nil
}

// Get performs a keyed row-id lookup using a One range over the table
// B-tree, returning nil with no error if no row has that row-id.
func (t *Table) Get(ctx context.Context, rowID uint64) (map[string]CellValue, error) {
	cur := t.newCursor(ctx, NewOne(rowID, CompareUint64))
	cell, ok, err := cur.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return t.rowFromCell(cell), nil
}
