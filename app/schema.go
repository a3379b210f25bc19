package main

import "context"

const sqliteMasterRootPage = 1

// sqliteMasterColumns is sqlite_master's hard-coded, fixed schema.
var sqliteMasterColumns = []ColumnDef{
	{Name: "type", Type: "text"},
	{Name: "name", Type: "text"},
	{Name: "tbl_name", Type: "text"},
	{Name: "rootpage", Type: "integer"},
	{Name: "sql", Type: "text"},
}

// schemaRow is one decoded row of sqlite_master.
type schemaRow struct {
	typ      string
	name     string
	tblName  string
	rootPage int
	sql      string
}

// Schema resolves table and index names to façades, bootstrapped off the
// sqlite_master table at root page 1.
type Schema struct {
	pager   *Pager
	tables  map[string]*Table
	indices map[string]*Index
	order   []string // table names in sqlite_master order, for Tables()
}

// LoadSchema reads every row of sqlite_master and builds the Table and
// Index façades it describes.
func LoadSchema(ctx context.Context, pager *Pager) (*Schema, error) {
	master := &Table{
		pager:    pager,
		name:     "sqlite_master",
		rootPage: sqliteMasterRootPage,
		columns:  sqliteMasterColumns,
		pkColumn: -1,
	}

	rows, err := master.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	s := &Schema{pager: pager, tables: map[string]*Table{}, indices: map[string]*Index{}}

	var indexRows []schemaRow
	for _, row := range rows {
		sr, err := decodeSchemaRow(row)
		if err != nil {
			return nil, err
		}
		switch sr.typ {
		case "table":
			t, err := newTableFromSchema(pager, sr)
			if err != nil {
				return nil, err
			}
			s.tables[sr.name] = t
			s.order = append(s.order, sr.name)
		case "index":
			indexRows = append(indexRows, sr)
		}
	}

	for _, sr := range indexRows {
		ix, err := newIndexFromSchema(pager, sr)
		if err != nil {
			return nil, err
		}
		s.indices[sr.name] = ix
	}

	return s, nil
}

func decodeSchemaRow(row map[string]CellValue) (schemaRow, error) {
	typ, err := row["type"].AsText()
	if err != nil {
		return schemaRow{}, err
	}
	name, err := row["name"].AsText()
	if err != nil {
		return schemaRow{}, err
	}
	tblName, err := row["tbl_name"].AsText()
	if err != nil {
		return schemaRow{}, err
	}
	rootPage, err := row["rootpage"].AsInteger()
	if err != nil {
		return schemaRow{}, err
	}
	sql := ""
	if !row["sql"].IsNull() {
		sql, err = row["sql"].AsText()
		if err != nil {
			return schemaRow{}, err
		}
	}
	return schemaRow{typ: typ, name: name, tblName: tblName, rootPage: int(rootPage), sql: sql}, nil
}

// Table returns the named table, or TableDoesNotExist.
func (s *Schema) Table(name string) (*Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, tableDoesNotExist(name)
	}
	return t, nil
}

// Tables returns every table in sqlite_master order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tables[name])
	}
	return out
}

// Index returns the named index, if any.
func (s *Schema) Index(name string) (*Index, bool) {
	ix, ok := s.indices[name]
	return ix, ok
}

// IndexOn returns an index covering column as its leading indexed column,
// for the named table, if one exists. Used by the query planner.
func (s *Schema) IndexOn(tableName, column string) (*Index, bool) {
	for _, ix := range s.indices {
		if ix.tableName == tableName && len(ix.columns) > 0 && ix.columns[0] == column {
			return ix, true
		}
	}
	return nil, false
}
