package main

import (
	"context"
	"fmt"
)

// Index is the façade over an index B-tree: root page, name, owning table
// name, and the ordered list of indexed column names.
type Index struct {
	pager     *Pager
	name      string
	tableName string
	rootPage  int
	columns   []string
}

func newIndexFromSchema(pager *Pager, sr schemaRow) (*Index, error) {
	columns, err := parseIndexColumns(sr.sql)
	if err != nil {
		return nil, newDatabaseError(KindText, "parse index schema", err.Error(), err, map[string]interface{}{"index": sr.name})
	}

	// sqlite_master.tbl_name is the authoritative owning-table name, but
	// cross-check it against the CREATE INDEX statement's own ON clause: a
	// mismatch means this row doesn't describe the index its sql column
	// claims to, which the schema resolver should refuse rather than wire up
	// against the wrong table's B-tree layout.
	onTable, err := parseIndexTableName(sr.sql)
	if err != nil {
		return nil, newDatabaseError(KindText, "parse index schema", err.Error(), err, map[string]interface{}{"index": sr.name})
	}
	if onTable != sr.tblName {
		return nil, newDatabaseError(KindText, "parse index schema", fmt.Sprintf("ON clause names table %q, sqlite_master.tbl_name says %q", onTable, sr.tblName), nil, map[string]interface{}{"index": sr.name})
	}

	return &Index{
		pager:     pager,
		name:      sr.name,
		tableName: sr.tblName,
		rootPage:  sr.rootPage,
		columns:   columns,
	}, nil
}

func (ix *Index) Name() string        { return ix.name }
func (ix *Index) TableName() string   { return ix.tableName }
func (ix *Index) Columns() []string   { return ix.columns }

func (ix *Index) newCursor(ctx context.Context, pred Predicate[*Record]) *Cursor[*Record, *indexInteriorCell, *indexLeafCell] {
	return newCursor[*Record, *indexInteriorCell, *indexLeafCell](ctx, ix.pager, ix.rootPage, decodeIndexInteriorCell, decodeIndexLeafCell, pred)
}

// Dump yields every record in the index, in index order.
func (ix *Index) Dump(ctx context.Context) ([]*Record, error) {
	cur := ix.newCursor(ctx, All[*Record]{})
	var out []*Record
	for {
		cell, ok, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, cell.Key())
	}
}

// Scan returns the contiguous run of records matching the given prefix
// record (which may name fewer fields than the index's full key).
func (ix *Index) Scan(ctx context.Context, prefix *Record) ([]*Record, error) {
	cur := ix.newCursor(ctx, NewPrefix(prefix))
	var out []*Record
	for {
		cell, ok, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, cell.Key())
	}
}

// RowID extracts the row-id SQLite appends as the final field of every
// index leaf record, which the query planner uses to re-fetch full rows
// from the owning table after an index-backed lookup.
func RowID(rec *Record) (uint64, error) {
	if rec.Len() == 0 {
		return 0, newDatabaseError(KindText, "index record row-id", "index record has no fields", nil, nil)
	}
	v, err := rec.Field(rec.Len() - 1).AsInteger()
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}
