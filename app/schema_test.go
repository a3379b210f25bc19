package main

import (
	"context"
	"testing"
)

// intField mirrors textField (cell_test.go) for integer payloads, reusing
// encodeIntegerField's width selection so fixtures match what the real
// on-disk format would store.
func intField(v int64) [2]interface{} {
	f := encodeIntegerField(v)
	return [2]interface{}{f.serialType, f.data}
}

// buildSchemaFixture builds a small database matching SPEC_FULL.md §8's end-to-end
// scenario 1 plus scenario 4: table t(a INTEGER PRIMARY KEY, b TEXT) with
// rows (1,"x"),(2,"y"),(3,"z") at root page 2, and index ix on t(b) at root
// page 3 whose leaf records carry (b, rowid) pairs in key order.
func buildSchemaFixture(t *testing.T) *Pager {
	t.Helper()
	const pageSize = 512

	tableRows := []struct {
		rowID uint64
		text  string
	}{{1, "x"}, {2, "y"}, {3, "z"}}
	tableLeaf := buildTableLeafPage(pageSize, tableRows)

	indexCells := make([][]byte, len(tableRows))
	for i, r := range tableRows {
		rec := buildRecord([][2]interface{}{textField(r.text), intField(int64(r.rowID))})
		indexCells[i] = buildIndexLeafCellBytes(rec)
	}
	indexLeaf := buildPage(pageSize, 0, pageTypeLeafIndex, indexCells, 0)

	tableMasterRecord := buildRecord([][2]interface{}{
		textField("table"),
		textField("t"),
		textField("t"),
		intField(2),
		textField("CREATE TABLE t(a INTEGER PRIMARY KEY, b TEXT)"),
	})
	indexMasterRecord := buildRecord([][2]interface{}{
		textField("index"),
		textField("ix"),
		textField("t"),
		intField(3),
		textField("CREATE INDEX ix ON t(b)"),
	})
	masterCells := [][]byte{
		buildTableLeafCellBytes(1, tableMasterRecord),
		buildTableLeafCellBytes(2, indexMasterRecord),
	}
	master := buildPage(pageSize, headerSize, pageTypeLeafTable, masterCells, 0)

	return writeTempDB(t, pageSize, map[int][]byte{
		1: master,
		2: tableLeaf,
		3: indexLeaf,
	})
}

func TestLoadSchemaResolvesTableAndIndex(t *testing.T) {
	pager := buildSchemaFixture(t)
	schema, err := LoadSchema(context.Background(), pager)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}

	table, err := schema.Table("t")
	if err != nil {
		t.Fatalf("Table(t) error = %v", err)
	}
	if table.RootPage() != 2 {
		t.Errorf("RootPage() = %d, want 2", table.RootPage())
	}

	ix, ok := schema.Index("ix")
	if !ok {
		t.Fatal("Index(ix) not found")
	}
	if ix.TableName() != "t" {
		t.Errorf("TableName() = %q, want t", ix.TableName())
	}
}

func TestSchemaTableDoesNotExist(t *testing.T) {
	pager := buildSchemaFixture(t)
	schema, err := LoadSchema(context.Background(), pager)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	_, err = schema.Table("nope")
	if !isKind(err, KindTableDoesNotExist) {
		t.Fatalf("Table(nope) error = %v, want TableDoesNotExist", err)
	}
}

// TestSchemaPrimaryKeyRowIDSubstitution is SPEC_FULL.md §8 end-to-end
// scenario 1: selecting the elided INTEGER PRIMARY KEY column materializes
// the row-id, not a null.
func TestSchemaPrimaryKeyRowIDSubstitution(t *testing.T) {
	pager := buildSchemaFixture(t)
	schema, err := LoadSchema(context.Background(), pager)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	table, err := schema.Table("t")
	if err != nil {
		t.Fatalf("Table(t) error = %v", err)
	}

	rows, err := table.Select(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Select() returned %d rows, want 3", len(rows))
	}
	want := []struct {
		a int64
		b string
	}{{1, "x"}, {2, "y"}, {3, "z"}}
	for i, w := range want {
		if rows[i]["a"].IsNull() {
			t.Errorf("row %d: a is null, want row-id %d", i, w.a)
		}
		a, err := rows[i]["a"].AsInteger()
		if err != nil || a != w.a {
			t.Errorf("row %d: a = %d, %v, want %d", i, a, err, w.a)
		}
		b, err := rows[i]["b"].AsText()
		if err != nil || b != w.b {
			t.Errorf("row %d: b = %q, %v, want %q", i, b, err, w.b)
		}
	}
}

// TestSchemaIndexScan is SPEC_FULL.md §8 end-to-end scenario 4: scanning an
// index by a single-value prefix returns only the matching entry.
func TestSchemaIndexScan(t *testing.T) {
	pager := buildSchemaFixture(t)
	schema, err := LoadSchema(context.Background(), pager)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	ix, ok := schema.Index("ix")
	if !ok {
		t.Fatal("Index(ix) not found")
	}

	probe := &Record{fields: []Field{{serialType: uint64(13 + 2*len("y")), data: []byte("y")}}}
	matches, err := ix.Scan(context.Background(), probe)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Scan(y) returned %d matches, want 1", len(matches))
	}
	rowID, err := RowID(matches[0])
	if err != nil || rowID != 2 {
		t.Errorf("RowID() = %d, %v, want 2, nil", rowID, err)
	}
}
