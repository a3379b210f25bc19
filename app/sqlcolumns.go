package main

import (
	"regexp"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// parseCreateTable parses a CREATE TABLE statement (as stored verbatim in
// sqlite_master.sql) into column definitions, detecting the single
// INTEGER PRIMARY KEY column SQLite elides from the row's stored record.
func parseCreateTable(sql string) ([]ColumnDef, error) {
	normalized := normalizeSQLiteToMySQL(sql)

	stmt, err := sqlparser.Parse(normalized)
	if err != nil {
		return nil, newDatabaseError(KindText, "parse_create_table", err.Error(), err, map[string]interface{}{"sql": sql})
	}

	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != "create" || ddl.TableSpec == nil {
		return nil, newDatabaseError(KindText, "parse_create_table", "expected a CREATE TABLE statement", nil, map[string]interface{}{"sql": sql})
	}

	columns := make([]ColumnDef, len(ddl.TableSpec.Columns))
	for i, col := range ddl.TableSpec.Columns {
		typ := strings.ToLower(col.Type.Type)
		if typ != "integer" && typ != "text" {
			return nil, newDatabaseError(KindText, "parse_create_table", "unsupported column type "+typ, nil, map[string]interface{}{"sql": sql, "column": col.Name.String()})
		}
		// SQLite elides the row-id column for a bare "INTEGER PRIMARY KEY"
		// declaration too, not only the AUTOINCREMENT spelling; vitess's
		// ColumnType.KeyOpt enum isn't exported by this fork, so a column
		// constraint scan against the original text is the only way to see
		// it through this parser, in the same targeted-text-scan idiom as
		// the CREATE INDEX helpers below.
		isPrimaryKey := typ == "integer" && columnIsPrimaryKey(sql, col.Name.String())
		columns[i] = ColumnDef{
			Name:       col.Name.String(),
			Type:       typ,
			PrimaryKey: isPrimaryKey,
		}
	}
	return columns, nil
}

// columnIsPrimaryKey reports whether name's column definition within sql is
// immediately followed by a PRIMARY KEY constraint, e.g. "a INTEGER PRIMARY
// KEY" or "a INTEGER PRIMARY KEY AUTOINCREMENT".
func columnIsPrimaryKey(sql, name string) bool {
	pattern := `(?i)\b` + regexp.QuoteMeta(name) + `\b\s+\w+\s+primary\s+key\b`
	return regexp.MustCompile(pattern).MatchString(sql)
}

// normalizeSQLiteToMySQL rewrites SQLite-specific DDL syntax into a form
// sqlparser's MySQL-flavored grammar accepts: double-quoted identifiers and
// the "PRIMARY KEY AUTOINCREMENT" suffix.
func normalizeSQLiteToMySQL(sql string) string {
	normalized := strings.ReplaceAll(sql, `"`, "")
	normalized = strings.ReplaceAll(normalized, "primary key autoincrement", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "PRIMARY KEY AUTOINCREMENT", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "PRIMARY KEY Autoincrement", "AUTO_INCREMENT PRIMARY KEY")
	return strings.TrimSpace(normalized)
}

// parseIndexColumns extracts the indexed column names from a CREATE INDEX
// statement. sqlparser's grammar doesn't cover CREATE INDEX, so this is a
// targeted text scan rather than a full parse.
func parseIndexColumns(sql string) ([]string, error) {
	start := strings.Index(sql, "(")
	end := strings.LastIndex(sql, ")")
	if start == -1 || end == -1 || start >= end {
		return nil, newDatabaseError(KindText, "parse_index_columns", "no column list found", nil, map[string]interface{}{"sql": sql})
	}

	parts := strings.Split(sql[start+1:end], ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.Trim(strings.TrimSpace(p), `"`+"`")
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}
		columns = append(columns, name)
	}
	return columns, nil
}

// parseIndexTableName extracts the owning table name from a CREATE INDEX
// statement's "ON <table>" clause.
func parseIndexTableName(sql string) (string, error) {
	lower := strings.ToLower(sql)
	onIdx := strings.Index(lower, " on ")
	if onIdx == -1 {
		return "", newDatabaseError(KindText, "parse_index_table_name", "no ON clause found", nil, map[string]interface{}{"sql": sql})
	}

	after := strings.TrimSpace(sql[onIdx+4:])
	if parenIdx := strings.IndexAny(after, "( "); parenIdx != -1 {
		after = after[:parenIdx]
	}
	return strings.Trim(after, `"`+"`"), nil
}
