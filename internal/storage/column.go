package storage

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Column describes one declared column of a CREATE TABLE.
type Column struct {
	Name         string
	Type         string
	Index        int
	IsPrimaryKey bool
}

// ParseColumns recovers column metadata from a CREATE TABLE statement using
// github.com/xwb1989/sqlparser. Scoped strictly to DDL column parsing —
// SELECT/WHERE parsing goes through the hand-written internal/sqlfe front
// end instead.
func ParseColumns(createTableSQL string) ([]Column, error) {
	normalized := normalizeForSQLParser(createTableSQL)

	stmt, err := sqlparser.Parse(normalized)
	if err != nil {
		return nil, wrapf(KindSchema, "parse_columns", err, "parse %q", createTableSQL)
	}

	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != "create" || ddl.TableSpec == nil {
		return nil, wrapf(KindSchema, "parse_columns", ErrInvalidSerialType, "not a CREATE TABLE statement: %q", createTableSQL)
	}

	columns := make([]Column, len(ddl.TableSpec.Columns))
	for i, col := range ddl.TableSpec.Columns {
		isAutoIncrement := bool(col.Type.Autoincrement)
		isIntPK := isAutoIncrement && strings.EqualFold(col.Type.Type, "integer")
		columns[i] = Column{
			Name:         col.Name.String(),
			Type:         col.Type.Type,
			Index:        i,
			IsPrimaryKey: isIntPK,
		}
	}
	return columns, nil
}

// normalizeForSQLParser rewrites SQLite-specific DDL syntax into something
// sqlparser's MySQL-oriented grammar accepts.
func normalizeForSQLParser(sql string) string {
	normalized := strings.ReplaceAll(sql, `"`, "")
	normalized = strings.ReplaceAll(normalized, "primary key autoincrement", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "PRIMARY KEY AUTOINCREMENT", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "INTEGER PRIMARY KEY", "INTEGER AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "integer primary key", "INTEGER AUTO_INCREMENT PRIMARY KEY")
	return strings.TrimSpace(normalized)
}

// ParseIndexColumn recovers the single indexed column name and target table
// from a CREATE INDEX statement. sqlparser has no DDL support for CREATE
// INDEX, so this is parsed with a small literal scan instead.
func ParseIndexColumn(createIndexSQL string) (table string, column string, err error) {
	upper := strings.ToUpper(createIndexSQL)
	onPos := strings.Index(upper, " ON ")
	if onPos < 0 {
		return "", "", wrapf(KindSchema, "parse_index_column", ErrInvalidSerialType, "missing ON clause: %q", createIndexSQL)
	}
	rest := strings.TrimSpace(createIndexSQL[onPos+4:])
	open := strings.Index(rest, "(")
	shut := strings.Index(rest, ")")
	if open < 0 || shut < 0 || shut < open {
		return "", "", wrapf(KindSchema, "parse_index_column", ErrInvalidSerialType, "malformed index target: %q", createIndexSQL)
	}
	table = strings.TrimSpace(strings.Trim(rest[:open], `"`))
	column = strings.TrimSpace(strings.Trim(rest[open+1:shut], `" `))
	return table, column, nil
}
