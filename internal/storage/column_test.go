package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aftershock007/antdb/internal/sqlfe"
)

func TestParseColumnsIntegerPrimaryKey(t *testing.T) {
	cols, err := ParseColumns("CREATE TABLE companies (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, country TEXT)")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	require.Equal(t, "id", cols[0].Name)
	require.True(t, cols[0].IsPrimaryKey)
	require.Equal(t, "name", cols[1].Name)
	require.False(t, cols[1].IsPrimaryKey)
}

func TestParseColumnsSchemaTableSelfBootstrap(t *testing.T) {
	cols, err := ParseColumns(schemaCreateSQL)
	require.NoError(t, err)
	require.Len(t, cols, len(schemaColumns))
	for i, c := range cols {
		require.Equal(t, schemaColumns[i].Name, c.Name)
	}
}

// TestSchemaBootstrapAgreesAcrossParsers pins the schema self-bootstrap
// invariant: the hand-written sqlfe parser and the sqlparser DDL path must
// agree on antdb_schema's own column order.
func TestSchemaBootstrapAgreesAcrossParsers(t *testing.T) {
	viaSQLParser, err := ParseColumns(schemaCreateSQL)
	require.NoError(t, err)

	stmt, err := sqlfe.Parse(schemaCreateSQL)
	require.NoError(t, err)
	ct, ok := stmt.(*sqlfe.CreateTable)
	require.True(t, ok)
	require.Len(t, ct.Columns, len(viaSQLParser))
	for i, c := range ct.Columns {
		require.Equal(t, viaSQLParser[i].Name, c.Name)
	}
}

func TestParseIndexColumn(t *testing.T) {
	table, column, err := ParseIndexColumn(`CREATE INDEX idx_country ON companies (country)`)
	require.NoError(t, err)
	require.Equal(t, "companies", table)
	require.Equal(t, "country", column)
}

func TestParseIndexColumnMalformedErrors(t *testing.T) {
	_, _, err := ParseIndexColumn(`CREATE INDEX idx_country companies (country)`)
	require.Error(t, err)
}
