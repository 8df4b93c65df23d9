package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// These exercise concrete scenarios against real SQLite fixtures. They skip
// when the fixture is absent.

func openFixture(t *testing.T, path string) *Engine {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("%s not found, skipping fixture test", path)
	}
	e, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestSampleDbinfo(t *testing.T) {
	e := openFixture(t, "testdata/sample.db")
	ctx := context.Background()

	info, err := e.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, 4096, info.PageSize)
	require.Equal(t, 2, info.NumberOfTables)

	require.Equal(t, info.PageSize, e.Header().PageSize)
}

func TestSchemaTableResolvesByName(t *testing.T) {
	e := openFixture(t, "testdata/sample.db")
	ctx := context.Background()

	table, err := e.Table(ctx, schemaTableName)
	require.NoError(t, err)
	require.Equal(t, schemaTableName, table.Name())

	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
}

func TestSampleTableNames(t *testing.T) {
	e := openFixture(t, "testdata/sample.db")
	ctx := context.Background()

	names, err := e.Tables(ctx)
	require.NoError(t, err)

	set := make(map[string]bool)
	for _, n := range names {
		set[n] = true
	}
	require.True(t, set["companies"])
	require.True(t, set["sqlite_sequence"])
}

func TestCompaniesCount(t *testing.T) {
	e := openFixture(t, "testdata/companies.db")
	ctx := context.Background()

	table, err := e.Table(ctx, "companies")
	require.NoError(t, err)

	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 55991)
}

func TestTableRowsAndGetAgree(t *testing.T) {
	e := openFixture(t, "testdata/companies.db")
	ctx := context.Background()

	table, err := e.Table(ctx, "companies")
	require.NoError(t, err)

	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	for _, row := range rows[:min(len(rows), 50)] {
		got, found, err := table.Get(ctx, row.RowID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, row, got)
	}
}

func TestIndexMatchesTableScan(t *testing.T) {
	e := openFixture(t, "testdata/companies.db")
	ctx := context.Background()

	idx, err := e.IndexForColumn(ctx, "companies", "country")
	require.NoError(t, err)
	if idx == nil {
		t.Skip("no index on companies.country in this fixture")
	}

	table, err := e.Table(ctx, "companies")
	require.NoError(t, err)
	rows, err := table.Rows(ctx)
	require.NoError(t, err)

	want := make(map[int64]bool)
	for _, row := range rows {
		v, ok := row.Get(table.Columns(), "country")
		if ok && v.Equal(Str("republic of the congo")) {
			want[row.RowID] = true
		}
	}

	got, err := idx.FindMatchingRecordIds(ctx, "country", Str("republic of the congo"))
	require.NoError(t, err)

	gotSet := make(map[int64]bool)
	for _, id := range got {
		gotSet[id] = true
	}
	require.Equal(t, want, gotSet)
}
