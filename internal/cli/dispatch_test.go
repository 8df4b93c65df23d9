package cli

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aftershock007/antdb/internal/query"
	"github.com/Aftershock007/antdb/internal/storage"
)

func openFixtureDispatcher(t *testing.T, path string) *Dispatcher {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("%s not found, skipping fixture test", path)
	}
	se, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = se.Close() })
	qe := query.NewEngine(se, nil)
	return New(se, qe)
}

func TestDispatchDbinfo(t *testing.T) {
	d := openFixtureDispatcher(t, "testdata/sample.db")
	out, err := d.Dispatch(context.Background(), ".dbinfo")
	require.NoError(t, err)
	require.Contains(t, out, "database page size: 4096")
	require.Contains(t, out, "number of tables: 2")
}

func TestDispatchTablesExcludesSqlitePrefixed(t *testing.T) {
	d := openFixtureDispatcher(t, "testdata/sample.db")
	out, err := d.Dispatch(context.Background(), ".tables")
	require.NoError(t, err)
	require.Contains(t, out, "companies")
	require.NotContains(t, out, "sqlite_sequence")
}

func TestDispatchSQLFallback(t *testing.T) {
	d := openFixtureDispatcher(t, "testdata/companies.db")
	out, err := d.Dispatch(context.Background(), "SELECT count(*) FROM companies")
	require.NoError(t, err)
	require.Equal(t, "55991", out)
}
