package query

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aftershock007/antdb/internal/storage"
)

func openFixture(t *testing.T, path string) *storage.Engine {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("%s not found, skipping fixture test", path)
	}
	e, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEvaluateCountStar(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	qe := NewEngine(se, nil)

	rows, err := qe.Evaluate(context.Background(), "SELECT count(*) FROM companies")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 1)
	require.Equal(t, storage.Int(55991), rows[0][0])
}

func TestEvaluateWhereFullScan(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	qe := NewEngine(se, nil)

	rows, err := qe.Evaluate(context.Background(), `SELECT name FROM companies WHERE locality = 'london, greater london, united kingdom'`)
	require.NoError(t, err)
	require.Len(t, rows, 18)
}

func TestEvaluateWhereIndexAssisted(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	qe := NewEngine(se, nil)

	rows, err := qe.Evaluate(context.Background(), `SELECT id, name FROM companies WHERE country = 'republic of the congo'`)
	require.NoError(t, err)

	got := make(map[int64]string)
	for _, r := range rows {
		got[r[0].Int] = r[1].Str
	}
	require.Equal(t, map[int64]string{
		517263:  "somedia",
		509721:  "skytic telecom",
		2995059: "petroleum trading congo e&p sa",
		2543747: "its congo",
	}, got)
}

func TestEvaluateCreateTableUnsupported(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	qe := NewEngine(se, nil)

	_, err := qe.Evaluate(context.Background(), "CREATE TABLE t (id integer)")
	require.Error(t, err)
	require.Contains(t, err.Error(), "table creation not supported")
}

func TestEvaluateCreateIndexUnsupported(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	qe := NewEngine(se, nil)

	_, err := qe.Evaluate(context.Background(), "CREATE INDEX idx ON t (c)")
	require.Error(t, err)
	require.Contains(t, err.Error(), "index creation not supported")
}

func TestEvaluateUnknownTableIsSQLError(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	qe := NewEngine(se, nil)

	_, err := qe.Evaluate(context.Background(), "SELECT x FROM nope")
	require.Error(t, err)
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, KindSQL, qerr.Kind)
}
