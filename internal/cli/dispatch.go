package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aftershock007/antdb/internal/query"
	"github.com/Aftershock007/antdb/internal/storage"
)

// Dispatcher maps dot-commands and SQL strings to the storage and query
// engines. It never writes to stdout or calls os.Exit directly — it returns
// text and errors, and cmd/antdb owns all I/O and the process exit code.
type Dispatcher struct {
	storage *storage.Engine
	query   *query.Engine
}

func New(se *storage.Engine, qe *query.Engine) *Dispatcher {
	return &Dispatcher{storage: se, query: qe}
}

// Dispatch runs a single command and returns its formatted output.
func (d *Dispatcher) Dispatch(ctx context.Context, command string) (string, error) {
	switch command {
	case ".dbinfo":
		return d.dbinfo(ctx)
	case ".tables":
		return d.tables(ctx)
	case ".schema":
		return d.schema(ctx)
	case ".indices":
		return d.indices(ctx)
	default:
		return d.sql(ctx, command)
	}
}

func (d *Dispatcher) dbinfo(ctx context.Context) (string, error) {
	info, err := d.storage.Info(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "database page size: %d\n", info.PageSize)
	fmt.Fprintf(&b, "number of tables: %d\n", info.NumberOfTables)
	fmt.Fprintf(&b, "number of indices: %d\n", info.NumberOfIndices)
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d *Dispatcher) tables(ctx context.Context) (string, error) {
	names, err := d.storage.Tables(ctx)
	if err != nil {
		return "", err
	}
	var visible []string
	for _, n := range names {
		if !strings.HasPrefix(n, "sqlite_") {
			visible = append(visible, n)
		}
	}
	return strings.Join(visible, " "), nil
}

func (d *Dispatcher) schema(ctx context.Context) (string, error) {
	objs, err := d.storage.Objects(ctx)
	if err != nil {
		return "", err
	}
	blocks := make([]string, 0, len(objs))
	for _, o := range objs {
		var b strings.Builder
		fmt.Fprintf(&b, "type: '%s'\n", o.Type)
		fmt.Fprintf(&b, "name: '%s'\n", o.Name)
		fmt.Fprintf(&b, "tbl_name: '%s'\n", o.TblName)
		fmt.Fprintf(&b, "rootpage: '%d'\n", o.RootPage)
		fmt.Fprintf(&b, "sql: '%s'", o.SQL)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n"), nil
}

func (d *Dispatcher) indices(ctx context.Context) (string, error) {
	names, err := d.storage.Indices(ctx)
	if err != nil {
		return "", err
	}
	blocks := make([]string, 0, len(names))
	for _, name := range names {
		idx, err := d.storage.Index(ctx, name)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "index: %s\n", idx.Name())
		fmt.Fprintf(&b, "table: %s\n", idx.TableName())
		fmt.Fprintf(&b, "fields: %s", idx.Column())
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n"), nil
}

func (d *Dispatcher) sql(ctx context.Context, statement string) (string, error) {
	rows, err := d.query.Evaluate(ctx, statement)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = FormatRow(row)
	}
	return strings.Join(lines, "\n"), nil
}
