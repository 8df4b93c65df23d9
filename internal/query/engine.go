package query

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Aftershock007/antdb/internal/sqlfe"
	"github.com/Aftershock007/antdb/internal/storage"
)

// Engine binds the sqlfe AST to the storage layer: it resolves tables,
// chooses an index-assisted lookup or a full scan, and evaluates
// projections.
type Engine struct {
	storage *storage.Engine
	log     *logrus.Logger
}

func NewEngine(se *storage.Engine, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{storage: se, log: log}
}

// Evaluate parses and runs a single SQL statement, returning the projected
// output rows. Each call is tagged with a correlation id for tracing; this
// logging is Debug-level and silent by default, never the fatal-exit
// diagnostic that cmd/antdb emits on error.
func (e *Engine) Evaluate(ctx context.Context, sql string) ([][]storage.Value, error) {
	requestID := uuid.NewString()
	entry := e.log.WithFields(logrus.Fields{"request_id": requestID, "sql": sql})
	entry.Debug("evaluating statement")

	stmt, err := sqlfe.Parse(sql)
	if err != nil {
		entry.WithError(err).Debug("parse failed")
		return nil, sqlError("%v", err)
	}

	switch s := stmt.(type) {
	case *sqlfe.CreateTable:
		return nil, sqlError("table creation not supported")
	case *sqlfe.CreateIndex:
		return nil, sqlError("index creation not supported")
	case *sqlfe.Select:
		return e.evaluateSelect(ctx, s)
	default:
		return nil, sqlError("unsupported statement")
	}
}

func (e *Engine) evaluateSelect(ctx context.Context, sel *sqlfe.Select) ([][]storage.Value, error) {
	table, err := e.storage.Table(ctx, sel.Table)
	if err != nil {
		return nil, sqlError("unknown table: %s", sel.Table)
	}

	rows, err := e.rowsForSelect(ctx, table, sel)
	if err != nil {
		return nil, err
	}

	return e.project(rows, table.Columns(), sel.Exprs)
}

func (e *Engine) rowsForSelect(ctx context.Context, table *storage.Table, sel *sqlfe.Select) ([]storage.Row, error) {
	plan, err := ChoosePlan(ctx, e.storage, sel.Table, sel.Where)
	if err != nil {
		return nil, err
	}

	if sel.Where == nil {
		rows, err := table.Rows(ctx)
		if err != nil {
			return nil, storageError(err)
		}
		return rows, nil
	}

	literal := storage.Str(sel.Where.Literal)

	if plan.Kind == PlanIndex {
		rowIDs, err := plan.Index.FindMatchingRecordIds(ctx, sel.Where.Column, literal)
		if err != nil {
			return nil, storageError(err)
		}
		rows := make([]storage.Row, 0, len(rowIDs))
		for _, id := range rowIDs {
			row, found, err := table.Get(ctx, id)
			if err != nil {
				return nil, storageError(err)
			}
			if !found {
				return nil, invariantError("indexed rowid %d absent from table %s", id, sel.Table)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	all, err := table.Rows(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	var filtered []storage.Row
	for _, row := range all {
		v, ok := row.Get(table.Columns(), sel.Where.Column)
		if !ok {
			continue
		}
		if v.Equal(literal) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

func (e *Engine) project(rows []storage.Row, schema []storage.Column, exprs []sqlfe.Expr) ([][]storage.Value, error) {
	hasAggregate := false
	for _, ex := range exprs {
		if ex.Kind == sqlfe.ExprCall {
			hasAggregate = true
			break
		}
	}

	if hasAggregate {
		out := make([]storage.Value, len(exprs))
		for i, ex := range exprs {
			v, err := evalAggregate(ex, rows, schema)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return [][]storage.Value{out}, nil
	}

	results := make([][]storage.Value, 0, len(rows))
	for _, row := range rows {
		out := make([]storage.Value, len(exprs))
		for i, ex := range exprs {
			v, err := evalNonAggregate(ex, row, schema)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		results = append(results, out)
	}
	return results, nil
}

// evalAggregate handles the aggregate projection branch: count over the row
// set; any non-aggregate expression evaluates to Null when the row set is
// empty.
func evalAggregate(ex sqlfe.Expr, rows []storage.Row, schema []storage.Column) (storage.Value, error) {
	if ex.Kind == sqlfe.ExprCall {
		if strings.ToLower(ex.Name) != "count" {
			return storage.Value{}, sqlError("unsupported aggregate function: %s", ex.Name)
		}
		return storage.Int(int64(len(rows))), nil
	}
	if len(rows) == 0 {
		return storage.Null(), nil
	}
	return evalNonAggregate(ex, rows[0], schema)
}

// evalNonAggregate handles the per-row projection branch: a column name
// looks up the row's value by name, a string literal evaluates to itself,
// and anything else is a SQL error.
func evalNonAggregate(ex sqlfe.Expr, row storage.Row, schema []storage.Column) (storage.Value, error) {
	switch ex.Kind {
	case sqlfe.ExprColumn:
		v, ok := row.Get(schema, ex.Name)
		if !ok {
			return storage.Value{}, sqlError("unknown column: %s", ex.Name)
		}
		return v, nil
	case sqlfe.ExprStr:
		return storage.Str(ex.Str), nil
	default:
		return storage.Value{}, sqlError("unsupported projection expression")
	}
}
