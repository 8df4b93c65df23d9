package storage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Table is a schema-aware B-tree walker over a table tree.
type Table struct {
	engine   *Engine
	name     string
	rootPage int
	columns  []Column
}

func (t *Table) Name() string      { return t.name }
func (t *Table) Columns() []Column { return t.columns }

func (t *Table) intPKIndex() int {
	for _, c := range t.columns {
		if c.IsPrimaryKey {
			return c.Index
		}
	}
	return -1
}

// buildRow applies the integer-primary-key row-decoding rule: that column's
// value comes from the rowId, not the record body.
func (t *Table) buildRow(rowID int64, rec Record) Row {
	pkIdx := t.intPKIndex()
	values := make([]Value, len(t.columns))
	for i := range t.columns {
		if i == pkIdx {
			values[i] = Int(rowID)
			continue
		}
		if i < len(rec.Values) {
			values[i] = rec.Values[i]
		} else {
			values[i] = Null()
		}
	}
	return Row{RowID: rowID, Values: values}
}

// Rows performs a left-to-right depth-first traversal of the table's
// B-tree, yielding every leaf record in traversal order. Sibling subtrees of
// an interior page are fetched concurrently via errgroup, but results are
// reassembled in order before returning.
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	return t.collectRows(ctx, t.rootPage)
}

func (t *Table) collectRows(ctx context.Context, pageNum int) ([]Row, error) {
	page, err := t.engine.GetPage(pageNum)
	if err != nil {
		return nil, err
	}

	switch pg := page.(type) {
	case *TableLeafPage:
		cells := pg.Cells()
		rows := make([]Row, len(cells))
		for i, c := range cells {
			rows[i] = t.buildRow(c.RowID, c.Record)
		}
		return rows, nil

	case *TableInteriorPage:
		pointers := pg.Pointers()
		results := make([][]Row, len(pointers))
		g, gctx := errgroup.WithContext(ctx)
		for i, ptr := range pointers {
			i, ptr := i, ptr
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows, err := t.collectRows(gctx, int(ptr.Child))
				if err != nil {
					return err
				}
				results[i] = rows
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		var out []Row
		for _, r := range results {
			out = append(out, r...)
		}
		return out, nil

	default:
		return nil, wrap(KindPage, "collect_rows", ErrInvalidPageType)
	}
}

// Get performs a point lookup by row id: at each interior page it follows
// the unique child pointer whose range contains rowID; at a leaf it returns
// the matching row, or false if absent.
func (t *Table) Get(ctx context.Context, rowID int64) (Row, bool, error) {
	return t.get(ctx, t.rootPage, rowID)
}

func (t *Table) get(ctx context.Context, pageNum int, rowID int64) (Row, bool, error) {
	page, err := t.engine.GetPage(pageNum)
	if err != nil {
		return Row{}, false, err
	}

	switch pg := page.(type) {
	case *TableLeafPage:
		for _, c := range pg.Cells() {
			if c.RowID == rowID {
				return t.buildRow(c.RowID, c.Record), true, nil
			}
		}
		return Row{}, false, nil

	case *TableInteriorPage:
		for _, ptr := range pg.Pointers() {
			if Contains(ptr, rowID, compareInt64) {
				return t.get(ctx, int(ptr.Child), rowID)
			}
		}
		return Row{}, false, nil

	default:
		return Row{}, false, wrap(KindPage, "get_row", ErrInvalidPageType)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
