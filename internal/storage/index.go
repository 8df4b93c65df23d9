package storage

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Index is a schema-aware B-tree walker over an index tree covering exactly
// one column.
type Index struct {
	engine    *Engine
	name      string
	tableName string
	column    string
	rootPage  int
}

func (idx *Index) Name() string      { return idx.name }
func (idx *Index) TableName() string { return idx.tableName }
func (idx *Index) Column() string    { return idx.column }

// FindMatchingRecordIds returns the rowIds of every indexed record whose
// first (and only) indexed value equals value. column must equal the
// index's own covered column.
func (idx *Index) FindMatchingRecordIds(ctx context.Context, column string, value Value) ([]int64, error) {
	if column != idx.column {
		return nil, wrapf(KindInvariant, "find_matching_record_ids", ErrWrongIndexColumn, "index %s covers %s, not %s", idx.name, idx.column, column)
	}

	var mu sync.Mutex
	seen := make(map[int64]struct{})

	if err := idx.search(ctx, idx.rootPage, value, &mu, seen); err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}

func (idx *Index) search(ctx context.Context, pageNum int, value Value, mu *sync.Mutex, seen map[int64]struct{}) error {
	page, err := idx.engine.GetPage(pageNum)
	if err != nil {
		return err
	}

	switch pg := page.(type) {
	case *IndexLeafPage:
		mu.Lock()
		for _, k := range pg.Keys() {
			if len(k.Indexed) > 0 && k.Indexed[0].Equal(value) {
				seen[k.RowID] = struct{}{}
			}
		}
		mu.Unlock()
		return nil

	case *IndexInteriorPage:
		for _, c := range pg.Cells() {
			if len(c.Key.Indexed) > 0 && c.Key.Indexed[0].Equal(value) {
				mu.Lock()
				seen[c.Key.RowID] = struct{}{}
				mu.Unlock()
			}
		}

		pointers := pg.Pointers()
		g, gctx := errgroup.WithContext(ctx)
		for _, ptr := range pointers {
			ptr := ptr
			if !pointerMayContain(ptr, value) {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return idx.search(gctx, int(ptr.Child), value, mu, seen)
			})
		}
		return g.Wait()

	default:
		return wrap(KindPage, "search_index", ErrInvalidPageType)
	}
}

// pointerMayContain is a conservative range test comparing against the
// first indexed Value of each endpoint key: it prunes only when the
// comparison is well-defined and conclusive. Ambiguous comparisons are not
// pruned; leaf/cell equality checks remain the authority for correctness.
func pointerMayContain(p Pointer[Value], value Value) bool {
	if p.Left.Bounded {
		if cmp, err := p.Left.Value.Compare(value); err == nil && cmp > 0 {
			return false
		}
	}
	if p.Right.Bounded {
		if cmp, err := value.Compare(p.Right.Value); err == nil && cmp > 0 {
			return false
		}
	}
	return true
}
