package query

import (
	"context"

	"github.com/Aftershock007/antdb/internal/sqlfe"
	"github.com/Aftershock007/antdb/internal/storage"
)

// PlanKind distinguishes an index-assisted lookup from a full table scan.
type PlanKind int

const (
	PlanScan PlanKind = iota
	PlanIndex
)

// Plan is the decided strategy for evaluating a SELECT's WHERE clause:
// single-equality, single-table, with no cost estimates or multi-index
// candidate set to choose between.
type Plan struct {
	Kind  PlanKind
	Index *storage.Index
}

// ChoosePlan decides how to evaluate a SELECT's WHERE clause: if one is
// present, look up an index whose indexed column equals the filter column;
// use it if found, else fall back to a full scan.
func ChoosePlan(ctx context.Context, se *storage.Engine, table string, where *sqlfe.Cond) (Plan, error) {
	if where == nil {
		return Plan{Kind: PlanScan}, nil
	}
	idx, err := se.IndexForColumn(ctx, table, where.Column)
	if err != nil {
		return Plan{}, storageError(err)
	}
	if idx == nil {
		return Plan{Kind: PlanScan}, nil
	}
	return Plan{Kind: PlanIndex, Index: idx}, nil
}
