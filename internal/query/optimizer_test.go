package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aftershock007/antdb/internal/sqlfe"
)

func TestChoosePlanNoWhereIsScan(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	plan, err := ChoosePlan(context.Background(), se, "companies", nil)
	require.NoError(t, err)
	require.Equal(t, PlanScan, plan.Kind)
	require.Nil(t, plan.Index)
}

func TestChoosePlanUsesIndexWhenColumnCovered(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	where := &sqlfe.Cond{Column: "country", Literal: "republic of the congo"}
	plan, err := ChoosePlan(context.Background(), se, "companies", where)
	require.NoError(t, err)
	if plan.Kind == PlanScan {
		t.Skip("no index on companies.country in this fixture")
	}
	require.Equal(t, PlanIndex, plan.Kind)
	require.Equal(t, "country", plan.Index.Column())
}

func TestChoosePlanFallsBackOnNonIndexedColumn(t *testing.T) {
	se := openFixture(t, "testdata/companies.db")
	where := &sqlfe.Cond{Column: "locality", Literal: "x"}
	plan, err := ChoosePlan(context.Background(), se, "companies", where)
	require.NoError(t, err)
	if plan.Kind == PlanIndex {
		t.Skip("locality is indexed in this fixture, scenario not exercised")
	}
	require.Equal(t, PlanScan, plan.Kind)
}
