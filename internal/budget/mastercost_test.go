package budget

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/testutil"
)

func TestConsolidateMasterCost(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	materials := []MaterialRow{
		{Month: "Jan", Product: "A", Material: "Steel", TotalCost: 10500},
		{Month: "Jan", Product: "A", Material: "Paint", TotalCost: 2100},
		{Month: "Feb", Product: "A", Material: "Steel", TotalCost: 12500},
		{Month: "Feb", Product: "A", Material: "Paint", TotalCost: 2500},
	}
	labor := []LaborOverheadRow{
		{Month: "Jan", Product: "A", LaborCost: 31500, TotalOverhead: 3150},
		{Month: "Feb", Product: "A", LaborCost: 37500, TotalOverhead: 3750},
	}

	rows, err := calc.ConsolidateMasterCost(materials, labor)
	if err != nil {
		t.Fatalf("ConsolidateMasterCost() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected one row per labor row, got %d", len(rows))
	}

	testutil.AssertAmount(t, "Jan material", rows[0].MaterialCost, 12600)
	testutil.AssertAmount(t, "Jan total", rows[0].TotalProductionCost, 47250)
	testutil.AssertAmount(t, "Feb material", rows[1].MaterialCost, 15000)
	testutil.AssertAmount(t, "Feb total", rows[1].TotalProductionCost, 56250)
}

func TestConsolidateMasterCostMissingBOMProduct(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	// A MissingBOM placeholder sums to zero material cost but the labor and
	// overhead costs still appear.
	materials := []MaterialRow{
		{Month: "Jan", Product: "B", ProductionUnits: 100, MissingBOM: true},
	}
	labor := []LaborOverheadRow{
		{Month: "Jan", Product: "B", LaborCost: 3000, TotalOverhead: 200},
	}

	rows, err := calc.ConsolidateMasterCost(materials, labor)
	if err != nil {
		t.Fatalf("ConsolidateMasterCost() error = %v", err)
	}
	testutil.AssertAmount(t, "material", rows[0].MaterialCost, 0)
	testutil.AssertAmount(t, "total", rows[0].TotalProductionCost, 3200)
}

func TestConsolidateMasterCostMissingStages(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	labor := []LaborOverheadRow{{Month: "Jan", Product: "A"}}
	materials := []MaterialRow{{Month: "Jan", Product: "A"}}

	if _, err := calc.ConsolidateMasterCost(nil, labor); !errors.Is(err, ErrMissingStage) {
		t.Errorf("expected ErrMissingStage for missing materials, got %v", err)
	}
	if _, err := calc.ConsolidateMasterCost(materials, nil); !errors.Is(err, ErrMissingStage) {
		t.Errorf("expected ErrMissingStage for missing labor, got %v", err)
	}
}
