package budget

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/testutil"
)

func TestPlanProduction(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	forecast := []ForecastRow{
		{Month: "Jan", Product: "A", SalesUnits: 1000},
		{Month: "Feb", Product: "A", SalesUnits: 1200},
		{Month: "Mar", Product: "A", SalesUnits: 1500},
	}
	inventory := []InventoryRow{
		{Month: "Jan", Product: "A", OpeningStock: 50, DesiredClosingStock: 100},
		{Month: "Feb", Product: "A", OpeningStock: 100, DesiredClosingStock: 150},
		{Month: "Mar", Product: "A", OpeningStock: 150, DesiredClosingStock: 200},
	}

	rows, warnings, err := calc.PlanProduction(forecast, inventory)
	if err != nil {
		t.Fatalf("PlanProduction() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	units := make([]float64, len(rows))
	for i, row := range rows {
		units[i] = row.ProductionUnits
	}
	testutil.AssertSeries(t, "production units", units, []float64{1050, 1250, 1550})
}

func TestPlanProductionMissingInventory(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	forecast := []ForecastRow{
		{Month: "Jan", Product: "A", SalesUnits: 1000},
		{Month: "Jan", Product: "B", SalesUnits: 500},
	}
	inventory := []InventoryRow{
		{Month: "Jan", Product: "A", OpeningStock: 50, DesiredClosingStock: 100},
	}

	rows, warnings, err := calc.PlanProduction(forecast, inventory)
	if err != nil {
		t.Fatalf("PlanProduction() error = %v", err)
	}

	if rows[0].MissingInventory {
		t.Error("product A has a stock plan and should not be flagged")
	}
	if !rows[1].MissingInventory {
		t.Error("product B has no stock plan and should be flagged")
	}
	testutil.AssertAmount(t, "product B production", rows[1].ProductionUnits, 500)

	if len(warnings) != 1 || !strings.Contains(warnings[0], "product B") {
		t.Errorf("expected one warning naming product B, got %v", warnings)
	}
}

func TestPlanProductionNegativeUnitsPreserved(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	// Planned drawdown: opening stock exceeds sales plus closing stock.
	forecast := []ForecastRow{{Month: "Jan", Product: "A", SalesUnits: 100}}
	inventory := []InventoryRow{{Month: "Jan", Product: "A", OpeningStock: 500, DesiredClosingStock: 50}}

	rows, _, err := calc.PlanProduction(forecast, inventory)
	if err != nil {
		t.Fatalf("PlanProduction() error = %v", err)
	}
	testutil.AssertAmount(t, "drawdown production", rows[0].ProductionUnits, -350)
}

func TestPlanProductionDuplicateStockPlan(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	forecast := []ForecastRow{{Month: "Jan", Product: "A", SalesUnits: 100}}
	inventory := []InventoryRow{
		{Month: "Jan", Product: "A", OpeningStock: 10, DesiredClosingStock: 20},
		{Month: "Jan", Product: "A", OpeningStock: 99, DesiredClosingStock: 99},
	}

	rows, warnings, err := calc.PlanProduction(forecast, inventory)
	if err != nil {
		t.Fatalf("PlanProduction() error = %v", err)
	}

	// First row wins; the duplicate is reported.
	testutil.AssertAmount(t, "production", rows[0].ProductionUnits, 110)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "duplicate") {
		t.Errorf("expected a duplicate warning, got %v", warnings)
	}
}

func TestPlanProductionMonotonicInClosingStock(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	forecast := []ForecastRow{{Month: "Jan", Product: "A", SalesUnits: 1000}}

	base := []InventoryRow{{Month: "Jan", Product: "A", OpeningStock: 50, DesiredClosingStock: 100}}
	raised := []InventoryRow{{Month: "Jan", Product: "A", OpeningStock: 50, DesiredClosingStock: 400}}

	baseRows, _, err := calc.PlanProduction(forecast, base)
	if err != nil {
		t.Fatalf("PlanProduction() error = %v", err)
	}
	raisedRows, _, err := calc.PlanProduction(forecast, raised)
	if err != nil {
		t.Fatalf("PlanProduction() error = %v", err)
	}

	if raisedRows[0].ProductionUnits <= baseRows[0].ProductionUnits {
		t.Errorf("raising desired closing stock must not lower production: %v vs %v",
			raisedRows[0].ProductionUnits, baseRows[0].ProductionUnits)
	}
}
