package budget

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/templates"
	"github.com/finopskit/master-budget/pkg/testutil"
)

// templateInputs decodes the published starter tables into chain inputs.
func templateInputs(t *testing.T) Inputs {
	t.Helper()

	var inputs Inputs
	var err error

	raw, err := templates.Table("cvp")
	if err != nil {
		t.Fatalf("template cvp: %v", err)
	}
	if inputs.CVP, err = DecodeCVP(raw); err != nil {
		t.Fatalf("decode cvp: %v", err)
	}

	if raw, err = templates.Table("forecast"); err != nil {
		t.Fatalf("template forecast: %v", err)
	}
	if inputs.Forecast, err = DecodeForecast(raw); err != nil {
		t.Fatalf("decode forecast: %v", err)
	}

	if raw, err = templates.Table("inventory"); err != nil {
		t.Fatalf("template inventory: %v", err)
	}
	if inputs.Inventory, err = DecodeInventory(raw); err != nil {
		t.Fatalf("decode inventory: %v", err)
	}

	if raw, err = templates.Table("bom"); err != nil {
		t.Fatalf("template bom: %v", err)
	}
	if inputs.BOM, err = DecodeBOM(raw); err != nil {
		t.Fatalf("decode bom: %v", err)
	}

	if raw, err = templates.Table("rates"); err != nil {
		t.Fatalf("template rates: %v", err)
	}
	if inputs.Rates, err = DecodeRates(raw); err != nil {
		t.Fatalf("decode rates: %v", err)
	}

	if raw, err = templates.Table("expenses"); err != nil {
		t.Fatalf("template expenses: %v", err)
	}
	if inputs.Expenses, err = DecodeExpenses(raw); err != nil {
		t.Fatalf("decode expenses: %v", err)
	}

	return inputs
}

func TestRunFullChainOnTemplates(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	inputs := templateInputs(t)

	results, err := Run(logger, DefaultPolicy(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(results.Warnings) != 0 {
		t.Errorf("the template data should produce no warnings, got %v", results.Warnings)
	}

	// CVP analysis computed alongside the chain.
	if len(results.CVP) != 2 {
		t.Fatalf("expected 2 CVP rows, got %d", len(results.CVP))
	}
	testutil.AssertAmount(t, "break-even A", *results.CVP[0].BreakEvenUnits, 1250)

	// Sales and collections.
	testutil.AssertSeries(t, "revenue", results.Sales.Revenue, []float64{100000, 120000, 150000})
	testutil.AssertSeries(t, "receipts", results.Sales.TotalReceipts, []float64{20000, 72000, 119600})

	// Production plan.
	units := make([]float64, len(results.Production))
	for i, row := range results.Production {
		units[i] = row.ProductionUnits
	}
	testutil.AssertSeries(t, "production units", units, []float64{1050, 1250, 1550})

	// Material explosion: steel and paint per month.
	if len(results.Materials) != 6 {
		t.Fatalf("expected 3 months x 2 materials, got %d rows", len(results.Materials))
	}
	monthlyMaterial := map[string]float64{}
	for _, row := range results.Materials {
		monthlyMaterial[row.Month] += row.TotalCost
	}
	testutil.AssertAmount(t, "Jan material", monthlyMaterial["Jan"], 12600)
	testutil.AssertAmount(t, "Feb material", monthlyMaterial["Feb"], 15000)
	testutil.AssertAmount(t, "Mar material", monthlyMaterial["Mar"], 18600)

	// Labor and overhead.
	labor := make([]float64, len(results.Labor))
	for i, row := range results.Labor {
		labor[i] = row.LaborCost
	}
	testutil.AssertSeries(t, "labor cost", labor, []float64{31500, 37500, 46500})

	// Cash budget over the derived figures.
	testutil.AssertSeries(t, "purchase payments", results.Cash.PurchasePayments, []float64{1260, 7170, 14280})
	testutil.AssertSeries(t, "total payments", results.Cash.TotalPayments, []float64{38910, 101420, 79430})
	testutil.AssertSeries(t, "closing balance", results.Cash.Closing, []float64{-8910, -38330, 1840})

	// Master production cost.
	totals := make([]float64, len(results.MasterCost))
	for i, row := range results.MasterCost {
		totals[i] = row.TotalProductionCost
	}
	testutil.AssertSeries(t, "total production cost", totals, []float64{47250, 56250, 69750})
}

func TestRunIsIdempotent(t *testing.T) {
	inputs := templateInputs(t)
	policy := DefaultPolicy()

	first, err := Run(zap.NewNop(), policy, inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := Run(zap.NewNop(), policy, inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("recomputing on identical inputs must produce identical results")
	}
}

func TestRunCVPOnly(t *testing.T) {
	inputs := Inputs{CVP: []CVPInput{{Product: "A", SellingPrice: 100, VariableCost: 60, FixedCost: 50000}}}

	results, err := Run(zap.NewNop(), DefaultPolicy(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results.CVP) != 1 {
		t.Fatalf("expected 1 CVP row, got %d", len(results.CVP))
	}
	if results.Sales != nil || results.Cash != nil {
		t.Error("chain outputs should be absent without a sales forecast")
	}
}

func TestRunForecastOnlyDegradesLeniently(t *testing.T) {
	// A bare forecast still runs the whole chain: missing stock plans, bills
	// of materials, and rate tables degrade to flagged zero rows.
	inputs := Inputs{Forecast: []ForecastRow{
		{Month: "Jan", Product: "A", SalesUnits: 100, SellingPrice: 10, SalesRevenue: 1000},
	}}

	results, err := Run(zap.NewNop(), DefaultPolicy(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !results.Production[0].MissingInventory {
		t.Error("expected the production row to be flagged MissingInventory")
	}
	if !results.Materials[0].MissingBOM {
		t.Error("expected the material row to be flagged MissingBOM")
	}
	if len(results.Warnings) == 0 {
		t.Error("expected warnings describing the missing tables")
	}
	if results.Cash == nil || results.MasterCost == nil {
		t.Error("expected the chain to complete despite missing optional tables")
	}
}

func TestRunWithNoInputs(t *testing.T) {
	if _, err := Run(zap.NewNop(), DefaultPolicy(), Inputs{}); !errors.Is(err, ErrMissingStage) {
		t.Errorf("expected ErrMissingStage, got %v", err)
	}
}
