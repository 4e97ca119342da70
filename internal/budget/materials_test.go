package budget

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/testutil"
)

func TestExplodeMaterials(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	production := []ProductionRow{
		{Month: "Jan", Product: "A", ProductionUnits: 1050},
		{Month: "Feb", Product: "A", ProductionUnits: 1250},
	}
	bom := []BOMLine{
		{Product: "A", Material: "Steel", QtyPerUnit: 2, CostPerUnit: 5},
		{Product: "A", Material: "Paint", QtyPerUnit: 0.5, CostPerUnit: 4},
	}

	rows, warnings, err := calc.ExplodeMaterials(production, bom)
	if err != nil {
		t.Fatalf("ExplodeMaterials() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 2 production rows x 2 materials = 4 lines, got %d", len(rows))
	}

	steel := rows[0]
	if steel.Material != "Steel" {
		t.Fatalf("expected Steel first, got %s", steel.Material)
	}
	testutil.AssertAmount(t, "steel required", steel.TotalRequired, 2100)
	testutil.AssertAmount(t, "steel cost", steel.TotalCost, 10500)

	paint := rows[1]
	testutil.AssertAmount(t, "paint required", paint.TotalRequired, 525)
	testutil.AssertAmount(t, "paint cost", paint.TotalCost, 2100)
}

func TestExplodeMaterialsMissingBOM(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	production := []ProductionRow{
		{Month: "Jan", Product: "A", ProductionUnits: 100},
		{Month: "Feb", Product: "A", ProductionUnits: 200},
	}

	rows, warnings, err := calc.ExplodeMaterials(production, nil)
	if err != nil {
		t.Fatalf("ExplodeMaterials() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected one placeholder line per production row, got %d", len(rows))
	}
	for _, row := range rows {
		if !row.MissingBOM {
			t.Errorf("row %s/%s should be flagged MissingBOM", row.Month, row.Product)
		}
		testutil.AssertAmount(t, "placeholder cost", row.TotalCost, 0)
	}

	// One warning per product, not per row.
	if len(warnings) != 1 || !strings.Contains(warnings[0], "product A") {
		t.Errorf("expected a single warning for product A, got %v", warnings)
	}
}

func TestExplodeMaterialsNegativeProduction(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	production := []ProductionRow{{Month: "Jan", Product: "A", ProductionUnits: -350}}
	bom := []BOMLine{{Product: "A", Material: "Steel", QtyPerUnit: 2, CostPerUnit: 5}}

	rows, _, err := calc.ExplodeMaterials(production, bom)
	if err != nil {
		t.Fatalf("ExplodeMaterials() error = %v", err)
	}
	testutil.AssertAmount(t, "negative requirement", rows[0].TotalRequired, -700)
	testutil.AssertAmount(t, "negative cost", rows[0].TotalCost, -3500)
}

func TestExplodeMaterialsEmptyProduction(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	if _, _, err := calc.ExplodeMaterials(nil, nil); err == nil {
		t.Fatal("expected error for empty production plan, got nil")
	}
}
