package budget

import (
	"strings"
	"testing"

	"github.com/finopskit/master-budget/pkg/testutil"
)

func TestDecodeCVP(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Product", "SellingPrice", "VariableCost", "FixedCost"},
		[]string{"A", "$100", "60", "50,000"},
	)

	rows, err := DecodeCVP(raw)
	if err != nil {
		t.Fatalf("DecodeCVP() error = %v", err)
	}
	if rows[0].Product != "A" {
		t.Errorf("expected product A, got %q", rows[0].Product)
	}
	testutil.AssertAmount(t, "selling price", rows[0].SellingPrice, 100)
	testutil.AssertAmount(t, "fixed cost", rows[0].FixedCost, 50000)
}

func TestDecodeCVPMissingColumns(t *testing.T) {
	raw := testutil.RawTable([]string{"Product", "SellingPrice"}, []string{"A", "100"})

	_, err := DecodeCVP(raw)
	if err == nil {
		t.Fatal("expected error for missing columns, got nil")
	}
	// Every missing column appears in the one error.
	if !strings.Contains(err.Error(), "VariableCost") || !strings.Contains(err.Error(), "FixedCost") {
		t.Errorf("expected both missing columns to be named, got %q", err.Error())
	}
}

func TestDecodeForecastDerivesRevenue(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Month", "Product", "SalesUnits", "SellingPrice"},
		[]string{"Jan", "A", "1000", "100"},
	)

	rows, err := DecodeForecast(raw)
	if err != nil {
		t.Fatalf("DecodeForecast() error = %v", err)
	}
	testutil.AssertAmount(t, "derived revenue", rows[0].SalesRevenue, 100000)
}

func TestDecodeForecastPreAggregatedRevenue(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Month", "Product", "SalesRevenue"},
		[]string{"Jan", "A", "$123,456"},
	)

	rows, err := DecodeForecast(raw)
	if err != nil {
		t.Fatalf("DecodeForecast() error = %v", err)
	}
	testutil.AssertAmount(t, "revenue", rows[0].SalesRevenue, 123456)
	testutil.AssertAmount(t, "units", rows[0].SalesUnits, 0)
}

func TestDecodeForecastRequiresUnitsWithoutRevenue(t *testing.T) {
	raw := testutil.RawTable([]string{"Month", "Product"}, []string{"Jan", "A"})

	if _, err := DecodeForecast(raw); err == nil {
		t.Fatal("expected error when neither revenue nor units and prices are present")
	}
}

func TestDecodeForecastGarbageCellsBecomeZero(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Month", "Product", "SalesUnits", "SellingPrice"},
		[]string{"Jan", "A", "n/a", "100"},
	)

	rows, err := DecodeForecast(raw)
	if err != nil {
		t.Fatalf("DecodeForecast() error = %v", err)
	}
	testutil.AssertAmount(t, "units", rows[0].SalesUnits, 0)
	testutil.AssertAmount(t, "revenue", rows[0].SalesRevenue, 0)
}

func TestDecodeRatesOptionalOverheadColumn(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Product", "HoursPerUnit", "HourlyRate"},
		[]string{"A", "2", "15"},
	)

	rows, err := DecodeRates(raw)
	if err != nil {
		t.Fatalf("DecodeRates() error = %v", err)
	}
	testutil.AssertAmount(t, "hours", rows[0].HoursPerUnit, 2)
	testutil.AssertAmount(t, "variable overhead", rows[0].VariableOverheadRate, 0)
}

func TestDecodeExpensesOptionalColumns(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Month", "AdminSelling"},
		[]string{"Jan", "5000"},
	)

	rows, err := DecodeExpenses(raw)
	if err != nil {
		t.Fatalf("DecodeExpenses() error = %v", err)
	}
	testutil.AssertAmount(t, "admin", rows[0].AdminSelling, 5000)
	testutil.AssertAmount(t, "tax", rows[0].Tax, 0)
	testutil.AssertAmount(t, "capex", rows[0].Capex, 0)
}

func TestDecodeStatement(t *testing.T) {
	raw := testutil.RawTable(
		[]string{"Month", "Sales_Revenue", "Material_Purchases", "Wages", "Mfg_Overheads", "Admin_Selling_Exp", "Tax_Paid", "Capital_Expenditure"},
		[]string{"Jan", "$100,000", "40000", "20000", "10000", "5000", "0", "0"},
	)

	rows, err := DecodeStatement(raw)
	if err != nil {
		t.Fatalf("DecodeStatement() error = %v", err)
	}
	testutil.AssertAmount(t, "revenue", rows[0].SalesRevenue, 100000)
	testutil.AssertAmount(t, "purchases", rows[0].MaterialPurchases, 40000)
}

func TestDecodeStatementMissingColumns(t *testing.T) {
	raw := testutil.RawTable([]string{"Month", "Sales_Revenue"}, []string{"Jan", "100000"})

	_, err := DecodeStatement(raw)
	if err == nil {
		t.Fatal("expected error for missing columns, got nil")
	}
	for _, col := range []string{"Material_Purchases", "Wages", "Mfg_Overheads"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("expected error to name %s, got %q", col, err.Error())
		}
	}
}

func TestDecodeInventoryAndBOM(t *testing.T) {
	inventory, err := DecodeInventory(testutil.RawTable(
		[]string{"Month", "Product", "OpeningStock", "DesiredClosingStock"},
		[]string{"Jan", "A", "50", "100"},
	))
	if err != nil {
		t.Fatalf("DecodeInventory() error = %v", err)
	}
	testutil.AssertAmount(t, "opening stock", inventory[0].OpeningStock, 50)

	bom, err := DecodeBOM(testutil.RawTable(
		[]string{"Product", "Material", "QtyPerUnit", "CostPerUnit"},
		[]string{"A", "Steel", "2", "$5.00"},
	))
	if err != nil {
		t.Fatalf("DecodeBOM() error = %v", err)
	}
	if bom[0].Material != "Steel" {
		t.Errorf("expected Steel, got %q", bom[0].Material)
	}
	testutil.AssertAmount(t, "cost per unit", bom[0].CostPerUnit, 5)
}
