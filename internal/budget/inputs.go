package budget

import (
	"github.com/finopskit/master-budget/pkg/normalize"
	"github.com/finopskit/master-budget/pkg/table"
)

// numColumn fetches a numeric column, substituting zeros when an optional
// column was not uploaded.
func numColumn(clean *table.Clean, column string) []float64 {
	if v, ok := clean.Num(column); ok {
		return v
	}
	return make([]float64, clean.Len())
}

// strColumn fetches a text column, substituting empty labels when absent.
func strColumn(clean *table.Clean, column string) []string {
	if v, ok := clean.Str(column); ok {
		return v
	}
	return make([]string, clean.Len())
}

// DecodeCVP maps an uploaded cost-volume-profit table to typed rows.
func DecodeCVP(raw *table.Raw) ([]CVPInput, error) {
	if err := raw.RequireColumns("Product", "SellingPrice", "VariableCost", "FixedCost"); err != nil {
		return nil, err
	}
	clean := normalize.Normalize(raw, []string{"SellingPrice", "VariableCost", "FixedCost"})

	product := strColumn(clean, "Product")
	price := numColumn(clean, "SellingPrice")
	variable := numColumn(clean, "VariableCost")
	fixed := numColumn(clean, "FixedCost")

	rows := make([]CVPInput, clean.Len())
	for i := range rows {
		rows[i] = CVPInput{
			Product:      product[i],
			SellingPrice: price[i],
			VariableCost: variable[i],
			FixedCost:    fixed[i],
		}
	}
	return rows, nil
}

// DecodeForecast maps an uploaded sales forecast to typed rows. Revenue is
// taken from a SalesRevenue column when one is present; otherwise the table
// must carry units and prices and revenue is derived per row.
func DecodeForecast(raw *table.Raw) ([]ForecastRow, error) {
	if err := raw.RequireColumns("Month", "Product"); err != nil {
		return nil, err
	}
	hasRevenue := raw.Index("SalesRevenue") >= 0
	if !hasRevenue {
		if err := raw.RequireColumns("SalesUnits", "SellingPrice"); err != nil {
			return nil, err
		}
	}
	clean := normalize.Normalize(raw, []string{"SalesUnits", "SellingPrice", "SalesRevenue"})

	month := strColumn(clean, "Month")
	product := strColumn(clean, "Product")
	units := numColumn(clean, "SalesUnits")
	price := numColumn(clean, "SellingPrice")
	revenue := numColumn(clean, "SalesRevenue")

	rows := make([]ForecastRow, clean.Len())
	for i := range rows {
		rows[i] = ForecastRow{
			Month:        month[i],
			Product:      product[i],
			SalesUnits:   units[i],
			SellingPrice: price[i],
			SalesRevenue: revenue[i],
		}
		if !hasRevenue {
			rows[i].SalesRevenue = units[i] * price[i]
		}
	}
	return rows, nil
}

// DecodeInventory maps an uploaded stock plan to typed rows.
func DecodeInventory(raw *table.Raw) ([]InventoryRow, error) {
	if err := raw.RequireColumns("Month", "Product", "OpeningStock", "DesiredClosingStock"); err != nil {
		return nil, err
	}
	clean := normalize.Normalize(raw, []string{"OpeningStock", "DesiredClosingStock"})

	month := strColumn(clean, "Month")
	product := strColumn(clean, "Product")
	opening := numColumn(clean, "OpeningStock")
	closing := numColumn(clean, "DesiredClosingStock")

	rows := make([]InventoryRow, clean.Len())
	for i := range rows {
		rows[i] = InventoryRow{
			Month:               month[i],
			Product:             product[i],
			OpeningStock:        opening[i],
			DesiredClosingStock: closing[i],
		}
	}
	return rows, nil
}

// DecodeBOM maps an uploaded bill of materials to typed lines.
func DecodeBOM(raw *table.Raw) ([]BOMLine, error) {
	if err := raw.RequireColumns("Product", "Material", "QtyPerUnit", "CostPerUnit"); err != nil {
		return nil, err
	}
	clean := normalize.Normalize(raw, []string{"QtyPerUnit", "CostPerUnit"})

	product := strColumn(clean, "Product")
	material := strColumn(clean, "Material")
	qty := numColumn(clean, "QtyPerUnit")
	cost := numColumn(clean, "CostPerUnit")

	rows := make([]BOMLine, clean.Len())
	for i := range rows {
		rows[i] = BOMLine{
			Product:     product[i],
			Material:    material[i],
			QtyPerUnit:  qty[i],
			CostPerUnit: cost[i],
		}
	}
	return rows, nil
}

// DecodeRates maps an uploaded rate table to typed rows. The variable
// overhead column is optional; a rate row with no such column carries zero
// variable overhead for its product.
func DecodeRates(raw *table.Raw) ([]RateRow, error) {
	if err := raw.RequireColumns("Product", "HoursPerUnit", "HourlyRate"); err != nil {
		return nil, err
	}
	clean := normalize.Normalize(raw, []string{"HoursPerUnit", "HourlyRate", "VariableOverheadRate"})

	product := strColumn(clean, "Product")
	hours := numColumn(clean, "HoursPerUnit")
	rate := numColumn(clean, "HourlyRate")
	varOH := numColumn(clean, "VariableOverheadRate")

	rows := make([]RateRow, clean.Len())
	for i := range rows {
		rows[i] = RateRow{
			Product:              product[i],
			HoursPerUnit:         hours[i],
			HourlyRate:           rate[i],
			VariableOverheadRate: varOH[i],
		}
	}
	return rows, nil
}

// DecodeExpenses maps an uploaded expense table to typed rows. Each expense
// column is optional and reads as zero when absent.
func DecodeExpenses(raw *table.Raw) ([]ExpenseRow, error) {
	if err := raw.RequireColumns("Month"); err != nil {
		return nil, err
	}
	clean := normalize.Normalize(raw, []string{"AdminSelling", "Tax", "Capex"})

	month := strColumn(clean, "Month")
	admin := numColumn(clean, "AdminSelling")
	tax := numColumn(clean, "Tax")
	capex := numColumn(clean, "Capex")

	rows := make([]ExpenseRow, clean.Len())
	for i := range rows {
		rows[i] = ExpenseRow{
			Month:        month[i],
			AdminSelling: admin[i],
			Tax:          tax[i],
			Capex:        capex[i],
		}
	}
	return rows, nil
}

// DecodeStatement maps the single-table monthly statement to typed rows.
// Admin, tax and capital expenditure columns are optional.
func DecodeStatement(raw *table.Raw) ([]StatementRow, error) {
	if err := raw.RequireColumns("Month", "Sales_Revenue", "Material_Purchases", "Wages", "Mfg_Overheads"); err != nil {
		return nil, err
	}
	clean := normalize.Normalize(raw, []string{
		"Sales_Revenue", "Material_Purchases", "Wages", "Mfg_Overheads",
		"Admin_Selling_Exp", "Tax_Paid", "Capital_Expenditure",
	})

	month := strColumn(clean, "Month")
	revenue := numColumn(clean, "Sales_Revenue")
	purchases := numColumn(clean, "Material_Purchases")
	wages := numColumn(clean, "Wages")
	overheads := numColumn(clean, "Mfg_Overheads")
	admin := numColumn(clean, "Admin_Selling_Exp")
	tax := numColumn(clean, "Tax_Paid")
	capex := numColumn(clean, "Capital_Expenditure")

	rows := make([]StatementRow, clean.Len())
	for i := range rows {
		rows[i] = StatementRow{
			Month:              month[i],
			SalesRevenue:       revenue[i],
			MaterialPurchases:  purchases[i],
			Wages:              wages[i],
			MfgOverheads:       overheads[i],
			AdminSellingExp:    admin[i],
			TaxPaid:            tax[i],
			CapitalExpenditure: capex[i],
		}
	}
	return rows, nil
}
