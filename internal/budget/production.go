package budget

import (
	"fmt"

	"go.uber.org/zap"
)

type monthProduct struct {
	month   string
	product string
}

// PlanProduction left-joins the sales forecast to the stock plan and derives
// the units to produce per month and product: sales plus desired closing
// stock minus opening stock. Forecast rows without a stock plan entry are
// computed with zero stock and flagged, not dropped. Negative production is
// preserved; it represents a planned inventory drawdown.
func (c *Calculator) PlanProduction(forecast []ForecastRow, inventory []InventoryRow) ([]ProductionRow, []string, error) {
	if len(forecast) == 0 {
		return nil, nil, fmt.Errorf("%w: sales forecast", ErrMissingStage)
	}

	var warnings []string
	stock := make(map[monthProduct]InventoryRow, len(inventory))
	for _, row := range inventory {
		key := monthProduct{month: row.Month, product: row.Product}
		if _, exists := stock[key]; exists {
			warnings = append(warnings, fmt.Sprintf("duplicate stock plan row for month %s product %s ignored", row.Month, row.Product))
			continue
		}
		stock[key] = row
	}

	missing := 0
	rows := make([]ProductionRow, len(forecast))
	for i, sale := range forecast {
		row := ProductionRow{
			Month:      sale.Month,
			Product:    sale.Product,
			SalesUnits: sale.SalesUnits,
		}
		plan, ok := stock[monthProduct{month: sale.Month, product: sale.Product}]
		if ok {
			row.OpeningStock = plan.OpeningStock
			row.DesiredClosingStock = plan.DesiredClosingStock
		} else {
			row.MissingInventory = true
			missing++
			warnings = append(warnings, fmt.Sprintf("no stock plan for month %s product %s; production assumes zero stock", sale.Month, sale.Product))
		}
		row.ProductionUnits = row.SalesUnits + row.DesiredClosingStock - row.OpeningStock
		rows[i] = row
	}

	c.logger.Debug(fmt.Sprintf("planned production for %d forecast rows, %d without stock plans", len(rows), missing),
		zap.String("op", "budget.PlanProduction"),
	)

	return rows, warnings, nil
}
