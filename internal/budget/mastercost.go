package budget

import (
	"fmt"

	"go.uber.org/zap"
)

// ConsolidateMasterCost joins the material, labor, and overhead schedules
// into one production cost line per month and product. Material lines are
// summed to the (month, product) level first; the labor schedule supplies
// the row order because it is one-to-one with the production plan. A wholly
// absent upstream schedule is an error, never silently zero-filled.
func (c *Calculator) ConsolidateMasterCost(materials []MaterialRow, labor []LaborOverheadRow) ([]MasterCostRow, error) {
	if len(materials) == 0 {
		return nil, fmt.Errorf("%w: material schedule", ErrMissingStage)
	}
	if len(labor) == 0 {
		return nil, fmt.Errorf("%w: labor and overhead schedule", ErrMissingStage)
	}

	materialCost := make(map[monthProduct]float64, len(labor))
	for _, row := range materials {
		materialCost[monthProduct{month: row.Month, product: row.Product}] += row.TotalCost
	}

	rows := make([]MasterCostRow, len(labor))
	for i, lab := range labor {
		material := materialCost[monthProduct{month: lab.Month, product: lab.Product}]
		rows[i] = MasterCostRow{
			Month:               lab.Month,
			Product:             lab.Product,
			MaterialCost:        material,
			LaborCost:           lab.LaborCost,
			OverheadCost:        lab.TotalOverhead,
			TotalProductionCost: material + lab.LaborCost + lab.TotalOverhead,
		}
	}

	c.logger.Debug(fmt.Sprintf("consolidated production cost for %d rows", len(rows)),
		zap.String("op", "budget.ConsolidateMasterCost"),
	)

	return rows, nil
}
