package budget

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/table"
)

// ComputeLaborOverhead derives labor hours, labor cost, and manufacturing
// overhead per production row. Products with a rate-table row use that row's
// figures verbatim, including explicit zeros; products without one fall back
// to the global policy rates.
//
// The monthly fixed overhead is allocated per row according to the policy
// base: "products" divides by the number of distinct products in the plan,
// "rows" divides by the number of product rows within the row's month.
func (c *Calculator) ComputeLaborOverhead(policy Policy, production []ProductionRow, rates []RateRow) ([]LaborOverheadRow, error) {
	if len(production) == 0 {
		return nil, fmt.Errorf("%w: production plan", ErrMissingStage)
	}

	rateByProduct := make(map[string]RateRow, len(rates))
	for _, rate := range rates {
		if _, exists := rateByProduct[rate.Product]; !exists {
			rateByProduct[rate.Product] = rate
		}
	}

	products := make([]string, len(production))
	rowsPerMonth := make(map[string]int)
	for i, plan := range production {
		products[i] = plan.Product
		rowsPerMonth[plan.Month]++
	}
	distinctProducts := len(table.OrderedUnique(products))

	rows := make([]LaborOverheadRow, len(production))
	for i, plan := range production {
		hoursPerUnit := policy.LaborHoursPerUnit
		hourlyRate := policy.LaborRate
		varRate := policy.VariableOverheadRate
		if rate, ok := rateByProduct[plan.Product]; ok {
			hoursPerUnit = rate.HoursPerUnit
			hourlyRate = rate.HourlyRate
			varRate = rate.VariableOverheadRate
		}

		var allocation float64
		switch policy.FixedAllocBase {
		case constants.AllocBaseRows:
			allocation = policy.FixedOverhead / float64(rowsPerMonth[plan.Month])
		default:
			allocation = policy.FixedOverhead / float64(distinctProducts)
		}

		row := LaborOverheadRow{
			Month:                   plan.Month,
			Product:                 plan.Product,
			ProductionUnits:         plan.ProductionUnits,
			HoursPerUnit:            hoursPerUnit,
			LaborHours:              plan.ProductionUnits * hoursPerUnit,
			HourlyRate:              hourlyRate,
			VariableOverheadRate:    varRate,
			VariableOverhead:        plan.ProductionUnits * varRate,
			FixedOverheadAllocation: allocation,
		}
		row.LaborCost = row.LaborHours * hourlyRate
		row.TotalOverhead = row.VariableOverhead + row.FixedOverheadAllocation
		rows[i] = row
	}

	c.logger.Debug(fmt.Sprintf("computed labor and overhead for %d rows using %d product rate overrides", len(rows), len(rateByProduct)),
		zap.String("op", "budget.ComputeLaborOverhead"),
	)

	return rows, nil
}
