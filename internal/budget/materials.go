package budget

import (
	"fmt"

	"go.uber.org/zap"
)

// ExplodeMaterials expands the production plan against the bill of materials.
// Each production row fans out to one line per material of its product; the
// join is deliberately one-to-many. Products without any bill of materials
// keep a single zero-cost line flagged MissingBOM so the production quantity
// stays visible in the material schedule.
func (c *Calculator) ExplodeMaterials(production []ProductionRow, bom []BOMLine) ([]MaterialRow, []string, error) {
	if len(production) == 0 {
		return nil, nil, fmt.Errorf("%w: production plan", ErrMissingStage)
	}

	lines := make(map[string][]BOMLine)
	for _, line := range bom {
		lines[line.Product] = append(lines[line.Product], line)
	}

	var warnings []string
	warned := make(map[string]struct{})
	var rows []MaterialRow
	for _, plan := range production {
		productLines, ok := lines[plan.Product]
		if !ok {
			if _, seen := warned[plan.Product]; !seen {
				warned[plan.Product] = struct{}{}
				warnings = append(warnings, fmt.Sprintf("no bill of materials for product %s; material cost is zero", plan.Product))
			}
			rows = append(rows, MaterialRow{
				Month:           plan.Month,
				Product:         plan.Product,
				ProductionUnits: plan.ProductionUnits,
				MissingBOM:      true,
			})
			continue
		}
		for _, line := range productLines {
			required := plan.ProductionUnits * line.QtyPerUnit
			rows = append(rows, MaterialRow{
				Month:           plan.Month,
				Product:         plan.Product,
				Material:        line.Material,
				ProductionUnits: plan.ProductionUnits,
				QtyPerUnit:      line.QtyPerUnit,
				TotalRequired:   required,
				CostPerUnit:     line.CostPerUnit,
				TotalCost:       required * line.CostPerUnit,
			})
		}
	}

	c.logger.Debug(fmt.Sprintf("exploded %d production rows into %d material lines", len(production), len(rows)),
		zap.String("op", "budget.ExplodeMaterials"),
	)

	return rows, warnings, nil
}
