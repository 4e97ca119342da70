package budget

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/mathutil"
)

// finitePtr boxes a finite value; non-finite results map to nil so that JSON
// encodes them as null instead of failing on Inf or NaN.
func finitePtr(v float64) *float64 {
	if !mathutil.IsFinite(v) {
		return nil
	}
	return &v
}

// ComputeCVP derives contribution, profit-volume ratio, and break-even units
// for each product line. The divisions follow IEEE arithmetic: a zero selling
// price or zero contribution produces a non-finite ratio, and the row is
// flagged degenerate rather than dropped or treated as an error.
func (c *Calculator) ComputeCVP(inputs []CVPInput) ([]CVPRow, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: cost-volume-profit table", ErrMissingStage)
	}

	rows := make([]CVPRow, len(inputs))
	for i, in := range inputs {
		contribution := in.SellingPrice - in.VariableCost
		pvRatio := contribution / in.SellingPrice * constants.PercentageMultiplier
		breakEven := in.FixedCost / contribution

		row := CVPRow{
			Product:        in.Product,
			SellingPrice:   in.SellingPrice,
			VariableCost:   in.VariableCost,
			FixedCost:      in.FixedCost,
			Contribution:   contribution,
			PVRatio:        finitePtr(pvRatio),
			BreakEvenUnits: finitePtr(breakEven),
		}
		row.Degenerate = row.PVRatio == nil || row.BreakEvenUnits == nil
		if row.Degenerate {
			c.logger.Debug(fmt.Sprintf("product %s has a degenerate CVP ratio", in.Product),
				zap.String("op", "budget.ComputeCVP"),
			)
		}
		rows[i] = row
	}

	return rows, nil
}
