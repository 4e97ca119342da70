package budget

import (
	"fmt"

	"go.uber.org/zap"
)

// Calculator computes the budgeting schedules. Instances are stateless apart
// from the logger and safe for concurrent use.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a calculator. A nil logger is replaced with a no-op
// logger.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Run executes the budgeting chain for whatever inputs are present. The CVP
// analysis is independent and computed whenever its table was uploaded. The
// chain itself needs only the sales forecast: a missing stock plan, bill of
// materials, rate table, or expense table degrades to the documented lenient
// behavior of its stage, surfacing warnings instead of failing. Run is a pure
// function of (policy, inputs); identical inputs produce identical results.
func Run(logger *zap.Logger, policy Policy, inputs Inputs) (*Results, error) {
	return NewCalculator(logger).Run(policy, inputs)
}

// Run implements the package-level Run; see its documentation.
func (c *Calculator) Run(policy Policy, inputs Inputs) (*Results, error) {
	results := &Results{}

	if len(inputs.CVP) > 0 {
		cvp, err := c.ComputeCVP(inputs.CVP)
		if err != nil {
			return nil, err
		}
		results.CVP = cvp
	}

	if len(inputs.Forecast) == 0 {
		if results.CVP == nil {
			return nil, fmt.Errorf("%w: upload a cost-volume-profit table or a sales forecast", ErrMissingStage)
		}
		c.logger.Debug("no sales forecast uploaded, returning CVP analysis only",
			zap.String("op", "budget.Run"),
		)
		return results, nil
	}

	sales, err := c.BuildSalesSchedule(policy, inputs.Forecast)
	if err != nil {
		return nil, err
	}
	results.Sales = sales

	production, warnings, err := c.PlanProduction(inputs.Forecast, inputs.Inventory)
	if err != nil {
		return nil, err
	}
	results.Production = production
	results.Warnings = append(results.Warnings, warnings...)

	materials, warnings, err := c.ExplodeMaterials(production, inputs.BOM)
	if err != nil {
		return nil, err
	}
	results.Materials = materials
	results.Warnings = append(results.Warnings, warnings...)

	labor, err := c.ComputeLaborOverhead(policy, production, inputs.Rates)
	if err != nil {
		return nil, err
	}
	results.Labor = labor

	cashInputs, warnings, err := c.BuildCashInputs(sales, materials, labor, inputs.Expenses)
	if err != nil {
		return nil, err
	}
	results.Warnings = append(results.Warnings, warnings...)

	cash, err := c.ConsolidateCash(policy, cashInputs)
	if err != nil {
		return nil, err
	}
	results.Cash = cash

	masterCost, err := c.ConsolidateMasterCost(materials, labor)
	if err != nil {
		return nil, err
	}
	results.MasterCost = masterCost

	return results, nil
}

// RunStatement executes the one-shot path: a single monthly statement plus a
// policy yields the collection schedule and consolidated cash budget.
func RunStatement(logger *zap.Logger, policy Policy, statement []StatementRow) (*Results, error) {
	c := NewCalculator(logger)

	inputs, sales, err := c.CashInputsFromStatement(policy, statement)
	if err != nil {
		return nil, err
	}
	cash, err := c.ConsolidateCash(policy, inputs)
	if err != nil {
		return nil, err
	}

	return &Results{Sales: sales, Cash: cash}, nil
}
