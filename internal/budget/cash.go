package budget

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/mathutil"
	"github.com/finopskit/master-budget/pkg/schedule"
)

// BuildCashInputs assembles the accrual-basis monthly figures for the cash
// budget from the upstream schedules. Purchases are the month's material
// cost, wages the labor cost, and overheads the total manufacturing overhead.
// Admin, tax and capital expenditure come from the expenses table, matched on
// month label; expense rows for unknown months are reported and skipped.
func (c *Calculator) BuildCashInputs(sales *SalesSchedule, materials []MaterialRow, labor []LaborOverheadRow, expenses []ExpenseRow) (*CashInputs, []string, error) {
	if sales == nil || len(sales.Months) == 0 {
		return nil, nil, fmt.Errorf("%w: sales and collection schedule", ErrMissingStage)
	}
	if len(materials) == 0 {
		return nil, nil, fmt.Errorf("%w: material schedule", ErrMissingStage)
	}
	if len(labor) == 0 {
		return nil, nil, fmt.Errorf("%w: labor and overhead schedule", ErrMissingStage)
	}

	n := len(sales.Months)
	index := make(map[string]int, n)
	for i, m := range sales.Months {
		index[m] = i
	}

	inputs := &CashInputs{
		Months:       append([]string(nil), sales.Months...),
		Receipts:     append([]float64(nil), sales.TotalReceipts...),
		Purchases:    make([]float64, n),
		Wages:        make([]float64, n),
		Overheads:    make([]float64, n),
		AdminSelling: make([]float64, n),
		Tax:          make([]float64, n),
		Capex:        make([]float64, n),
	}

	var warnings []string
	for _, row := range materials {
		t, ok := index[row.Month]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("material row for month %s matches no forecast month; skipped", row.Month))
			continue
		}
		inputs.Purchases[t] += row.TotalCost
	}
	for _, row := range labor {
		t, ok := index[row.Month]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("labor row for month %s matches no forecast month; skipped", row.Month))
			continue
		}
		inputs.Wages[t] += row.LaborCost
		inputs.Overheads[t] += row.TotalOverhead
	}
	for _, row := range expenses {
		t, ok := index[row.Month]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("expense row for month %s matches no forecast month; skipped", row.Month))
			continue
		}
		inputs.AdminSelling[t] += row.AdminSelling
		inputs.Tax[t] += row.Tax
		inputs.Capex[t] += row.Capex
	}

	return inputs, warnings, nil
}

// CashInputsFromStatement builds cash inputs from the single-table monthly
// statement, running its revenue column through the collection scheduler.
// This is the one-shot path: no upstream schedules are required.
func (c *Calculator) CashInputsFromStatement(policy Policy, statement []StatementRow) (*CashInputs, *SalesSchedule, error) {
	if len(statement) == 0 {
		return nil, nil, fmt.Errorf("%w: monthly statement", ErrMissingStage)
	}

	synthetic := make([]ForecastRow, len(statement))
	for i, row := range statement {
		synthetic[i] = ForecastRow{Month: row.Month, SalesRevenue: row.SalesRevenue}
	}
	sales, err := c.BuildSalesSchedule(policy, synthetic)
	if err != nil {
		return nil, nil, err
	}

	n := len(sales.Months)
	index := make(map[string]int, n)
	for i, m := range sales.Months {
		index[m] = i
	}

	inputs := &CashInputs{
		Months:       append([]string(nil), sales.Months...),
		Receipts:     append([]float64(nil), sales.TotalReceipts...),
		Purchases:    make([]float64, n),
		Wages:        make([]float64, n),
		Overheads:    make([]float64, n),
		AdminSelling: make([]float64, n),
		Tax:          make([]float64, n),
		Capex:        make([]float64, n),
	}
	for _, row := range statement {
		t := index[row.Month]
		inputs.Purchases[t] += row.MaterialPurchases
		inputs.Wages[t] += row.Wages
		inputs.Overheads[t] += row.MfgOverheads
		inputs.AdminSelling[t] += row.AdminSellingExp
		inputs.Tax[t] += row.TaxPaid
		inputs.Capex[t] += row.CapitalExpenditure
	}

	return inputs, sales, nil
}

// ConsolidateCash schedules the accrual figures into cash movements and folds
// the running balance. Purchases split into an immediate portion and creditor
// lag buckets over the remainder; wages and overheads pay in their own month
// or the next per the policy timing; admin, tax and capital expenditure are
// paid in the month incurred. Depreciation is removed from overheads before
// payment, floored at zero. The closing balance of each month seeds the next
// month's opening balance, so the fold is strictly sequential.
func (c *Calculator) ConsolidateCash(policy Policy, inputs *CashInputs) (*CashBudget, error) {
	if inputs == nil || len(inputs.Months) == 0 {
		return nil, fmt.Errorf("%w: cash inputs", ErrMissingStage)
	}

	wageLag, err := schedule.LagForTiming(policy.WageTiming)
	if err != nil {
		return nil, err
	}
	overheadLag, err := schedule.LagForTiming(policy.OverheadTiming)
	if err != nil {
		return nil, err
	}

	n := len(inputs.Months)
	immediate := make([]float64, n)
	creditPurchases := make([]float64, n)
	for t, amount := range inputs.Purchases {
		immediate[t] = mathutil.ApplyPercentage(amount, policy.ImmediatePaymentPct)
		creditPurchases[t] = amount - immediate[t]
	}
	creditorPayments := schedule.Distribute(creditPurchases, policy.CreditorLags)
	purchasePayments := schedule.AddSeries(append([][]float64{immediate}, creditorPayments...)...)

	wagePayments := schedule.Shift(inputs.Wages, wageLag)

	cashOverheads := make([]float64, n)
	for t, amount := range inputs.Overheads {
		cashOverheads[t] = mathutil.ClampFloor(amount-policy.Depreciation, 0)
	}
	overheadPayments := schedule.Shift(cashOverheads, overheadLag)

	budget := &CashBudget{
		Months:           append([]string(nil), inputs.Months...),
		Receipts:         append([]float64(nil), inputs.Receipts...),
		PurchasePayments: purchasePayments,
		WagePayments:     wagePayments,
		OverheadPayments: overheadPayments,
		AdminSelling:     append([]float64(nil), inputs.AdminSelling...),
		Tax:              append([]float64(nil), inputs.Tax...),
		Capex:            append([]float64(nil), inputs.Capex...),
		TotalPayments:    make([]float64, n),
		NetFlow:          make([]float64, n),
		Opening:          make([]float64, n),
		Closing:          make([]float64, n),
	}

	balance := policy.OpeningCash
	for t := 0; t < n; t++ {
		budget.TotalPayments[t] = purchasePayments[t] + wagePayments[t] + overheadPayments[t] +
			budget.AdminSelling[t] + budget.Tax[t] + budget.Capex[t]
		budget.NetFlow[t] = budget.Receipts[t] - budget.TotalPayments[t]
		budget.Opening[t] = balance
		balance += budget.NetFlow[t]
		budget.Closing[t] = balance
	}

	c.logger.Debug(fmt.Sprintf("consolidated cash budget across %d months, closing balance %.2f", n, balance),
		zap.String("op", "budget.ConsolidateCash"),
	)

	return budget, nil
}
