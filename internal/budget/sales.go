package budget

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finopskit/master-budget/pkg/mathutil"
	"github.com/finopskit/master-budget/pkg/schedule"
	"github.com/finopskit/master-budget/pkg/table"
)

// BuildSalesSchedule aggregates forecast revenue by month and splits it into
// immediate cash sales and lagged credit collections under the policy.
// Months keep their order of first appearance in the forecast; they are
// labels, not dates, and are never sorted.
func (c *Calculator) BuildSalesSchedule(policy Policy, forecast []ForecastRow) (*SalesSchedule, error) {
	if len(forecast) == 0 {
		return nil, fmt.Errorf("%w: sales forecast", ErrMissingStage)
	}

	labels := make([]string, len(forecast))
	for i, row := range forecast {
		labels[i] = row.Month
	}
	monthLabels := table.OrderedUnique(labels)
	index := make(map[string]int, len(monthLabels))
	for i, m := range monthLabels {
		index[m] = i
	}

	revenue := make([]float64, len(monthLabels))
	for _, row := range forecast {
		revenue[index[row.Month]] += row.SalesRevenue
	}

	cash := make([]float64, len(revenue))
	credit := make([]float64, len(revenue))
	for t, rev := range revenue {
		cash[t] = mathutil.ApplyPercentage(rev, policy.CashSalesPct)
		credit[t] = rev - cash[t]
	}

	collections := schedule.Distribute(credit, policy.Collections)
	total := schedule.AddSeries(append([][]float64{cash}, collections...)...)

	c.logger.Debug(fmt.Sprintf("scheduled collections across %d months and %d lag buckets", len(monthLabels), len(policy.Collections)),
		zap.String("op", "budget.BuildSalesSchedule"),
	)

	return &SalesSchedule{
		Months:        monthLabels,
		Revenue:       revenue,
		CashSales:     cash,
		CreditSales:   credit,
		Buckets:       append([]schedule.LagBucket(nil), policy.Collections...),
		Collections:   collections,
		TotalReceipts: total,
	}, nil
}
