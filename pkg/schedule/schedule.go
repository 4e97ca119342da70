// Package schedule implements time-lagged distribution of credit balances
// across an ordered sequence of months. Both the receivables side (sales
// collections) and the payables side (creditor payments) share the same
// mechanics: a credit balance arises in month t and converts to cash in
// later months according to an ordered list of lag buckets.
package schedule

import (
	"fmt"

	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/mathutil"
)

// LagBucket schedules a fraction of a credit balance for settlement a fixed
// number of months after it arises. Pct is on the 0-100 scale and applies to
// the credit balance, not to total revenue.
type LagBucket struct {
	LagMonths int     `yaml:"lagMonths" json:"lagMonths" mapstructure:"lagMonths"`
	Pct       float64 `yaml:"pct" json:"pct" mapstructure:"pct"`
}

// Shift returns the series delayed by lag months. Positions before the
// forecast horizon read as zero: no cash is attributable to periods that
// predate the uploaded data. Shift always allocates a fresh slice.
func Shift(series []float64, lag int) []float64 {
	out := make([]float64, len(series))
	if lag < 0 {
		lag = 0
	}
	for t := lag; t < len(series); t++ {
		out[t] = series[t-lag]
	}
	return out
}

// Distribute applies each bucket to the credit base, producing one settled
// series per bucket: result[b][t] = base[t-lag(b)] * pct(b)/100, zero before
// the horizon. Bucket order is preserved for display.
func Distribute(base []float64, buckets []LagBucket) [][]float64 {
	out := make([][]float64, len(buckets))
	for b, bucket := range buckets {
		shifted := Shift(base, bucket.LagMonths)
		for t := range shifted {
			shifted[t] = mathutil.ApplyPercentage(shifted[t], bucket.Pct)
		}
		out[b] = shifted
	}
	return out
}

// AddSeries sums any number of equal-length series elementwise. A nil result
// means no series were given.
func AddSeries(series ...[]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for _, s := range series {
		for t := 0; t < len(out) && t < len(s); t++ {
			out[t] += s[t]
		}
	}
	return out
}

// ValidateSplit checks a bucket list for structural problems and for the
// 100% invariant. Bucket percentages summing below 100 leave part of the
// credit balance permanently unsettled; that is legitimate policy (bad debt)
// and comes back as a warning. Summing above 100 fabricates cash and is a
// configuration error. The split is never silently renormalized.
func ValidateSplit(label string, buckets []LagBucket) (string, error) {
	sum := 0.0
	for i, bucket := range buckets {
		if bucket.LagMonths < 0 {
			return "", fmt.Errorf("%s bucket %d: lag must be zero or more months, got %d", label, i+1, bucket.LagMonths)
		}
		if bucket.Pct < 0 {
			return "", fmt.Errorf("%s bucket %d: percentage must be non-negative, got %.4g", label, i+1, bucket.Pct)
		}
		sum += bucket.Pct
	}

	if sum > constants.FullSplitPct+constants.SplitTolerancePct {
		return "", fmt.Errorf("%s buckets sum to %.4g%% of the credit balance, which exceeds 100%%", label, sum)
	}
	if len(buckets) > 0 && sum < constants.FullSplitPct-constants.SplitTolerancePct {
		return fmt.Sprintf("%s buckets cover %.4g%% of the credit balance; the remaining %.4g%% never converts to cash",
			label, sum, constants.FullSplitPct-sum), nil
	}
	return "", nil
}

// LagForTiming maps a payment-timing flag to its month lag.
func LagForTiming(timing string) (int, error) {
	switch timing {
	case constants.TimingSameMonth:
		return 0, nil
	case constants.TimingNextMonth:
		return 1, nil
	default:
		return 0, fmt.Errorf("expected payment timing of %s or %s, got %q",
			constants.TimingSameMonth, constants.TimingNextMonth, timing)
	}
}
