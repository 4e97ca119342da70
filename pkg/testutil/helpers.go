// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/mathutil"
	"github.com/finopskit/master-budget/pkg/table"
)

// AssertSeries fails the test when two monthly series differ in length or by
// more than the currency tolerance in any month.
func AssertSeries(t *testing.T, name string, got, expected []float64) {
	t.Helper()

	if len(got) != len(expected) {
		t.Errorf("%s: expected %d months, got %d", name, len(expected), len(got))
		return
	}
	for i := range expected {
		if !mathutil.WithinTolerance(got[i], expected[i], constants.CurrencyTolerance) {
			t.Errorf("%s month %d: expected %v, got %v", name, i, expected[i], got[i])
		}
	}
}

// AssertAmount fails the test when a single amount differs from the expected
// value by more than the currency tolerance.
func AssertAmount(t *testing.T, name string, got, expected float64) {
	t.Helper()

	if !mathutil.WithinTolerance(got, expected, constants.CurrencyTolerance) {
		t.Errorf("%s: expected %v, got %v", name, expected, got)
	}
}

// RawTable builds a raw table literal for decoder tests.
func RawTable(columns []string, rows ...[]string) *table.Raw {
	return &table.Raw{Columns: columns, Rows: rows}
}
