// Package months provides calendar month-label helpers. The budgeting engine
// treats months as ordered categorical labels taken from the uploaded tables;
// this package only generates canonical label sequences for templates and
// test fixtures.
package months

import (
	"fmt"
	"strings"

	"github.com/finopskit/master-budget/pkg/constants"
)

// Names holds the short English month names in calendar order.
var Names = [constants.MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Index returns the zero-based calendar position of a short month name,
// matching case-insensitively. Unknown labels return -1.
func Index(name string) int {
	for i, n := range Names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// Sequence returns n consecutive month labels starting at the given label,
// wrapping past December. It errors on unknown start labels so that template
// generation cannot silently emit a broken header row.
func Sequence(start string, n int) ([]string, error) {
	idx := Index(start)
	if idx < 0 {
		return nil, fmt.Errorf("unknown month label %q", start)
	}
	if n < 0 {
		return nil, fmt.Errorf("sequence length must be non-negative, got %d", n)
	}
	seq := make([]string, n)
	for i := 0; i < n; i++ {
		seq[i] = Names[(idx+i)%constants.MonthsPerYear]
	}
	return seq, nil
}

// MustSequence is Sequence for callers with known-good labels, e.g. template
// construction and tests.
func MustSequence(start string, n int) []string {
	seq, err := Sequence(start, n)
	if err != nil {
		panic(err)
	}
	return seq
}
