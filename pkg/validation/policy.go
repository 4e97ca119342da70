// Package validation provides budget policy validation utilities.
package validation

import (
	"fmt"

	"github.com/finopskit/master-budget/pkg/constants"
)

// ValidatePercentage checks that a named policy percentage sits on the 0-100 scale.
func ValidatePercentage(name string, pct float64) error {
	if pct < 0 || pct > constants.FullSplitPct {
		return fmt.Errorf("%s must be between 0 and 100, got %.4g", name, pct)
	}
	return nil
}

// ValidateNonNegative checks that a named policy amount is not negative.
func ValidateNonNegative(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be non-negative, got %.4g", name, value)
	}
	return nil
}

// ValidateAllocBase checks if the fixed-overhead allocation base is one of the
// supported modes.
func ValidateAllocBase(base string) error {
	if base != constants.AllocBaseProducts && base != constants.AllocBaseRows {
		return fmt.Errorf("expected allocation base of %s or %s, got %s",
			constants.AllocBaseProducts, constants.AllocBaseRows, base)
	}
	return nil
}
