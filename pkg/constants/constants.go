// Package constants provides shared constants for the master-budget application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions; all policy
	// percentages are expressed on the 0-100 scale
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// FullSplitPct is what a complete percentage split sums to
	FullSplitPct = 100.0

	// SplitTolerancePct is the slack allowed before a percentage split is
	// reported as inconsistent
	SplitTolerancePct = 0.01
)

// Payment timing values for wages and overheads
const (
	// TimingSameMonth pays an expense in the month it is incurred
	TimingSameMonth = "same-month"

	// TimingNextMonth pays an expense one month after it is incurred
	TimingNextMonth = "next-month"
)

// Fixed-overhead allocation bases
const (
	// AllocBaseProducts divides the monthly fixed overhead by the number of
	// distinct products in the production table
	AllocBaseProducts = "products"

	// AllocBaseRows divides the monthly fixed overhead equally across the
	// product rows of each month
	AllocBaseRows = "rows"
)

// Default policy values, matching the published input templates
const (
	DefaultCashSalesPct        = 20.0
	DefaultImmediatePaymentPct = 10.0
	DefaultDepreciation        = 2000.0
	DefaultOpeningCash         = 10000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for
	// uploaded tables (2 MB)
	DefaultMaxUploadSizeBytes int64 = 2 * 1024 * 1024
)
