// Package normalize coerces uploaded raw tables into typed numeric columns.
// Spreadsheet exports routinely arrive with currency symbols, thousands
// separators, or stray text in numeric cells; the documented failure policy
// is that such cells degrade to zero rather than aborting the upload.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finopskit/master-budget/pkg/table"
)

// currencyArtifacts removes the literal characters stripped before parsing.
// Only "$" and "," are cleaned; anything else failing to parse is treated as
// garbage and zeroed.
var currencyArtifacts = strings.NewReplacer("$", "", ",", "")

// CleanNumber parses a single cell under the cleaning policy: strip "$" and
// ",", then parse decimally. Unparseable values become 0. The parse goes
// through shopspring/decimal so that "1,234.50" survives the boundary
// exactly before the engine continues in float64.
func CleanNumber(cell string) float64 {
	trimmed := strings.TrimSpace(currencyArtifacts.Replace(cell))
	if trimmed == "" {
		return 0
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// Normalize converts the named columns of a raw table to numeric columns and
// passes every other column through as text, preserving column and row order.
// Named columns absent from the table are skipped; it is the decoder's job to
// report missing required columns. Normalize never fails: cell-level problems
// are resolved to zero here and structural problems surface downstream.
func Normalize(raw *table.Raw, numericColumns []string) *table.Clean {
	numeric := make(map[string]struct{}, len(numericColumns))
	for _, c := range numericColumns {
		numeric[c] = struct{}{}
	}

	clean := table.NewClean(raw.Len())
	for col, name := range raw.Columns {
		if _, isNumeric := numeric[name]; isNumeric {
			values := make([]float64, raw.Len())
			for row := range raw.Rows {
				values[row] = CleanNumber(raw.Cell(row, col))
			}
			clean.SetNumeric(name, values)
			continue
		}
		values := make([]string, raw.Len())
		for row := range raw.Rows {
			values[row] = strings.TrimSpace(raw.Cell(row, col))
		}
		clean.SetText(name, values)
	}
	return clean
}
