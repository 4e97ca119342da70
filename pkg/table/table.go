// Package table defines the tabular data model shared by the upload, cleaning,
// and budgeting layers. A Raw table is the string grid exactly as uploaded; a
// Clean table is the same grid after numeric coercion, with every column typed
// as either numeric or text. Column order and row order are preserved
// throughout: months are ordered categorical labels and downstream lag
// arithmetic depends on row order, so nothing here ever sorts.
package table

import (
	"fmt"
	"strings"
)

// Raw is an uploaded table before any cleaning: an ordered header row plus
// string cells. Rows are expected to be rectangular; short rows read as empty
// cells rather than errors, matching the tolerant upload policy.
type Raw struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (r *Raw) Len() int {
	return len(r.Rows)
}

// Index returns the position of a column, or -1 when absent.
func (r *Raw) Index(column string) int {
	for i, c := range r.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, column index), tolerating ragged rows by
// returning the empty string.
func (r *Raw) Cell(row, col int) string {
	if row < 0 || row >= len(r.Rows) || col < 0 || col >= len(r.Rows[row]) {
		return ""
	}
	return r.Rows[row][col]
}

// RequireColumns verifies that every named column is present and reports all
// missing ones in a single descriptive error, so a misheaded upload tells the
// user exactly what to fix instead of failing on the first gap.
func (r *Raw) RequireColumns(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if r.Index(c) < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s) %s; uploaded columns are %s",
			strings.Join(missing, ", "), strings.Join(r.Columns, ", "))
	}
	return nil
}

// Clean is a table whose columns have been resolved to concrete types:
// numeric columns hold float64 values, all others keep their original text.
type Clean struct {
	numeric map[string][]float64
	text    map[string][]string
	n       int
}

// NewClean builds an empty Clean table with the given row count. Columns are
// registered afterwards via SetNumeric / SetText.
func NewClean(n int) *Clean {
	return &Clean{
		numeric: make(map[string][]float64),
		text:    make(map[string][]string),
		n:       n,
	}
}

// Len returns the number of data rows.
func (c *Clean) Len() int {
	return c.n
}

// SetNumeric registers a numeric column. The slice is stored as-is; callers
// hand over ownership.
func (c *Clean) SetNumeric(column string, values []float64) {
	c.numeric[column] = values
}

// SetText registers a text column. The slice is stored as-is; callers hand
// over ownership.
func (c *Clean) SetText(column string, values []string) {
	c.text[column] = values
}

// Num returns a numeric column's values. The second result is false when the
// column is absent or text-typed.
func (c *Clean) Num(column string) ([]float64, bool) {
	v, ok := c.numeric[column]
	return v, ok
}

// Str returns a text column's values. The second result is false when the
// column is absent or numeric-typed.
func (c *Clean) Str(column string) ([]string, bool) {
	v, ok := c.text[column]
	return v, ok
}

// Has reports whether the column exists in either typed form.
func (c *Clean) Has(column string) bool {
	if _, ok := c.numeric[column]; ok {
		return true
	}
	_, ok := c.text[column]
	return ok
}

// OrderedUnique collects the distinct labels of a series in order of first
// appearance. Month grouping uses this so that a Jan..Jun upload never comes
// back Apr-first the way an alphabetical sort would order it.
func OrderedUnique(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
