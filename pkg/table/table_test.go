package table

import (
	"strings"
	"testing"
)

func TestRawRequireColumns(t *testing.T) {
	raw := &Raw{
		Columns: []string{"Month", "Product", "Sales_Units"},
		Rows: [][]string{
			{"Jan", "A", "1000"},
		},
	}

	t.Run("All present", func(t *testing.T) {
		if err := raw.RequireColumns("Month", "Sales_Units"); err != nil {
			t.Errorf("RequireColumns() error = %v, expected nil", err)
		}
	})

	t.Run("One missing", func(t *testing.T) {
		err := raw.RequireColumns("Month", "Selling_Price")
		if err == nil {
			t.Fatal("expected error for missing column")
		}
		if !strings.Contains(err.Error(), "Selling_Price") {
			t.Errorf("error should name the missing column, got %q", err.Error())
		}
		if !strings.Contains(err.Error(), "Sales_Units") {
			t.Errorf("error should list the uploaded columns, got %q", err.Error())
		}
	})

	t.Run("Several missing reported together", func(t *testing.T) {
		err := raw.RequireColumns("Opening_Stock", "Desired_Closing_Stock")
		if err == nil {
			t.Fatal("expected error for missing columns")
		}
		if !strings.Contains(err.Error(), "Opening_Stock") || !strings.Contains(err.Error(), "Desired_Closing_Stock") {
			t.Errorf("error should name every missing column, got %q", err.Error())
		}
	})
}

func TestRawCellRaggedRows(t *testing.T) {
	raw := &Raw{
		Columns: []string{"Month", "Sales_Revenue"},
		Rows: [][]string{
			{"Jan", "100000"},
			{"Feb"},
		},
	}

	if got := raw.Cell(0, 1); got != "100000" {
		t.Errorf("Cell(0,1) = %q, expected %q", got, "100000")
	}
	if got := raw.Cell(1, 1); got != "" {
		t.Errorf("Cell on short row = %q, expected empty string", got)
	}
	if got := raw.Cell(5, 0); got != "" {
		t.Errorf("Cell out of range = %q, expected empty string", got)
	}
}

func TestCleanAccessors(t *testing.T) {
	c := NewClean(2)
	c.SetText("Month", []string{"Jan", "Feb"})
	c.SetNumeric("Sales_Revenue", []float64{100000, 120000})

	if c.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", c.Len())
	}

	nums, ok := c.Num("Sales_Revenue")
	if !ok || nums[1] != 120000 {
		t.Errorf("Num(Sales_Revenue) = %v, %v; expected [100000 120000], true", nums, ok)
	}

	if _, ok := c.Num("Month"); ok {
		t.Error("Num(Month) should report false for a text column")
	}

	strsVal, ok := c.Str("Month")
	if !ok || strsVal[0] != "Jan" {
		t.Errorf("Str(Month) = %v, %v; expected [Jan Feb], true", strsVal, ok)
	}

	if !c.Has("Sales_Revenue") || c.Has("Wages") {
		t.Error("Has should report registered columns only")
	}
}

func TestOrderedUnique(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected []string
	}{
		{
			name:     "Calendar order preserved",
			labels:   []string{"Jan", "Jan", "Feb", "Mar", "Feb"},
			expected: []string{"Jan", "Feb", "Mar"},
		},
		{
			name:     "Not alphabetical",
			labels:   []string{"Mar", "Jan", "Feb"},
			expected: []string{"Mar", "Jan", "Feb"},
		},
		{
			name:     "Interleaved products share months",
			labels:   []string{"Jan", "Feb", "Jan", "Feb"},
			expected: []string{"Jan", "Feb"},
		},
		{
			name:     "Empty",
			labels:   nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderedUnique(tt.labels)
			if len(got) != len(tt.expected) {
				t.Fatalf("OrderedUnique(%v) = %v, expected %v", tt.labels, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("OrderedUnique(%v)[%d] = %q, expected %q", tt.labels, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
