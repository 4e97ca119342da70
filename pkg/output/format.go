// Package output provides utilities for formatting and displaying budget
// results.
package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finopskit/master-budget/internal/budget"
	"github.com/finopskit/master-budget/pkg/format"
)

// Table is one display table of a results set.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// PrettyFormat outputs human-readable rather than machine-readable tables.
// Currency cells are grouped through the language printer.
func PrettyFormat(results *budget.Results) {
	p := message.NewPrinter(language.English)
	money := func(v float64) string {
		return p.Sprintf("$%.2f", v)
	}

	tables := buildTables(results, money)
	for i, table := range tables {
		fmt.Printf("--- %s ---\n", table.Title)
		printAligned(table)
		if i < len(tables)-1 {
			fmt.Printf("\n")
		}
	}

	if len(results.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, warning := range results.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results *budget.Results) {
	s, err := CsvString(results)
	if err != nil {
		fmt.Printf("failed to render CSV: %s\n", err)
		return
	}
	fmt.Print(s)
}

// CsvString renders every table as CSV, separated by a title row and a blank
// line per table.
func CsvString(results *budget.Results) (string, error) {
	money := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	var builder strings.Builder
	writer := csv.NewWriter(&builder)
	for _, table := range buildTables(results, money) {
		if err := writer.Write([]string{table.Title}); err != nil {
			return "", err
		}
		if err := writer.Write(table.Columns); err != nil {
			return "", err
		}
		for _, row := range table.Rows {
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
		writer.Flush()
		builder.WriteString("\n")
	}
	if err := writer.Error(); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func printAligned(table Table) {
	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = len(col)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := make([]string, len(table.Columns))
	underline := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = pad(col, widths[i])
		underline[i] = strings.Repeat("_", len(col)) + strings.Repeat(" ", widths[i]-len(col))
	}
	fmt.Printf("%s\n", strings.Join(header, " | "))
	fmt.Printf("%s\n", strings.Join(underline, " | "))
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		fmt.Printf("%s\n", strings.Join(cells, " | "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// buildTables flattens the results into display tables. The money formatter
// is injected so the pretty and CSV paths can render currency differently
// while sharing the table structure.
func buildTables(results *budget.Results, money func(float64) string) []Table {
	var tables []Table

	if len(results.CVP) > 0 {
		t := Table{
			Title:   "Cost-Volume-Profit Analysis",
			Columns: []string{"Product", "Selling Price", "Variable Cost", "Fixed Cost", "Contribution", "P/V Ratio", "Break-Even Units"},
		}
		for _, row := range results.CVP {
			pvRatio := format.NotAvailable
			if row.PVRatio != nil {
				pvRatio = format.Percent(*row.PVRatio)
			}
			breakEven := format.NotAvailable
			if row.BreakEvenUnits != nil {
				breakEven = format.Quantity(*row.BreakEvenUnits)
			}
			t.Rows = append(t.Rows, []string{
				row.Product,
				money(row.SellingPrice),
				money(row.VariableCost),
				money(row.FixedCost),
				money(row.Contribution),
				pvRatio,
				breakEven,
			})
		}
		tables = append(tables, t)
	}

	if results.Sales != nil {
		t := Table{
			Title:   "Sales & Collections",
			Columns: []string{"Month", "Revenue", "Cash Sales", "Credit Sales"},
		}
		for _, bucket := range results.Sales.Buckets {
			t.Columns = append(t.Columns, fmt.Sprintf("Collected +%dm (%s)", bucket.LagMonths, format.Percent(bucket.Pct)))
		}
		t.Columns = append(t.Columns, "Total Receipts")
		for i, month := range results.Sales.Months {
			row := []string{
				month,
				money(results.Sales.Revenue[i]),
				money(results.Sales.CashSales[i]),
				money(results.Sales.CreditSales[i]),
			}
			for _, series := range results.Sales.Collections {
				row = append(row, money(series[i]))
			}
			row = append(row, money(results.Sales.TotalReceipts[i]))
			t.Rows = append(t.Rows, row)
		}
		tables = append(tables, t)
	}

	if len(results.Production) > 0 {
		t := Table{
			Title:   "Production Plan",
			Columns: []string{"Month", "Product", "Sales Units", "Opening Stock", "Desired Closing Stock", "Production Units", "Note"},
		}
		for _, row := range results.Production {
			note := ""
			if row.MissingInventory {
				note = "no stock plan"
			}
			t.Rows = append(t.Rows, []string{
				row.Month,
				row.Product,
				format.Quantity(row.SalesUnits),
				format.Quantity(row.OpeningStock),
				format.Quantity(row.DesiredClosingStock),
				format.Quantity(row.ProductionUnits),
				note,
			})
		}
		tables = append(tables, t)
	}

	if len(results.Materials) > 0 {
		t := Table{
			Title:   "Material Requirements",
			Columns: []string{"Month", "Product", "Material", "Production Units", "Qty Per Unit", "Total Required", "Cost Per Unit", "Total Cost", "Note"},
		}
		for _, row := range results.Materials {
			note := ""
			if row.MissingBOM {
				note = "no bill of materials"
			}
			t.Rows = append(t.Rows, []string{
				row.Month,
				row.Product,
				row.Material,
				format.Quantity(row.ProductionUnits),
				format.Quantity(row.QtyPerUnit),
				format.Quantity(row.TotalRequired),
				money(row.CostPerUnit),
				money(row.TotalCost),
				note,
			})
		}
		tables = append(tables, t)
	}

	if len(results.Labor) > 0 {
		t := Table{
			Title:   "Labor & Overhead",
			Columns: []string{"Month", "Product", "Production Units", "Hours Per Unit", "Labor Hours", "Hourly Rate", "Labor Cost", "Variable OH", "Fixed OH", "Total OH"},
		}
		for _, row := range results.Labor {
			t.Rows = append(t.Rows, []string{
				row.Month,
				row.Product,
				format.Quantity(row.ProductionUnits),
				format.Quantity(row.HoursPerUnit),
				format.Quantity(row.LaborHours),
				money(row.HourlyRate),
				money(row.LaborCost),
				money(row.VariableOverhead),
				money(row.FixedOverheadAllocation),
				money(row.TotalOverhead),
			})
		}
		tables = append(tables, t)
	}

	if results.Cash != nil {
		t := Table{
			Title: "Cash Budget",
			Columns: []string{"Month", "Receipts", "Purchases", "Wages", "Overheads", "Admin & Selling",
				"Tax", "Capex", "Total Payments", "Net Flow", "Opening", "Closing"},
		}
		for i, month := range results.Cash.Months {
			t.Rows = append(t.Rows, []string{
				month,
				money(results.Cash.Receipts[i]),
				money(results.Cash.PurchasePayments[i]),
				money(results.Cash.WagePayments[i]),
				money(results.Cash.OverheadPayments[i]),
				money(results.Cash.AdminSelling[i]),
				money(results.Cash.Tax[i]),
				money(results.Cash.Capex[i]),
				money(results.Cash.TotalPayments[i]),
				money(results.Cash.NetFlow[i]),
				money(results.Cash.Opening[i]),
				money(results.Cash.Closing[i]),
			})
		}
		tables = append(tables, t)
	}

	if len(results.MasterCost) > 0 {
		t := Table{
			Title:   "Master Production Cost",
			Columns: []string{"Month", "Product", "Material Cost", "Labor Cost", "Overhead Cost", "Total Production Cost"},
		}
		for _, row := range results.MasterCost {
			t.Rows = append(t.Rows, []string{
				row.Month,
				row.Product,
				money(row.MaterialCost),
				money(row.LaborCost),
				money(row.OverheadCost),
				money(row.TotalProductionCost),
			})
		}
		tables = append(tables, t)
	}

	return tables
}
