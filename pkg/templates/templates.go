// Package templates exposes starter tables for each budget input. Users
// download a template, edit the numbers, and upload the result; the headers
// match what the input decoders expect. The figures form one coherent example
// company so the chain templates reconcile with the statement template.
package templates

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/finopskit/master-budget/pkg/months"
	"github.com/finopskit/master-budget/pkg/table"
)

// Template describes one downloadable starter table.
type Template struct {
	Name        string
	Description string
	Filename    string
}

var catalog = []Template{
	{Name: "cvp", Description: "Cost-volume-profit inputs per product", Filename: "cvp_template.csv"},
	{Name: "forecast", Description: "Monthly sales forecast per product", Filename: "sales_forecast_template.csv"},
	{Name: "inventory", Description: "Opening and desired closing stock per month and product", Filename: "inventory_template.csv"},
	{Name: "bom", Description: "Bill of materials per product", Filename: "bom_template.csv"},
	{Name: "rates", Description: "Labor and variable overhead rates per product", Filename: "rates_template.csv"},
	{Name: "expenses", Description: "Monthly admin, tax and capital expenditure", Filename: "expenses_template.csv"},
	{Name: "statement", Description: "Single-table monthly statement for the one-shot cash budget", Filename: "statement_template.csv"},
}

// List returns the catalog ordered by template name.
func List() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Describe returns the catalog entry for a template name.
func Describe(name string) (Template, error) {
	for _, tpl := range catalog {
		if tpl.Name == name {
			return tpl, nil
		}
	}
	return Template{}, fmt.Errorf("unknown template %q", name)
}

// Table returns the starter table for a template name.
func Table(name string) (*table.Raw, error) {
	switch name {
	case "cvp":
		return &table.Raw{
			Columns: []string{"Product", "SellingPrice", "VariableCost", "FixedCost"},
			Rows: [][]string{
				{"A", "100", "60", "50000"},
				{"B", "150", "90", "20000"},
			},
		}, nil
	case "forecast":
		return monthlyTable(
			[]string{"Month", "Product", "SalesUnits", "SellingPrice"},
			"A",
			[][]float64{{1000, 1200, 1500}, {100, 100, 100}},
		), nil
	case "inventory":
		return monthlyTable(
			[]string{"Month", "Product", "OpeningStock", "DesiredClosingStock"},
			"A",
			[][]float64{{50, 100, 150}, {100, 150, 200}},
		), nil
	case "bom":
		return &table.Raw{
			Columns: []string{"Product", "Material", "QtyPerUnit", "CostPerUnit"},
			Rows: [][]string{
				{"A", "Steel", "2", "5.00"},
				{"A", "Paint", "0.5", "4.00"},
			},
		}, nil
	case "rates":
		return &table.Raw{
			Columns: []string{"Product", "HoursPerUnit", "HourlyRate", "VariableOverheadRate"},
			Rows: [][]string{
				{"A", "2", "15", "3"},
			},
		}, nil
	case "expenses":
		return monthlyTable(
			[]string{"Month", "AdminSelling", "Tax", "Capex"},
			"",
			[][]float64{{5000, 5000, 6000}, {0, 0, 10000}, {0, 50000, 0}},
		), nil
	case "statement":
		return monthlyTable(
			[]string{"Month", "Sales_Revenue", "Material_Purchases", "Wages", "Mfg_Overheads", "Admin_Selling_Exp", "Tax_Paid", "Capital_Expenditure"},
			"",
			[][]float64{
				{100000, 120000, 150000, 130000, 160000, 180000},
				{40000, 50000, 60000, 55000, 65000, 70000},
				{20000, 22000, 25000, 24000, 26000, 28000},
				{10000, 12000, 15000, 13000, 14000, 16000},
				{5000, 5000, 6000, 5500, 6000, 6000},
				{0, 0, 10000, 0, 0, 0},
				{0, 50000, 0, 0, 0, 0},
			},
		), nil
	default:
		return nil, fmt.Errorf("unknown template %q", name)
	}
}

// monthlyTable zips value columns against month labels starting in January.
// A non-empty product label is inserted after the month column.
func monthlyTable(columns []string, product string, values [][]float64) *table.Raw {
	n := len(values[0])
	labels := months.MustSequence("Jan", n)

	raw := &table.Raw{Columns: columns}
	for i := 0; i < n; i++ {
		row := []string{labels[i]}
		if product != "" {
			row = append(row, product)
		}
		for _, column := range values {
			row = append(row, strconv.FormatFloat(column[i], 'f', -1, 64))
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}

// CSV renders the starter table for a template name as CSV bytes.
func CSV(name string) ([]byte, error) {
	raw, err := Table(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(raw.Columns); err != nil {
		return nil, fmt.Errorf("failed to render template %q: %w", name, err)
	}
	for _, row := range raw.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to render template %q: %w", name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
