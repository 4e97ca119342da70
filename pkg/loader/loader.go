// Package loader reads tabular input files into the raw table model. CSV and
// XLSX uploads are supported; only the first worksheet of a workbook is read.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/finopskit/master-budget/pkg/table"
)

// Read parses the reader contents based on the file extension of filename.
func Read(r io.Reader, filename string) (*table.Raw, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// ReadFile opens and parses a tabular file from disk.
func ReadFile(path string) (*table.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// ReadCSV parses comma-separated content. Rows may be ragged; missing cells
// read as empty downstream.
func ReadCSV(r io.Reader) (*table.Raw, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX parses the first worksheet of an Excel workbook.
func ReadXLSX(r io.Reader) (*table.Raw, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	return fromRecords(rows)
}

// fromRecords treats the first record as the header and drops rows that are
// entirely blank, which spreadsheets commonly leave behind trailing data.
func fromRecords(records [][]string) (*table.Raw, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file contains no header row")
	}

	raw := &table.Raw{Columns: records[0]}
	for _, record := range records[1:] {
		if blankRow(record) {
			continue
		}
		raw.Rows = append(raw.Rows, record)
	}
	return raw, nil
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
