package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrNoTransactions is returned for an input without data rows.
	ErrNoTransactions = errors.New("no transactions found")
	// ErrUnsupportedFormat is returned for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Transaction is a single order line.
type Transaction struct {
	Date  time.Time
	Sales float64
}

// Options selects the input columns.
type Options struct {
	DateColumn  string // default "Order Date"
	SalesColumn string // default "Sales"
	Sheet       string // xlsx sheet; the first sheet when empty
}

// DefaultOptions matches the retail export layout.
func DefaultOptions() Options {
	return Options{DateColumn: "Order Date", SalesColumn: "Sales"}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DateColumn == "" {
		o.DateColumn = d.DateColumn
	}
	if o.SalesColumn == "" {
		o.SalesColumn = d.SalesColumn
	}
	return o
}

// dayFirstLayouts are tried in order. Single-digit layouts also accept two
// digits when parsing.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a day-first date such as 08/11/2017 (8 November).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

// LoadFile reads transactions from a .csv or .xlsx file.
func LoadFile(path string, opts Options) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(f, opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV reads transactions from CSV with a header row. Any row with an
// unparseable date or amount is an error naming its line.
func ReadCSV(r io.Reader, opts Options) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, opts.withDefaults(), parseCSVDate)
}

// ReadXLSX reads transactions from a workbook. Date cells stored as serial
// numbers are converted with the 1900 date system.
func ReadXLSX(r io.Reader, opts Options) ([]Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	opts = opts.withDefaults()
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoTransactions
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return parseRows(rows, opts, parseXLSXDate)
}

func parseCSVDate(s string) (time.Time, error) { return ParseDate(s) }

func parseXLSXDate(s string) (time.Time, error) {
	if t, err := ParseDate(s); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return excelize.ExcelDateToTime(serial, false)
}

func parseRows(rows [][]string, opts Options, parseDate func(string) (time.Time, error)) ([]Transaction, error) {
	if len(rows) == 0 {
		return nil, ErrNoTransactions
	}

	dateIdx, salesIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case opts.DateColumn:
			dateIdx = i
		case opts.SalesColumn:
			salesIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, opts.DateColumn)
	}
	if salesIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, opts.SalesColumn)
	}

	txs := make([]Transaction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		if dateIdx >= len(row) || salesIdx >= len(row) {
			return nil, fmt.Errorf("row %d: too few fields", line)
		}

		date, err := parseDate(row[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		amount, err := parseAmount(row[salesIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: sales %q: %w", line, row[salesIdx], err)
		}
		txs = append(txs, Transaction{Date: date, Sales: amount})
	}

	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}
	sort.SliceStable(txs, func(a, b int) bool { return txs[a].Date.Before(txs[b].Date) })
	return txs, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
