package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for loading a prepared series.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: "ds")
	ValueColumn string // Column name for values (default: "y")
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:  "ds",
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		Delimiter:   ',',
	}
}

// LoadCSV loads a series from a CSV file with a header row.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a series from an io.Reader. Unlike raw
// transaction input, a prepared series must be complete: every row needs a
// parseable date and value.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case opts.DateColumn:
			dateIdx = i
		case opts.ValueColumn:
			valueIdx = i
		}
	}
	if dateIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("missing column %q or %q", opts.DateColumn, opts.ValueColumn)
	}

	series := &Series{Name: opts.ValueColumn}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		ts, err := time.Parse(opts.DateFormat, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		series.Timestamps = append(series.Timestamps, ts)
		series.Values = append(series.Values, val)
	}

	if series.Len() == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	return series, nil
}

// WriteCSV writes the series as ds,y rows.
func WriteCSV(w io.Writer, series *Series) error {
	if len(series.Timestamps) != len(series.Values) {
		return ErrLengthMismatch
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ds", "y"}); err != nil {
		return err
	}
	for i, v := range series.Values {
		record := []string{
			series.Timestamps[i].Format("2006-01-02"),
			strconv.FormatFloat(v, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV saves a time series to a CSV file.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, series); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
