package transform

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table is a raw tabular snapshot: one header row plus string cells.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a Table and its column index.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
}

// Index returns the position of column, or -1.
func (t *Table) Index(column string) int {
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Value returns the cell of row under column; missing columns and short rows
// yield "".
func (t *Table) Value(row []string, column string) string {
	i := t.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Rename applies mapping to the header in place.
func (t *Table) Rename(mapping map[string]string) {
	t.Header = RenameColumns(t.Header, mapping)
	t.reindex()
}

// LowerHeader lower-cases every column name in place.
func (t *Table) LowerHeader() {
	for i, h := range t.Header {
		t.Header[i] = strings.ToLower(h)
	}
	t.reindex()
}

// ReadCSV loads a CSV file with a header row.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads a header row and all data rows from r. Rows may be ragged.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return NewTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}

	return NewTable(header, rows), nil
}

// WriteCSV writes header and rows to w.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// ParseInt parses an integer cell. Blank, NA and unparseable cells are nil.
// Float-formatted integers ("2010.0") are accepted.
func ParseInt(s string) *int32 {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		v := int32(n)
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	v := int32(f)
	return &v
}

// ParseFloat parses a decimal cell. Blank, NA, NaN and unparseable cells are nil.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func isMissing(s string) bool {
	switch strings.ToUpper(s) {
	case "", "NA", "N/A", "NAN", "NULL", "-":
		return true
	}
	return false
}
