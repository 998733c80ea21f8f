package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// headerScanDepth is how many leading rows are searched for a header row.
const headerScanDepth = 15

// sheet is the raw text grid of one CSV file or workbook sheet.
type sheet struct {
	name string
	rows [][]string
}

// table is a sheet with a located header row.
type table struct {
	sheet     string
	headerRow int
	columns   columnMap
	rows      [][]string // data rows only, below the header
}

// columnMap maps normalized header names to column indexes.
type columnMap map[string]int

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), " ")
}

func newColumnMap(header []string) columnMap {
	cols := make(columnMap, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

// index returns the column of the first alias present.
func (c columnMap) index(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := c[a]; ok {
			return i, true
		}
	}
	return -1, false
}

func (c columnMap) has(aliases ...string) bool {
	_, ok := c.index(aliases...)
	return ok
}

// cell returns the trimmed value of the first alias present in row.
func (c columnMap) cell(row []string, aliases ...string) string {
	i, ok := c.index(aliases...)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// loadSheets reads every sheet of an xlsx workbook, or the single table of a
// CSV file.
func loadSheets(path string) ([]sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rows, err := readCSVRows(f)
		if err != nil {
			return nil, err
		}
		return []sheet{{name: filepath.Base(path), rows: rows}}, nil
	}
}

func loadWorkbook(path string) ([]sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return sheets, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// findTable locates the first sheet whose leading rows contain a header
// with every required column. On failure it returns the required columns
// missing from the closest candidate row.
func findTable(sheets []sheet, required []string) (*table, []string) {
	var bestMissing []string
	for _, s := range sheets {
		limit := len(s.rows)
		if limit > headerScanDepth {
			limit = headerScanDepth
		}
		for i := 0; i < limit; i++ {
			cols := newColumnMap(s.rows[i])
			if len(cols) == 0 {
				continue
			}
			var missing []string
			for _, req := range required {
				if !cols.has(req) {
					missing = append(missing, req)
				}
			}
			if len(missing) == 0 {
				return &table{
					sheet:     s.name,
					headerRow: i,
					columns:   cols,
					rows:      s.rows[i+1:],
				}, nil
			}
			if bestMissing == nil || len(missing) < len(bestMissing) {
				bestMissing = missing
			}
		}
	}
	if bestMissing == nil {
		bestMissing = required
	}
	return nil, bestMissing
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount reads a money cell. Currency symbols, thousands separators
// and accounting-style parentheses are accepted. ok is false for blanks and
// values that are not numbers.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// amountOrZero applies the blank-means-zero rule to required money columns.
func amountOrZero(s string) decimal.Decimal {
	d, _ := parseAmount(s)
	return d
}

// optionalAmount keeps blanks and unparseable cells distinguishable from 0.
func optionalAmount(s string) decimal.NullDecimal {
	d, ok := parseAmount(s)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseQuantity reads a whole-number cell such as "2" or "2.0".
func parseQuantity(s string) (int, bool) {
	d, ok := parseAmount(s)
	if !ok || !d.Equal(d.Truncate(0)) {
		return 0, false
	}
	return int(d.IntPart()), true
}
