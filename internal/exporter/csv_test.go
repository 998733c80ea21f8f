package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
)

func setupTestWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.Default().Paths)
	return NewCSVWriter(paths, nil), paths
}

func readCSVFile(t *testing.T, path string) ([]byte, [][]string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return raw, records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestWriter(t)

	tests := []struct {
		name    string
		file    string
		options WriteOptions
		wantBOM bool
		want    [][]string
	}{
		{
			name: "headers and records with BOM",
			file: "summary.csv",
			options: WriteOptions{
				Headers:   []string{"metric", "value"},
				Records:   [][]string{{"Gross Revenue", "59.00"}, {"Note", "comma, inside"}},
				BOMPrefix: true,
			},
			wantBOM: true,
			want:    [][]string{{"metric", "value"}, {"Gross Revenue", "59.00"}, {"Note", "comma, inside"}},
		},
		{
			name:    "records only",
			file:    "nested/plain.csv",
			options: WriteOptions{Records: [][]string{{"a", "b"}}},
			want:    [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.file, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(paths.ReportsDir, tt.file), path)

			raw, records := readCSVFile(t, path)
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(raw, utf8BOM))
			assert.Equal(t, tt.want, records)
		})
	}
}

func TestCSVWriter_WriteSheet(t *testing.T) {
	writer, _ := setupTestWriter(t)
	abs := filepath.Join(t.TempDir(), "master_log.csv")

	path, err := writer.WriteSheet(abs, testModel().MasterLog)
	require.NoError(t, err)
	assert.Equal(t, abs, path)

	raw, records := readCSVFile(t, path)
	assert.True(t, bytes.HasPrefix(raw, utf8BOM))
	require.Len(t, records, 3)
	assert.Equal(t, report.MasterLogColumns, records[0])
	assert.Equal(t, "#1001", records[1][0])
	assert.Equal(t, "14", records[1][6])
	assert.Equal(t, "59.00", records[1][12])
	assert.Equal(t, "35.28", records[1][13])
	assert.Contains(t, records[2][15], "UnresolvedUnitType")
}

func TestCSVWriter_WriteSheetEmpty(t *testing.T) {
	writer, _ := setupTestWriter(t)
	_, err := writer.WriteSheet("empty.csv", report.Sheet{Name: "Empty"})
	assert.Error(t, err)
}

func TestStreamWriter(t *testing.T) {
	writer, _ := setupTestWriter(t)

	stream, path, err := writer.CreateStreamWriter("stream.csv", []string{"Name", "Value"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"one", "1"}))
	require.NoError(t, stream.WriteRecord([]string{"two", "2"}))
	require.NoError(t, stream.Close())

	_, records := readCSVFile(t, path)
	assert.Equal(t, [][]string{{"Name", "Value"}, {"one", "1"}, {"two", "2"}}, records)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		cell report.Cell
		want string
	}{
		{name: "text", cell: report.Text("box"), want: "box"},
		{name: "count", cell: report.Count(15422), want: "15422"},
		{name: "money", cell: report.Money(decimal.RequireFromString("35.2")), want: "35.20"},
		{name: "money rounds", cell: report.Money(decimal.RequireFromString("2.515")), want: "2.52"},
		{name: "percent", cell: report.Percent(decimal.NewNullDecimal(decimal.RequireFromString("0.15627"))), want: "15.63%"},
		{name: "undefined percent", cell: report.Percent(decimal.NullDecimal{}), want: "N/A"},
		{name: "nil", cell: report.Cell{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.cell))
		})
	}
}
