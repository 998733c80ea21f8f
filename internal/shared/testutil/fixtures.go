package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// OrdersHeader is the column layout of the e-commerce order export.
var OrdersHeader = []string{
	"Name", "Email", "Financial Status", "Paid at", "Subtotal", "Shipping",
	"Taxes", "Total", "Discount Amount", "Lineitem quantity", "Lineitem name",
	"Lineitem price", "Source",
}

// ThreePLHeader is the column layout of the 3PL billing export.
var ThreePLHeader = []string{
	"Type", "Order Code", "Store Order Number", "Actual Shipment Date",
	"Total Quantity", "Total Price", "Handling Fee", "Total Shipping Cost",
	"Packaging", "Receiving", "Total Tax", "Custom Discount", "Description",
}

// WriteCSV writes rows to dir/name and returns the path.
func WriteCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteXLSX writes rows to a single-sheet workbook at dir/name and returns
// the path.
func WriteXLSX(t *testing.T, dir, name, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}
