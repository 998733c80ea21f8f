package report

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// rawSheet converts cells to the raw text a workbook reader returns.
func rawSheet(s Sheet) [][]string {
	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = make([]string, len(r))
		for j, c := range r {
			switch v := c.Value.(type) {
			case decimal.Decimal:
				rows[i][j] = v.String()
			default:
				rows[i][j] = fmt.Sprint(v)
			}
		}
	}
	return rows
}

func TestParseReadsRenderedReport(t *testing.T) {
	entries := sampleEntries()
	metrics := sampleMetrics()
	model := Render(entries, metrics)

	rep, err := Parse("Skye_Period_Report.xlsx", map[string][][]string{
		MasterLogSheet:        rawSheet(model.MasterLog),
		FinancialSummarySheet: rawSheet(model.FinancialSummary),
	})
	require.NoError(t, err)

	assert.Equal(t, "Skye_Period_Report.xlsx", rep.Name)
	require.Len(t, rep.MasterLog, 2)

	got := rep.MasterLog[0]
	assert.Equal(t, "#1001", got.OrderID)
	assert.Equal(t, domain.UnitBox, got.UnitType)
	assert.Equal(t, 14, got.TotalBarsSold)
	assert.True(t, dec("35.28").Equal(got.BarCOGS))
	assert.Empty(t, got.Issues)

	sendout := rep.MasterLog[1]
	require.Len(t, sendout.Issues, 1)
	assert.Equal(t, domain.IssueUnresolvedUnitType, sendout.Issues[0].Kind)
	assert.True(t, dec("6.5").Equal(sendout.TotalShippingCost))

	assert.True(t, metrics.GrossProfit.Equal(rep.Summary.GrossProfit))
	assert.True(t, metrics.GrossMargin.Decimal.Equal(rep.Summary.GrossMargin.Decimal))
	assert.Equal(t, 15802, rep.Summary.StartingInventory)
	assert.Equal(t, 15422, rep.Summary.EndingInventory)
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name       string
		margin     string
		wantValid  bool
		wantMargin string
		wantErr    bool
	}{
		{name: "ratio", margin: "0.25", wantValid: true, wantMargin: "0.25"},
		{name: "formatted percent", margin: "25.00%", wantValid: true, wantMargin: "0.25"},
		{name: "not applicable", margin: "N/A"},
		{name: "garbage", margin: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := rawSheet(Render(nil, sampleMetrics()).FinancialSummary)
			rows[10][1] = tt.margin
			rows[1][1] = "$1,250.50"

			m, err := ParseSummary(rows)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, dec("1250.50").Equal(m.Revenue))
			assert.Equal(t, tt.wantValid, m.GrossMargin.Valid)
			if tt.wantValid {
				assert.True(t, dec(tt.wantMargin).Equal(m.GrossMargin.Decimal))
			}
		})
	}
}

func TestParseSummaryMissingLabel(t *testing.T) {
	rows := rawSheet(Render(nil, sampleMetrics()).FinancialSummary)
	rows[9][0] = "Profit?"

	_, err := ParseSummary(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelGrossProfit)
}

func TestParseErrors(t *testing.T) {
	model := Render(sampleEntries(), sampleMetrics())

	tests := []struct {
		name   string
		sheets map[string][][]string
		want   string
	}{
		{
			name:   "no master log",
			sheets: map[string][][]string{FinancialSummarySheet: rawSheet(model.FinancialSummary)},
			want:   "Master Log sheet",
		},
		{
			name:   "no summary",
			sheets: map[string][][]string{MasterLogSheet: rawSheet(model.MasterLog)},
			want:   "Financial Summary sheet",
		},
		{
			name: "missing columns",
			sheets: map[string][][]string{
				MasterLogSheet:        {{"order_id", "email"}},
				FinancialSummarySheet: rawSheet(model.FinancialSummary),
			},
			want: "failed to read Master Log",
		},
		{
			name: "bad unit type",
			sheets: map[string][][]string{
				MasterLogSheet: func() [][]string {
					rows := rawSheet(model.MasterLog)
					rows[1][3] = "crate"
					return rows
				}(),
				FinancialSummarySheet: rawSheet(model.FinancialSummary),
			},
			want: "unknown unit type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("report.xlsx", tt.sheets)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseIssues(t *testing.T) {
	issues := []domain.Issue{
		{Kind: domain.IssueSplitShipment, Detail: "2 3PL rows"},
		{Kind: domain.IssueTotalMismatch, Detail: "export total 10.00, computed 12.00"},
	}
	assert.Equal(t, issues, ParseIssues(domain.JoinIssues(issues)))
	assert.Nil(t, ParseIssues("  "))
}
