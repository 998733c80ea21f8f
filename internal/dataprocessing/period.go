package dataprocessing

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// periodPattern matches "11.17.25 to 11.23.25" in 3PL export file names.
var periodPattern = regexp.MustCompile(`(?i)(\d{1,2}\.\d{1,2}\.\d{2})\s*to\s*(\d{1,2}\.\d{1,2}\.\d{2})`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// PeriodFromFileName extracts the MM.DD.YY range embedded in a file name.
func PeriodFromFileName(name string) (domain.Period, bool) {
	m := periodPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return domain.Period{}, false
	}
	start, ok := parseDotted(m[1])
	if !ok {
		return domain.Period{}, false
	}
	end, ok := parseDotted(m[2])
	if !ok {
		return domain.Period{}, false
	}
	return domain.Period{Start: start, End: end}, true
}

func parseDotted(s string) (time.Time, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	yy, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(2000+yy, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ParseDate reads the date formats seen in order and 3PL exports, including
// Excel serial day numbers. The result is truncated to the calendar day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 20000 && serial < 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// InferPeriod takes the reporting window from the 3PL file name, falling
// back to the earliest and latest shipment dates in the export.
func InferPeriod(path string, records []domain.LogisticsRecord) domain.Period {
	if p, ok := PeriodFromFileName(path); ok {
		return p
	}

	var p domain.Period
	for _, rec := range records {
		t, ok := ParseDate(rec.ShipDate)
		if !ok {
			continue
		}
		if p.Start.IsZero() || t.Before(p.Start) {
			p.Start = t
		}
		if p.End.IsZero() || t.After(p.End) {
			p.End = t
		}
	}
	return p
}
