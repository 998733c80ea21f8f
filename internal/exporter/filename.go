package exporter

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

const reportDateLayout = "2006_01-02"

var reportNamePattern = regexp.MustCompile(`(\d{4}_\d{2}-\d{2})_to_(\d{4}_\d{2}-\d{2})`)

// ReportFileName builds Skye_Period_Report_<YYYY_MM-DD>_to_<YYYY_MM-DD>.<ext>.
// Without both dates the name is Skye_Period_Report.<ext>.
func ReportFileName(start, end time.Time, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if start.IsZero() || end.IsZero() {
		return config.ReportFilePrefix + "." + ext
	}
	return config.ReportFilePrefix + "_" + start.Format(reportDateLayout) +
		"_to_" + end.Format(reportDateLayout) + "." + ext
}

// PeriodFromReportFileName recovers the period from a name built by
// ReportFileName.
func PeriodFromReportFileName(name string) (domain.Period, bool) {
	m := reportNamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return domain.Period{}, false
	}
	start, err := time.Parse(reportDateLayout, m[1])
	if err != nil {
		return domain.Period{}, false
	}
	end, err := time.Parse(reportDateLayout, m[2])
	if err != nil {
		return domain.Period{}, false
	}
	return domain.Period{Start: start, End: end}, true
}
