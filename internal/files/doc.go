// Package files finds period report workbooks on disk.
//
// Discovery lists the Skye_Period_Report_*.xlsx files of a directory,
// skipping the ~$ lock files spreadsheet applications leave behind, and
// orders them by the period encoded in their names so the combiner reads
// them oldest first.
//
// Example usage:
//
//	reports, err := files.NewDiscovery(paths.BaseDir).FindReportFiles(paths.ReportsDir)
//	if err != nil {
//	    return err
//	}
//	for _, r := range reports {
//	    fmt.Println(r.Name, r.Period.Label())
//	}
package files
