package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/exporter"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// lockFilePrefix marks the owner files spreadsheet applications leave next
// to an open workbook.
const lockFilePrefix = "~$"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Period  domain.Period
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindReportFiles returns the period report workbooks in dir, ordered by
// the period in their names. Reports without a period sort last by name.
func (d *Discovery) FindReportFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsReportFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		period, _ := exporter.PeriodFromReportFileName(entry.Name())
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Period:  period,
		})
	}

	SortByPeriod(files)
	return files, nil
}

// IsReportFile reports whether name looks like a written period report.
func IsReportFile(name string) bool {
	if strings.HasPrefix(name, lockFilePrefix) {
		return false
	}
	return strings.HasPrefix(name, config.ReportFilePrefix+"_") &&
		strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// Describe stats explicitly named report files so they can be ordered the
// same way as discovered ones.
func Describe(paths []string) ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		period, _ := exporter.PeriodFromReportFileName(p)
		files = append(files, FileInfo{
			Path:    p,
			Name:    filepath.Base(p),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Period:  period,
		})
	}
	return files, nil
}

// SortByPeriod orders files by period start, then by name.
func SortByPeriod(files []FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i].Period, files[j].Period
		switch {
		case a.Known() && b.Known() && !a.Start.Equal(b.Start):
			return a.Start.Before(b.Start)
		case a.Known() != b.Known():
			return a.Known()
		}
		return files[i].Name < files[j].Name
	})
}

// Paths returns the Path of every file.
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
