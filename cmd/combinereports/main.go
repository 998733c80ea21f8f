package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/app"
)

type options struct {
	inDir      string
	files      []string
	out        string
	configPath string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("combinereports", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.inDir, "in", "", "directory of Skye_Period_Report_*.xlsx files (defaults to the reports directory)")
	fs.StringVar(&o.out, "out", "", "combined report file or directory")
	fs.StringVar(&o.configPath, "config", "", "path to config.yaml")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: combinereports [-in dir | report.xlsx ...] [-out file]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.files = fs.Args()
	if o.inDir != "" && len(o.files) > 0 {
		return o, errors.New("give either -in or report files, not both")
	}
	if o.inDir != "" {
		abs, err := filepath.Abs(o.inDir)
		if err != nil {
			return o, fmt.Errorf("invalid -in directory: %w", err)
		}
		o.inDir = abs
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	application, err := app.NewApplication(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer application.Shutdown(context.Background())

	result, err := application.CombineReports(ctx, app.CombineRequest{
		Files:      opts.files,
		InputDir:   opts.inDir,
		OutputPath: opts.out,
	})
	if err != nil {
		application.Logger.ErrorContext(ctx, "Combine failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	printResult(stdout, result)
	return 0
}

func printResult(w io.Writer, r *app.CombineResult) {
	c := r.Combined
	fmt.Fprintf(w, "Combined report written to %s\n", r.ReportPath)
	fmt.Fprintf(w, "Periods combined: %d\n", len(c.Periods))
	for _, p := range c.Periods {
		fmt.Fprintf(w, "  %s\n", p)
	}
	fmt.Fprintf(w, "Master Log entries: %d\n", len(c.MasterLog))
	fmt.Fprintf(w, "Gross profit: %s\n", c.Summary.GrossProfit.StringFixed(2))
	if len(c.Notes) == 0 {
		fmt.Fprintln(w, "All balance checks passed")
		return
	}
	fmt.Fprintf(w, "Balance checks (%d):\n", len(c.Notes))
	for _, n := range c.Notes {
		fmt.Fprintf(w, "  %s\n", n)
	}
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
