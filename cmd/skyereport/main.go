package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/app"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/dataprocessing"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/validation"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// options holds the parsed command line.
type options struct {
	orders            string
	threePL           string
	out               string
	startingInventory string
	fee               string
	start             string
	end               string
	csv               bool
	configPath        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("skyereport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.orders, "orders", "", "order export CSV (bare names resolve into the input directory)")
	fs.StringVar(&o.threePL, "threepl", "", "3PL export, .xlsx or .csv")
	fs.StringVar(&o.out, "out", "", "report file or directory (defaults to the reports directory)")
	fs.StringVar(&o.startingInventory, "starting-inventory", "", "bars on hand at the start of the period (prompted when absent)")
	fs.StringVar(&o.fee, "fee", "", "payment processing fee for the period (prompted when absent)")
	fs.StringVar(&o.start, "start", "", "period start date, overrides the 3PL file name")
	fs.StringVar(&o.end, "end", "", "period end date")
	fs.BoolVar(&o.csv, "csv", false, "also write the Master Log as CSV")
	fs.StringVar(&o.configPath, "config", "", "path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.orders == "" || o.threePL == "" {
		return o, errors.New("-orders and -threepl are required")
	}
	if (o.start == "") != (o.end == "") {
		return o, errors.New("-start and -end must be given together")
	}
	return o, nil
}

// period parses -start/-end. Neither yields the zero period.
func (o options) period() (domain.Period, error) {
	if o.start == "" {
		return domain.Period{}, nil
	}
	start, ok := dataprocessing.ParseDate(o.start)
	if !ok {
		return domain.Period{}, fmt.Errorf("invalid -start date %q", o.start)
	}
	end, ok := dataprocessing.ParseDate(o.end)
	if !ok {
		return domain.Period{}, fmt.Errorf("invalid -end date %q", o.end)
	}
	if end.Before(start) {
		return domain.Period{}, errors.New("-end is before -start")
	}
	return domain.Period{Start: start, End: end}, nil
}

// prompter asks for values missing from the command line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask repeats question until parse accepts the answer or input ends.
func ask[T any](p prompter, question, flagValue string, parse func(string) (T, error)) (T, error) {
	if flagValue != "" {
		return parse(flagValue)
	}
	for {
		fmt.Fprintf(p.out, "%s: ", question)
		if !p.in.Scan() {
			var zero T
			if err := p.in.Err(); err != nil {
				return zero, err
			}
			return zero, fmt.Errorf("no answer for %q", question)
		}
		v, err := parse(p.in.Text())
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "  %v\n", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	period, err := opts.period()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	p := prompter{in: bufio.NewScanner(stdin), out: stdout}
	inventory, err := ask(p, "Starting inventory (bars)", opts.startingInventory, validation.ParseStartingInventory)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	fee, err := ask(p, "Payment processing fee", opts.fee, validation.ParseProcessingFee)
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

	result, err := application.RunReport(ctx, app.ReportRequest{
		OrdersPath:           opts.orders,
		LogisticsPath:        opts.threePL,
		OutputPath:           opts.out,
		Period:               period,
		StartingInventory:    inventory,
		PaymentProcessingFee: fee,
		WriteCSV:             opts.csv,
	})
	if err != nil {
		application.Logger.ErrorContext(ctx, "Period report failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	printSummary(stdout, result)
	return 0
}

func printSummary(w io.Writer, r *app.ReportResult) {
	m := r.Summary
	margin := "N/A"
	if m.GrossMargin.Valid {
		margin = m.GrossMargin.Decimal.Shift(2).StringFixed(2) + "%"
	}

	fmt.Fprintf(w, "Report written to %s\n", r.ReportPath)
	if r.CSVPath != "" {
		fmt.Fprintf(w, "Master Log CSV written to %s\n", r.CSVPath)
	}
	if label := r.Period.Label(); label != "" {
		fmt.Fprintf(w, "Period:             %s\n", label)
	}
	fmt.Fprintf(w, "Master Log entries: %d (%d flagged)\n", len(r.Entries), r.Flagged)
	fmt.Fprintf(w, "Gross revenue:      %s\n", money(m.GrossRevenue))
	fmt.Fprintf(w, "COGS:               %s\n", money(m.COGS))
	fmt.Fprintf(w, "Total 3PL costs:    %s\n", money(m.Total3PLCosts))
	fmt.Fprintf(w, "Gross profit:       %s\n", money(m.GrossProfit))
	fmt.Fprintf(w, "Gross margin:       %s\n", margin)
	fmt.Fprintf(w, "Inventory sold:     %d bars\n", m.TotalInventorySold)
	fmt.Fprintf(w, "Ending inventory:   %d bars\n", m.EndingInventory)
	for _, is := range m.Issues {
		fmt.Fprintf(w, "Warning: %s\n", is.Detail)
	}
}

func money(v decimal.Decimal) string {
	s := v.StringFixed(2)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
