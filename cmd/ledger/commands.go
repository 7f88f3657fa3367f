package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/gocomet/ride-ledger/internal/service/reporting"
	"github.com/gocomet/ride-ledger/internal/storage/postgres"
	"github.com/gocomet/ride-ledger/pkg/logger"
)

func (a *app) migrate(ctx context.Context) error {
	if err := postgres.EnsureSchema(ctx, a.db); err != nil {
		return err
	}
	a.logger.Info("Schema ready", logger.Int("tables", len(postgres.Tables)))
	return nil
}

func (a *app) seed(ctx context.Context) error {
	res, err := a.ledger.Seed(ctx)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Println("ledger already contains passengers, nothing seeded")
		return nil
	}
	fmt.Printf("seeded %d passengers, %d drivers, %d rides\n", res.Passengers, res.Drivers, res.Rides)
	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sum, err := a.reports.Summary(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	return printSummary(os.Stdout, sum)
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", a.cfg.Export.Dir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.exporter.Run(ctx, *out)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d rides (run %s)\n", res.Rides, res.RunID)
	for _, f := range res.Files {
		fmt.Println("  " + f)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return money(*v)
}

// printSummary renders the reports as aligned plain-text tables
func printSummary(w io.Writer, sum *reporting.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Rides\t%d\n", sum.Rides)
	fmt.Fprintf(tw, "Completed rides\t%d\n", sum.CompletedRides)
	fmt.Fprintf(tw, "Total revenue\t%s\n", money(sum.TotalRevenue))
	fmt.Fprintf(tw, "Average fare\t%.2f\n", sum.AverageFare)
	fmt.Fprintf(tw, "Cheapest ride\t%s\n", optionalMoney(sum.Prices.Min))
	fmt.Fprintf(tw, "Most expensive ride\t%s\n", optionalMoney(sum.Prices.Max))

	fmt.Fprintln(tw, "\nSpend per passenger")
	fmt.Fprintln(tw, "ID\tNAME\tTOTAL")
	for _, ps := range sum.SpendPerPassenger {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", ps.PassengerID, ps.Name, money(ps.TotalSpent))
	}

	fmt.Fprintf(tw, "\nHigh spenders (over %s)\n", money(sum.HighSpenderThreshold))
	if len(sum.HighSpenders) == 0 {
		fmt.Fprintln(tw, "none")
	}
	for _, ps := range sum.HighSpenders {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", ps.PassengerID, ps.Name, money(ps.TotalSpent))
	}

	fmt.Fprintln(tw, "\nFare tiers")
	fmt.Fprintln(tw, "RIDE\tPRICE\tTIER")
	for _, rt := range sum.FareTiers {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", rt.RideID, money(rt.Price), rt.Tier)
	}

	fmt.Fprintln(tw, "\nSupport tickets")
	fmt.Fprintf(tw, "Total\t%d\n", sum.Tickets.Total)
	fmt.Fprintf(tw, "Open\t%d\n", sum.Tickets.Open)
	fmt.Fprintf(tw, "In progress\t%d\n", sum.Tickets.InProgress)
	fmt.Fprintf(tw, "Closed\t%d\n", sum.Tickets.Closed)
	for _, cc := range sum.Tickets.ByCategory {
		fmt.Fprintf(tw, "  %s\t%d\n", cc.Category, cc.Count)
	}

	return tw.Flush()
}
