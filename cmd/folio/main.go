// Command folio values the portfolio and records the result in the
// history ledger. With -dry-run the valuation is shown without writing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/chialin/folio/internal/app"
	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/models"
)

func main() {
	// Best effort; a missing .env is the normal case
	_ = godotenv.Load()

	var (
		configPath    = flag.String("config", "", "path to folio.toml (default: FOLIO_CONFIG or config/folio.toml)")
		portfolioPath = flag.String("portfolio", "", "portfolio definition file (overrides config)")
		overridesPath = flag.String("overrides", "", "local price override file (overrides config)")
		historyPath   = flag.String("history", "", "history CSV file (overrides config)")
		date          = flag.String("date", "", "snapshot date YYYY-MM-DD (default: today)")
		overridesOnly = flag.Bool("overrides-only", false, "price from local overrides only, no online sources")
		dryRun        = flag.Bool("dry-run", false, "value and preview without writing the history file")
		logLevel      = flag.String("log-level", "", "log level: trace, debug, info, warn, error")
	)
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("FOLIO_CONFIG")
	}
	if path == "" {
		path = "config/folio.toml"
	}

	config, err := common.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *portfolioPath != "" {
		config.Files.Portfolio = *portfolioPath
	}
	if *overridesPath != "" {
		config.Files.Overrides = *overridesPath
	}
	if *historyPath != "" {
		config.Files.History = *historyPath
	}
	if *overridesOnly {
		config.Pricing.OverridesOnly = true
	}
	if *logLevel != "" {
		config.Logging.Level = *logLevel
	}

	snapshotDate := *date
	if snapshotDate == "" {
		snapshotDate = models.Today()
	}
	if snapshotDate, err = models.ParseDate(snapshotDate); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	a := app.NewAppFromConfig(config)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, run, err := a.Value(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Valuation failed: %v\n", err)
		os.Exit(1)
	}

	var series models.HistorySeries
	if *dryRun {
		series, err = a.History.Simulate(snapshotDate, result.Totals.USD, result.Totals.TWD)
	} else {
		series, err = a.History.Upsert(snapshotDate, result.Totals.USD, result.Totals.TWD)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "History update failed: %v\n", err)
		os.Exit(1)
	}

	printResult(snapshotDate, *dryRun, result, series, run)
}

func printResult(date string, dryRun bool, result *models.PortfolioResult, series models.HistorySeries, run *app.Run) {
	label := "recorded"
	if dryRun {
		label = "dry run, not recorded"
	}
	fmt.Printf("Portfolio valuation for %s (%s)\n\n", date, label)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "name\tcategory\tquantity\tprice\tvalue USD\tvalue TWD\tP/L USD\tROI %\talloc %\t")
	for _, p := range result.Positions {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			p.Name, p.Category, p.Quantity, p.UnitPrice,
			p.ValueUSD, p.ValueTWD, p.UnrealizedUSD, p.ROIPct, p.PortfolioPct)
	}
	w.Flush()

	fmt.Printf("\nTotal: %.2f USD / %.2f TWD", result.Totals.USD, result.Totals.TWD)
	fmt.Printf("  (P/L %.2f USD, ROI %.2f%%)\n", result.Totals.UnrealizedUSD, result.Totals.ROIPct)

	if rec, ok := series.Find(date); ok {
		fmt.Printf("Daily return: %+.4f%% over %d recorded days\n", rec.DailyReturnPct, len(series))
	}

	fmt.Println()
	fmt.Println(run.Resolver.DescribeSources())
}
