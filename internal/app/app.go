// Package app wires configuration, clients, services, and storage.
// It is the shared core used by cmd/folio and cmd/folio-server.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chialin/folio/internal/clients/stooq"
	"github.com/chialin/folio/internal/clients/yahoo"
	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
	"github.com/chialin/folio/internal/models"
	"github.com/chialin/folio/internal/services/fx"
	"github.com/chialin/folio/internal/services/pricing"
	"github.com/chialin/folio/internal/services/report"
	"github.com/chialin/folio/internal/services/valuation"
	"github.com/chialin/folio/internal/storage"
)

// App holds initialized clients and stores. Price resolvers are deliberately
// not held here: a resolver tracks per-run source usage, so each valuation
// builds a fresh one through NewRun.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Portfolio     interfaces.PortfolioStore
	History       interfaces.HistoryStore
	ReportService interfaces.ReportService
	StartupTime   time.Time

	quoteClients []interfaces.QuoteClient
	fxRates      *fx.RateTable
	scheduler    *Scheduler
}

// Run is one valuation run: a fresh resolver and valuator whose source
// bookkeeping covers exactly this run.
type Run struct {
	Resolver interfaces.PriceSource
	Valuator interfaces.PortfolioValuator
}

// NewApp loads configuration and initializes clients, stores, and services.
// configPath may be empty, in which case FOLIO_CONFIG and the default
// config/folio.toml location are tried.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = "config/folio.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewAppFromConfig(config), nil
}

// NewAppFromConfig wires clients, stores, and services from an already
// loaded configuration. Used by the CLI after applying flag overrides.
func NewAppFromConfig(config *common.Config) *App {
	logger := common.NewLogger(config.Logging.Level)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Pricing.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Pricing.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Pricing.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)
	stooqClient := stooq.NewClient(
		stooq.WithBaseURL(config.Pricing.Stooq.BaseURL),
		stooq.WithRateLimit(config.Pricing.Stooq.RateLimit),
		stooq.WithTimeout(config.Pricing.Stooq.GetTimeout()),
		stooq.WithLogger(logger),
	)

	a := &App{
		Config:       config,
		Logger:       logger,
		Portfolio:    storage.NewPortfolioFile(config.Files.Portfolio, logger),
		History:      storage.NewHistoryFile(config.Files.History, logger),
		StartupTime:  time.Now(),
		quoteClients: []interfaces.QuoteClient{yahooClient, stooqClient},
		fxRates:      fx.LoadRateTable(config.Files.FXRates, logger),
	}

	mailer := report.NewSMTPMailer(config.Mail)
	a.ReportService = report.NewService(a.History, mailer, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("portfolio", config.Files.Portfolio).
		Str("history", config.Files.History).
		Bool("overrides_only", config.Pricing.OverridesOnly).
		Msg("Folio initialized")

	return a
}

// NewRun builds a fresh resolver, converter, and valuator for one valuation.
// Overrides are re-read from disk so edits take effect without a restart.
func (a *App) NewRun() *Run {
	overrides := pricing.LoadOverrides(a.Config.Files.Overrides, a.Logger)
	resolver := pricing.NewResolver(a.quoteClients, overrides, !a.Config.Pricing.OverridesOnly, a.Logger)
	converter := fx.NewConverter(a.fxRates, resolver, a.Logger)

	return &Run{
		Resolver: resolver,
		Valuator: valuation.NewService(resolver, converter, a.Logger),
	}
}

// Snapshot values the portfolio and records the result in the history ledger
// for the given date. It returns the valuation, the updated series, and the
// resolver that served the run (for source reporting).
func (a *App) Snapshot(ctx context.Context, date string) (*models.PortfolioResult, models.HistorySeries, *Run, error) {
	result, run, err := a.Value(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	series, err := a.History.Upsert(date, result.Totals.USD, result.Totals.TWD)
	if err != nil {
		return nil, nil, nil, err
	}
	return result, series, run, nil
}

// Value loads the portfolio and values it without touching the history file.
func (a *App) Value(ctx context.Context) (*models.PortfolioResult, *Run, error) {
	def, err := a.Portfolio.Load()
	if err != nil {
		return nil, nil, err
	}

	run := a.NewRun()
	result, err := run.Valuator.Calculate(ctx, def)
	if err != nil {
		return nil, nil, err
	}
	return result, run, nil
}
