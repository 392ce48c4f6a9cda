package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/models"
)

// Scheduler runs the daily snapshot job on a cron expression, and optionally
// sends the email report after each successful snapshot.
type Scheduler struct {
	app    *App
	cron   *cron.Cron
	logger *common.Logger
}

// StartScheduler starts the snapshot job when the scheduler is enabled in
// configuration. It returns nil without starting anything when disabled.
func (a *App) StartScheduler() (*Scheduler, error) {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Debug().Msg("Snapshot scheduler disabled")
		return nil, nil
	}

	s := &Scheduler{
		app:    a,
		cron:   cron.New(),
		logger: a.Logger,
	}

	if _, err := s.cron.AddFunc(a.Config.Scheduler.Cron, s.runSnapshot); err != nil {
		return nil, fmt.Errorf("invalid scheduler cron %q: %w", a.Config.Scheduler.Cron, err)
	}

	s.cron.Start()
	a.scheduler = s
	a.Logger.Info().Str("cron", a.Config.Scheduler.Cron).Msg("Snapshot scheduler started")
	return s, nil
}

// StopScheduler stops the cron loop and waits for a running job to finish.
func (a *App) StopScheduler() {
	if a.scheduler == nil {
		return
	}
	<-a.scheduler.cron.Stop().Done()
	a.Logger.Info().Msg("Snapshot scheduler stopped")
	a.scheduler = nil
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	date := models.Today()
	start := time.Now()

	result, _, run, err := s.app.Snapshot(ctx, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("Scheduled snapshot failed")
		return
	}

	s.logger.Info().
		Str("date", date).
		Float64("total_usd", result.Totals.USD).
		Str("sources", run.Resolver.DescribeSources()).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled snapshot recorded")

	if s.app.Config.Mail.Enabled {
		if err := s.app.ReportService.Send(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Daily report failed")
		}
	}
}
