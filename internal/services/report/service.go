// Package report emails daily portfolio summaries
package report

import (
	"context"
	"fmt"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
	"github.com/chialin/folio/internal/storage"
)

// Service formats and sends the daily report from the recorded history.
type Service struct {
	history interfaces.HistoryStore
	mailer  Mailer
	logger  *common.Logger
}

// NewService creates a report service over a history store and a mailer.
func NewService(history interfaces.HistoryStore, mailer Mailer, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{history: history, mailer: mailer, logger: logger}
}

// Send loads the history, formats the latest snapshot plus the recent tail,
// and delivers it. Sending with no recorded history is an error: there is
// nothing meaningful to report.
func (s *Service) Send(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	series, err := s.history.Load()
	if err != nil {
		return fmt.Errorf("failed to load history for report: %w", err)
	}
	latest, ok := series.Latest()
	if !ok {
		return storage.ErrHistoryEmpty
	}

	subject := formatSubject(latest)
	body := formatBody(series)

	if err := s.mailer.Send(subject, body); err != nil {
		return err
	}

	s.logger.Info().Str("date", latest.Date).Msg("Daily report sent")
	return nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
