package report

import (
	"fmt"
	"strings"

	"github.com/chialin/folio/internal/models"
)

// recentDays is how many trailing history rows the report includes.
const recentDays = 5

// formatSubject builds the email subject line from the latest snapshot.
func formatSubject(latest models.HistoryRecord) string {
	return fmt.Sprintf("Folio daily report %s: $%.2f (%+.2f%%)", latest.Date, latest.TotalUSD, latest.DailyReturnPct)
}

// formatBody renders the plain-text report: latest totals, then the recent
// history as a fixed-width table.
func formatBody(series models.HistorySeries) string {
	var sb strings.Builder

	latest, _ := series.Latest()
	sb.WriteString(fmt.Sprintf("Portfolio snapshot for %s\n\n", latest.Date))
	sb.WriteString(fmt.Sprintf("Total (USD):  %14.2f\n", latest.TotalUSD))
	sb.WriteString(fmt.Sprintf("Total (TWD):  %14.2f\n", latest.TotalTWD))
	sb.WriteString(fmt.Sprintf("Daily return: %+13.4f%%\n\n", latest.DailyReturnPct))

	recent := series.Tail(recentDays)
	sb.WriteString(fmt.Sprintf("Last %d days\n", len(recent)))
	sb.WriteString(fmt.Sprintf("%-12s %14s %16s %10s\n", "date", "total_usd", "total_twd", "return"))
	for _, rec := range recent {
		sb.WriteString(fmt.Sprintf("%-12s %14.2f %16.2f %+9.4f%%\n",
			rec.Date, rec.TotalUSD, rec.TotalTWD, rec.DailyReturnPct))
	}

	return sb.String()
}
