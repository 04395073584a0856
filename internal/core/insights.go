package core

import "time"

// Trend of a month's spending against the month before.
type Trend string

const (
	TrendUp     Trend = "naik"
	TrendDown   Trend = "turun"
	TrendStable Trend = "stabil"
)

// Changes within this band of the previous month count as stable.
const trendBandPercent = 10

// MonthInsights compares one month's spending against the previous
// month and projects where the current month is heading.
type MonthInsights struct {
	Summary        MonthlySummary
	PreviousTotal  Money
	ChangePercent  float64 // vs previous month; 0 without history
	Trend          Trend
	Projected      Money // month-end estimate from the daily average
	Largest        Transaction
	HasLargest     bool
	WeekendPercent float64 // share of the total spent on Sat/Sun
}

// AnalyzeMonth builds insights from the current and previous month's
// transactions. Both slices may carry out-of-month rows; they are
// filtered the same way Summarize filters them.
func AnalyzeMonth(current, previous []Transaction, year, month int, now time.Time) MonthInsights {
	in := MonthInsights{
		Summary: Summarize(current, year, month, now),
		Trend:   TrendStable,
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	in.PreviousTotal = Summarize(previous, prevYear, prevMonth, now).Total
	if in.PreviousTotal > 0 {
		in.ChangePercent = (float64(in.Summary.Total) - float64(in.PreviousTotal)) / float64(in.PreviousTotal) * 100
		switch {
		case in.ChangePercent > trendBandPercent:
			in.Trend = TrendUp
		case in.ChangePercent < -trendBandPercent:
			in.Trend = TrendDown
		}
	}

	in.Projected = Money(in.Summary.AveragePerDay * float64(DaysInMonth(year, month)))

	var weekend Money
	for _, tx := range current {
		if tx.Timestamp.Year() != year || int(tx.Timestamp.Month()) != month {
			continue
		}
		if wd := tx.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend += tx.Amount
		}
		if !in.HasLargest || tx.Amount > in.Largest.Amount {
			in.Largest = tx
			in.HasLargest = true
		}
	}
	if in.Summary.Total > 0 {
		in.WeekendPercent = float64(weekend) / float64(in.Summary.Total) * 100
	}
	return in
}
