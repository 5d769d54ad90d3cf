package domain

import "time"

// ============================================================
// Reporting Periods
// ============================================================

// Period is a named preset used to derive a date range for
// transaction listings and summaries.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// DateRange bounds a query interval. Nil Start and End mean no
// filtering at all (the "all" period).
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ResolveDateRange computes the interval for a period anchored at now.
// End is always now except for PeriodAll, which returns an unbounded
// range. Week subtracts 7 calendar days rather than 168 hours, so the
// span may shrink or stretch across a DST transition.
func ResolveDateRange(period Period, now time.Time) (DateRange, error) {
	switch period {
	case PeriodWeek:
		start := now.AddDate(0, 0, -7)
		return DateRange{Start: &start, End: &now}, nil
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: &start, End: &now}, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: &start, End: &now}, nil
	case PeriodAll:
		return DateRange{}, nil
	default:
		return DateRange{}, &ErrInvalidPeriod{Period: string(period)}
	}
}
