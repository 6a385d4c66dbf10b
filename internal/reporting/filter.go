package reporting

import (
	"time"
)

// Filter is the request-scoped predicate of one report. All dimensions are
// optional; when no explicit date range is supplied the window defaults to
// the trailing PeriodDays.
type Filter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Category   string
	EventID    string
	PeriodDays int
}

// Window is a resolved inclusive reporting interval in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate checks the filter for logical consistency. Existence of the
// referenced event/category is checked separately against the catalog.
func (f Filter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return &ValidationError{Field: "endDate", Reason: "must not be before startDate"}
	}
	if f.PeriodDays < 0 {
		return &ValidationError{Field: "period", Reason: "must not be negative"}
	}
	return nil
}

// Window resolves the filter to a concrete interval. With both bounds set
// they are used as-is; otherwise the window is the trailing PeriodDays
// (default 30) ending at now.
func (f Filter) Window(now time.Time) Window {
	now = now.UTC()
	if f.StartDate != nil && f.EndDate != nil {
		return Window{Start: f.StartDate.UTC(), End: f.EndDate.UTC()}
	}

	days := f.PeriodDays
	if days == 0 {
		days = 30
	}
	return Window{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
	}
}

// Previous returns the comparison window for growth: the interval of equal
// length immediately preceding this one.
func (w Window) Previous() Window {
	length := w.End.Sub(w.Start)
	return Window{
		Start: w.Start.Add(-length),
		End:   w.Start,
	}
}

// Days is the window length in whole days, rounded up so short explicit
// ranges still echo as at least one day.
func (w Window) Days() int {
	days := int(w.End.Sub(w.Start).Hours() / 24)
	if w.End.Sub(w.Start)%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
