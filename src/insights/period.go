package insights

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	PeriodYearly  = "yearly"
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

var ErrInvalidPeriod = errors.New("invalid period")

// DateRange is half-open: Start <= t < End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// PeriodSelector is the yearly/monthly/weekly filter of the category view.
type PeriodSelector struct {
	Period string `json:"period,omitempty"`
	Year   string `json:"year,omitempty"`
	Month  string `json:"month,omitempty"`
	Week   string `json:"week,omitempty"`
}

// Range resolves the selector. ok is false when the selector is incomplete or
// unknown, which means "no date filter". Non-numeric or out-of-range parts
// yield ErrInvalidPeriod.
func (p PeriodSelector) Range(loc *time.Location) (r DateRange, ok bool, err error) {
	if loc == nil {
		loc = time.UTC
	}
	switch {
	case p.Period == PeriodYearly && p.Year != "":
		year, err := atoi(p.Year, "year", 1, 9999)
		if err != nil {
			return DateRange{}, false, err
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: start.AddDate(1, 0, 0)}, true, nil

	case p.Period == PeriodMonthly && p.Year != "" && p.Month != "":
		year, err := atoi(p.Year, "year", 1, 9999)
		if err != nil {
			return DateRange{}, false, err
		}
		month, err := atoi(p.Month, "month", 1, 12)
		if err != nil {
			return DateRange{}, false, err
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: start.AddDate(0, 1, 0)}, true, nil

	case p.Period == PeriodWeekly && p.Year != "" && p.Week != "":
		year, err := atoi(p.Year, "year", 1, 9999)
		if err != nil {
			return DateRange{}, false, err
		}
		week, err := atoi(p.Week, "week", 1, 53)
		if err != nil {
			return DateRange{}, false, err
		}
		return WeekRange(year, week, loc), true, nil
	}
	return DateRange{}, false, nil
}

// WeekRange counts weeks from the Monday on or before January 1st
// (first day + (week-1)*7 - weekday + 1, with Sunday as weekday 0).
func WeekRange(year, week int, loc *time.Location) DateRange {
	firstDay := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	offset := (week-1)*7 - int(firstDay.Weekday()) + 1
	start := firstDay.AddDate(0, 0, offset)
	return DateRange{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthRange resolves the summary/suggestion period: "" or "this-month" is the
// month containing now, otherwise "YYYY-MM".
func MonthRange(period string, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	period = strings.TrimSpace(period)
	var start time.Time
	if period == "" || period == "this-month" {
		now = now.In(loc)
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	} else {
		year, month, found := strings.Cut(period, "-")
		if !found {
			return DateRange{}, fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidPeriod, period)
		}
		y, err := atoi(year, "year", 1, 9999)
		if err != nil {
			return DateRange{}, err
		}
		m, err := atoi(month, "month", 1, 12)
		if err != nil {
			return DateRange{}, err
		}
		start = time.Date(y, time.Month(m), 1, 0, 0, 0, 0, loc)
	}
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

func atoi(s, name string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidPeriod, name, s)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %s %d out of range %d-%d", ErrInvalidPeriod, name, n, min, max)
	}
	return n, nil
}
