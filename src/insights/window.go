package insights

import (
	"time"

	"gajanji-server/src/models"
)

// BudgetWindow returns the span whose expenses count against the budget at
// time now. Monthly budgets use the calendar month, weekly budgets the
// Monday-based week, custom budgets their own start/end dates. Explicit
// start/end dates always clamp the window. A nil bound is open.
func BudgetWindow(b models.Budget, now time.Time, loc *time.Location) (start, end *time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	switch b.Recurrence {
	case models.RecurrenceMonthly, "":
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		e := s.AddDate(0, 1, 0)
		start, end = &s, &e
	case models.RecurrenceWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		s := midnight.AddDate(0, 0, -daysSinceMonday)
		e := s.AddDate(0, 0, 7)
		start, end = &s, &e
	}

	if b.StartDate != nil && (start == nil || b.StartDate.After(*start)) {
		s := *b.StartDate
		start = &s
	}
	if b.EndDate != nil {
		// end_date is inclusive of its whole day
		e := time.Date(b.EndDate.In(loc).Year(), b.EndDate.In(loc).Month(), b.EndDate.In(loc).Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		if end == nil || e.Before(*end) {
			end = &e
		}
	}
	return start, end
}

// Rearms reports whether a notified recurring budget has rolled into a new
// window since its last alert. Custom budgets never re-arm.
func Rearms(b models.Budget, now time.Time, loc *time.Location) bool {
	if !b.Notified || b.LastNotifiedAt == nil {
		return false
	}
	if b.Recurrence != models.RecurrenceMonthly && b.Recurrence != models.RecurrenceWeekly {
		return false
	}
	start, _ := BudgetWindow(models.Budget{Recurrence: b.Recurrence}, now, loc)
	return start != nil && b.LastNotifiedAt.Before(*start)
}
