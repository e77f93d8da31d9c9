package reports

import (
	"fmt"
	"time"
)

// Period is the report range picked in the dashboard.
type Period string

const (
	PeriodDay   Period = "1-day"
	PeriodWeek  Period = "1-week"
	PeriodMonth Period = "1-month"
	PeriodYear  Period = "1-year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown report period %q", s)
}

// Title is the heading used for the workbook and its filename.
func (p Period) Title() string {
	switch p {
	case PeriodDay:
		return "Daily Report"
	case PeriodWeek:
		return "Weekly Report"
	case PeriodMonth:
		return "Monthly Report"
	case PeriodYear:
		return "Annual Report"
	}
	return "Report"
}

// Window returns [from, to) for the period. day is only used by 1-day and
// defaults to the day containing now.
func (p Period) Window(now time.Time, day time.Time) (from, to time.Time) {
	now = now.UTC()
	switch p {
	case PeriodDay:
		if day.IsZero() {
			day = now
		}
		from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, 1)
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now
	case PeriodMonth:
		return now.AddDate(0, 0, -30), now
	default:
		return now.AddDate(0, -12, 0), now
	}
}

// Label describes the window the way the report header shows it.
func (p Period) Label(day time.Time) string {
	switch p {
	case PeriodDay:
		if day.IsZero() {
			return "Selected Date"
		}
		return day.Format("January 2, 2006")
	case PeriodWeek:
		return "Last 7 Days"
	case PeriodMonth:
		return "Last 30 Days"
	case PeriodYear:
		return "Last 12 Months"
	}
	return ""
}
