package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"purse/internal/core"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parseFrequency(s string, allowed ...core.Frequency) (core.Frequency, error) {
	f := core.Frequency(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("%w %q: must be one of %s", core.ErrInvalidFrequency, s, strings.Join(names, ", "))
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("%w: %q", core.ErrInvalidDayOfWeek, s)
}

// parseMonth accepts YYYY-MM. An empty string means the month of today.
func parseMonth(s string, today core.Date) (int, int, error) {
	if strings.TrimSpace(s) == "" {
		return today.Year(), today.Month(), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q, want YYYY-MM", core.ErrInvalidMonth, s)
	}
	return t.Year(), int(t.Month()), nil
}

// parseOptionalDate returns the zero Date for an empty string.
func parseOptionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

func dateOrDash(d core.Date) string {
	if d.IsEmpty() {
		return "-"
	}
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// schedule describes when a rule fires, e.g. "monthly on day 31".
func schedule(r core.RecurringExpense) string {
	switch r.Every {
	case core.Weekly:
		return "weekly on " + r.DayOfWeek.String()
	case core.Monthly:
		return fmt.Sprintf("monthly on day %d", r.DayOfMonth)
	case core.Yearly:
		return fmt.Sprintf("yearly on %s %d", time.Month(r.StartDate.Month()).String()[:3], r.StartDate.Day())
	default:
		return string(r.Every)
	}
}
