// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring expense dueness checking.
// Each frequency type (daily, weekly, monthly, yearly) has its own strategy
// that encapsulates the logic for deciding whether a rule fires again once it
// has already fired at least once.

package services

import (
	"fmt"

	"purse/internal/core"
)

// DuenessChecker is the strategy interface for checking if a recurring expense is due.
// Each implementation encapsulates the algorithm for a specific frequency type.
type DuenessChecker interface {
	// IsDue reports whether a rule that last fired on lastProcessed must fire
	// again on today. Both dates are civil dates in the evaluation calendar.
	IsDue(rule core.RecurringExpense, lastProcessed, today core.Date) bool
}

// DailyChecker implements DuenessChecker for daily recurring expenses.
type DailyChecker struct{}

// IsDue returns true once per distinct calendar day.
func (DailyChecker) IsDue(_ core.RecurringExpense, lastProcessed, today core.Date) bool {
	return !lastProcessed.SameDay(today)
}

// WeeklyChecker implements DuenessChecker for weekly recurring expenses.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last fire and
// today is the configured weekday. Both conditions are required.
func (WeeklyChecker) IsDue(rule core.RecurringExpense, lastProcessed, today core.Date) bool {
	if core.DaysBetween(lastProcessed, today) < 7 {
		return false
	}
	return today.Weekday() == rule.DayOfWeek
}

// MonthlyChecker implements DuenessChecker for monthly recurring expenses.
type MonthlyChecker struct{}

// IsDue returns true in a new month on the configured day. Rules set on the
// 29th-31st fall back to the last day of shorter months. A missed day is not
// caught up later in the month.
func (MonthlyChecker) IsDue(rule core.RecurringExpense, lastProcessed, today core.Date) bool {
	if lastProcessed.SameMonth(today) {
		return false
	}
	if today.Day() == rule.DayOfMonth {
		return true
	}
	return rule.DayOfMonth > 28 && today.IsLastDayOfMonth()
}

// YearlyChecker implements DuenessChecker for yearly recurring expenses.
type YearlyChecker struct{}

// IsDue returns true in a later year than the last fire, once the
// anniversary of the start date has been reached. Feb 29 anniversaries fall
// on Feb 28 in common years.
func (YearlyChecker) IsDue(rule core.RecurringExpense, lastProcessed, today core.Date) bool {
	if today.Year() <= lastProcessed.Year() {
		return false
	}
	anniversary := core.ClampedDate(today.Year(), rule.StartDate.Time.Month(), rule.StartDate.Day())
	return !today.Before(anniversary.Time)
}

// duenessStrategies maps repetition types to their corresponding checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the appropriate dueness checker for a repetition type.
// Returns an error if the repetition type is not supported.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown repetition type: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom dueness checkers for new frequency types.
// It is not safe to call concurrently with evaluation.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
