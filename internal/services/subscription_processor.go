package services

import (
	"sort"
	"strings"
	"time"

	"purse/internal/core"
	"purse/internal/ids"
)

// UpcomingCharge is a subscription (or installment) payment expected on DueDate.
type UpcomingCharge struct {
	Expense core.Expense
	DueDate core.Date
}

// SubscriptionEvaluator generates charges for expenses carrying subscription
// metadata. Duplicate generation is prevented by looking for an existing
// charge in the same period instead of a persisted cursor.
type SubscriptionEvaluator struct {
	cal core.Calendar
	ids ids.Generator
}

// NewSubscriptionEvaluator creates an evaluator pinned to cal.
func NewSubscriptionEvaluator(cal core.Calendar, gen ids.Generator) *SubscriptionEvaluator {
	if gen == nil {
		gen = ids.UUID{}
	}
	return &SubscriptionEvaluator{cal: cal, ids: gen}
}

// periodKey identifies one billing period of one merchant's subscription.
type periodKey struct {
	merchant string
	year     int
	month    int // 0 for yearly periods
}

// GenerateDue returns the subscription charges due at now. Calling it again
// with the returned expenses added to the input yields nothing new.
//
// A period is charged when no expense other than the source is already filed
// under the subscription category for the merchant in that period. Generated
// charges carry the source's metadata and so become sources themselves; a
// period with several sources is charged only when none of them is blocked.
func (s *SubscriptionEvaluator) GenerateDue(expenses []core.Expense, now time.Time) []core.Expense {
	today := s.cal.DateOf(now)

	blocked := map[periodKey]bool{}
	var due []core.Expense
	for _, exp := range expenses {
		key, ok := s.duePeriod(exp, today)
		if !ok {
			continue
		}
		if chargedInPeriod(expenses, key, exp.ID) {
			blocked[key] = true
		}
		due = append(due, exp)
	}

	var out []core.Expense
	generated := map[periodKey]bool{}
	for _, exp := range due {
		key, _ := s.duePeriod(exp, today)
		if blocked[key] || generated[key] {
			continue
		}
		generated[key] = true
		out = append(out, s.charge(exp, today, now))
	}
	return out
}

// duePeriod reports the billing period exp is due for on today, if any.
func (s *SubscriptionEvaluator) duePeriod(exp core.Expense, today core.Date) (periodKey, bool) {
	sub := exp.Subscription
	if sub == nil || !sub.IsActive {
		return periodKey{}, false
	}
	if !sub.EndDate.IsEmpty() && sub.EndDate.Before(today.Time) {
		return periodKey{}, false
	}

	switch sub.Frequency {
	case core.Monthly:
		if today.Day() != billingDay(*sub) {
			return periodKey{}, false
		}
		return periodKey{merchant: exp.Merchant, year: today.Year(), month: today.Month()}, true
	case core.Yearly:
		if today.Month() != sub.StartDate.Month() || today.Day() != sub.StartDate.Day() {
			return periodKey{}, false
		}
		return periodKey{merchant: exp.Merchant, year: today.Year()}, true
	}
	return periodKey{}, false
}

func (s *SubscriptionEvaluator) charge(source core.Expense, today core.Date, now time.Time) core.Expense {
	label := "Monthly subscription"
	if source.Subscription.Frequency == core.Yearly {
		label = "Yearly subscription"
	}
	meta := *source.Subscription
	return core.Expense{
		ID:           s.ids.NewID(ids.PrefixExpense),
		CardID:       source.CardID,
		Amount:       source.Amount,
		Category:     core.CategorySubscription,
		Merchant:     source.Merchant,
		Description:  label + " - " + strings.TrimSpace(source.Description),
		Date:         today,
		CreatedAt:    now,
		Subscription: &meta,
	}
}

// chargedInPeriod reports whether an expense other than sourceID already
// records a subscription charge for the merchant in the period.
func chargedInPeriod(expenses []core.Expense, key periodKey, sourceID string) bool {
	for _, e := range expenses {
		if e.ID == sourceID {
			continue
		}
		if e.Merchant != key.merchant || e.Category != core.CategorySubscription {
			continue
		}
		if e.Date.Year() != key.year {
			continue
		}
		if key.month == 0 || e.Date.Month() == key.month {
			return true
		}
	}
	return false
}

func billingDay(sub core.SubscriptionInfo) int {
	if sub.DayOfMonth > 0 {
		return sub.DayOfMonth
	}
	return sub.StartDate.Day()
}

// NextSubscriptionDate returns the next billing date strictly after today.
// Months (or years) lacking the billing day are skipped, matching the days on
// which GenerateDue creates charges.
func NextSubscriptionDate(sub core.SubscriptionInfo, today core.Date) core.Date {
	if sub.Frequency == core.Yearly {
		month, day := sub.StartDate.Time.Month(), sub.StartDate.Day()
		// a leap day recurs within eight years
		for year := today.Year(); year <= today.Year()+8; year++ {
			next := core.ClampedDate(year, month, day)
			if next.Day() == day && next.After(today.Time) {
				return next
			}
		}
		return core.ClampedDate(today.Year()+1, month, day)
	}

	day := billingDay(sub)
	for i := 0; i <= 12; i++ {
		next := core.ClampedDate(today.Year(), today.Time.Month()+time.Month(i), day)
		if next.Day() == day && next.After(today.Time) {
			return next
		}
	}
	return core.ClampedDate(today.Year(), today.Time.Month()+1, day)
}

// Upcoming lists active subscriptions whose next billing date falls within
// horizonDays of now, soonest first. Subscriptions sharing a merchant and
// frequency (an original and the charges generated from it) are listed once.
// It never modifies its input.
func (s *SubscriptionEvaluator) Upcoming(expenses []core.Expense, now time.Time, horizonDays int) []UpcomingCharge {
	today := s.cal.DateOf(now)
	horizon := today.AddDays(horizonDays)

	seen := map[string]bool{}
	var out []UpcomingCharge
	for _, exp := range expenses {
		sub := exp.Subscription
		if sub == nil || !sub.IsActive {
			continue
		}
		key := exp.Merchant + "|" + string(sub.Frequency)
		if seen[key] {
			continue
		}

		due := NextSubscriptionDate(*sub, today)
		if due.After(horizon.Time) {
			continue
		}
		if !sub.EndDate.IsEmpty() && due.After(sub.EndDate.Time) {
			continue
		}
		seen[key] = true
		out = append(out, UpcomingCharge{Expense: exp, DueDate: due})
	}

	sortCharges(out)
	return out
}

func sortCharges(charges []UpcomingCharge) {
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].DueDate.Before(charges[j].DueDate.Time)
	})
}
