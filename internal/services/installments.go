package services

import "purse/internal/core"

// PaidMonths returns how many monthly payments of the plan have been made.
func PaidMonths(p core.InstallmentPayment) int {
	return p.TotalMonths - p.RemainingMonths
}

// NextPaymentDate returns the date of the next monthly payment, counted from
// the plan start. Payment days past the end of a short month fall on its
// last day.
func NextPaymentDate(p core.InstallmentPayment) core.Date {
	return p.StartDate.AddMonths(PaidMonths(p) + 1)
}

// InstallmentProgress returns the paid share of the plan as a percentage.
func InstallmentProgress(p core.InstallmentPayment) float64 {
	if p.TotalMonths <= 0 {
		return 0
	}
	return float64(PaidMonths(p)) / float64(p.TotalMonths) * 100
}

// RemainingTotal sums what is still owed across active plans.
func RemainingTotal(plans []core.InstallmentPayment) core.Money {
	var total int64
	for _, p := range plans {
		if !p.IsActive {
			continue
		}
		total += p.MonthlyAmount.Cents * int64(p.RemainingMonths)
	}
	return core.Money{Cents: total}
}

// MonthlyInstallmentTotal sums the monthly payments of active plans.
func MonthlyInstallmentTotal(plans []core.InstallmentPayment) core.Money {
	var total int64
	for _, p := range plans {
		if p.IsActive && p.RemainingMonths > 0 {
			total += p.MonthlyAmount.Cents
		}
	}
	return core.Money{Cents: total}
}

// UpcomingInstallments lists the next payment of each active plan due
// within horizonDays of today, soonest first. Payments already past due are
// left out; recording them with RecordInstallmentPayment moves a plan on.
func UpcomingInstallments(plans []core.InstallmentPayment, today core.Date, horizonDays int) []UpcomingCharge {
	horizon := today.AddDays(horizonDays)
	var out []UpcomingCharge
	for _, p := range plans {
		if !p.IsActive || p.RemainingMonths <= 0 {
			continue
		}
		due := NextPaymentDate(p)
		if due.Before(today.Time) || due.After(horizon.Time) {
			continue
		}
		out = append(out, UpcomingCharge{
			Expense: core.Expense{
				ID:          p.OriginalExpenseID,
				CardID:      p.CardID,
				Amount:      p.MonthlyAmount,
				Category:    p.Category,
				Merchant:    p.Merchant,
				Description: p.Description,
				Date:        due,
				Installment: &core.InstallmentInfo{
					TotalMonths:   p.TotalMonths,
					CurrentMonth:  PaidMonths(p) + 1,
					MonthlyAmount: p.MonthlyAmount,
				},
			},
			DueDate: due,
		})
	}
	sortCharges(out)
	return out
}

// RecordInstallmentPayment marks one more month as paid, deactivating the
// plan when nothing remains.
func RecordInstallmentPayment(p core.InstallmentPayment) core.InstallmentPayment {
	if p.RemainingMonths > 0 {
		p.RemainingMonths--
	}
	if p.RemainingMonths == 0 {
		p.IsActive = false
	}
	return p
}
