package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	BudgetTotal    BudgetType = "total"
	BudgetCategory BudgetType = "category"
)

const (
	GoalReduce GoalType = "reduce"
	GoalSave   GoalType = "save"
	GoalLimit  GoalType = "limit"
)

// CategorySubscription is the category assigned to generated subscription charges.
const CategorySubscription = "subscription"

// AutoPrefix marks descriptions of expenses materialized from recurring rules.
const AutoPrefix = "[auto] "

type (
	Frequency  string
	BudgetType string
	GoalType   string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Card struct {
		ID     string
		Name   string
		Number string
		Color  string
	}

	InstallmentInfo struct {
		TotalMonths   int
		CurrentMonth  int
		MonthlyAmount Money
	}

	SubscriptionInfo struct {
		Frequency  Frequency // Monthly or Yearly
		StartDate  Date
		EndDate    Date // zero when open-ended
		IsActive   bool
		DayOfMonth int // billing day for monthly subscriptions
	}

	Expense struct {
		ID           string
		CardID       string
		Amount       Money
		Category     string
		Merchant     string
		Description  string
		Date         Date
		CreatedAt    time.Time
		RecurringID  string // set when materialized from a recurring rule
		Installment  *InstallmentInfo
		Subscription *SubscriptionInfo
	}

	// RecurringExpense is a user-defined template that periodically
	// generates expense records.
	RecurringExpense struct {
		ID            string
		CardID        string
		Amount        Money
		Category      string
		Merchant      string
		Description   string
		Every         Frequency
		DayOfWeek     time.Weekday // weekly only
		DayOfMonth    int          // monthly only, 1-31
		StartDate     Date
		EndDate       Date // zero when open-ended
		LastProcessed Date // zero until the first fire
		IsActive      bool
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	InstallmentPayment struct {
		ID                string
		OriginalExpenseID string
		CardID            string
		TotalAmount       Money
		MonthlyAmount     Money
		TotalMonths       int
		RemainingMonths   int
		StartDate         Date
		Merchant          string
		Description       string
		Category          string
		IsActive          bool
		CreatedAt         time.Time
		UpdatedAt         time.Time
	}

	Budget struct {
		ID         string
		Type       BudgetType
		CategoryID string // only for BudgetCategory
		Amount     Money
		Period     Frequency // Daily, Weekly or Monthly
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	SpendingGoal struct {
		ID           string
		Type         GoalType
		TargetAmount Money
		Period       Frequency // Weekly, Monthly or Yearly
		CategoryID   string    // empty for all categories
		Title        string
		Description  string
		StartDate    Date
		EndDate      Date
		IsActive     bool
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidDayOfWeek  = errors.New("invalid day of week")
	ErrInvalidDayOfMonth = errors.New("invalid day of month")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
	ErrEmptyMerchant     = errors.New("empty merchant")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidBudget     = errors.New("invalid budget")
	ErrInvalidGoal       = errors.New("invalid goal")
	ErrInvalidInstalment = errors.New("invalid installment")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether an optional date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Installment != nil {
		if err := e.Installment.Validate(); err != nil {
			return err
		}
	}
	if e.Subscription != nil {
		if err := e.Subscription.Validate(); err != nil {
			return fmt.Errorf("subscription: %w", err)
		}
	}
	return nil
}

func (i InstallmentInfo) Validate() error {
	if i.TotalMonths < 2 {
		return fmt.Errorf("%w: at least 2 months required", ErrInvalidInstalment)
	}
	if i.CurrentMonth < 0 || i.CurrentMonth > i.TotalMonths {
		return fmt.Errorf("%w: current month out of range", ErrInvalidInstalment)
	}
	return i.MonthlyAmount.Validate()
}

func (s SubscriptionInfo) Validate() error {
	if s.Frequency != Monthly && s.Frequency != Yearly {
		return fmt.Errorf("%w: subscriptions are monthly or yearly", ErrInvalidFrequency)
	}
	if err := s.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if !s.EndDate.IsEmpty() && s.EndDate.Before(s.StartDate.Time) {
		return ErrInvalidDateRange
	}
	if s.Frequency == Monthly && (s.DayOfMonth < 1 || s.DayOfMonth > 31) {
		return ErrInvalidDayOfMonth
	}
	return nil
}

// NewSubscription builds subscription metadata, deriving the billing day
// from the start date.
func NewSubscription(freq Frequency, start Date, end Date) SubscriptionInfo {
	return SubscriptionInfo{
		Frequency:  freq,
		StartDate:  start,
		EndDate:    end,
		IsActive:   true,
		DayOfMonth: start.Day(),
	}
}

func (re RecurringExpense) Validate() error {
	if err := re.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	if !re.EndDate.IsEmpty() {
		if err := re.EndDate.Validate(); err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		if re.EndDate.Before(re.StartDate.Time) {
			return ErrInvalidDateRange
		}
	}

	switch re.Every {
	case Daily, Yearly:
	case Weekly:
		if re.DayOfWeek < time.Sunday || re.DayOfWeek > time.Saturday {
			return ErrInvalidDayOfWeek
		}
	case Monthly:
		if re.DayOfMonth < 1 || re.DayOfMonth > 31 {
			return ErrInvalidDayOfMonth
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, re.Every)
	}

	if len(re.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := re.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(re.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(re.Merchant) == "" {
		return ErrEmptyMerchant
	}
	return nil
}

func (ip InstallmentPayment) Validate() error {
	if ip.TotalMonths < 2 {
		return fmt.Errorf("%w: at least 2 months required", ErrInvalidInstalment)
	}
	if ip.RemainingMonths < 0 || ip.RemainingMonths > ip.TotalMonths {
		return fmt.Errorf("%w: remaining months out of range", ErrInvalidInstalment)
	}
	if err := ip.MonthlyAmount.Validate(); err != nil {
		return err
	}
	return ip.StartDate.Validate()
}

func (b Budget) Validate() error {
	switch b.Type {
	case BudgetTotal:
	case BudgetCategory:
		if strings.TrimSpace(b.CategoryID) == "" {
			return fmt.Errorf("%w: category budget needs a category", ErrInvalidBudget)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBudget, b.Type)
	}
	switch b.Period {
	case Daily, Weekly, Monthly:
	default:
		return fmt.Errorf("%w: unsupported period %q", ErrInvalidBudget, b.Period)
	}
	return b.Amount.Validate()
}

func (g SpendingGoal) Validate() error {
	switch g.Type {
	case GoalReduce, GoalSave, GoalLimit:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidGoal, g.Type)
	}
	switch g.Period {
	case Weekly, Monthly, Yearly:
	default:
		return fmt.Errorf("%w: unsupported period %q", ErrInvalidGoal, g.Period)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidGoal)
	}
	return g.TargetAmount.Validate()
}
