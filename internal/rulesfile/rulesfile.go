// Package rulesfile reads and writes recurring expense rules as TOML, so
// rule sets can be kept in version control and imported in bulk.
package rulesfile

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"purse/internal/core"
)

// File is the on-disk layout: a list of [[rule]] tables.
type File struct {
	Rules []Rule `toml:"rule"`
}

// Rule is one recurring expense in its file form. Dates are YYYY-MM-DD and
// amounts are decimals.
type Rule struct {
	Merchant    string `toml:"merchant"`
	Amount      string `toml:"amount"`
	Category    string `toml:"category"`
	Description string `toml:"description,omitempty"`
	Card        string `toml:"card,omitempty"`
	Every       string `toml:"every"`
	DayOfWeek   string `toml:"day_of_week,omitempty"`
	DayOfMonth  int    `toml:"day_of_month,omitempty"`
	Start       string `toml:"start"`
	End         string `toml:"end,omitempty"`
	Paused      bool   `toml:"paused,omitempty"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Decode parses a rules file. Unknown keys are rejected so typos do not
// silently drop settings. Returned rules carry no ID or timestamps.
func Decode(r io.Reader) ([]core.RecurringExpense, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in rules file: %s", strings.Join(keys, ", "))
	}

	out := make([]core.RecurringExpense, 0, len(f.Rules))
	for i, fr := range f.Rules {
		rule, err := fr.toCore()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, fr.Merchant, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

func (fr Rule) toCore() (core.RecurringExpense, error) {
	amount, err := core.ParseMoney(fr.Amount)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("amount %q: %w", fr.Amount, err)
	}
	start, err := core.ParseDate(fr.Start)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("start: %w", err)
	}
	var end core.Date
	if strings.TrimSpace(fr.End) != "" {
		if end, err = core.ParseDate(fr.End); err != nil {
			return core.RecurringExpense{}, fmt.Errorf("end: %w", err)
		}
	}

	rule := core.RecurringExpense{
		CardID:      strings.TrimSpace(fr.Card),
		Amount:      amount,
		Category:    strings.TrimSpace(fr.Category),
		Merchant:    strings.TrimSpace(fr.Merchant),
		Description: strings.TrimSpace(fr.Description),
		Every:       core.Frequency(strings.ToLower(strings.TrimSpace(fr.Every))),
		DayOfMonth:  fr.DayOfMonth,
		StartDate:   start,
		EndDate:     end,
		IsActive:    !fr.Paused,
	}
	if rule.Every == core.Weekly {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(fr.DayOfWeek))]
		if !ok {
			return core.RecurringExpense{}, fmt.Errorf("%w: %q", core.ErrInvalidDayOfWeek, fr.DayOfWeek)
		}
		rule.DayOfWeek = wd
	}
	if err := rule.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	return rule, nil
}

// Encode writes rules in file form, ordered by merchant.
func Encode(w io.Writer, rules []core.RecurringExpense) error {
	f := File{Rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		fr := Rule{
			Merchant:    r.Merchant,
			Amount:      r.Amount.String(),
			Category:    r.Category,
			Description: r.Description,
			Card:        r.CardID,
			Every:       string(r.Every),
			Start:       r.StartDate.String(),
			Paused:      !r.IsActive,
		}
		switch r.Every {
		case core.Weekly:
			fr.DayOfWeek = strings.ToLower(r.DayOfWeek.String())
		case core.Monthly:
			fr.DayOfMonth = r.DayOfMonth
		}
		if !r.EndDate.IsEmpty() {
			fr.End = r.EndDate.String()
		}
		f.Rules = append(f.Rules, fr)
	}
	sort.SliceStable(f.Rules, func(i, j int) bool { return f.Rules[i].Merchant < f.Rules[j].Merchant })

	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encode rules file: %w", err)
	}
	return nil
}
