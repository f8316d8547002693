package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"purse/internal/core"
	"purse/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements ledger.Ledger on a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Ledger = (*SQLiteRepository)(nil)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one connection: SQLite serialises writers anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- expenses ---

const expenseColumns = `id, card_id, amount_cents, category, merchant, description, date, created_at, recurring_id,
	inst_total_months, inst_current_month, inst_monthly_cents,
	sub_frequency, sub_start_date, sub_end_date, sub_is_active, sub_day_of_month`

func insertExpense(ctx context.Context, x execer, e core.Expense) error {
	var (
		instTotal, instCurrent, instMonthly sql.NullInt64
		subFreq, subStart, subEnd           sql.NullString
		subActive, subDay                   sql.NullInt64
	)
	if i := e.Installment; i != nil {
		instTotal = sql.NullInt64{Int64: int64(i.TotalMonths), Valid: true}
		instCurrent = sql.NullInt64{Int64: int64(i.CurrentMonth), Valid: true}
		instMonthly = sql.NullInt64{Int64: i.MonthlyAmount.Cents, Valid: true}
	}
	if s := e.Subscription; s != nil {
		subFreq = sql.NullString{String: string(s.Frequency), Valid: true}
		subStart = sql.NullString{String: s.StartDate.String(), Valid: true}
		subEnd = sql.NullString{String: s.EndDate.String(), Valid: true}
		subActive = sql.NullInt64{Int64: boolToInt(s.IsActive), Valid: true}
		subDay = sql.NullInt64{Int64: int64(s.DayOfMonth), Valid: true}
	}

	_, err := x.ExecContext(ctx, `INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CardID, e.Amount.Cents, e.Category, e.Merchant, e.Description,
		e.Date.String(), formatTime(e.CreatedAt), e.RecurringID,
		instTotal, instCurrent, instMonthly,
		subFreq, subStart, subEnd, subActive, subDay,
	)
	if err != nil {
		return fmt.Errorf("insert expense %s: %w", e.ID, err)
	}
	return nil
}

func scanExpense(s rowScanner) (core.Expense, error) {
	var (
		e                                   core.Expense
		date, createdAt                     string
		instTotal, instCurrent, instMonthly sql.NullInt64
		subFreq, subStart, subEnd           sql.NullString
		subActive, subDay                   sql.NullInt64
	)
	err := s.Scan(&e.ID, &e.CardID, &e.Amount.Cents, &e.Category, &e.Merchant, &e.Description,
		&date, &createdAt, &e.RecurringID,
		&instTotal, &instCurrent, &instMonthly,
		&subFreq, &subStart, &subEnd, &subActive, &subDay)
	if err != nil {
		return core.Expense{}, err
	}

	if e.Date, err = parseDate(date); err != nil {
		return core.Expense{}, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Expense{}, err
	}
	if instTotal.Valid {
		e.Installment = &core.InstallmentInfo{
			TotalMonths:   int(instTotal.Int64),
			CurrentMonth:  int(instCurrent.Int64),
			MonthlyAmount: core.Money{Cents: instMonthly.Int64},
		}
	}
	if subFreq.Valid {
		sub := core.SubscriptionInfo{
			Frequency:  core.Frequency(subFreq.String),
			IsActive:   subActive.Int64 != 0,
			DayOfMonth: int(subDay.Int64),
		}
		if sub.StartDate, err = parseDate(subStart.String); err != nil {
			return core.Expense{}, err
		}
		if sub.EndDate, err = parseDate(subEnd.String); err != nil {
			return core.Expense{}, err
		}
		e.Subscription = &sub
	}
	return e, nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) error {
	if err := insertExpense(ctx, r.db, e); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"merchant", e.Merchant,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, f ledger.ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1 = 1`
	var args []any
	if !f.From.IsEmpty() {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if !f.To.IsEmpty() {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.CardID != "" {
		query += ` AND card_id = ?`
		args = append(args, f.CardID)
	}
	query += ` ORDER BY date, created_at, id`

	return r.queryExpenses(ctx, query, args...)
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "expenses", id)
}

// ListUnsynced returns expenses not yet exported, oldest first.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]core.Expense, error) {
	return r.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses
		WHERE synced_at IS NULL ORDER BY created_at, id LIMIT ?`, limit)
}

// IsSynced reports whether the expense has already been exported.
func (r *SQLiteRepository) IsSynced(ctx context.Context, id string) (bool, error) {
	var synced bool
	err := r.db.QueryRowContext(ctx,
		`SELECT synced_at IS NOT NULL FROM expenses WHERE id = ?`, id).Scan(&synced)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("expense %s: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("check expense synced: %w", err)
	}
	return synced, nil
}

// MarkSynced marks an expense as successfully synced
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE expenses SET synced_at = ? WHERE id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	if err := expectAffected(res, "expense", id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// --- recurring rules ---

const recurringColumns = `id, card_id, amount_cents, category, merchant, description, frequency,
	day_of_week, day_of_month, start_date, end_date, last_processed, is_active, created_at, updated_at`

func recurringArgs(rule core.RecurringExpense) []any {
	return []any{
		rule.CardID, rule.Amount.Cents, rule.Category, rule.Merchant, rule.Description, string(rule.Every),
		int(rule.DayOfWeek), rule.DayOfMonth, rule.StartDate.String(), rule.EndDate.String(),
		rule.LastProcessed.String(), boolToInt(rule.IsActive), formatTime(rule.CreatedAt), formatTime(rule.UpdatedAt),
	}
}

func scanRecurring(s rowScanner) (core.RecurringExpense, error) {
	var (
		rule                 core.RecurringExpense
		freq                 string
		dow                  int
		start, end, last     string
		active               int64
		createdAt, updatedAt string
	)
	err := s.Scan(&rule.ID, &rule.CardID, &rule.Amount.Cents, &rule.Category, &rule.Merchant, &rule.Description, &freq,
		&dow, &rule.DayOfMonth, &start, &end, &last, &active, &createdAt, &updatedAt)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	rule.Every = core.Frequency(freq)
	rule.DayOfWeek = time.Weekday(dow)
	rule.IsActive = active != 0

	for _, p := range []struct {
		dst *core.Date
		src string
	}{{&rule.StartDate, start}, {&rule.EndDate, end}, {&rule.LastProcessed, last}} {
		if *p.dst, err = parseDate(p.src); err != nil {
			return core.RecurringExpense{}, err
		}
	}
	if rule.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.RecurringExpense{}, err
	}
	if rule.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return core.RecurringExpense{}, err
	}
	return rule, nil
}

func (r *SQLiteRepository) AddRecurring(ctx context.Context, rule core.RecurringExpense) error {
	args := append([]any{rule.ID}, recurringArgs(rule)...)
	_, err := r.db.ExecContext(ctx, `INSERT INTO recurring_expenses (`+recurringColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("insert recurring expense %s: %w", rule.ID, err)
	}
	slog.InfoContext(ctx, "Recurring expense saved", "id", rule.ID, "frequency", rule.Every)
	return nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id string) (core.RecurringExpense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recurringColumns+` FROM recurring_expenses WHERE id = ?`, id)
	rule, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringExpense{}, fmt.Errorf("recurring expense %s: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense: %w", err)
	}
	return rule, nil
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recurringColumns+` FROM recurring_expenses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query recurring expenses: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringExpense
	for rows.Next() {
		rule, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func updateRecurring(ctx context.Context, x execer, rule core.RecurringExpense) error {
	args := append(recurringArgs(rule), rule.ID)
	res, err := x.ExecContext(ctx, `UPDATE recurring_expenses SET
		card_id = ?, amount_cents = ?, category = ?, merchant = ?, description = ?, frequency = ?,
		day_of_week = ?, day_of_month = ?, start_date = ?, end_date = ?, last_processed = ?,
		is_active = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update recurring expense %s: %w", rule.ID, err)
	}
	return expectAffected(res, "recurring expense", rule.ID)
}

func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, rule core.RecurringExpense) error {
	return updateRecurring(ctx, r.db, rule)
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "recurring_expenses", id)
}

// CommitGenerated inserts generated expenses and advances their rules in a
// single transaction.
func (r *SQLiteRepository) CommitGenerated(ctx context.Context, expenses []core.Expense, rules []core.RecurringExpense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range expenses {
		if err := insertExpense(ctx, tx, e); err != nil {
			return err
		}
	}
	for _, rule := range rules {
		if err := updateRecurring(ctx, tx, rule); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit generated expenses: %w", err)
	}

	slog.InfoContext(ctx, "Generated expenses committed",
		"expenses", len(expenses),
		"rules", len(rules))
	return nil
}

// --- cards ---

func (r *SQLiteRepository) AddCard(ctx context.Context, c core.Card) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO cards (id, name, number, color) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Number, c.Color)
	if err != nil {
		return fmt.Errorf("insert card %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, number, color FROM cards ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []core.Card
	for rows.Next() {
		var c core.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.Number, &c.Color); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteCard(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "cards", id)
}

// --- installments ---

const installmentColumns = `id, original_expense_id, card_id, total_cents, monthly_cents, total_months,
	remaining_months, start_date, merchant, description, category, is_active, created_at, updated_at`

func (r *SQLiteRepository) AddInstallment(ctx context.Context, p core.InstallmentPayment) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO installments (`+installmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OriginalExpenseID, p.CardID, p.TotalAmount.Cents, p.MonthlyAmount.Cents, p.TotalMonths,
		p.RemainingMonths, p.StartDate.String(), p.Merchant, p.Description, p.Category,
		boolToInt(p.IsActive), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert installment %s: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListInstallments(ctx context.Context) ([]core.InstallmentPayment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+installmentColumns+` FROM installments ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var out []core.InstallmentPayment
	for rows.Next() {
		var (
			p                           core.InstallmentPayment
			start, createdAt, updatedAt string
			active                      int64
		)
		if err := rows.Scan(&p.ID, &p.OriginalExpenseID, &p.CardID, &p.TotalAmount.Cents, &p.MonthlyAmount.Cents,
			&p.TotalMonths, &p.RemainingMonths, &start, &p.Merchant, &p.Description, &p.Category,
			&active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		p.IsActive = active != 0
		if p.StartDate, err = parseDate(start); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateInstallment(ctx context.Context, p core.InstallmentPayment) error {
	res, err := r.db.ExecContext(ctx, `UPDATE installments SET
		remaining_months = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		p.RemainingMonths, boolToInt(p.IsActive), formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update installment %s: %w", p.ID, err)
	}
	return expectAffected(res, "installment", p.ID)
}

// --- budgets ---

func (r *SQLiteRepository) AddBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO budgets (id, type, category_id, amount_cents, period, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.Type), b.CategoryID, b.Amount.Cents, string(b.Period), formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert budget %s: %w", b.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, category_id, amount_cents, period, created_at, updated_at
		FROM budgets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b                    core.Budget
			typ, period          string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&b.ID, &typ, &b.CategoryID, &b.Amount.Cents, &period, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Type = core.BudgetType(typ)
		b.Period = core.Frequency(period)
		if b.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "budgets", id)
}

// --- goals ---

const goalColumns = `id, type, target_cents, period, category_id, title, description,
	start_date, end_date, is_active, created_at, updated_at`

func (r *SQLiteRepository) AddGoal(ctx context.Context, g core.SpendingGoal) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, string(g.Type), g.TargetAmount.Cents, string(g.Period), g.CategoryID, g.Title, g.Description,
		g.StartDate.String(), g.EndDate.String(), boolToInt(g.IsActive), formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert goal %s: %w", g.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SpendingGoal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var out []core.SpendingGoal
	for rows.Next() {
		var (
			g                    core.SpendingGoal
			typ, period          string
			start, end           string
			active               int64
			createdAt, updatedAt string
		)
		if err := rows.Scan(&g.ID, &typ, &g.TargetAmount.Cents, &period, &g.CategoryID, &g.Title, &g.Description,
			&start, &end, &active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Type = core.GoalType(typ)
		g.Period = core.Frequency(period)
		g.IsActive = active != 0
		if g.StartDate, err = parseDate(start); err != nil {
			return nil, err
		}
		if g.EndDate, err = parseDate(end); err != nil {
			return nil, err
		}
		if g.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.SpendingGoal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE goals SET
		type = ?, target_cents = ?, period = ?, category_id = ?, title = ?, description = ?,
		start_date = ?, end_date = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		string(g.Type), g.TargetAmount.Cents, string(g.Period), g.CategoryID, g.Title, g.Description,
		g.StartDate.String(), g.EndDate.String(), boolToInt(g.IsActive), formatTime(g.UpdatedAt), g.ID)
	if err != nil {
		return fmt.Errorf("update goal %s: %w", g.ID, err)
	}
	return expectAffected(res, "goal", g.ID)
}

// --- helpers ---

// deleteByID removes one row; table is always a package constant.
func (r *SQLiteRepository) deleteByID(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return expectAffected(res, table, id)
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ledger.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}
