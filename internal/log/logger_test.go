package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"purse/internal/core"
)

func TestNew_JSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentWorker, Format: "json", Output: &buf})

	l.Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentWorker || rec["k"] != "v" || rec["msg"] != "hello" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})

	l.Info("quiet")
	l.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("output = %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf}).WithComponent(ComponentScheduler)

	if l.Component() != ComponentScheduler {
		t.Errorf("Component() = %q", l.Component())
	}
	l.Info("tick")
	if strings.Count(buf.String(), "component=") != 1 {
		t.Errorf("component should appear once: %q", buf.String())
	}
}

func TestLogFields(t *testing.T) {
	e := core.Expense{
		ID:          "exp-1",
		Merchant:    "Streamy",
		Category:    "entertainment",
		Amount:      core.Money{Cents: 999},
		Date:        core.NewDate(2024, 2, 15),
		RecurringID: "rec-1",
	}
	f := NewFields().
		WithExpense(e).
		WithSource("recurring").
		WithOperation(OpGenerate).
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldRecurringID] != "rec-1" || f[FieldAmountCents] != int64(999) || f[FieldDate] != "2024-02-15" {
		t.Errorf("fields = %v", f)
	}
	if f[FieldError] != "boom" {
		t.Errorf("nil error must not clear the field, got %v", f[FieldError])
	}

	slice := f.ToSlice()
	if len(slice) != len(f)*2 {
		t.Fatalf("ToSlice() has %d entries, want %d", len(slice), len(f)*2)
	}
	if slice[0] != FieldAmountCents {
		t.Errorf("keys should be sorted, first = %v", slice[0])
	}

	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	l.InfoFields(context.Background(), "generated", f)
	if !strings.Contains(buf.String(), "merchant=Streamy") {
		t.Errorf("output = %q", buf.String())
	}
}
