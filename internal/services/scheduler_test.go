package services

import (
	"context"
	"testing"
	"time"

	"purse/internal/core"
	"purse/internal/ids"
	"purse/internal/ledger"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	if got := DefaultSchedulerConfig().Interval; got != time.Hour {
		t.Errorf("expected Interval 1h, got %v", got)
	}
	s := NewScheduler(nil, SchedulerConfig{})
	if s.config.Interval != time.Hour {
		t.Errorf("zero interval should fall back to default, got %v", s.config.Interval)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	store := seedProcessorLedger(t)
	p := NewProcessor(store, core.NewCalendar(time.UTC), &ids.Sequence{}, nil)
	s := NewScheduler(p, SchedulerConfig{Interval: time.Hour})
	s.now = func() time.Time { return at(2024, 2, 15) }

	if s.IsRunning() {
		t.Fatal("scheduler should not be running initially")
	}

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}

	// the immediate pass ran before the loop exited
	all, _ := store.ListExpenses(ctx, ledger.ExpenseFilter{})
	if len(all) != 3 {
		t.Errorf("ledger has %d expenses, want 3", len(all))
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	store := seedProcessorLedger(t)
	p := NewProcessor(store, core.NewCalendar(time.UTC), &ids.Sequence{}, nil)
	s := NewScheduler(p, SchedulerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}

func TestScheduler_StopWhenNotRunning(t *testing.T) {
	s := NewScheduler(nil, DefaultSchedulerConfig())
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop() on idle scheduler error = %v", err)
	}
}
