// Package ids mints identifiers for ledger records. Generators are injected
// wherever records are created so evaluators stay free of global state.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a new unique identifier carrying the given prefix.
type Generator interface {
	NewID(prefix string) string
}

// UUID generates random (version 4) identifiers.
type UUID struct{}

func (UUID) NewID(prefix string) string {
	return prefix + uuid.NewString()
}

// Sequence generates predictable identifiers ("exp-1", "exp-2", ...).
// Useful for tests and for reproducible imports.
type Sequence struct {
	mu   sync.Mutex
	next int
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s%d", prefix, s.next)
}

// Prefixes used across the ledger.
const (
	PrefixExpense     = "exp-"
	PrefixCard        = "card-"
	PrefixRecurring   = "rec-"
	PrefixInstallment = "inst-"
	PrefixBudget      = "budget-"
	PrefixGoal        = "goal-"
)
