// internal/services/mutation.go
package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
)

// ===============================
// MUTATION STATE MACHINE
// ===============================

// MutationState tracks one write's lifecycle: idle until started, pending
// while in flight. The outcome is carried by Run's return value and the key
// settles back to idle, so the tracker only ever holds in-flight keys.
type MutationState string

const (
	MutationIdle    MutationState = "idle"
	MutationPending MutationState = "pending"
)

// MutationTracker serializes writes per key. While a key is pending, repeat
// submissions are rejected instead of issued twice; the client is the only
// guard against double-submit, the backend does not deduplicate.
type MutationTracker struct {
	mu     sync.Mutex
	states map[string]MutationState
	logger *zap.Logger
}

// NewMutationTracker creates a mutation tracker.
func NewMutationTracker(logger *zap.Logger) *MutationTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationTracker{
		states: make(map[string]MutationState),
		logger: logger,
	}
}

// State returns the current state for a mutation key.
func (t *MutationTracker) State(key string) MutationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if state, ok := t.states[key]; ok {
		return state
	}
	return MutationIdle
}

// Run executes fn under the key's state machine. A second Run while the key
// is pending returns a conflict without calling fn. Errors from fn pass
// through unchanged; no state is rolled back because nothing was applied
// before the upstream confirmed. Settled keys are removed so the map stays
// bounded by the number of writes currently in flight.
func (t *MutationTracker) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	if t.states[key] == MutationPending {
		t.mu.Unlock()
		t.logger.Debug("Rejecting duplicate in-flight mutation", zap.String("key", key))
		return apperrors.NewConflictError("This action is already in progress", "MUTATION_PENDING")
	}
	t.states[key] = MutationPending
	t.mu.Unlock()

	err := fn(ctx)

	t.mu.Lock()
	delete(t.states, key)
	t.mu.Unlock()

	return err
}
