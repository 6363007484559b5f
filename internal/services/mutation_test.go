package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
)

func TestMutationTrackerStates(t *testing.T) {
	tracker := NewMutationTracker(zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, MutationIdle, tracker.State("k"))

	require.NoError(t, tracker.Run(ctx, "k", func(ctx context.Context) error {
		assert.Equal(t, MutationPending, tracker.State("k"))
		return nil
	}))
	assert.Equal(t, MutationIdle, tracker.State("k"))

	boom := errors.New("rejected")
	assert.ErrorIs(t, tracker.Run(ctx, "k", func(ctx context.Context) error {
		return boom
	}), boom)
	assert.Equal(t, MutationIdle, tracker.State("k"))
}

func TestMutationTrackerRejectsDuplicateInFlight(t *testing.T) {
	tracker := NewMutationTracker(zap.NewNop())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tracker.Run(ctx, "submit", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := tracker.Run(ctx, "submit", func(ctx context.Context) error {
		t.Fatal("duplicate submission must not execute")
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.AsServiceError(err).Type)

	close(release)
	wg.Wait()
	assert.Equal(t, MutationIdle, tracker.State("submit"))
}

func TestMutationTrackerIndependentKeys(t *testing.T) {
	tracker := NewMutationTracker(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, tracker.Run(ctx, "a", func(ctx context.Context) error { return nil }))
	require.NoError(t, tracker.Run(ctx, "b", func(ctx context.Context) error { return nil }))
	assert.Equal(t, MutationIdle, tracker.State("a"))
	assert.Equal(t, MutationIdle, tracker.State("b"))
}

func TestMutationTrackerReleasesSettledKeys(t *testing.T) {
	tracker := NewMutationTracker(zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("like:u1:book:b%d", i)
		if i%2 == 0 {
			require.NoError(t, tracker.Run(ctx, key, func(ctx context.Context) error { return nil }))
		} else {
			assert.Error(t, tracker.Run(ctx, key, func(ctx context.Context) error {
				return errors.New("rejected")
			}))
		}
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Empty(t, tracker.states)
}
