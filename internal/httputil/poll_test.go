// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_DoneImmediately(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Hour, func() (bool, error) {
		calls++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPoll_RepeatsUntilDone(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Millisecond, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPoll_PropagatesCheckError(t *testing.T) {
	wantErr := errors.New("check failed")
	err := Poll(context.Background(), time.Millisecond, func() (bool, error) {
		return false, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestPoll_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Poll(ctx, time.Hour, func() (bool, error) {
			calls++
			return false, nil
		})
	}()

	// Let the first check run, then cancel during the wait.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("Poll did not return after cancellation")
	}
}
