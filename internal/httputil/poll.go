// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across components.
package httputil

import (
	"context"
	"time"
)

// Poll invokes check at interval until it reports done, returns an
// error, or ctx is cancelled. The first check runs immediately; waits
// between checks honor context cancellation, so a stuck remote job
// cannot outlive the caller.
func Poll(ctx context.Context, interval time.Duration, check func() (done bool, err error)) error {
	for {
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
