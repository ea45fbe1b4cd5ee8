// nolint: revive
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/teslafields/sysinfo-reader/internal/pkg/errors"
)

// CtxDone checks if context is done. The returned error wraps both errors.ErrCtxDone and ctx.Err()
func CtxDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errors.ErrCtxDone, ctx.Err())
	default:
	}

	return nil
}

// Provider - value provider for type T
type Provider[T any] func(ctx context.Context) T

// Const - constant value provider
func Const[T any](v T) Provider[T] {
	return func(_ context.Context) T {
		return v
	}
}

// Now - current wall clock provider
func Now(_ context.Context) time.Time {
	return time.Now()
}

// OrConst returns p, or a constant provider of def when p is nil
func OrConst[T any](p Provider[T], def T) Provider[T] {
	if p == nil {
		return Const(def)
	}

	return p
}
