package mongo

import (
	"context"
	"time"
)

// OpTimeout bounds every repository call.
const OpTimeout = 5 * time.Second

// WithRepoTimeout derives a context that expires after d, unless ctx is
// already done or its own deadline is sooner, in which case ctx is returned
// as is. The cancel func is never nil and always safe to defer.
func WithRepoTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx.Err() != nil {
		return ctx, func() {}
	}
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) <= d {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func repoCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return WithRepoTimeout(parent, OpTimeout)
}
