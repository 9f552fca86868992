package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every item with at most limit goroutines in
// flight. The first error cancels the context passed to the remaining
// actions and is returned once all of them have finished. A limit below one
// means no limit.
func ForEach[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(ctx, item)
		})
	}

	return g.Wait()
}
