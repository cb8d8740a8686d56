package matching

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dailylaw/ledge-backend/internal/service/batch"
)

// inBatches calls fn for indices [0, n) in concurrent batches of BatchSize,
// sleeping BatchDelay between batches. fn reports whether its call hit a
// rate limit; any hit adds RateLimitBackoff before the next batch. The budget
// is checked before each batch. It reports whether the run timed out.
func (s *Service) inBatches(ctx context.Context, run *batch.Run, n int, fn func(ctx context.Context, i int) bool) (bool, error) {
	size := s.cfg.BatchSize
	for start := 0; start < n; start += size {
		if start > 0 {
			if err := run.Sleep(ctx, s.cfg.BatchDelay); err != nil {
				return false, err
			}
		}
		if run.OverBudget() {
			run.Warnf(ctx, "budget of %s exhausted after %d of %d", run.Elapsed(), start, n)
			return true, nil
		}

		end := min(start+size, n)
		var limited atomic.Bool
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if fn(gctx, i) {
					limited.Store(true)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return false, err
		}

		if limited.Load() {
			run.Warnf(ctx, "rate limited, backing off %s", s.cfg.RateLimitBackoff)
			if err := run.Sleep(ctx, s.cfg.RateLimitBackoff); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}
