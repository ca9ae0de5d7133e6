package scratch

import (
	"context"
	"time"
)

// PollStats calls fn with fresh statistics every interval until ctx is
// done or Stats fails. A non-positive interval uses Config.StatsInterval.
//
// PollStats blocks; run it on its own goroutine. It returns ctx.Err() on
// cancellation and the terminal statistics error otherwise.
func (s *Surface) PollStats(ctx context.Context, interval time.Duration, fn func(StatData)) error {
	if interval <= 0 {
		interval = time.Duration(s.cfg.StatsInterval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d, err := s.Stats(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return err
			}
			fn(d)
		}
	}
}
