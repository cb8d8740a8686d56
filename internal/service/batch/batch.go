// Package batch holds the run bookkeeping shared by the cron-driven drivers:
// an injectable clock, a wall-clock budget and a human-readable run log.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/dailylaw/ledge-backend/pkg/ctxutil"
)

// Clock abstracts time so budgets and delays can be tested without waiting.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock uses the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run tracks one driver invocation. It is safe for concurrent use.
type Run struct {
	ID string

	clock  Clock
	start  time.Time
	budget time.Duration
	log    *slog.Logger

	mu    sync.Mutex
	lines []string
}

// Start begins a run and returns a context carrying its run id.
func Start(ctx context.Context, clock Clock, budget time.Duration, log *slog.Logger) (*Run, context.Context) {
	id := xid.New().String()
	r := &Run{
		ID:     id,
		clock:  clock,
		start:  clock.Now(),
		budget: budget,
		log:    log.With("run_id", id),
	}
	return r, ctxutil.WithRunID(ctx, id)
}

// Elapsed is the time since Start.
func (r *Run) Elapsed() time.Duration {
	return r.clock.Now().Sub(r.start)
}

// OverBudget reports whether the run has used up its budget. Drivers check
// it before each unit of work.
func (r *Run) OverBudget() bool {
	return r.budget > 0 && r.Elapsed() > r.budget
}

// Logf appends a line to the run log and writes it to the structured log.
func (r *Run) Logf(ctx context.Context, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	r.log.InfoContext(ctx, line)
}

// Warnf is Logf at warning level.
func (r *Run) Warnf(ctx context.Context, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	r.log.WarnContext(ctx, line)
}

// Lines returns a copy of the run log.
func (r *Run) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Logger returns the run's structured logger.
func (r *Run) Logger() *slog.Logger { return r.log }

// Sleep pauses through the run's clock.
func (r *Run) Sleep(ctx context.Context, d time.Duration) error {
	return r.clock.Sleep(ctx, d)
}
