package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/relevance"
)

// NightlyResult is the outcome of one nightly scoring run.
type NightlyResult struct {
	RunID       string `json:"run_id"`
	Bills       int    `json:"bills"`
	Subscribers int    `json:"subscribers"`
	Counts
	TimedOut bool     `json:"timed_out"`
	Log      []string `json:"-"`
}

// Nightly scores recently created bills for every subscriber with a goal.
// Pairs already matched and bills outside a subscriber's state focus are
// skipped. Scoring is sequential with delays between bills and subscribers.
// Running out of budget returns the partial result without an error.
func (s *Service) Nightly(ctx context.Context) (*NightlyResult, error) {
	run, ctx := batch.Start(ctx, s.clock, s.cfg.NightlyBudget, s.log)
	res := &NightlyResult{RunID: run.ID}
	defer func() { res.Log = run.Lines() }()

	since := s.clock.Now().Add(-s.cfg.RecentWindow)
	bills, err := s.bills.ListCreatedSince(ctx, since)
	if err != nil {
		return res, fmt.Errorf("matching.Nightly: list bills: %w", err)
	}
	subs, err := s.subs.ListWithGoal(ctx)
	if err != nil {
		return res, fmt.Errorf("matching.Nightly: list subscribers: %w", err)
	}
	res.Bills, res.Subscribers = len(bills), len(subs)
	run.Logf(ctx, "%d bills since %s, %d subscribers", len(bills), since.Format("2006-01-02 15:04"), len(subs))
	if len(bills) == 0 || len(subs) == 0 {
		return res, nil
	}

	ids := make([]uuid.UUID, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	matched, err := s.matches.MatchedPairs(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("matching.Nightly: matched pairs: %w", err)
	}

	started := false
	for _, sub := range subs {
		todo := pending(sub, bills, matched[sub.ID])
		res.Candidates += len(todo)
		if len(todo) == 0 {
			continue
		}
		if started {
			if err := run.Sleep(ctx, s.cfg.SubscriberDelay); err != nil {
				return res, fmt.Errorf("matching.Nightly: %w", err)
			}
		}

		interests := sub.CombinedInterests()
		for bi, bill := range todo {
			if bi > 0 {
				if err := run.Sleep(ctx, s.cfg.BillDelay); err != nil {
					return res, fmt.Errorf("matching.Nightly: %w", err)
				}
			}
			if run.OverBudget() {
				res.TimedOut = true
				run.Warnf(ctx, "budget exhausted after %s: %d of %d processed", run.Elapsed(), res.Processed(), res.Candidates)
				return res, nil
			}
			started = true

			limited := s.scorePair(ctx, run, sub, bill, interests, &res.Counts)
			if limited {
				run.Warnf(ctx, "rate limited, backing off %s", s.cfg.RateLimitBackoff)
				if err := run.Sleep(ctx, s.cfg.RateLimitBackoff); err != nil {
					return res, fmt.Errorf("matching.Nightly: %w", err)
				}
			}
		}
	}

	run.Logf(ctx, "scored %d, stored %d, unavailable %d, failed %d",
		res.Scored, res.Stored, res.Unavailable, res.Failed)
	return res, nil
}

// scorePair scores one pair sequentially and updates counts. It reports
// whether the scorer hit a rate limit.
func (s *Service) scorePair(ctx context.Context, run *batch.Run, sub domain.Subscriber, bill domain.Bill, interests string, c *Counts) bool {
	o := s.scorer.Score(ctx, relevance.TextOf(bill), interests, s.cfg.Thresholds.For(bill))
	if !o.IsScored() {
		c.Unavailable++
		if o.RateLimited {
			c.RateLimited++
		}
		return o.RateLimited
	}
	c.Scored++
	if err := s.matches.Upsert(ctx, newMatch(sub.ID, bill.ID, o)); err != nil {
		c.Failed++
		run.Logger().ErrorContext(ctx, "store match",
			slog.String("subscriber_id", sub.ID.String()),
			slog.String("bill", bill.ExternalID),
			slog.String("error", err.Error()),
		)
		return false
	}
	c.Stored++
	return false
}

// pending returns the bills the subscriber still needs scored.
func pending(sub domain.Subscriber, bills []domain.Bill, matched map[uuid.UUID]bool) []domain.Bill {
	var out []domain.Bill
	for _, b := range bills {
		if matched[b.ID] || !sub.Covers(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}
