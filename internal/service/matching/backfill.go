package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/relevance"
)

// BackfillResult is the outcome of matching existing bills for one subscriber.
type BackfillResult struct {
	RunID        string `json:"run_id"`
	SubscriberID string `json:"subscriber_id"`
	Counts
	TimedOut bool     `json:"timed_out"`
	Log      []string `json:"-"`
}

// Backfill scores every published bill the subscriber has no match for yet,
// in concurrent batches. The subscriber must exist and have a goal.
func (s *Service) Backfill(ctx context.Context, email string) (*BackfillResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "required")
	}

	sub, err := s.subs.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("matching.Backfill: %w", err)
	}
	if !sub.HasGoal() {
		return nil, domain.NewValidationError("goal", "set a goal before matching existing bills")
	}

	run, ctx := batch.Start(ctx, s.clock, s.cfg.BackfillBudget, s.log)
	res := &BackfillResult{RunID: run.ID, SubscriberID: sub.ID.String()}
	defer func() { res.Log = run.Lines() }()

	bills, err := s.allPublished(ctx)
	if err != nil {
		return res, fmt.Errorf("matching.Backfill: list bills: %w", err)
	}
	matched, err := s.matches.MatchedBillIDs(ctx, sub.ID)
	if err != nil {
		return res, fmt.Errorf("matching.Backfill: matched bills: %w", err)
	}
	todo := pending(*sub, bills, matched)
	res.Candidates = len(todo)
	run.Logf(ctx, "%d published bills, %d already matched, %d to score", len(bills), len(matched), len(todo))

	interests := sub.CombinedInterests()
	var mu sync.Mutex
	timedOut, err := s.inBatches(ctx, run, len(todo), func(ctx context.Context, i int) bool {
		bill := todo[i]
		o := s.scorer.Score(ctx, relevance.TextOf(bill), interests, s.cfg.Thresholds.For(bill))

		var storeErr error
		if o.IsScored() {
			storeErr = s.matches.Upsert(ctx, newMatch(sub.ID, bill.ID, o))
		}

		mu.Lock()
		defer mu.Unlock()
		switch {
		case !o.IsScored():
			res.Unavailable++
			if o.RateLimited {
				res.RateLimited++
			}
		case storeErr != nil:
			res.Scored++
			res.Failed++
			run.Logger().ErrorContext(ctx, "store match",
				slog.String("bill", bill.ExternalID),
				slog.String("error", storeErr.Error()),
			)
		default:
			res.Scored++
			res.Stored++
		}
		return o.RateLimited
	})
	if err != nil {
		return res, fmt.Errorf("matching.Backfill: %w", err)
	}
	res.TimedOut = timedOut

	run.Logf(ctx, "scored %d of %d, stored %d, unavailable %d, failed %d",
		res.Scored, res.Candidates, res.Stored, res.Unavailable, res.Failed)
	return res, nil
}
