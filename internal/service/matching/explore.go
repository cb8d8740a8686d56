package matching

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/relevance"
)

// ExploreHit is one bill that matched an explore query.
type ExploreHit struct {
	Bill         domain.Bill `json:"-"`
	Score        int         `json:"match_score"`
	Summary      string      `json:"summary"`
	WhyItMatters string      `json:"why_it_matters"`
	Implications string      `json:"implications"`
}

// ExploreResult is the outcome of one explore search.
type ExploreResult struct {
	RunID       string       `json:"run_id"`
	Query       string       `json:"query"`
	Scanned     int          `json:"scanned"`
	Unavailable int          `json:"unavailable"`
	Hits        []ExploreHit `json:"hits"`
	TimedOut    bool         `json:"timed_out"`
	Log         []string     `json:"-"`
}

// Explore scores the most recent published bills against a free-text query
// and returns the best hits. Nothing is stored.
func (s *Service) Explore(ctx context.Context, query string) (*ExploreResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query", "required")
	}
	if len(query) > maxQueryLen {
		return nil, domain.NewValidationError("query", fmt.Sprintf("must be at most %d characters", maxQueryLen))
	}

	run, ctx := batch.Start(ctx, s.clock, s.cfg.ExploreBudget, s.log)
	res := &ExploreResult{RunID: run.ID, Query: query, Hits: []ExploreHit{}}
	defer func() { res.Log = run.Lines() }()

	bills, err := s.bills.ListPublished(ctx, s.cfg.ExploreWindow, 0)
	if err != nil {
		return res, fmt.Errorf("matching.Explore: list bills: %w", err)
	}

	var mu sync.Mutex
	timedOut, err := s.inBatches(ctx, run, len(bills), func(ctx context.Context, i int) bool {
		bill := bills[i]
		o := s.scorer.Score(ctx, relevance.TextOf(bill), query, s.cfg.ExploreMinScore)

		mu.Lock()
		defer mu.Unlock()
		res.Scanned++
		if !o.IsScored() {
			res.Unavailable++
			return o.RateLimited
		}
		if o.Score >= s.cfg.ExploreMinScore {
			res.Hits = append(res.Hits, ExploreHit{
				Bill:         bill,
				Score:        o.Score,
				Summary:      o.Summary,
				WhyItMatters: o.WhyItMatters,
				Implications: o.Implications,
			})
		}
		return false
	})
	if err != nil {
		return res, fmt.Errorf("matching.Explore: %w", err)
	}
	res.TimedOut = timedOut

	// Ties keep the newest bill first.
	slices.SortStableFunc(res.Hits, func(a, b ExploreHit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return b.Bill.CreatedAt.Compare(a.Bill.CreatedAt)
	})
	if s.cfg.ExploreLimit > 0 && len(res.Hits) > s.cfg.ExploreLimit {
		res.Hits = res.Hits[:s.cfg.ExploreLimit]
	}

	run.Logf(ctx, "explore %q: %d scanned, %d hits", query, res.Scanned, len(res.Hits))
	return res, nil
}
