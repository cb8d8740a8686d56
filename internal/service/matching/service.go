// Package matching scores bills against subscriber interests and stores the
// resulting matches.
package matching

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/relevance"
)

type billRepo interface {
	ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Bill, error)
	ListPublished(ctx context.Context, limit, offset int) ([]domain.Bill, error)
}

type subscriberRepo interface {
	ListWithGoal(ctx context.Context) ([]domain.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
}

type matchRepo interface {
	MatchedPairs(ctx context.Context, subscriberIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]bool, error)
	MatchedBillIDs(ctx context.Context, subscriberID uuid.UUID) (map[uuid.UUID]bool, error)
	Upsert(ctx context.Context, m domain.Match) error
}

type scorer interface {
	Score(ctx context.Context, bill relevance.BillText, interests string, threshold int) relevance.Outcome
}

// Config controls pacing, gates and budgets for the three drivers.
type Config struct {
	Thresholds       relevance.Thresholds
	RecentWindow     time.Duration
	BillDelay        time.Duration
	SubscriberDelay  time.Duration
	BatchDelay       time.Duration
	BatchSize        int
	NightlyBudget    time.Duration
	BackfillBudget   time.Duration
	ExploreBudget    time.Duration
	ExploreWindow    int
	ExploreMinScore  int
	ExploreLimit     int
	RateLimitBackoff time.Duration
}

// publishedPage is the page size used when walking every published bill.
const publishedPage = 200

// maxQueryLen bounds an explore query.
const maxQueryLen = 500

// Service implements the nightly scorer, the per-subscriber backfill and
// explore search.
type Service struct {
	bills   billRepo
	subs    subscriberRepo
	matches matchRepo
	scorer  scorer
	clock   batch.Clock
	cfg     Config
	log     *slog.Logger
}

// NewService creates a matching service.
func NewService(log *slog.Logger, bills billRepo, subs subscriberRepo, matches matchRepo, sc scorer, clock batch.Clock, cfg Config) *Service {
	if clock == nil {
		clock = batch.RealClock{}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	return &Service{
		bills:   bills,
		subs:    subs,
		matches: matches,
		scorer:  sc,
		clock:   clock,
		cfg:     cfg,
		log:     log.With("service", "matching"),
	}
}

// Counts are the tallies shared by the storing drivers.
type Counts struct {
	Candidates  int `json:"candidates"`
	Scored      int `json:"scored"`
	Stored      int `json:"stored"`
	Unavailable int `json:"unavailable"`
	RateLimited int `json:"rate_limited"`
	Failed      int `json:"failed"`
}

// Processed is the number of pairs that reached the scorer.
func (c Counts) Processed() int {
	return c.Scored + c.Unavailable
}

// newMatch converts a scored outcome into a storable match.
func newMatch(subscriberID, billID uuid.UUID, o relevance.Outcome) domain.Match {
	return domain.Match{
		SubscriberID: subscriberID,
		BillID:       billID,
		Score:        o.Score,
		Summary:      o.Summary,
		WhyItMatters: o.WhyItMatters,
		Implications: o.Implications,
	}
}

// allPublished walks every published bill, newest first.
func (s *Service) allPublished(ctx context.Context) ([]domain.Bill, error) {
	var out []domain.Bill
	for offset := 0; ; offset += publishedPage {
		page, err := s.bills.ListPublished(ctx, publishedPage, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < publishedPage {
			return out, nil
		}
	}
}
