// Package notify emails each subscriber a digest of their new high-scoring
// matches.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/provider"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
)

type matchRepo interface {
	ListUnnotified(ctx context.Context, minScore int) ([]domain.MatchedBill, error)
	MarkNotified(ctx context.Context, subscriberID uuid.UUID, billIDs []uuid.UUID) (int64, error)
}

type subscriberRepo interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Subscriber, error)
}

type mailer interface {
	Send(ctx context.Context, e provider.Email) (string, error)
}

// Config controls digest selection and rendering.
type Config struct {
	Threshold    int
	MaxPerDigest int
	From         string
	SiteURL      string
	Budget       time.Duration
}

// Service sends alert digests.
type Service struct {
	matches matchRepo
	subs    subscriberRepo
	mail    mailer
	clock   batch.Clock
	cfg     Config
	log     *slog.Logger
}

// NewService creates a notify service.
func NewService(log *slog.Logger, matches matchRepo, subs subscriberRepo, mail mailer, clock batch.Clock, cfg Config) *Service {
	if clock == nil {
		clock = batch.RealClock{}
	}
	if cfg.MaxPerDigest <= 0 {
		cfg.MaxPerDigest = 10
	}
	return &Service{
		matches: matches,
		subs:    subs,
		mail:    mail,
		clock:   clock,
		cfg:     cfg,
		log:     log.With("service", "notify"),
	}
}

// Result is the outcome of one digest run.
type Result struct {
	RunID       string   `json:"run_id"`
	Subscribers int      `json:"subscribers"`
	Sent        int      `json:"sent"`
	Failed      int      `json:"failed"`
	Deferred    int      `json:"deferred"`
	Notified    int64    `json:"notified"`
	Log         []string `json:"-"`
}

// Run sends one digest per subscriber with unnotified matches at or above
// the threshold. A failed send leaves that subscriber's matches unnotified.
// Subscribers not reached within the budget are deferred to the next run.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	run, ctx := batch.Start(ctx, s.clock, s.cfg.Budget, s.log)
	res := &Result{RunID: run.ID}
	defer func() { res.Log = run.Lines() }()

	pending, err := s.matches.ListUnnotified(ctx, s.cfg.Threshold)
	if err != nil {
		return res, fmt.Errorf("notify.Run: list matches: %w", err)
	}
	groups, order := groupBySubscriber(pending)
	res.Subscribers = len(order)
	if len(order) == 0 {
		run.Logf(ctx, "no pending alerts at threshold %d", s.cfg.Threshold)
		return res, nil
	}

	subs, err := s.subs.ListByIDs(ctx, order)
	if err != nil {
		return res, fmt.Errorf("notify.Run: list subscribers: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Subscriber, len(subs))
	for _, sub := range subs {
		byID[sub.ID] = sub
	}

	for i, id := range order {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("notify.Run: %w", err)
		}
		if run.OverBudget() {
			res.Deferred = len(order) - i
			run.Warnf(ctx, "budget exhausted after %s: %d subscribers deferred", run.Elapsed(), res.Deferred)
			break
		}
		sub, ok := byID[id]
		if !ok {
			res.Failed++
			run.Warnf(ctx, "subscriber %s: not found", id)
			continue
		}
		matches := groups[id]
		if len(matches) > s.cfg.MaxPerDigest {
			matches = matches[:s.cfg.MaxPerDigest]
		}
		n, err := s.sendOne(ctx, domain.PendingAlert{Subscriber: sub, Matches: matches})
		if err != nil {
			res.Failed++
			run.Warnf(ctx, "%s: %v", sub.Email, err)
			continue
		}
		res.Sent++
		res.Notified += n
	}

	run.Logf(ctx, "sent %d digests (%d matches), failed %d", res.Sent, res.Notified, res.Failed)
	return res, nil
}

func (s *Service) sendOne(ctx context.Context, alert domain.PendingAlert) (int64, error) {
	html, err := RenderDigest(s.cfg.SiteURL, alert.Matches)
	if err != nil {
		return 0, err
	}
	if _, err := s.mail.Send(ctx, provider.Email{
		From:    s.cfg.From,
		To:      []string{alert.Subscriber.Email},
		Subject: Subject(len(alert.Matches)),
		HTML:    html,
	}); err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}

	ids := make([]uuid.UUID, len(alert.Matches))
	for i, m := range alert.Matches {
		ids[i] = m.BillID
	}
	n, err := s.matches.MarkNotified(ctx, alert.Subscriber.ID, ids)
	if err != nil {
		return 0, fmt.Errorf("mark notified: %w", err)
	}
	return n, nil
}

// groupBySubscriber buckets matches by subscriber, keeping first-seen order.
func groupBySubscriber(matches []domain.MatchedBill) (map[uuid.UUID][]domain.MatchedBill, []uuid.UUID) {
	groups := make(map[uuid.UUID][]domain.MatchedBill)
	var order []uuid.UUID
	for _, m := range matches {
		if _, ok := groups[m.SubscriberID]; !ok {
			order = append(order, m.SubscriberID)
		}
		groups[m.SubscriberID] = append(groups[m.SubscriberID], m)
	}
	return groups, order
}
