// Package tracker keeps stored bill statuses in step with the latest action
// reported by the legislative source and flags starred bills whose status
// moved forward.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
)

// ActionSource reports the latest action for bills of one source.
type ActionSource interface {
	Source() domain.BillSource
	FetchBillAction(ctx context.Context, externalID string) (*domain.BillAction, error)
}

type billRepo interface {
	ListBySource(ctx context.Context, source domain.BillSource) ([]domain.Bill, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd domain.StatusUpdate) error
}

type starredRepo interface {
	FlagUpdate(ctx context.Context, billID uuid.UUID) (int64, error)
}

// Config controls one tracker run.
type Config struct {
	Budget time.Duration
}

// Service runs status sync.
type Service struct {
	bills   billRepo
	starred starredRepo
	clock   batch.Clock
	cfg     Config
	log     *slog.Logger
}

// NewService creates a tracker service.
func NewService(log *slog.Logger, bills billRepo, starred starredRepo, clock batch.Clock, cfg Config) *Service {
	if clock == nil {
		clock = batch.RealClock{}
	}
	return &Service{
		bills:   bills,
		starred: starred,
		clock:   clock,
		cfg:     cfg,
		log:     log.With("service", "tracker"),
	}
}

// Result is the outcome of one status sync.
type Result struct {
	RunID       string   `json:"run_id"`
	Total       int      `json:"total"`
	Checked     int      `json:"checked"`
	Unavailable int      `json:"unavailable"`
	Unchanged   int      `json:"unchanged"`
	Updated     []string `json:"updated"`
	Significant []string `json:"significant"`
	Flagged     int64    `json:"flagged"`
	Failed      []string `json:"failed"`
	TimedOut    bool     `json:"timed_out"`
	Log         []string `json:"-"`
}

// Run checks every stored bill of the source's kind against its latest
// action. Running out of budget returns the partial result without an error.
func (s *Service) Run(ctx context.Context, src ActionSource) (*Result, error) {
	run, ctx := batch.Start(ctx, s.clock, s.cfg.Budget, s.log)
	res := &Result{RunID: run.ID, Updated: []string{}, Significant: []string{}, Failed: []string{}}
	defer func() { res.Log = run.Lines() }()

	bills, err := s.bills.ListBySource(ctx, src.Source())
	if err != nil {
		return res, fmt.Errorf("tracker.Run: list bills: %w", err)
	}
	res.Total = len(bills)
	run.Logf(ctx, "checking %d %s bills", len(bills), src.Source())

	for _, bill := range bills {
		if run.OverBudget() {
			res.TimedOut = true
			run.Warnf(ctx, "budget exhausted after %s: %d of %d checked", run.Elapsed(), res.Checked, res.Total)
			break
		}
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("tracker.Run: %w", err)
		}
		res.Checked++
		s.checkOne(ctx, run, src, bill, res)
	}

	run.Logf(ctx, "updated %d (%d significant, %d stars flagged), unchanged %d, unavailable %d, failed %d",
		len(res.Updated), len(res.Significant), res.Flagged, res.Unchanged, res.Unavailable, len(res.Failed))
	return res, nil
}

func (s *Service) checkOne(ctx context.Context, run *batch.Run, src ActionSource, bill domain.Bill, res *Result) {
	id := bill.ExternalID
	action, err := src.FetchBillAction(ctx, id)
	if err != nil {
		res.Failed = append(res.Failed, id)
		run.Warnf(ctx, "%s: fetch action: %v", id, err)
		return
	}
	if action == nil || action.Text == "" {
		res.Unavailable++
		return
	}
	if action.Text == bill.LatestAction {
		res.Unchanged++
		return
	}

	next := domain.NextStatus(bill.Status, action.Text)
	significant := domain.IsSignificantChange(bill.Status, next)
	upd := domain.StatusUpdate{
		Status:           next,
		LatestAction:     action.Text,
		LatestActionDate: action.Date,
		UpdatedAt:        s.clock.Now().UTC(),
	}
	if significant {
		upd.Notice = Notice(next, action, upd.UpdatedAt)
	}

	if err := s.bills.UpdateStatus(ctx, bill.ID, upd); err != nil {
		res.Failed = append(res.Failed, id)
		run.Logger().ErrorContext(ctx, "update status",
			slog.String("bill", id),
			slog.String("error", err.Error()),
		)
		return
	}
	res.Updated = append(res.Updated, id)
	if !significant {
		return
	}

	res.Significant = append(res.Significant, id)
	n, err := s.starred.FlagUpdate(ctx, bill.ID)
	if err != nil {
		res.Failed = append(res.Failed, id)
		run.Warnf(ctx, "%s: flag starred: %v", id, err)
		return
	}
	res.Flagged += n
	run.Logf(ctx, "%s: %s", id, next)
}

// Notice renders the update notice line for a significant change.
// The action date is used when known, otherwise now.
func Notice(status domain.BillStatus, action *domain.BillAction, now time.Time) string {
	when := now
	if action.Date != nil {
		when = *action.Date
	}
	return fmt.Sprintf("%s: %s. %s", when.Format("Jan 2, 2006"), status, action.Text)
}
