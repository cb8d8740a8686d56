// Package subscriber implements onboarding, settings, interests, the match
// dashboard and starred bills for the subscriber identified in the request.
package subscriber

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/pkg/ctxutil"
)

type subscriberRepo interface {
	Create(ctx context.Context, s domain.Subscriber) (*domain.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, goal *string, stateFocus string) (*domain.Subscriber, error)
	UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) (*domain.Subscriber, error)
}

type matchRepo interface {
	DeleteForSubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	ListForSubscriber(ctx context.Context, subscriberID uuid.UUID, minScore, limit int) ([]domain.MatchedBill, error)
}

type starredRepo interface {
	Star(ctx context.Context, subscriberID, billID uuid.UUID) error
	Unstar(ctx context.Context, subscriberID, billID uuid.UUID) error
	ListForSubscriber(ctx context.Context, subscriberID uuid.UUID) ([]domain.StarredBill, error)
	DismissUpdate(ctx context.Context, subscriberID, billID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds dashboard defaults.
type Config struct {
	DashboardMinScore int
	DashboardLimit    int
}

// Service implements subscriber operations.
type Service struct {
	log     *slog.Logger
	subs    subscriberRepo
	matches matchRepo
	starred starredRepo
	tx      txManager
	cfg     Config
	now     func() time.Time
}

// NewService creates a new subscriber service instance.
func NewService(
	logger *slog.Logger,
	subs subscriberRepo,
	matches matchRepo,
	starred starredRepo,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.DashboardLimit <= 0 {
		cfg.DashboardLimit = 100
	}
	return &Service{
		log:     logger.With("service", "subscriber"),
		subs:    subs,
		matches: matches,
		starred: starred,
		tx:      tx,
		cfg:     cfg,
		now:     time.Now,
	}
}

// current loads the subscriber whose email is in ctx.
// Returns ErrUnauthorized if there is none or it is unknown.
func (s *Service) current(ctx context.Context) (*domain.Subscriber, error) {
	email, ok := ctxutil.SubscriberEmailFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	sub, err := s.subs.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return sub, nil
}
