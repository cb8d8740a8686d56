// Package subscriber stores subscriber rows in the subscribers table.
package subscriber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/adapter/postgres"
	"github.com/dailylaw/ledge-backend/internal/domain"
)

const table = "subscribers"

var columns = []string{
	"id", "email", "goal", "state_focus", "interests",
	"terms_accepted_at", "created_at", "updated_at",
}

type row struct {
	ID              uuid.UUID  `db:"id"`
	Email           string     `db:"email"`
	Goal            *string    `db:"goal"`
	StateFocus      string     `db:"state_focus"`
	Interests       []string   `db:"interests"`
	TermsAcceptedAt *time.Time `db:"terms_accepted_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (r row) toDomain() *domain.Subscriber {
	return &domain.Subscriber{
		ID:              r.ID,
		Email:           r.Email,
		Goal:            r.Goal,
		StateFocus:      r.StateFocus,
		Interests:       r.Interests,
		TermsAcceptedAt: r.TermsAcceptedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Repo provides subscriber persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a subscriber repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a subscriber. A duplicate email maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, s domain.Subscriber) (*domain.Subscriber, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = s.CreatedAt
	if s.Interests == nil {
		s.Interests = []string{}
	}
	if s.StateFocus == "" {
		s.StateFocus = domain.StateFocusAll
	}

	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(s.ID, s.Email, s.Goal, s.StateFocus, s.Interests, s.TermsAcceptedAt, s.CreatedAt, s.UpdatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, s.Email)
}

// GetByEmail returns the subscriber with the given normalized email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"email": email})
	return r.getOne(ctx, query, email)
}

// ListWithGoal returns every subscriber whose goal is set.
func (r *Repo) ListWithGoal(ctx context.Context) ([]domain.Subscriber, error) {
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From(table).
		Where("goal IS NOT NULL AND goal <> ''").
		OrderBy("created_at", "id"))
}

// ListByIDs returns the subscribers with the given ids. Unknown ids are
// left out.
func (r *Repo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Subscriber, error) {
	if len(ids) == 0 {
		return []domain.Subscriber{}, nil
	}
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("created_at", "id"))
}

// UpdateSettings replaces the goal and state focus.
func (r *Repo) UpdateSettings(ctx context.Context, id uuid.UUID, goal *string, stateFocus string) (*domain.Subscriber, error) {
	query := postgres.Builder().
		Update(table).
		Set("goal", goal).
		Set("state_focus", stateFocus).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	return r.getOne(ctx, query, id)
}

// UpdateInterests replaces the ordered interest list.
func (r *Repo) UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) (*domain.Subscriber, error) {
	if interests == nil {
		interests = []string{}
	}
	query := postgres.Builder().
		Update(table).
		Set("interests", interests).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	return r.getOne(ctx, query, id)
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, key any) (*domain.Subscriber, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build subscriber query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "subscriber", key)
	}
	return rw.toDomain(), nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Subscriber, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list subscribers query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "subscriber", "list")
	}

	subs := make([]domain.Subscriber, len(rows))
	for i, rw := range rows {
		subs[i] = *rw.toDomain()
	}
	return subs, nil
}
