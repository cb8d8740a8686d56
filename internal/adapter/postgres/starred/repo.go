// Package starred stores subscriber bookmarks in the starred_bills table.
package starred

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/adapter/postgres"
	"github.com/dailylaw/ledge-backend/internal/adapter/postgres/bill"
	"github.com/dailylaw/ledge-backend/internal/domain"
)

const table = "starred_bills"

type starredRow struct {
	SubscriberID uuid.UUID `db:"subscriber_id"`
	BillID       uuid.UUID `db:"bill_id"`
	HasUpdate    bool      `db:"has_update"`
	CreatedAt    time.Time `db:"created_at"`
	Bill         bill.Row  `db:"bill"`
}

// Repo provides starred bill persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a starred bill repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Star bookmarks a bill. Starring twice is a no-op.
func (r *Repo) Star(ctx context.Context, subscriberID, billID uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("subscriber_id", "bill_id", "has_update", "created_at").
		Values(subscriberID, billID, false, time.Now().UTC()).
		Suffix("ON CONFLICT (subscriber_id, bill_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build star query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "starred bill", billID)
	}
	return nil
}

// Unstar removes a bookmark. Removing a missing bookmark is a no-op.
func (r *Repo) Unstar(ctx context.Context, subscriberID, billID uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"subscriber_id": subscriberID, "bill_id": billID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build unstar query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "starred bill", billID)
	}
	return nil
}

// ListForSubscriber returns the subscriber's bookmarks, updated bills first.
func (r *Repo) ListForSubscriber(ctx context.Context, subscriberID uuid.UUID) ([]domain.StarredBill, error) {
	cols := []string{"s.subscriber_id", "s.bill_id", "s.has_update", "s.created_at"}
	for _, c := range bill.Columns {
		cols = append(cols, fmt.Sprintf(`l.%s AS "bill.%s"`, c, c))
	}

	sql, args, err := postgres.Builder().
		Select(cols...).
		From(table + " s").
		Join("legislation l ON l.id = s.bill_id").
		Where(squirrel.Eq{"s.subscriber_id": subscriberID}).
		OrderBy("s.has_update DESC", "s.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list starred query: %w", err)
	}

	var rows []starredRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "starred bill", subscriberID)
	}

	out := make([]domain.StarredBill, len(rows))
	for i, rw := range rows {
		out[i] = domain.StarredBill{
			SubscriberID: rw.SubscriberID,
			BillID:       rw.BillID,
			HasUpdate:    rw.HasUpdate,
			CreatedAt:    rw.CreatedAt,
			Bill:         rw.Bill.ToDomain(),
		}
	}
	return out, nil
}

// FlagUpdate marks every bookmark of a bill as updated and returns the
// number of bookmarks flagged.
func (r *Repo) FlagUpdate(ctx context.Context, billID uuid.UUID) (int64, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("has_update", true).
		Where(squirrel.Eq{"bill_id": billID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build flag update query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "starred bill", billID)
	}
	return tag.RowsAffected(), nil
}

// DismissUpdate clears the update flag on one bookmark.
func (r *Repo) DismissUpdate(ctx context.Context, subscriberID, billID uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("has_update", false).
		Where(squirrel.Eq{"subscriber_id": subscriberID, "bill_id": billID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build dismiss update query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "starred bill", billID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("starred bill %s: %w", billID, domain.ErrNotFound)
	}
	return nil
}
