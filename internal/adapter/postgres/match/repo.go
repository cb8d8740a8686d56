// Package match stores relevance scores in the bill_matches table.
package match

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

const table = "bill_matches"

var matchColumns = []string{
	"m.subscriber_id", "m.bill_id", "m.match_score", "m.summary", "m.why_it_matters",
	"m.implications", "m.notified", "m.created_at", "m.updated_at",
}

type matchRow struct {
	SubscriberID uuid.UUID `db:"subscriber_id"`
	BillID       uuid.UUID `db:"bill_id"`
	MatchScore   int       `db:"match_score"`
	Summary      string    `db:"summary"`
	WhyItMatters string    `db:"why_it_matters"`
	Implications string    `db:"implications"`
	Notified     bool      `db:"notified"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type matchedBillRow struct {
	matchRow
	Bill bill.Row `db:"bill"`
}

func (r matchedBillRow) toDomain() domain.MatchedBill {
	return domain.MatchedBill{
		Match: domain.Match{
			SubscriberID: r.SubscriberID,
			BillID:       r.BillID,
			Score:        r.MatchScore,
			Summary:      r.Summary,
			WhyItMatters: r.WhyItMatters,
			Implications: r.Implications,
			Notified:     r.Notified,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		},
		Bill: r.Bill.ToDomain(),
	}
}

// Repo provides match persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a match repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert writes a match. An existing (subscriber, bill) row is overwritten
// and its notified flag reset.
func (r *Repo) Upsert(ctx context.Context, m domain.Match) error {
	now := time.Now().UTC()
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("subscriber_id", "bill_id", "match_score", "summary", "why_it_matters",
			"implications", "notified", "created_at", "updated_at").
		Values(m.SubscriberID, m.BillID, m.Score, m.Summary, m.WhyItMatters,
			m.Implications, false, now, now).
		Suffix(`ON CONFLICT (subscriber_id, bill_id) DO UPDATE SET
			match_score = EXCLUDED.match_score,
			summary = EXCLUDED.summary,
			why_it_matters = EXCLUDED.why_it_matters,
			implications = EXCLUDED.implications,
			notified = FALSE,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "match", m.SubscriberID.String()+"/"+m.BillID.String())
	}
	return nil
}

// MatchedBillIDs returns the set of bills already scored for a subscriber.
func (r *Repo) MatchedBillIDs(ctx context.Context, subscriberID uuid.UUID) (map[uuid.UUID]bool, error) {
	sql, args, err := postgres.Builder().
		Select("bill_id").
		From(table).
		Where(squirrel.Eq{"subscriber_id": subscriberID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build matched ids query: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, sql, args...); err != nil {
		return nil, postgres.MapError(err, "match", subscriberID)
	}

	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// MatchedPairs returns, per subscriber, the set of bills already scored.
// Subscribers with no matches are absent from the result.
func (r *Repo) MatchedPairs(ctx context.Context, subscriberIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]bool, error) {
	pairs := make(map[uuid.UUID]map[uuid.UUID]bool)
	if len(subscriberIDs) == 0 {
		return pairs, nil
	}

	sql, args, err := postgres.Builder().
		Select("subscriber_id", "bill_id").
		From(table).
		Where(squirrel.Eq{"subscriber_id": subscriberIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build matched pairs query: %w", err)
	}

	var rows []struct {
		SubscriberID uuid.UUID `db:"subscriber_id"`
		BillID       uuid.UUID `db:"bill_id"`
	}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "match", "pairs")
	}

	for _, rw := range rows {
		set, ok := pairs[rw.SubscriberID]
		if !ok {
			set = make(map[uuid.UUID]bool)
			pairs[rw.SubscriberID] = set
		}
		set[rw.BillID] = true
	}
	return pairs, nil
}

// DeleteForSubscriber removes every match of a subscriber and returns the
// number of rows removed.
func (r *Repo) DeleteForSubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"subscriber_id": subscriberID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete matches query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "match", subscriberID)
	}
	return tag.RowsAffected(), nil
}

// ListForSubscriber returns the subscriber's matches scoring at least
// minScore, best first, joined with their bills.
func (r *Repo) ListForSubscriber(ctx context.Context, subscriberID uuid.UUID, minScore, limit int) ([]domain.MatchedBill, error) {
	query := r.selectMatched().
		Where(squirrel.Eq{"m.subscriber_id": subscriberID}).
		Where(squirrel.GtOrEq{"m.match_score": minScore}).
		OrderBy("m.match_score DESC", "l.created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return r.listMatched(ctx, query)
}

// ListUnnotified returns unnotified matches scoring at least minScore,
// grouped by subscriber and best first within each subscriber.
func (r *Repo) ListUnnotified(ctx context.Context, minScore int) ([]domain.MatchedBill, error) {
	query := r.selectMatched().
		Where(squirrel.Eq{"m.notified": false}).
		Where(squirrel.GtOrEq{"m.match_score": minScore}).
		OrderBy("m.subscriber_id", "m.match_score DESC")
	return r.listMatched(ctx, query)
}

// MarkNotified flags the given matches of one subscriber as notified.
func (r *Repo) MarkNotified(ctx context.Context, subscriberID uuid.UUID, billIDs []uuid.UUID) (int64, error) {
	if len(billIDs) == 0 {
		return 0, nil
	}

	sql, args, err := postgres.Builder().
		Update(table).
		Set("notified", true).
		Where(squirrel.Eq{"subscriber_id": subscriberID, "bill_id": billIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark notified query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "match", subscriberID)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) selectMatched() squirrel.SelectBuilder {
	cols := append([]string{}, matchColumns...)
	for _, c := range bill.Columns {
		cols = append(cols, fmt.Sprintf(`l.%s AS "bill.%s"`, c, c))
	}
	return postgres.Builder().
		Select(cols...).
		From(table + " m").
		Join("legislation l ON l.id = m.bill_id")
}

func (r *Repo) listMatched(ctx context.Context, query squirrel.SelectBuilder) ([]domain.MatchedBill, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build matched bills query: %w", err)
	}

	var rows []matchedBillRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "match", "list")
	}

	out := make([]domain.MatchedBill, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
