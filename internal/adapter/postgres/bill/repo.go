// Package bill stores legislation rows in the legislation table.
package bill

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

const (
	table          = "legislation"
	slugConstraint = "legislation_slug_key"
)

// Columns is the select list shared with repositories that join legislation.
var Columns = []string{
	"id", "external_id", "title", "summary", "body", "slug", "keywords",
	"source", "state_code", "status", "status_updated_at", "latest_action",
	"latest_action_date", "update_notice", "published", "created_at",
}

// Row is the scan target for Columns.
type Row struct {
	ID               uuid.UUID  `db:"id"`
	ExternalID       string     `db:"external_id"`
	Title            string     `db:"title"`
	Summary          string     `db:"summary"`
	Body             string     `db:"body"`
	Slug             string     `db:"slug"`
	Keywords         []string   `db:"keywords"`
	Source           string     `db:"source"`
	StateCode        *string    `db:"state_code"`
	Status           *string    `db:"status"`
	StatusUpdatedAt  *time.Time `db:"status_updated_at"`
	LatestAction     string     `db:"latest_action"`
	LatestActionDate *time.Time `db:"latest_action_date"`
	UpdateNotice     *string    `db:"update_notice"`
	Published        bool       `db:"published"`
	CreatedAt        time.Time  `db:"created_at"`
}

// ToDomain converts a scanned row to a domain.Bill.
func (r Row) ToDomain() domain.Bill {
	b := domain.Bill{
		ID:               r.ID,
		ExternalID:       r.ExternalID,
		Title:            r.Title,
		Summary:          r.Summary,
		Body:             r.Body,
		Slug:             r.Slug,
		Keywords:         r.Keywords,
		Source:           domain.BillSource(r.Source),
		StateCode:        r.StateCode,
		StatusUpdatedAt:  r.StatusUpdatedAt,
		LatestAction:     r.LatestAction,
		LatestActionDate: r.LatestActionDate,
		UpdateNotice:     r.UpdateNotice,
		Published:        r.Published,
		CreatedAt:        r.CreatedAt,
	}
	if r.Status != nil {
		s := domain.BillStatus(*r.Status)
		b.Status = &s
	}
	return b
}

// Repo provides legislation persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a bill repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a bill and returns the stored row. A zero ID is replaced
// with a new UUID. A slug already taken by another bill gets the first
// segment of the bill ID appended; the retry only works outside a
// transaction.
func (r *Repo) Create(ctx context.Context, b domain.Bill) (*domain.Bill, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Keywords == nil {
		b.Keywords = []string{}
	}

	created, err := r.insert(ctx, b)
	if postgres.IsUniqueViolation(err, slugConstraint) {
		b.Slug += "-" + b.ID.String()[:8]
		created, err = r.insert(ctx, b)
	}
	if err != nil {
		return nil, postgres.MapError(err, "bill", b.ExternalID)
	}
	return created, nil
}

func (r *Repo) insert(ctx context.Context, b domain.Bill) (*domain.Bill, error) {
	var status *string
	if b.Status != nil {
		s := string(*b.Status)
		status = &s
	}

	query := postgres.Builder().
		Insert(table).
		Columns(Columns...).
		Values(
			b.ID, b.ExternalID, b.Title, b.Summary, b.Body, b.Slug, b.Keywords,
			string(b.Source), b.StateCode, status, b.StatusUpdatedAt, b.LatestAction,
			b.LatestActionDate, b.UpdateNotice, b.Published, b.CreatedAt,
		).
		Suffix("RETURNING " + strings.Join(Columns, ", "))

	return r.scanOne(ctx, query)
}

// GetByID returns a bill by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	return r.getOne(ctx, r.selectBills().Where(squirrel.Eq{"id": id}), id)
}

// GetBySlug returns a published bill by slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Bill, error) {
	query := r.selectBills().Where(squirrel.Eq{"slug": slug, "published": true})
	return r.getOne(ctx, query, slug)
}

// ExistingExternalIDs returns the subset of ids already stored.
func (r *Repo) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	sql, args, err := postgres.Builder().
		Select("external_id").
		From(table).
		Where(squirrel.Eq{"external_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing ids query: %w", err)
	}

	var existing []string
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &existing, sql, args...); err != nil {
		return nil, postgres.MapError(err, "bill", "existing ids")
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

// ListCreatedSince returns published bills created at or after since, newest first.
func (r *Repo) ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Bill, error) {
	query := r.selectBills().
		Where(squirrel.Eq{"published": true}).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC")
	return r.list(ctx, query)
}

// ListPublished returns published bills, newest first.
func (r *Repo) ListPublished(ctx context.Context, limit, offset int) ([]domain.Bill, error) {
	query := r.selectBills().
		Where(squirrel.Eq{"published": true}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.list(ctx, query)
}

// ListBySource returns every bill from source, oldest first.
func (r *Repo) ListBySource(ctx context.Context, source domain.BillSource) ([]domain.Bill, error) {
	query := r.selectBills().
		Where(squirrel.Eq{"source": string(source)}).
		OrderBy("created_at ASC", "id")
	return r.list(ctx, query)
}

// UpdateStatus writes the status fields and appends a non-empty notice.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, upd domain.StatusUpdate) error {
	query := postgres.Builder().
		Update(table).
		Set("status", string(upd.Status)).
		Set("status_updated_at", upd.UpdatedAt).
		Set("latest_action", upd.LatestAction).
		Set("latest_action_date", upd.LatestActionDate).
		Where(squirrel.Eq{"id": id})
	if upd.Notice != "" {
		query = query.Set("update_notice", squirrel.Expr("concat_ws(E'\\n', update_notice, ?::text)", upd.Notice))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update status query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "bill", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bill %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) selectBills() squirrel.SelectBuilder {
	return postgres.Builder().Select(Columns...).From(table)
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, key any) (*domain.Bill, error) {
	b, err := r.scanOne(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "bill", key)
	}
	return b, nil
}

// scanOne returns the driver error unmapped.
func (r *Repo) scanOne(ctx context.Context, query squirrel.Sqlizer) (*domain.Bill, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bill query: %w", err)
	}

	var row Row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, err
	}
	b := row.ToDomain()
	return &b, nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Bill, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bill list query: %w", err)
	}

	var rows []Row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "bill", "list")
	}

	bills := make([]domain.Bill, len(rows))
	for i, row := range rows {
		bills[i] = row.ToDomain()
	}
	return bills, nil
}
