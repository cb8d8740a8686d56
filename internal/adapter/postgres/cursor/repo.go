// Package cursor stores per-source archive offsets for ingestion.
package cursor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dailylaw/ledge-backend/internal/adapter/postgres"
)

const table = "ingest_cursors"

// Repo provides cursor persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a cursor repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Offset returns the stored archive offset for source, or 0 if none is stored.
func (r *Repo) Offset(ctx context.Context, source string) (int, error) {
	sql, args, err := postgres.Builder().
		Select("archive_offset").
		From(table).
		Where(squirrel.Eq{"source": source}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cursor query: %w", err)
	}

	var offset int
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&offset)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, postgres.MapError(err, "cursor", source)
	}
	return offset, nil
}

// SetOffset stores the archive offset for source.
func (r *Repo) SetOffset(ctx context.Context, source string, offset int) error {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("source", "archive_offset", "updated_at").
		Values(source, offset, time.Now().UTC()).
		Suffix("ON CONFLICT (source) DO UPDATE SET archive_offset = EXCLUDED.archive_offset, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set cursor query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "cursor", source)
	}
	return nil
}
