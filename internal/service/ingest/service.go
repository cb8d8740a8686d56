// Package ingest pulls new bills from legislative sources, synthesizes an
// article for each and stores them.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/synthesis"
)

// Source is one legislative feed.
type Source interface {
	Name() string
	FetchRecent(ctx context.Context, limit, offset int) ([]domain.Bill, error)
	FetchBillText(ctx context.Context, externalID string) (string, error)
}

// ContextSource supplies background lines for synthesis, such as recent
// news coverage of a bill.
type ContextSource interface {
	Name() string
	Background(ctx context.Context, bill domain.Bill) ([]string, error)
}

type billRepo interface {
	ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error)
	Create(ctx context.Context, b domain.Bill) (*domain.Bill, error)
}

type cursorRepo interface {
	Offset(ctx context.Context, source string) (int, error)
	SetOffset(ctx context.Context, source string, offset int) error
}

type synthesizer interface {
	Synthesize(ctx context.Context, in synthesis.Input) (domain.Article, error)
}

// Config controls one ingestion run.
type Config struct {
	PriorityWindow   int
	ArchiveBatch     int
	MaxPerRun        int
	Budget           time.Duration
	RateLimitBackoff time.Duration
}

// Service runs ingestion for any number of sources.
type Service struct {
	bills    billRepo
	cursors  cursorRepo
	synth    synthesizer
	contexts []ContextSource
	clock    batch.Clock
	cfg      Config
	log      *slog.Logger
}

// NewService creates an ingestion service. Context sources are consulted in
// order for every synthesized bill.
func NewService(log *slog.Logger, bills billRepo, cursors cursorRepo, synth synthesizer, contexts []ContextSource, clock batch.Clock, cfg Config) *Service {
	if clock == nil {
		clock = batch.RealClock{}
	}
	return &Service{
		bills:    bills,
		cursors:  cursors,
		synth:    synth,
		contexts: contexts,
		clock:    clock,
		cfg:      cfg,
		log:      log.With("service", "ingest"),
	}
}

// SourceResult reports one source's share of a run.
type SourceResult struct {
	Source        string   `json:"source"`
	Fetched       int      `json:"fetched"`
	New           int      `json:"new"`
	UsedArchive   bool     `json:"used_archive"`
	ArchiveOffset int      `json:"archive_offset,omitempty"`
	Created       []string `json:"created"`
	Skipped       []string `json:"skipped"`
	Failed        []string `json:"failed"`
	Error         string   `json:"error,omitempty"`
}

// Result is the outcome of one run.
type Result struct {
	RunID    string         `json:"run_id"`
	Sources  []SourceResult `json:"sources"`
	TimedOut bool           `json:"timed_out"`
	Log      []string       `json:"-"`
}
