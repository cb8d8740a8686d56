package relevance

import (
	"context"
	"log/slog"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/provider"
)

type completer interface {
	Complete(ctx context.Context, req provider.CompletionRequest) (string, error)
}

// Config holds token limits for the two scoring calls.
type Config struct {
	QuickMaxTokens int64
	FullMaxTokens  int64
}

// Scorer runs the two-phase relevance scoring.
type Scorer struct {
	llm completer
	cfg Config
	log *slog.Logger
}

// NewScorer creates a Scorer.
func NewScorer(log *slog.Logger, llm completer, cfg Config) *Scorer {
	if cfg.QuickMaxTokens <= 0 {
		cfg.QuickMaxTokens = 10
	}
	if cfg.FullMaxTokens <= 0 {
		cfg.FullMaxTokens = 600
	}
	return &Scorer{
		llm: llm,
		cfg: cfg,
		log: log.With("service", "relevance"),
	}
}

// BillText is the part of a bill the scorer reads.
type BillText struct {
	Title   string
	Summary string
}

// TextOf extracts the scored fields of a bill.
func TextOf(b domain.Bill) BillText {
	return BillText{Title: b.Title, Summary: b.Summary}
}

// Thresholds selects the quick-score gate by bill origin.
type Thresholds struct {
	Federal int
	State   int
}

// For returns the gate for b. State bills use the stricter gate.
func (t Thresholds) For(b domain.Bill) int {
	if b.IsState() {
		return t.State
	}
	return t.Federal
}
