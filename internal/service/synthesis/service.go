// Package synthesis turns raw bill text into a published article.
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/provider"
)

const (
	maxSlugLen  = 80
	maxKeywords = 10
)

type completer interface {
	Complete(ctx context.Context, req provider.CompletionRequest) (string, error)
}

// Config bounds the synthesis call.
type Config struct {
	MaxTokens    int64
	MaxTextBytes int
}

// Synthesizer writes articles with an LLM.
type Synthesizer struct {
	llm completer
	cfg Config
	log *slog.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(log *slog.Logger, llm completer, cfg Config) *Synthesizer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.MaxTextBytes <= 0 {
		cfg.MaxTextBytes = 60000
	}
	return &Synthesizer{llm: llm, cfg: cfg, log: log.With("service", "synthesis")}
}

// Input is one bill to write up. Context lines are optional background
// such as the current status or recent news coverage.
type Input struct {
	Bill    domain.Bill
	Text    string
	Context []string
}

type article struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	Slug     string   `json:"slug"`
	Keywords []string `json:"keywords"`
}

// Synthesize produces the article for in.Bill. The slug always ends with
// the bill's external id so it is unique.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) (domain.Article, error) {
	if strings.TrimSpace(in.Text) == "" {
		return domain.Article{}, domain.NewValidationError("text", "required")
	}

	reply, err := s.llm.Complete(ctx, provider.CompletionRequest{
		System:    systemPrompt,
		Prompt:    buildPrompt(in, s.cfg.MaxTextBytes),
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return domain.Article{}, fmt.Errorf("synthesis.Synthesize: %w", err)
	}

	raw, err := provider.ExtractJSON(reply)
	if err != nil {
		return domain.Article{}, fmt.Errorf("synthesis.Synthesize: %s: %w", in.Bill.ExternalID, err)
	}

	var a article
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return domain.Article{}, fmt.Errorf("synthesis.Synthesize: %s: decode: %w", in.Bill.ExternalID, err)
	}

	out, err := normalize(a, in.Bill)
	if err != nil {
		return domain.Article{}, fmt.Errorf("synthesis.Synthesize: %s: %w", in.Bill.ExternalID, err)
	}

	s.log.InfoContext(ctx, "article synthesized",
		slog.String("external_id", in.Bill.ExternalID),
		slog.String("slug", out.Slug),
		slog.Int("body_len", len(out.Body)),
	)
	return out, nil
}

func normalize(a article, bill domain.Bill) (domain.Article, error) {
	out := domain.Article{
		Title:   strings.TrimSpace(a.Title),
		Summary: strings.TrimSpace(a.Summary),
		Body:    strings.TrimSpace(a.Body),
	}

	var c domain.Checks
	c.Require(out.Summary != "", "summary", "empty")
	c.Require(out.Body != "", "body", "empty")
	if err := c.Err(); err != nil {
		return domain.Article{}, err
	}

	base := a.Slug
	if strings.TrimSpace(base) == "" {
		base = out.Title
	}
	if strings.TrimSpace(base) == "" {
		base = bill.Title
	}
	suffix := domain.Slugify(bill.ExternalID, 0)
	slug := domain.Slugify(base, maxSlugLen-len(suffix)-1)
	if slug == "" {
		out.Slug = suffix
	} else {
		out.Slug = slug + "-" + suffix
	}

	out.Keywords = normalizeKeywords(a.Keywords)
	return out, nil
}

func normalizeKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
