package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dailylaw/ledge-backend/internal/adapter/llm"
	"github.com/dailylaw/ledge-backend/internal/adapter/postgres"
	billrepo "github.com/dailylaw/ledge-backend/internal/adapter/postgres/bill"
	cursorrepo "github.com/dailylaw/ledge-backend/internal/adapter/postgres/cursor"
	matchrepo "github.com/dailylaw/ledge-backend/internal/adapter/postgres/match"
	starredrepo "github.com/dailylaw/ledge-backend/internal/adapter/postgres/starred"
	subscriberrepo "github.com/dailylaw/ledge-backend/internal/adapter/postgres/subscriber"
	"github.com/dailylaw/ledge-backend/internal/adapter/provider/congress"
	"github.com/dailylaw/ledge-backend/internal/adapter/provider/legiscan"
	"github.com/dailylaw/ledge-backend/internal/adapter/provider/newsapi"
	"github.com/dailylaw/ledge-backend/internal/adapter/provider/resend"
	"github.com/dailylaw/ledge-backend/internal/auth"
	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/service/article"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/ingest"
	"github.com/dailylaw/ledge-backend/internal/service/matching"
	"github.com/dailylaw/ledge-backend/internal/service/notify"
	"github.com/dailylaw/ledge-backend/internal/service/relevance"
	"github.com/dailylaw/ledge-backend/internal/service/subscriber"
	"github.com/dailylaw/ledge-backend/internal/service/synthesis"
	"github.com/dailylaw/ledge-backend/internal/service/tracker"
	"github.com/dailylaw/ledge-backend/internal/transport/middleware"
)

// Container holds every long-lived dependency. Both the HTTP server and
// ledgectl build one.
type Container struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool

	Congress *congress.Client
	Federal  []ingest.Source
	State    []ingest.Source

	Ingest     *ingest.Service
	Matching   *matching.Service
	Tracker    *tracker.Service
	Notify     *notify.Service
	Subscriber *subscriber.Service
	Article    *article.Service

	// Cookie encodes the identity cookie: signed when a secret is
	// configured, plain otherwise.
	Cookie middleware.CookieCodec
}

// NewContainer opens the pool and wires services. Migrations run first
// when the config asks for it. Callers must Close the container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	cookie, err := identityCodec(cfg.Identity)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("app: migrate: %w", err)
		}
	}

	c := &Container{Config: cfg, Log: logger, Pool: pool, Cookie: cookie}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg, log := c.Config, c.Log
	clock := batch.RealClock{}

	bills := billrepo.New(c.Pool)
	cursors := cursorrepo.New(c.Pool)
	matches := matchrepo.New(c.Pool)
	starred := starredrepo.New(c.Pool)
	subs := subscriberrepo.New(c.Pool)
	tx := postgres.NewTxManager(c.Pool)

	llmClient := llm.NewClient(cfg.LLM, log)
	scorer := relevance.NewScorer(log, llmClient, relevance.Config{
		QuickMaxTokens: cfg.LLM.QuickMaxTokens,
		FullMaxTokens:  cfg.LLM.FullMaxTokens,
	})
	synth := synthesis.NewSynthesizer(log, llmClient, synthesis.Config{
		MaxTokens:    cfg.LLM.ArticleTokens,
		MaxTextBytes: cfg.Ingest.MaxTextBytes,
	})

	c.Congress = congress.NewClient(cfg.Congress, log)
	c.Federal = []ingest.Source{c.Congress}
	for _, state := range cfg.LegiScan.States() {
		c.State = append(c.State, legiscan.NewClient(cfg.LegiScan, state, log))
	}

	c.Ingest = ingest.NewService(log, bills, cursors, synth, contextSources(cfg, log), clock, ingest.Config{
		PriorityWindow:   cfg.Ingest.PriorityWindow,
		ArchiveBatch:     cfg.Ingest.ArchiveBatch,
		MaxPerRun:        cfg.Ingest.MaxPerRun,
		Budget:           cfg.Ingest.Budget,
		RateLimitBackoff: cfg.Scoring.RateLimitBackoff,
	})

	c.Matching = matching.NewService(log, bills, subs, matches, scorer, clock, matching.Config{
		Thresholds: relevance.Thresholds{
			Federal: cfg.Scoring.Threshold,
			State:   cfg.Scoring.StateThreshold,
		},
		RecentWindow:     cfg.Scoring.RecentWindow,
		BillDelay:        cfg.Scoring.BillDelay,
		SubscriberDelay:  cfg.Scoring.SubscriberDelay,
		BatchDelay:       cfg.Scoring.BatchDelay,
		BatchSize:        cfg.Scoring.BatchSize,
		NightlyBudget:    cfg.Scoring.NightlyBudget,
		BackfillBudget:   cfg.Scoring.BackfillBudget,
		ExploreBudget:    cfg.Scoring.ExploreBudget,
		ExploreWindow:    cfg.Scoring.ExploreWindow,
		ExploreMinScore:  cfg.Scoring.ExploreMinScore,
		ExploreLimit:     cfg.Scoring.ExploreLimit,
		RateLimitBackoff: cfg.Scoring.RateLimitBackoff,
	})

	c.Tracker = tracker.NewService(log, bills, starred, clock, tracker.Config{
		Budget: cfg.Ingest.StatusBudget,
	})

	c.Notify = notify.NewService(log, matches, subs, resend.NewClient(cfg.Email, log), clock, notify.Config{
		Threshold: cfg.Email.AlertThreshold,
		From:      cfg.Email.From,
		SiteURL:   cfg.Email.SiteURL,
		Budget:    cfg.Email.AlertBudget,
	})

	c.Subscriber = subscriber.NewService(log, subs, matches, starred, tx, subscriber.Config{
		DashboardMinScore: cfg.Scoring.Threshold,
	})
	c.Article = article.NewService(log, bills)
}

func identityCodec(cfg config.IdentityConfig) (middleware.CookieCodec, error) {
	if cfg.CookieSecret == "" {
		return middleware.PlainCookie{}, nil
	}
	return auth.NewCookieSigner(cfg.CookieSecret, cfg.CookieTTL)
}

// Close releases the pool.
func (c *Container) Close() {
	c.Pool.Close()
}

// contextSources lists the synthesis background lookups that are configured.
func contextSources(cfg *config.Config, log *slog.Logger) []ingest.ContextSource {
	var out []ingest.ContextSource
	if cfg.News.APIKey != "" {
		out = append(out, newsapi.NewClient(cfg.News, log))
	}
	return out
}
