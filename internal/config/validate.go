package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Cron.Secret) < 16 {
		return fmt.Errorf("cron.secret must be at least 16 characters (got %d)", len(c.Cron.Secret))
	}

	if n := len(c.Identity.CookieSecret); n > 0 && n < 32 {
		return fmt.Errorf("identity.cookie_secret must be empty or at least 32 characters (got %d)", n)
	}
	if c.Identity.CookieTTL <= 0 {
		return fmt.Errorf("identity.cookie_ttl must be > 0")
	}

	if err := c.Scoring.validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	if err := c.Ingest.validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if c.Email.AlertThreshold < 0 || c.Email.AlertThreshold > 100 {
		return fmt.Errorf("email.alert_threshold must be within 0..100 (got %d)", c.Email.AlertThreshold)
	}
	if c.News.MaxArticles < 0 || c.News.MaxArticles > 20 {
		return fmt.Errorf("news.max_articles must be within 0..20 (got %d)", c.News.MaxArticles)
	}
	if c.Email.AlertBudget <= 0 {
		return fmt.Errorf("email.alert_budget must be > 0 (got %s)", c.Email.AlertBudget)
	}

	for _, s := range c.LegiScan.States() {
		if len(s) != 2 {
			return fmt.Errorf("legiscan.states: %q is not a two-letter state code", s)
		}
	}

	if budget := c.maxHTTPBudget(); c.Server.WriteTimeout <= budget {
		return fmt.Errorf("server.write_timeout (%s) must exceed the longest driver budget (%s)", c.Server.WriteTimeout, budget)
	}

	return nil
}

func (c *Config) maxHTTPBudget() time.Duration {
	longest := c.Scoring.NightlyBudget
	for _, d := range []time.Duration{c.Scoring.BackfillBudget, c.Scoring.ExploreBudget, c.Ingest.Budget, c.Ingest.StatusBudget, c.Email.AlertBudget} {
		if d > longest {
			longest = d
		}
	}
	return longest
}

func (s *ScoringConfig) validate() error {
	for name, v := range map[string]int{
		"threshold":         s.Threshold,
		"state_threshold":   s.StateThreshold,
		"explore_min_score": s.ExploreMinScore,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be within 0..100 (got %d)", name, v)
		}
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", s.BatchSize)
	}
	if s.ExploreWindow <= 0 || s.ExploreLimit <= 0 {
		return fmt.Errorf("explore_window and explore_limit must be > 0")
	}
	if s.NightlyBudget <= 0 || s.BackfillBudget <= 0 || s.ExploreBudget <= 0 {
		return fmt.Errorf("budgets must be > 0")
	}
	return nil
}

func (i *IngestConfig) validate() error {
	if i.PriorityWindow <= 0 {
		return fmt.Errorf("priority_window must be > 0 (got %d)", i.PriorityWindow)
	}
	if i.ArchiveBatch <= 0 {
		return fmt.Errorf("archive_batch must be > 0 (got %d)", i.ArchiveBatch)
	}
	if i.MaxPerRun <= 0 {
		return fmt.Errorf("max_per_run must be > 0 (got %d)", i.MaxPerRun)
	}
	if i.MaxTextBytes < 1000 {
		return fmt.Errorf("max_text_bytes must be >= 1000 (got %d)", i.MaxTextBytes)
	}
	return nil
}
