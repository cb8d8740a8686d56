// Package article serves published bill articles to the public site.
package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type billRepo interface {
	ListPublished(ctx context.Context, limit, offset int) ([]domain.Bill, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Bill, error)
}

// Service reads published articles.
type Service struct {
	log   *slog.Logger
	bills billRepo
}

// NewService creates a new article service instance.
func NewService(logger *slog.Logger, bills billRepo) *Service {
	return &Service{
		log:   logger.With("service", "article"),
		bills: bills,
	}
}

// ListInput holds paging parameters. Zero values select the defaults.
type ListInput struct {
	Limit  int
	Offset int
}

// Validate validates the list input.
func (i ListInput) Validate() error {
	var c domain.Checks
	c.Require(i.Limit >= 0 && i.Limit <= maxLimit, "limit", fmt.Sprintf("must be within 0..%d", maxLimit))
	c.Require(i.Offset >= 0, "offset", "must not be negative")
	return c.Err()
}

// List returns published articles, newest first.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Bill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	bills, err := s.bills.ListPublished(ctx, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("article.List: %w", err)
	}
	return bills, nil
}

// Get returns the published article with the given slug.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Bill, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}
	bill, err := s.bills.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("article.Get: %w", err)
	}
	return bill, nil
}
