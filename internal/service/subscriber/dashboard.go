package subscriber

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// Matches returns the dashboard: the subscriber's matches at or above the
// configured minimum score, best first.
func (s *Service) Matches(ctx context.Context) ([]domain.MatchedBill, error) {
	sub, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscriber.Matches: %w", err)
	}
	list, err := s.matches.ListForSubscriber(ctx, sub.ID, s.cfg.DashboardMinScore, s.cfg.DashboardLimit)
	if err != nil {
		return nil, fmt.Errorf("subscriber.Matches: %w", err)
	}
	return list, nil
}

// Starred returns the subscriber's bookmarks, updated ones first.
func (s *Service) Starred(ctx context.Context) ([]domain.StarredBill, error) {
	sub, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscriber.Starred: %w", err)
	}
	list, err := s.starred.ListForSubscriber(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("subscriber.Starred: %w", err)
	}
	return list, nil
}

// Star bookmarks a bill. Starring twice is a no-op.
// Returns ErrNotFound if the bill does not exist.
func (s *Service) Star(ctx context.Context, billID uuid.UUID) error {
	sub, err := s.current(ctx)
	if err != nil {
		return fmt.Errorf("subscriber.Star: %w", err)
	}
	if err := s.starred.Star(ctx, sub.ID, billID); err != nil {
		return fmt.Errorf("subscriber.Star: %w", err)
	}
	return nil
}

// Unstar removes a bookmark. Removing a missing one is a no-op.
func (s *Service) Unstar(ctx context.Context, billID uuid.UUID) error {
	sub, err := s.current(ctx)
	if err != nil {
		return fmt.Errorf("subscriber.Unstar: %w", err)
	}
	if err := s.starred.Unstar(ctx, sub.ID, billID); err != nil {
		return fmt.Errorf("subscriber.Unstar: %w", err)
	}
	return nil
}

// DismissUpdate clears the update flag on a starred bill.
func (s *Service) DismissUpdate(ctx context.Context, billID uuid.UUID) error {
	sub, err := s.current(ctx)
	if err != nil {
		return fmt.Errorf("subscriber.DismissUpdate: %w", err)
	}
	if err := s.starred.DismissUpdate(ctx, sub.ID, billID); err != nil {
		return fmt.Errorf("subscriber.DismissUpdate: %w", err)
	}
	return nil
}
