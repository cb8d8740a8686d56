package subscriber

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// UpdateSettings changes the goal and state focus. When the goal changes the
// subscriber's matches are deleted in the same transaction, before the new
// goal is written, so none scored against the old goal survive.
func (s *Service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.Subscriber, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Subscriber
	var purged int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.current(txCtx)
		if err != nil {
			return err
		}

		goal := current.Goal
		if input.Goal != nil {
			goal = normalizeGoal(*input.Goal)
		}
		focus := current.StateFocus
		if input.StateFocus != nil {
			focus = domain.NormalizeStateFocus(*input.StateFocus)
		}

		if goalChanged(current.Goal, goal) {
			n, err := s.matches.DeleteForSubscriber(txCtx, current.ID)
			if err != nil {
				return fmt.Errorf("delete matches: %w", err)
			}
			purged = n
		}

		updated, err = s.subs.UpdateSettings(txCtx, current.ID, goal, focus)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscriber.UpdateSettings: %w", err)
	}

	s.log.InfoContext(ctx, "settings updated",
		slog.String("subscriber_id", updated.ID.String()),
		slog.Int64("matches_purged", purged))

	return updated, nil
}

// normalizeGoal trims the goal. A blank goal is stored as NULL.
func normalizeGoal(goal string) *string {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil
	}
	return &goal
}

func goalChanged(old, next *string) bool {
	switch {
	case old == nil && next == nil:
		return false
	case old == nil || next == nil:
		return true
	}
	return strings.TrimSpace(*old) != *next
}
