package subscriber

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// AddInterest appends a supplementary interest. Adding one that is already
// present, ignoring case, is a no-op.
func (s *Service) AddInterest(ctx context.Context, topic string) (*domain.Subscriber, error) {
	topic = normalizeInterest(topic)
	switch {
	case topic == "":
		return nil, domain.NewValidationError("topic", "required")
	case len(topic) > maxInterestLen:
		return nil, domain.NewValidationError("topic", "too long")
	}

	sub, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscriber.AddInterest: %w", err)
	}
	if containsFold(sub.Interests, topic) {
		return sub, nil
	}
	if len(sub.Interests) >= maxInterests {
		return nil, domain.NewValidationError("interests", fmt.Sprintf("at most %d interests", maxInterests))
	}

	updated, err := s.subs.UpdateInterests(ctx, sub.ID, append(append([]string{}, sub.Interests...), topic))
	if err != nil {
		return nil, fmt.Errorf("subscriber.AddInterest: %w", err)
	}
	return updated, nil
}

// RemoveInterest drops an interest and deletes the subscriber's matches,
// which were scored against the old interest set.
// Returns ErrNotFound if the subscriber has no such interest.
func (s *Service) RemoveInterest(ctx context.Context, topic string) (*domain.Subscriber, error) {
	topic = normalizeInterest(topic)
	if topic == "" {
		return nil, domain.NewValidationError("topic", "required")
	}

	var updated *domain.Subscriber
	var purged int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.current(txCtx)
		if err != nil {
			return err
		}

		kept := make([]string, 0, len(sub.Interests))
		for _, in := range sub.Interests {
			if !strings.EqualFold(in, topic) {
				kept = append(kept, in)
			}
		}
		if len(kept) == len(sub.Interests) {
			return fmt.Errorf("interest %q: %w", topic, domain.ErrNotFound)
		}

		if purged, err = s.matches.DeleteForSubscriber(txCtx, sub.ID); err != nil {
			return fmt.Errorf("delete matches: %w", err)
		}
		if updated, err = s.subs.UpdateInterests(txCtx, sub.ID, kept); err != nil {
			return fmt.Errorf("update interests: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscriber.RemoveInterest: %w", err)
	}

	s.log.InfoContext(ctx, "interest removed",
		slog.String("subscriber_id", updated.ID.String()),
		slog.Int64("matches_purged", purged))

	return updated, nil
}
