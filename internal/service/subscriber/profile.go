package subscriber

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// Onboard creates a subscriber. The email is normalized and must be unique.
func (s *Service) Onboard(ctx context.Context, input OnboardInput) (*domain.Subscriber, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	goal := strings.TrimSpace(input.Goal)
	accepted := s.now().UTC()
	interests := []string{}
	for _, in := range input.Interests {
		if in = normalizeInterest(in); in != "" && !containsFold(interests, in) {
			interests = append(interests, in)
		}
	}

	sub, err := s.subs.Create(ctx, domain.Subscriber{
		Email:           domain.NormalizeEmail(input.Email),
		Goal:            &goal,
		StateFocus:      domain.NormalizeStateFocus(input.StateFocus),
		Interests:       interests,
		TermsAcceptedAt: &accepted,
	})
	if err != nil {
		return nil, fmt.Errorf("subscriber.Onboard: %w", err)
	}

	s.log.InfoContext(ctx, "subscriber onboarded",
		slog.String("subscriber_id", sub.ID.String()),
		slog.String("state_focus", sub.StateFocus))

	return sub, nil
}

// Me returns the subscriber identified by the request.
// Returns ErrUnauthorized if no known subscriber email is in context.
func (s *Service) Me(ctx context.Context) (*domain.Subscriber, error) {
	sub, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscriber.Me: %w", err)
	}
	return sub, nil
}

func containsFold(list []string, v string) bool {
	for _, x := range list {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
