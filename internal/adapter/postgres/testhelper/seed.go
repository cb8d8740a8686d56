package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedSubscriber inserts an onboarded subscriber with the given goal.
func SeedSubscriber(t *testing.T, pool *pgxpool.Pool, goal string) domain.Subscriber {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sub := domain.Subscriber{
		ID:              uuid.New(),
		Email:           "org-" + uniqueSuffix() + "@example.org",
		Goal:            &goal,
		StateFocus:      domain.StateFocusAll,
		Interests:       []string{},
		TermsAcceptedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO subscribers (id, email, goal, state_focus, interests, terms_accepted_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.Email, sub.Goal, sub.StateFocus, sub.Interests, sub.TermsAcceptedAt, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSubscriber: %v", err)
	}

	return sub
}

// SeedBill inserts a published federal bill with a unique external ID.
func SeedBill(t *testing.T, pool *pgxpool.Pool, title string) domain.Bill {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	status := domain.StatusReferred
	bill := domain.Bill{
		ID:           uuid.New(),
		ExternalID:   "HR" + suffix + "-119",
		Title:        title,
		Summary:      "Summary of " + title,
		Body:         "Body of " + title,
		Slug:         domain.Slugify(title, 60) + "-" + suffix,
		Keywords:     []string{"test"},
		Source:       domain.SourceFederal,
		Status:       &status,
		LatestAction: "Referred to the Committee on Energy and Commerce.",
		Published:    true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO legislation (id, external_id, title, summary, body, slug, keywords, source, status, latest_action, published, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		bill.ID, bill.ExternalID, bill.Title, bill.Summary, bill.Body, bill.Slug, bill.Keywords,
		string(bill.Source), string(status), bill.LatestAction, bill.Published, bill.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBill: %v", err)
	}

	return bill
}
