package article

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

type billRepoStub struct {
	limit, offset int
	slug          string
	bills         map[string]domain.Bill
}

func (s *billRepoStub) ListPublished(ctx context.Context, limit, offset int) ([]domain.Bill, error) {
	s.limit, s.offset = limit, offset
	return []domain.Bill{{Title: "A"}}, nil
}

func (s *billRepoStub) GetBySlug(ctx context.Context, slug string) (*domain.Bill, error) {
	s.slug = slug
	b, ok := s.bills[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func newService(repo *billRepoStub) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func TestService_List(t *testing.T) {
	t.Parallel()
	repo := &billRepoStub{}
	svc := newService(repo)

	got, err := svc.List(context.Background(), ListInput{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 20, repo.limit)

	_, err = svc.List(context.Background(), ListInput{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, repo.limit)
	assert.Equal(t, 10, repo.offset)

	_, err = svc.List(context.Background(), ListInput{Limit: 500})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Get(t *testing.T) {
	t.Parallel()
	repo := &billRepoStub{bills: map[string]domain.Bill{"clean-water-act-hr1-119": {Title: "Clean Water"}}}
	svc := newService(repo)

	b, err := svc.Get(context.Background(), " Clean-Water-Act-HR1-119 ")
	require.NoError(t, err)
	assert.Equal(t, "Clean Water", b.Title)
	assert.Equal(t, "clean-water-act-hr1-119", repo.slug)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
