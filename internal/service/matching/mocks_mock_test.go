package matching

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/relevance"
)

// billRepoMock is a mock implementation of billRepo.
type billRepoMock struct {
	ListCreatedSinceFunc func(ctx context.Context, since time.Time) ([]domain.Bill, error)
	ListPublishedFunc    func(ctx context.Context, limit, offset int) ([]domain.Bill, error)

	calls struct {
		ListCreatedSince []struct {
			Since time.Time
		}
		ListPublished []struct {
			Limit  int
			Offset int
		}
	}
	lockListCreatedSince sync.RWMutex
	lockListPublished    sync.RWMutex
}

func (m *billRepoMock) ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Bill, error) {
	if m.ListCreatedSinceFunc == nil {
		panic("billRepoMock.ListCreatedSinceFunc: method is nil but billRepo.ListCreatedSince was just called")
	}
	m.lockListCreatedSince.Lock()
	m.calls.ListCreatedSince = append(m.calls.ListCreatedSince, struct {
		Since time.Time
	}{Since: since})
	m.lockListCreatedSince.Unlock()
	return m.ListCreatedSinceFunc(ctx, since)
}

// ListCreatedSinceCalls gets all the calls that were made to ListCreatedSince.
func (m *billRepoMock) ListCreatedSinceCalls() []struct {
	Since time.Time
} {
	m.lockListCreatedSince.RLock()
	defer m.lockListCreatedSince.RUnlock()
	return m.calls.ListCreatedSince
}

func (m *billRepoMock) ListPublished(ctx context.Context, limit, offset int) ([]domain.Bill, error) {
	if m.ListPublishedFunc == nil {
		panic("billRepoMock.ListPublishedFunc: method is nil but billRepo.ListPublished was just called")
	}
	m.lockListPublished.Lock()
	m.calls.ListPublished = append(m.calls.ListPublished, struct {
		Limit  int
		Offset int
	}{Limit: limit, Offset: offset})
	m.lockListPublished.Unlock()
	return m.ListPublishedFunc(ctx, limit, offset)
}

// ListPublishedCalls gets all the calls that were made to ListPublished.
func (m *billRepoMock) ListPublishedCalls() []struct {
	Limit  int
	Offset int
} {
	m.lockListPublished.RLock()
	defer m.lockListPublished.RUnlock()
	return m.calls.ListPublished
}

// subscriberRepoMock is a mock implementation of subscriberRepo.
type subscriberRepoMock struct {
	ListWithGoalFunc func(ctx context.Context) ([]domain.Subscriber, error)
	GetByEmailFunc   func(ctx context.Context, email string) (*domain.Subscriber, error)

	calls struct {
		GetByEmail []struct {
			Email string
		}
	}
	lockGetByEmail sync.RWMutex
}

func (m *subscriberRepoMock) ListWithGoal(ctx context.Context) ([]domain.Subscriber, error) {
	if m.ListWithGoalFunc == nil {
		panic("subscriberRepoMock.ListWithGoalFunc: method is nil but subscriberRepo.ListWithGoal was just called")
	}
	return m.ListWithGoalFunc(ctx)
}

func (m *subscriberRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	if m.GetByEmailFunc == nil {
		panic("subscriberRepoMock.GetByEmailFunc: method is nil but subscriberRepo.GetByEmail was just called")
	}
	m.lockGetByEmail.Lock()
	m.calls.GetByEmail = append(m.calls.GetByEmail, struct {
		Email string
	}{Email: email})
	m.lockGetByEmail.Unlock()
	return m.GetByEmailFunc(ctx, email)
}

// GetByEmailCalls gets all the calls that were made to GetByEmail.
func (m *subscriberRepoMock) GetByEmailCalls() []struct {
	Email string
} {
	m.lockGetByEmail.RLock()
	defer m.lockGetByEmail.RUnlock()
	return m.calls.GetByEmail
}

// matchRepoMock is a mock implementation of matchRepo.
type matchRepoMock struct {
	MatchedPairsFunc   func(ctx context.Context, subscriberIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]bool, error)
	MatchedBillIDsFunc func(ctx context.Context, subscriberID uuid.UUID) (map[uuid.UUID]bool, error)
	UpsertFunc         func(ctx context.Context, m domain.Match) error

	calls struct {
		MatchedPairs []struct {
			SubscriberIDs []uuid.UUID
		}
		Upsert []struct {
			M domain.Match
		}
	}
	lockMatchedPairs sync.RWMutex
	lockUpsert       sync.RWMutex
}

func (m *matchRepoMock) MatchedPairs(ctx context.Context, subscriberIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]bool, error) {
	if m.MatchedPairsFunc == nil {
		panic("matchRepoMock.MatchedPairsFunc: method is nil but matchRepo.MatchedPairs was just called")
	}
	m.lockMatchedPairs.Lock()
	m.calls.MatchedPairs = append(m.calls.MatchedPairs, struct {
		SubscriberIDs []uuid.UUID
	}{SubscriberIDs: subscriberIDs})
	m.lockMatchedPairs.Unlock()
	return m.MatchedPairsFunc(ctx, subscriberIDs)
}

// MatchedPairsCalls gets all the calls that were made to MatchedPairs.
func (m *matchRepoMock) MatchedPairsCalls() []struct {
	SubscriberIDs []uuid.UUID
} {
	m.lockMatchedPairs.RLock()
	defer m.lockMatchedPairs.RUnlock()
	return m.calls.MatchedPairs
}

func (m *matchRepoMock) MatchedBillIDs(ctx context.Context, subscriberID uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.MatchedBillIDsFunc == nil {
		panic("matchRepoMock.MatchedBillIDsFunc: method is nil but matchRepo.MatchedBillIDs was just called")
	}
	return m.MatchedBillIDsFunc(ctx, subscriberID)
}

func (m *matchRepoMock) Upsert(ctx context.Context, match domain.Match) error {
	if m.UpsertFunc == nil {
		panic("matchRepoMock.UpsertFunc: method is nil but matchRepo.Upsert was just called")
	}
	m.lockUpsert.Lock()
	m.calls.Upsert = append(m.calls.Upsert, struct {
		M domain.Match
	}{M: match})
	m.lockUpsert.Unlock()
	return m.UpsertFunc(ctx, match)
}

// UpsertCalls gets all the calls that were made to Upsert.
func (m *matchRepoMock) UpsertCalls() []struct {
	M domain.Match
} {
	m.lockUpsert.RLock()
	defer m.lockUpsert.RUnlock()
	return m.calls.Upsert
}

// scorerMock is a mock implementation of scorer.
type scorerMock struct {
	ScoreFunc func(ctx context.Context, bill relevance.BillText, interests string, threshold int) relevance.Outcome

	calls struct {
		Score []struct {
			Bill      relevance.BillText
			Interests string
			Threshold int
		}
	}
	lockScore sync.RWMutex
}

func (m *scorerMock) Score(ctx context.Context, bill relevance.BillText, interests string, threshold int) relevance.Outcome {
	if m.ScoreFunc == nil {
		panic("scorerMock.ScoreFunc: method is nil but scorer.Score was just called")
	}
	m.lockScore.Lock()
	m.calls.Score = append(m.calls.Score, struct {
		Bill      relevance.BillText
		Interests string
		Threshold int
	}{Bill: bill, Interests: interests, Threshold: threshold})
	m.lockScore.Unlock()
	return m.ScoreFunc(ctx, bill, interests, threshold)
}

// ScoreCalls gets all the calls that were made to Score.
func (m *scorerMock) ScoreCalls() []struct {
	Bill      relevance.BillText
	Interests string
	Threshold int
} {
	m.lockScore.RLock()
	defer m.lockScore.RUnlock()
	return m.calls.Score
}
