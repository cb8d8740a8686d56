package subscriber

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// subscriberRepoMock is a mock implementation of subscriberRepo.
type subscriberRepoMock struct {
	CreateFunc          func(ctx context.Context, s domain.Subscriber) (*domain.Subscriber, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*domain.Subscriber, error)
	UpdateSettingsFunc  func(ctx context.Context, id uuid.UUID, goal *string, stateFocus string) (*domain.Subscriber, error)
	UpdateInterestsFunc func(ctx context.Context, id uuid.UUID, interests []string) (*domain.Subscriber, error)

	calls struct {
		Create []struct {
			S domain.Subscriber
		}
		UpdateSettings []struct {
			ID         uuid.UUID
			Goal       *string
			StateFocus string
		}
		UpdateInterests []struct {
			ID        uuid.UUID
			Interests []string
		}
	}
	lockCreate          sync.RWMutex
	lockUpdateSettings  sync.RWMutex
	lockUpdateInterests sync.RWMutex
}

func (m *subscriberRepoMock) Create(ctx context.Context, s domain.Subscriber) (*domain.Subscriber, error) {
	if m.CreateFunc == nil {
		panic("subscriberRepoMock.CreateFunc: method is nil but subscriberRepo.Create was just called")
	}
	m.lockCreate.Lock()
	m.calls.Create = append(m.calls.Create, struct {
		S domain.Subscriber
	}{S: s})
	m.lockCreate.Unlock()
	return m.CreateFunc(ctx, s)
}

// CreateCalls gets all the calls that were made to Create.
func (m *subscriberRepoMock) CreateCalls() []struct {
	S domain.Subscriber
} {
	m.lockCreate.RLock()
	defer m.lockCreate.RUnlock()
	return m.calls.Create
}

func (m *subscriberRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	if m.GetByEmailFunc == nil {
		panic("subscriberRepoMock.GetByEmailFunc: method is nil but subscriberRepo.GetByEmail was just called")
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *subscriberRepoMock) UpdateSettings(ctx context.Context, id uuid.UUID, goal *string, stateFocus string) (*domain.Subscriber, error) {
	if m.UpdateSettingsFunc == nil {
		panic("subscriberRepoMock.UpdateSettingsFunc: method is nil but subscriberRepo.UpdateSettings was just called")
	}
	m.lockUpdateSettings.Lock()
	m.calls.UpdateSettings = append(m.calls.UpdateSettings, struct {
		ID         uuid.UUID
		Goal       *string
		StateFocus string
	}{ID: id, Goal: goal, StateFocus: stateFocus})
	m.lockUpdateSettings.Unlock()
	return m.UpdateSettingsFunc(ctx, id, goal, stateFocus)
}

// UpdateSettingsCalls gets all the calls that were made to UpdateSettings.
func (m *subscriberRepoMock) UpdateSettingsCalls() []struct {
	ID         uuid.UUID
	Goal       *string
	StateFocus string
} {
	m.lockUpdateSettings.RLock()
	defer m.lockUpdateSettings.RUnlock()
	return m.calls.UpdateSettings
}

func (m *subscriberRepoMock) UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) (*domain.Subscriber, error) {
	if m.UpdateInterestsFunc == nil {
		panic("subscriberRepoMock.UpdateInterestsFunc: method is nil but subscriberRepo.UpdateInterests was just called")
	}
	m.lockUpdateInterests.Lock()
	m.calls.UpdateInterests = append(m.calls.UpdateInterests, struct {
		ID        uuid.UUID
		Interests []string
	}{ID: id, Interests: interests})
	m.lockUpdateInterests.Unlock()
	return m.UpdateInterestsFunc(ctx, id, interests)
}

// UpdateInterestsCalls gets all the calls that were made to UpdateInterests.
func (m *subscriberRepoMock) UpdateInterestsCalls() []struct {
	ID        uuid.UUID
	Interests []string
} {
	m.lockUpdateInterests.RLock()
	defer m.lockUpdateInterests.RUnlock()
	return m.calls.UpdateInterests
}

// matchRepoMock is a mock implementation of matchRepo.
type matchRepoMock struct {
	DeleteForSubscriberFunc func(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	ListForSubscriberFunc   func(ctx context.Context, subscriberID uuid.UUID, minScore, limit int) ([]domain.MatchedBill, error)

	calls struct {
		DeleteForSubscriber []struct {
			SubscriberID uuid.UUID
		}
		ListForSubscriber []struct {
			SubscriberID uuid.UUID
			MinScore     int
			Limit        int
		}
	}
	lockDeleteForSubscriber sync.RWMutex
	lockListForSubscriber   sync.RWMutex
}

func (m *matchRepoMock) DeleteForSubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	if m.DeleteForSubscriberFunc == nil {
		panic("matchRepoMock.DeleteForSubscriberFunc: method is nil but matchRepo.DeleteForSubscriber was just called")
	}
	m.lockDeleteForSubscriber.Lock()
	m.calls.DeleteForSubscriber = append(m.calls.DeleteForSubscriber, struct {
		SubscriberID uuid.UUID
	}{SubscriberID: subscriberID})
	m.lockDeleteForSubscriber.Unlock()
	return m.DeleteForSubscriberFunc(ctx, subscriberID)
}

// DeleteForSubscriberCalls gets all the calls that were made to DeleteForSubscriber.
func (m *matchRepoMock) DeleteForSubscriberCalls() []struct {
	SubscriberID uuid.UUID
} {
	m.lockDeleteForSubscriber.RLock()
	defer m.lockDeleteForSubscriber.RUnlock()
	return m.calls.DeleteForSubscriber
}

func (m *matchRepoMock) ListForSubscriber(ctx context.Context, subscriberID uuid.UUID, minScore, limit int) ([]domain.MatchedBill, error) {
	if m.ListForSubscriberFunc == nil {
		panic("matchRepoMock.ListForSubscriberFunc: method is nil but matchRepo.ListForSubscriber was just called")
	}
	m.lockListForSubscriber.Lock()
	m.calls.ListForSubscriber = append(m.calls.ListForSubscriber, struct {
		SubscriberID uuid.UUID
		MinScore     int
		Limit        int
	}{SubscriberID: subscriberID, MinScore: minScore, Limit: limit})
	m.lockListForSubscriber.Unlock()
	return m.ListForSubscriberFunc(ctx, subscriberID, minScore, limit)
}

// ListForSubscriberCalls gets all the calls that were made to ListForSubscriber.
func (m *matchRepoMock) ListForSubscriberCalls() []struct {
	SubscriberID uuid.UUID
	MinScore     int
	Limit        int
} {
	m.lockListForSubscriber.RLock()
	defer m.lockListForSubscriber.RUnlock()
	return m.calls.ListForSubscriber
}

// starredRepoMock is a mock implementation of starredRepo.
type starredRepoMock struct {
	StarFunc              func(ctx context.Context, subscriberID, billID uuid.UUID) error
	UnstarFunc            func(ctx context.Context, subscriberID, billID uuid.UUID) error
	ListForSubscriberFunc func(ctx context.Context, subscriberID uuid.UUID) ([]domain.StarredBill, error)
	DismissUpdateFunc     func(ctx context.Context, subscriberID, billID uuid.UUID) error
}

func (m *starredRepoMock) Star(ctx context.Context, subscriberID, billID uuid.UUID) error {
	if m.StarFunc == nil {
		panic("starredRepoMock.StarFunc: method is nil but starredRepo.Star was just called")
	}
	return m.StarFunc(ctx, subscriberID, billID)
}

func (m *starredRepoMock) Unstar(ctx context.Context, subscriberID, billID uuid.UUID) error {
	if m.UnstarFunc == nil {
		panic("starredRepoMock.UnstarFunc: method is nil but starredRepo.Unstar was just called")
	}
	return m.UnstarFunc(ctx, subscriberID, billID)
}

func (m *starredRepoMock) ListForSubscriber(ctx context.Context, subscriberID uuid.UUID) ([]domain.StarredBill, error) {
	if m.ListForSubscriberFunc == nil {
		panic("starredRepoMock.ListForSubscriberFunc: method is nil but starredRepo.ListForSubscriber was just called")
	}
	return m.ListForSubscriberFunc(ctx, subscriberID)
}

func (m *starredRepoMock) DismissUpdate(ctx context.Context, subscriberID, billID uuid.UUID) error {
	if m.DismissUpdateFunc == nil {
		panic("starredRepoMock.DismissUpdateFunc: method is nil but starredRepo.DismissUpdate was just called")
	}
	return m.DismissUpdateFunc(ctx, subscriberID, billID)
}

// txManagerMock is a mock implementation of txManager.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
		}
	}
	lockRunInTx sync.RWMutex
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	m.lockRunInTx.Lock()
	m.calls.RunInTx = append(m.calls.RunInTx, struct {
		Ctx context.Context
	}{Ctx: ctx})
	m.lockRunInTx.Unlock()
	return m.RunInTxFunc(ctx, fn)
}

// RunInTxCalls gets all the calls that were made to RunInTx.
func (m *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
} {
	m.lockRunInTx.RLock()
	defer m.lockRunInTx.RUnlock()
	return m.calls.RunInTx
}
