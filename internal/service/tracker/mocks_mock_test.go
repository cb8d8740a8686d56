package tracker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
)

// actionSourceMock is a mock implementation of ActionSource.
type actionSourceMock struct {
	FetchBillActionFunc func(ctx context.Context, externalID string) (*domain.BillAction, error)

	calls struct {
		FetchBillAction []struct {
			ExternalID string
		}
	}
	lockFetchBillAction sync.RWMutex
}

func (m *actionSourceMock) Source() domain.BillSource { return domain.SourceFederal }

func (m *actionSourceMock) FetchBillAction(ctx context.Context, externalID string) (*domain.BillAction, error) {
	if m.FetchBillActionFunc == nil {
		panic("actionSourceMock.FetchBillActionFunc: method is nil but ActionSource.FetchBillAction was just called")
	}
	m.lockFetchBillAction.Lock()
	m.calls.FetchBillAction = append(m.calls.FetchBillAction, struct {
		ExternalID string
	}{ExternalID: externalID})
	m.lockFetchBillAction.Unlock()
	return m.FetchBillActionFunc(ctx, externalID)
}

// FetchBillActionCalls gets all the calls that were made to FetchBillAction.
func (m *actionSourceMock) FetchBillActionCalls() []struct {
	ExternalID string
} {
	m.lockFetchBillAction.RLock()
	defer m.lockFetchBillAction.RUnlock()
	return m.calls.FetchBillAction
}

// billRepoMock is a mock implementation of billRepo.
type billRepoMock struct {
	ListBySourceFunc func(ctx context.Context, source domain.BillSource) ([]domain.Bill, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, upd domain.StatusUpdate) error

	calls struct {
		ListBySource []struct {
			Source domain.BillSource
		}
		UpdateStatus []struct {
			ID  uuid.UUID
			Upd domain.StatusUpdate
		}
	}
	lockListBySource sync.RWMutex
	lockUpdateStatus sync.RWMutex
}

func (m *billRepoMock) ListBySource(ctx context.Context, source domain.BillSource) ([]domain.Bill, error) {
	if m.ListBySourceFunc == nil {
		panic("billRepoMock.ListBySourceFunc: method is nil but billRepo.ListBySource was just called")
	}
	m.lockListBySource.Lock()
	m.calls.ListBySource = append(m.calls.ListBySource, struct {
		Source domain.BillSource
	}{Source: source})
	m.lockListBySource.Unlock()
	return m.ListBySourceFunc(ctx, source)
}

// ListBySourceCalls gets all the calls that were made to ListBySource.
func (m *billRepoMock) ListBySourceCalls() []struct {
	Source domain.BillSource
} {
	m.lockListBySource.RLock()
	defer m.lockListBySource.RUnlock()
	return m.calls.ListBySource
}

func (m *billRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, upd domain.StatusUpdate) error {
	if m.UpdateStatusFunc == nil {
		panic("billRepoMock.UpdateStatusFunc: method is nil but billRepo.UpdateStatus was just called")
	}
	m.lockUpdateStatus.Lock()
	m.calls.UpdateStatus = append(m.calls.UpdateStatus, struct {
		ID  uuid.UUID
		Upd domain.StatusUpdate
	}{ID: id, Upd: upd})
	m.lockUpdateStatus.Unlock()
	return m.UpdateStatusFunc(ctx, id, upd)
}

// UpdateStatusCalls gets all the calls that were made to UpdateStatus.
func (m *billRepoMock) UpdateStatusCalls() []struct {
	ID  uuid.UUID
	Upd domain.StatusUpdate
} {
	m.lockUpdateStatus.RLock()
	defer m.lockUpdateStatus.RUnlock()
	return m.calls.UpdateStatus
}

// starredRepoMock is a mock implementation of starredRepo.
type starredRepoMock struct {
	FlagUpdateFunc func(ctx context.Context, billID uuid.UUID) (int64, error)

	calls struct {
		FlagUpdate []struct {
			BillID uuid.UUID
		}
	}
	lockFlagUpdate sync.RWMutex
}

func (m *starredRepoMock) FlagUpdate(ctx context.Context, billID uuid.UUID) (int64, error) {
	if m.FlagUpdateFunc == nil {
		panic("starredRepoMock.FlagUpdateFunc: method is nil but starredRepo.FlagUpdate was just called")
	}
	m.lockFlagUpdate.Lock()
	m.calls.FlagUpdate = append(m.calls.FlagUpdate, struct {
		BillID uuid.UUID
	}{BillID: billID})
	m.lockFlagUpdate.Unlock()
	return m.FlagUpdateFunc(ctx, billID)
}

// FlagUpdateCalls gets all the calls that were made to FlagUpdate.
func (m *starredRepoMock) FlagUpdateCalls() []struct {
	BillID uuid.UUID
} {
	m.lockFlagUpdate.RLock()
	defer m.lockFlagUpdate.RUnlock()
	return m.calls.FlagUpdate
}
