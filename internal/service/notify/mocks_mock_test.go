package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/provider"
)

// matchRepoMock is a mock implementation of matchRepo.
type matchRepoMock struct {
	ListUnnotifiedFunc func(ctx context.Context, minScore int) ([]domain.MatchedBill, error)
	MarkNotifiedFunc   func(ctx context.Context, subscriberID uuid.UUID, billIDs []uuid.UUID) (int64, error)

	calls struct {
		ListUnnotified []struct {
			MinScore int
		}
		MarkNotified []struct {
			SubscriberID uuid.UUID
			BillIDs      []uuid.UUID
		}
	}
	lockListUnnotified sync.RWMutex
	lockMarkNotified   sync.RWMutex
}

func (m *matchRepoMock) ListUnnotified(ctx context.Context, minScore int) ([]domain.MatchedBill, error) {
	if m.ListUnnotifiedFunc == nil {
		panic("matchRepoMock.ListUnnotifiedFunc: method is nil but matchRepo.ListUnnotified was just called")
	}
	m.lockListUnnotified.Lock()
	m.calls.ListUnnotified = append(m.calls.ListUnnotified, struct {
		MinScore int
	}{MinScore: minScore})
	m.lockListUnnotified.Unlock()
	return m.ListUnnotifiedFunc(ctx, minScore)
}

// ListUnnotifiedCalls gets all the calls that were made to ListUnnotified.
func (m *matchRepoMock) ListUnnotifiedCalls() []struct {
	MinScore int
} {
	m.lockListUnnotified.RLock()
	defer m.lockListUnnotified.RUnlock()
	return m.calls.ListUnnotified
}

func (m *matchRepoMock) MarkNotified(ctx context.Context, subscriberID uuid.UUID, billIDs []uuid.UUID) (int64, error) {
	if m.MarkNotifiedFunc == nil {
		panic("matchRepoMock.MarkNotifiedFunc: method is nil but matchRepo.MarkNotified was just called")
	}
	m.lockMarkNotified.Lock()
	m.calls.MarkNotified = append(m.calls.MarkNotified, struct {
		SubscriberID uuid.UUID
		BillIDs      []uuid.UUID
	}{SubscriberID: subscriberID, BillIDs: billIDs})
	m.lockMarkNotified.Unlock()
	return m.MarkNotifiedFunc(ctx, subscriberID, billIDs)
}

// MarkNotifiedCalls gets all the calls that were made to MarkNotified.
func (m *matchRepoMock) MarkNotifiedCalls() []struct {
	SubscriberID uuid.UUID
	BillIDs      []uuid.UUID
} {
	m.lockMarkNotified.RLock()
	defer m.lockMarkNotified.RUnlock()
	return m.calls.MarkNotified
}

// subscriberRepoMock is a mock implementation of subscriberRepo.
type subscriberRepoMock struct {
	ListByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.Subscriber, error)
}

func (m *subscriberRepoMock) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Subscriber, error) {
	if m.ListByIDsFunc == nil {
		panic("subscriberRepoMock.ListByIDsFunc: method is nil but subscriberRepo.ListByIDs was just called")
	}
	return m.ListByIDsFunc(ctx, ids)
}

// mailerMock is a mock implementation of mailer.
type mailerMock struct {
	SendFunc func(ctx context.Context, e provider.Email) (string, error)

	calls struct {
		Send []struct {
			E provider.Email
		}
	}
	lockSend sync.RWMutex
}

func (m *mailerMock) Send(ctx context.Context, e provider.Email) (string, error) {
	if m.SendFunc == nil {
		panic("mailerMock.SendFunc: method is nil but mailer.Send was just called")
	}
	m.lockSend.Lock()
	m.calls.Send = append(m.calls.Send, struct {
		E provider.Email
	}{E: e})
	m.lockSend.Unlock()
	return m.SendFunc(ctx, e)
}

// SendCalls gets all the calls that were made to Send.
func (m *mailerMock) SendCalls() []struct {
	E provider.Email
} {
	m.lockSend.RLock()
	defer m.lockSend.RUnlock()
	return m.calls.Send
}
