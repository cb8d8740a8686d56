package synthesis

import (
	"context"
	"sync"

	"github.com/dailylaw/ledge-backend/internal/provider"
)

// completerMock is a mock implementation of completer.
type completerMock struct {
	CompleteFunc func(ctx context.Context, req provider.CompletionRequest) (string, error)

	calls struct {
		Complete []struct {
			Ctx context.Context
			Req provider.CompletionRequest
		}
	}
	lockComplete sync.RWMutex
}

func (m *completerMock) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	if m.CompleteFunc == nil {
		panic("completerMock.CompleteFunc: method is nil but completer.Complete was just called")
	}
	m.lockComplete.Lock()
	m.calls.Complete = append(m.calls.Complete, struct {
		Ctx context.Context
		Req provider.CompletionRequest
	}{Ctx: ctx, Req: req})
	m.lockComplete.Unlock()
	return m.CompleteFunc(ctx, req)
}

// CompleteCalls gets all the calls that were made to Complete.
func (m *completerMock) CompleteCalls() []struct {
	Ctx context.Context
	Req provider.CompletionRequest
} {
	m.lockComplete.RLock()
	defer m.lockComplete.RUnlock()
	return m.calls.Complete
}
