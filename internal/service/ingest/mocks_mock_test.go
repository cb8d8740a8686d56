package ingest

import (
	"context"
	"sync"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/synthesis"
)

// sourceMock is a mock implementation of Source.
type sourceMock struct {
	NameFunc          func() string
	FetchRecentFunc   func(ctx context.Context, limit, offset int) ([]domain.Bill, error)
	FetchBillTextFunc func(ctx context.Context, externalID string) (string, error)

	calls struct {
		FetchRecent []struct {
			Limit  int
			Offset int
		}
		FetchBillText []struct {
			ExternalID string
		}
	}
	lockFetchRecent   sync.RWMutex
	lockFetchBillText sync.RWMutex
}

func (m *sourceMock) Name() string {
	if m.NameFunc == nil {
		return "mock"
	}
	return m.NameFunc()
}

func (m *sourceMock) FetchRecent(ctx context.Context, limit, offset int) ([]domain.Bill, error) {
	if m.FetchRecentFunc == nil {
		panic("sourceMock.FetchRecentFunc: method is nil but Source.FetchRecent was just called")
	}
	m.lockFetchRecent.Lock()
	m.calls.FetchRecent = append(m.calls.FetchRecent, struct {
		Limit  int
		Offset int
	}{Limit: limit, Offset: offset})
	m.lockFetchRecent.Unlock()
	return m.FetchRecentFunc(ctx, limit, offset)
}

// FetchRecentCalls gets all the calls that were made to FetchRecent.
func (m *sourceMock) FetchRecentCalls() []struct {
	Limit  int
	Offset int
} {
	m.lockFetchRecent.RLock()
	defer m.lockFetchRecent.RUnlock()
	return m.calls.FetchRecent
}

func (m *sourceMock) FetchBillText(ctx context.Context, externalID string) (string, error) {
	if m.FetchBillTextFunc == nil {
		panic("sourceMock.FetchBillTextFunc: method is nil but Source.FetchBillText was just called")
	}
	m.lockFetchBillText.Lock()
	m.calls.FetchBillText = append(m.calls.FetchBillText, struct {
		ExternalID string
	}{ExternalID: externalID})
	m.lockFetchBillText.Unlock()
	return m.FetchBillTextFunc(ctx, externalID)
}

// FetchBillTextCalls gets all the calls that were made to FetchBillText.
func (m *sourceMock) FetchBillTextCalls() []struct {
	ExternalID string
} {
	m.lockFetchBillText.RLock()
	defer m.lockFetchBillText.RUnlock()
	return m.calls.FetchBillText
}

// billRepoMock is a mock implementation of billRepo.
type billRepoMock struct {
	ExistingExternalIDsFunc func(ctx context.Context, ids []string) (map[string]bool, error)
	CreateFunc              func(ctx context.Context, b domain.Bill) (*domain.Bill, error)

	calls struct {
		ExistingExternalIDs []struct {
			IDs []string
		}
		Create []struct {
			B domain.Bill
		}
	}
	lockExistingExternalIDs sync.RWMutex
	lockCreate              sync.RWMutex
}

func (m *billRepoMock) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if m.ExistingExternalIDsFunc == nil {
		panic("billRepoMock.ExistingExternalIDsFunc: method is nil but billRepo.ExistingExternalIDs was just called")
	}
	m.lockExistingExternalIDs.Lock()
	m.calls.ExistingExternalIDs = append(m.calls.ExistingExternalIDs, struct {
		IDs []string
	}{IDs: ids})
	m.lockExistingExternalIDs.Unlock()
	return m.ExistingExternalIDsFunc(ctx, ids)
}

// ExistingExternalIDsCalls gets all the calls that were made to ExistingExternalIDs.
func (m *billRepoMock) ExistingExternalIDsCalls() []struct {
	IDs []string
} {
	m.lockExistingExternalIDs.RLock()
	defer m.lockExistingExternalIDs.RUnlock()
	return m.calls.ExistingExternalIDs
}

func (m *billRepoMock) Create(ctx context.Context, b domain.Bill) (*domain.Bill, error) {
	if m.CreateFunc == nil {
		panic("billRepoMock.CreateFunc: method is nil but billRepo.Create was just called")
	}
	m.lockCreate.Lock()
	m.calls.Create = append(m.calls.Create, struct {
		B domain.Bill
	}{B: b})
	m.lockCreate.Unlock()
	return m.CreateFunc(ctx, b)
}

// CreateCalls gets all the calls that were made to Create.
func (m *billRepoMock) CreateCalls() []struct {
	B domain.Bill
} {
	m.lockCreate.RLock()
	defer m.lockCreate.RUnlock()
	return m.calls.Create
}

// cursorRepoMock is a mock implementation of cursorRepo.
type cursorRepoMock struct {
	OffsetFunc    func(ctx context.Context, source string) (int, error)
	SetOffsetFunc func(ctx context.Context, source string, offset int) error

	calls struct {
		SetOffset []struct {
			Source string
			Offset int
		}
	}
	lockSetOffset sync.RWMutex
}

func (m *cursorRepoMock) Offset(ctx context.Context, source string) (int, error) {
	if m.OffsetFunc == nil {
		panic("cursorRepoMock.OffsetFunc: method is nil but cursorRepo.Offset was just called")
	}
	return m.OffsetFunc(ctx, source)
}

func (m *cursorRepoMock) SetOffset(ctx context.Context, source string, offset int) error {
	if m.SetOffsetFunc == nil {
		panic("cursorRepoMock.SetOffsetFunc: method is nil but cursorRepo.SetOffset was just called")
	}
	m.lockSetOffset.Lock()
	m.calls.SetOffset = append(m.calls.SetOffset, struct {
		Source string
		Offset int
	}{Source: source, Offset: offset})
	m.lockSetOffset.Unlock()
	return m.SetOffsetFunc(ctx, source, offset)
}

// SetOffsetCalls gets all the calls that were made to SetOffset.
func (m *cursorRepoMock) SetOffsetCalls() []struct {
	Source string
	Offset int
} {
	m.lockSetOffset.RLock()
	defer m.lockSetOffset.RUnlock()
	return m.calls.SetOffset
}

// synthesizerMock is a mock implementation of synthesizer.
type synthesizerMock struct {
	SynthesizeFunc func(ctx context.Context, in synthesis.Input) (domain.Article, error)

	calls struct {
		Synthesize []struct {
			In synthesis.Input
		}
	}
	lockSynthesize sync.RWMutex
}

func (m *synthesizerMock) Synthesize(ctx context.Context, in synthesis.Input) (domain.Article, error) {
	if m.SynthesizeFunc == nil {
		panic("synthesizerMock.SynthesizeFunc: method is nil but synthesizer.Synthesize was just called")
	}
	m.lockSynthesize.Lock()
	m.calls.Synthesize = append(m.calls.Synthesize, struct {
		In synthesis.Input
	}{In: in})
	m.lockSynthesize.Unlock()
	return m.SynthesizeFunc(ctx, in)
}

// SynthesizeCalls gets all the calls that were made to Synthesize.
func (m *synthesizerMock) SynthesizeCalls() []struct {
	In synthesis.Input
} {
	m.lockSynthesize.RLock()
	defer m.lockSynthesize.RUnlock()
	return m.calls.Synthesize
}

// contextSourceMock is a mock implementation of ContextSource.
type contextSourceMock struct {
	NameFunc       func() string
	BackgroundFunc func(ctx context.Context, bill domain.Bill) ([]string, error)

	calls struct {
		Background []struct {
			Bill domain.Bill
		}
	}
	lockBackground sync.RWMutex
}

func (m *contextSourceMock) Name() string {
	if m.NameFunc == nil {
		return "mock"
	}
	return m.NameFunc()
}

func (m *contextSourceMock) Background(ctx context.Context, bill domain.Bill) ([]string, error) {
	if m.BackgroundFunc == nil {
		panic("contextSourceMock.BackgroundFunc: method is nil but ContextSource.Background was just called")
	}
	m.lockBackground.Lock()
	m.calls.Background = append(m.calls.Background, struct {
		Bill domain.Bill
	}{Bill: bill})
	m.lockBackground.Unlock()
	return m.BackgroundFunc(ctx, bill)
}

// BackgroundCalls gets all the calls that were made to Background.
func (m *contextSourceMock) BackgroundCalls() []struct {
	Bill domain.Bill
} {
	m.lockBackground.RLock()
	defer m.lockBackground.RUnlock()
	return m.calls.Background
}
