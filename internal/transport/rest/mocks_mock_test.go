package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/article"
	"github.com/dailylaw/ledge-backend/internal/service/ingest"
	"github.com/dailylaw/ledge-backend/internal/service/matching"
	"github.com/dailylaw/ledge-backend/internal/service/notify"
	"github.com/dailylaw/ledge-backend/internal/service/subscriber"
	"github.com/dailylaw/ledge-backend/internal/service/tracker"
)

// callLog counts calls by method name.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) record(name string) {
	c.mu.Lock()
	c.calls = append(c.calls, name)
	c.mu.Unlock()
}

func (c *callLog) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// ---------------------------------------------------------------------------
// cron drivers
// ---------------------------------------------------------------------------

type ingestDriverMock struct {
	callLog
	RunFunc func(ctx context.Context, sources ...ingest.Source) (*ingest.Result, error)
}

func (m *ingestDriverMock) Run(ctx context.Context, sources ...ingest.Source) (*ingest.Result, error) {
	m.record("Run")
	return m.RunFunc(ctx, sources...)
}

type nightlyDriverMock struct {
	callLog
	NightlyFunc func(ctx context.Context) (*matching.NightlyResult, error)
}

func (m *nightlyDriverMock) Nightly(ctx context.Context) (*matching.NightlyResult, error) {
	m.record("Nightly")
	return m.NightlyFunc(ctx)
}

type trackerDriverMock struct {
	callLog
	RunFunc func(ctx context.Context, src tracker.ActionSource) (*tracker.Result, error)
}

func (m *trackerDriverMock) Run(ctx context.Context, src tracker.ActionSource) (*tracker.Result, error) {
	m.record("Run")
	return m.RunFunc(ctx, src)
}

type alertDriverMock struct {
	callLog
	RunFunc func(ctx context.Context) (*notify.Result, error)
}

func (m *alertDriverMock) Run(ctx context.Context) (*notify.Result, error) {
	m.record("Run")
	return m.RunFunc(ctx)
}

// ---------------------------------------------------------------------------
// subscriber service
// ---------------------------------------------------------------------------

type subscriberServiceMock struct {
	callLog
	OnboardFunc        func(ctx context.Context, input subscriber.OnboardInput) (*domain.Subscriber, error)
	MeFunc             func(ctx context.Context) (*domain.Subscriber, error)
	UpdateSettingsFunc func(ctx context.Context, input subscriber.UpdateSettingsInput) (*domain.Subscriber, error)
	AddInterestFunc    func(ctx context.Context, topic string) (*domain.Subscriber, error)
	RemoveInterestFunc func(ctx context.Context, topic string) (*domain.Subscriber, error)
	MatchesFunc        func(ctx context.Context) ([]domain.MatchedBill, error)
	StarredFunc        func(ctx context.Context) ([]domain.StarredBill, error)
	StarFunc           func(ctx context.Context, billID uuid.UUID) error
	UnstarFunc         func(ctx context.Context, billID uuid.UUID) error
	DismissUpdateFunc  func(ctx context.Context, billID uuid.UUID) error
}

func (m *subscriberServiceMock) Onboard(ctx context.Context, input subscriber.OnboardInput) (*domain.Subscriber, error) {
	m.record("Onboard")
	return m.OnboardFunc(ctx, input)
}

func (m *subscriberServiceMock) Me(ctx context.Context) (*domain.Subscriber, error) {
	m.record("Me")
	return m.MeFunc(ctx)
}

func (m *subscriberServiceMock) UpdateSettings(ctx context.Context, input subscriber.UpdateSettingsInput) (*domain.Subscriber, error) {
	m.record("UpdateSettings")
	return m.UpdateSettingsFunc(ctx, input)
}

func (m *subscriberServiceMock) AddInterest(ctx context.Context, topic string) (*domain.Subscriber, error) {
	m.record("AddInterest")
	return m.AddInterestFunc(ctx, topic)
}

func (m *subscriberServiceMock) RemoveInterest(ctx context.Context, topic string) (*domain.Subscriber, error) {
	m.record("RemoveInterest")
	return m.RemoveInterestFunc(ctx, topic)
}

func (m *subscriberServiceMock) Matches(ctx context.Context) ([]domain.MatchedBill, error) {
	m.record("Matches")
	return m.MatchesFunc(ctx)
}

func (m *subscriberServiceMock) Starred(ctx context.Context) ([]domain.StarredBill, error) {
	m.record("Starred")
	return m.StarredFunc(ctx)
}

func (m *subscriberServiceMock) Star(ctx context.Context, billID uuid.UUID) error {
	m.record("Star")
	return m.StarFunc(ctx, billID)
}

func (m *subscriberServiceMock) Unstar(ctx context.Context, billID uuid.UUID) error {
	m.record("Unstar")
	return m.UnstarFunc(ctx, billID)
}

func (m *subscriberServiceMock) DismissUpdate(ctx context.Context, billID uuid.UUID) error {
	m.record("DismissUpdate")
	return m.DismissUpdateFunc(ctx, billID)
}

type backfillerMock struct {
	callLog
	BackfillFunc func(ctx context.Context, email string) (*matching.BackfillResult, error)
}

func (m *backfillerMock) Backfill(ctx context.Context, email string) (*matching.BackfillResult, error) {
	m.record("Backfill")
	return m.BackfillFunc(ctx, email)
}

// ---------------------------------------------------------------------------
// explore and articles
// ---------------------------------------------------------------------------

type explorerMock struct {
	callLog
	ExploreFunc func(ctx context.Context, query string) (*matching.ExploreResult, error)
}

func (m *explorerMock) Explore(ctx context.Context, query string) (*matching.ExploreResult, error) {
	m.record("Explore")
	return m.ExploreFunc(ctx, query)
}

type articleServiceMock struct {
	callLog
	ListFunc func(ctx context.Context, input article.ListInput) ([]domain.Bill, error)
	GetFunc  func(ctx context.Context, slug string) (*domain.Bill, error)
}

func (m *articleServiceMock) List(ctx context.Context, input article.ListInput) ([]domain.Bill, error) {
	m.record("List")
	return m.ListFunc(ctx, input)
}

func (m *articleServiceMock) Get(ctx context.Context, slug string) (*domain.Bill, error) {
	m.record("Get")
	return m.GetFunc(ctx, slug)
}
