package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadsync/internal/entity"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindCompanyID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) UpsertBatch(ctx context.Context, leads []entity.MappedLead) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) FindByMobileDigits(ctx context.Context, digits string) (*entity.Lead, error) {
	args := m.Called(ctx, digits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdatePreferences(ctx context.Context, id string, prefs entity.LeadPreferences) error {
	args := m.Called(ctx, id, prefs)
	return args.Error(0)
}

func (m *MockLeadRepository) ListByCompany(ctx context.Context, companyID string, from, to time.Time) ([]entity.Lead, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

type MockSyncLogRepository struct {
	mock.Mock
}

func (m *MockSyncLogRepository) Create(ctx context.Context, entry *entity.SyncLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) AccessToken(ctx context.Context, scope string) (*entity.AccessToken, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AccessToken), args.Error(1)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, token *entity.AccessToken, spreadsheetID, tabName string) (entity.SheetGrid, error) {
	args := m.Called(ctx, token, spreadsheetID, tabName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.SheetGrid), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSyncEvent(ctx context.Context, event entity.SyncEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ObserveSync(status string, rowsSynced, dropped int) {
	m.Called(status, rowsSynced, dropped)
}

func (m *MockMetrics) ObserveCall(result string) {
	m.Called(result)
}

type MockCallRepository struct {
	mock.Mock
}

func (m *MockCallRepository) Create(ctx context.Context, call *entity.Call) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindFirstID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) FindFirstIDByCompany(ctx context.Context, companyID string) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

// memoryLeadStore imita o ON CONFLICT (company_id, mobile) do Postgres.
type memoryLeadStore struct {
	mu     sync.Mutex
	rows   map[string]entity.MappedLead
	writes int
}

func newMemoryLeadStore() *memoryLeadStore {
	return &memoryLeadStore{rows: map[string]entity.MappedLead{}}
}

func (s *memoryLeadStore) UpsertBatch(_ context.Context, leads []entity.MappedLead) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	for _, l := range leads {
		key := l.CompanyID + "|" + l.Mobile
		if seen[key] {
			panic("ON CONFLICT DO UPDATE command cannot affect row a second time")
		}
		seen[key] = true

		if prev, ok := s.rows[key]; ok {
			l.Email = coalesce(l.Email, prev.Email)
			l.Budget = coalesce(l.Budget, prev.Budget)
			l.PossessionTimeline = coalesce(l.PossessionTimeline, prev.PossessionTimeline)
			l.UnitPreference = coalesce(l.UnitPreference, prev.UnitPreference)
			l.LocationPreference = coalesce(l.LocationPreference, prev.LocationPreference)
		}
		s.rows[key] = l
	}
	s.writes++
	return len(leads), nil
}

func (s *memoryLeadStore) snapshot() []entity.MappedLead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.MappedLead, 0, len(s.rows))
	for _, l := range s.rows {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mobile < out[j].Mobile })
	return out
}

func coalesce(v, fallback *string) *string {
	if v != nil {
		return v
	}
	return fallback
}

type memorySyncLogs struct {
	mu      sync.Mutex
	entries []*entity.SyncLogEntry
}

func (s *memorySyncLogs) Create(_ context.Context, entry *entity.SyncLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}
