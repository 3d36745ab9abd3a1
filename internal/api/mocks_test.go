package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fraud-desk/internal/adapter"
	"github.com/fraud-desk/internal/models"
	"github.com/fraud-desk/internal/storage"
	"github.com/fraud-desk/internal/types"
	"github.com/shopspring/decimal"
)

// memReportRepo is an in-memory service.ReportRepository
type memReportRepo struct {
	mu      sync.Mutex
	reports map[int64]models.FraudReport
	nextID  int64
	clock   time.Time
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{
		reports: make(map[int64]models.FraudReport),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memReportRepo) Create(ctx context.Context, report *models.FraudReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	report.ID = m.nextID
	report.CreatedAt = m.clock
	m.reports[report.ID] = *report
	return nil
}

func (m *memReportRepo) List(ctx context.Context) ([]*models.FraudReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.FraudReport, 0, len(m.reports))
	for _, r := range m.reports {
		r := r
		result = append(result, &r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memReportRepo) GetByID(ctx context.Context, id int64) (*models.FraudReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (m *memReportRepo) UpdateStatus(ctx context.Context, id int64, status string) (*models.FraudReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	r.Status = status
	m.reports[id] = r
	return &r, nil
}

// memInvestigationRepo is an in-memory service.InvestigationRepository
type memInvestigationRepo struct {
	mu             sync.Mutex
	investigations []models.Investigation
}

func (m *memInvestigationRepo) Create(ctx context.Context, inv *models.Investigation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = int64(len(m.investigations) + 1)
	inv.CreatedAt = time.Date(2024, 2, 1, 0, 0, int(inv.ID), 0, time.UTC)
	m.investigations = append(m.investigations, *inv)
	return nil
}

func (m *memInvestigationRepo) GetByID(ctx context.Context, id int64) (*models.Investigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.investigations {
		if inv.ID == id {
			inv := inv
			return &inv, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memInvestigationRepo) ListByReport(ctx context.Context, reportID int64) ([]*models.Investigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.Investigation, 0)
	for i := len(m.investigations) - 1; i >= 0; i-- {
		inv := m.investigations[i]
		if inv.LinkedReportID != nil && *inv.LinkedReportID == reportID {
			result = append(result, &inv)
		}
	}
	return result, nil
}

// mockGateway implements adapter.WalletGateway
type mockGateway struct {
	balance      decimal.Decimal
	balanceErr   error
	transfers    []types.Transfer
	transfersErr error
}

func (m *mockGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	return m.balance, m.balanceErr
}

func (m *mockGateway) GetIncomingTransfers(ctx context.Context, address string, maxCount int) ([]types.Transfer, error) {
	if m.transfersErr != nil {
		return nil, m.transfersErr
	}
	if len(m.transfers) > maxCount {
		return m.transfers[:maxCount], nil
	}
	return m.transfers, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

type mockProvider struct{}

func (mockProvider) Health() adapter.ProviderHealth {
	return adapter.ProviderHealth{Provider: adapter.ProviderAlchemy, IsHealthy: true}
}

// panicReportService panics on ListReports; other methods are not called
type panicReportService struct {
	ReportServiceInterface
}

func (panicReportService) ListReports(ctx context.Context) ([]*models.FraudReport, error) {
	panic("boom")
}
