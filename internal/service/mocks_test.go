package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fraud-desk/internal/models"
	"github.com/fraud-desk/internal/storage"
	"github.com/fraud-desk/internal/types"
	"github.com/shopspring/decimal"
)

// Mock repositories for testing

type mockReportRepo struct {
	mu      sync.Mutex
	reports map[int64]*models.FraudReport
	nextID  int64
	writes  int
	err     error
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[int64]*models.FraudReport)}
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.FraudReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	m.writes++
	report.ID = m.nextID
	report.CreatedAt = time.Unix(1700000000+m.nextID, 0).UTC()
	copied := *report
	m.reports[report.ID] = &copied
	return nil
}

func (m *mockReportRepo) List(ctx context.Context) ([]*models.FraudReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]*models.FraudReport, 0, len(m.reports))
	for id := m.nextID; id > 0; id-- {
		if r, ok := m.reports[id]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id int64) (*models.FraudReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockReportRepo) UpdateStatus(ctx context.Context, id int64, status string) (*models.FraudReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	m.writes++
	r.Status = status
	return r, nil
}

type mockInvestigationRepo struct {
	investigations []*models.Investigation
	err            error
}

func (m *mockInvestigationRepo) Create(ctx context.Context, inv *models.Investigation) error {
	if m.err != nil {
		return m.err
	}
	inv.ID = int64(len(m.investigations) + 1)
	inv.CreatedAt = time.Now().UTC()
	m.investigations = append(m.investigations, inv)
	return nil
}

func (m *mockInvestigationRepo) GetByID(ctx context.Context, id int64) (*models.Investigation, error) {
	for _, inv := range m.investigations {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockInvestigationRepo) ListByReport(ctx context.Context, reportID int64) ([]*models.Investigation, error) {
	result := make([]*models.Investigation, 0)
	for i := len(m.investigations) - 1; i >= 0; i-- {
		inv := m.investigations[i]
		if inv.LinkedReportID != nil && *inv.LinkedReportID == reportID {
			result = append(result, inv)
		}
	}
	return result, nil
}

// mockGateway implements adapter.WalletGateway
type mockGateway struct {
	mu           sync.Mutex
	balance      decimal.Decimal
	balanceErr   error
	transfers    []types.Transfer
	transfersErr error
	maxCounts    []int
	calls        int
}

func (m *mockGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.balanceErr != nil {
		return decimal.Zero, m.balanceErr
	}
	return m.balance, nil
}

func (m *mockGateway) GetIncomingTransfers(ctx context.Context, address string, maxCount int) ([]types.Transfer, error) {
	m.mu.Lock()
	m.calls++
	m.maxCounts = append(m.maxCounts, maxCount)
	m.mu.Unlock()
	if m.transfersErr != nil {
		return nil, m.transfersErr
	}
	return m.transfers, nil
}

type mockWalletCache struct {
	entries map[string]*types.WalletReport
	getErr  error
	setErr  error
	sets    int
}

func newMockWalletCache() *mockWalletCache {
	return &mockWalletCache{entries: make(map[string]*types.WalletReport)}
}

func (m *mockWalletCache) Get(ctx context.Context, address string) (*types.WalletReport, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	r, ok := m.entries[address]
	return r, ok, nil
}

func (m *mockWalletCache) Set(ctx context.Context, address string, report *types.WalletReport) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[address] = report
	return nil
}

var errUpstream = errors.New("upstream unavailable")
