package datastore

import (
	"context"
	"time"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRecordStore implements the StoreManager interface.
func (m *MockStoreManager) GetRecordStore() contract.RecordStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RecordStore)
	return store
}

// GetMasteryRepository implements the StoreManager interface.
func (m *MockStoreManager) GetMasteryRepository() contract.MasteryRepository {
	ret := m.Called()
	repo, _ := ret.Get(0).(contract.MasteryRepository)
	return repo
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// AppendRecords implements the RecordStore interface.
func (m *MockRecordStore) AppendRecords(ctx context.Context, records []schema.PerformanceRecord, policy algo.MasteryPolicy) (schema.MasteryStore, error) {
	args := m.Called(ctx, records, policy)
	store, _ := args.Get(0).(schema.MasteryStore)
	return store, args.Error(1)
}

// ListRecords implements the RecordStore interface.
func (m *MockRecordStore) ListRecords(ctx context.Context, subject string) ([]schema.PerformanceRecord, error) {
	args := m.Called(ctx, subject)
	records, _ := args.Get(0).([]schema.PerformanceRecord)
	return records, args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMasteryRepository is a mock implementation of MasteryRepository for testing.
type MockMasteryRepository struct {
	mock.Mock
}

var _ contract.MasteryRepository = &MockMasteryRepository{} // Compile-time check

// LoadMastery implements the MasteryRepository interface.
func (m *MockMasteryRepository) LoadMastery(ctx context.Context) (schema.MasteryStore, error) {
	args := m.Called(ctx)
	store, _ := args.Get(0).(schema.MasteryStore)
	return store, args.Error(1)
}

// SaveMastery implements the MasteryRepository interface.
func (m *MockMasteryRepository) SaveMastery(ctx context.Context, store schema.MasteryStore) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

// ResetMastery implements the MasteryRepository interface.
func (m *MockMasteryRepository) ResetMastery(ctx context.Context, topic string) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(ctx context.Context, run schema.ProjectionRun) (int64, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(int64), args.Error(1)
}

// RecordProjection implements the RunStore interface.
func (m *MockRunStore) RecordProjection(ctx context.Context, runID int64, result schema.ProjectionResult) error {
	args := m.Called(ctx, runID, result)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(ctx context.Context, runID int64, endedAt time.Time, subjects int) error {
	args := m.Called(ctx, runID, endedAt, subjects)
	return args.Error(0)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns(ctx context.Context) ([]schema.ProjectionRun, error) {
	args := m.Called(ctx)
	runs, _ := args.Get(0).([]schema.ProjectionRun)
	return runs, args.Error(1)
}

// ListProjections implements the RunStore interface.
func (m *MockRunStore) ListProjections(ctx context.Context, runID int64) ([]schema.ProjectionRecord, error) {
	args := m.Called(ctx, runID)
	records, _ := args.Get(0).([]schema.ProjectionRecord)
	return records, args.Error(1)
}
