package iocache

import (
	"context"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// GetModelStore implements the StoreManager interface.
func (m *MockStoreManager) GetModelStore() contract.ModelStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ModelStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// Record implements the HistoryStore interface.
func (m *MockHistoryStore) Record(ctx context.Context, rec schema.AnalysisRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

// List implements the HistoryStore interface.
func (m *MockHistoryStore) List(ctx context.Context, limit int) ([]schema.AnalysisRecord, error) {
	args := m.Called(ctx, limit)
	recs, _ := args.Get(0).([]schema.AnalysisRecord)
	return recs, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}

// MockModelStore is a mock implementation of ModelStore for testing.
type MockModelStore struct {
	mock.Mock
}

var _ contract.ModelStore = &MockModelStore{} // Compile-time check

// Save implements the ModelStore interface.
func (m *MockModelStore) Save(ctx context.Context, name schema.MetricName, payload []byte, evaluation map[string]float64) (schema.ModelVersion, error) {
	args := m.Called(ctx, name, payload, evaluation)
	return args.Get(0).(schema.ModelVersion), args.Error(1)
}

// Load implements the ModelStore interface.
func (m *MockModelStore) Load(ctx context.Context, name schema.MetricName) (schema.ModelRecord, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(schema.ModelRecord), args.Bool(1), args.Error(2)
}

// Versions implements the ModelStore interface.
func (m *MockModelStore) Versions(ctx context.Context) ([]schema.ModelVersion, error) {
	args := m.Called(ctx)
	versions, _ := args.Get(0).([]schema.ModelVersion)
	return versions, args.Error(1)
}

// GetStatus implements the ModelStore interface.
func (m *MockModelStore) GetStatus(ctx context.Context) (schema.ModelStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.ModelStatus), args.Error(1)
}

// Clear implements the ModelStore interface.
func (m *MockModelStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Close implements the ModelStore interface.
func (m *MockModelStore) Close() error {
	return m.Called().Error(0)
}
