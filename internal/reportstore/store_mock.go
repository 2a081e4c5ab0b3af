package reportstore

import (
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
	"github.com/stretchr/testify/mock"
)

// Testify mocks for the store interfaces. Grading tests hand these to the
// core entry points instead of standing up a real database.

type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = (*MockStoreManager)(nil)

func (m *MockStoreManager) GetGradeCacheStore() contract.CacheStore {
	store, _ := m.Called().Get(0).(contract.CacheStore)
	return store
}

func (m *MockStoreManager) GetRunStore() contract.RunStore {
	store, _ := m.Called().Get(0).(contract.RunStore)
	return store
}

type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = (*MockCacheStore)(nil)

func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Int(1), args.Get(2).(int64), args.Error(3)
}

func (m *MockCacheStore) Set(key string, payload []byte, version int, storedAt int64) error {
	return m.Called(key, payload, version, storedAt).Error(0)
}

func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

func (m *MockCacheStore) Close() error {
	return m.Called().Error(0)
}

type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = (*MockRunStore)(nil)

func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalImages int) error {
	return m.Called(runID, endTime, totalImages).Error(0)
}

func (m *MockRunStore) RecordImageReport(record schema.ImageReportRecord) error {
	return m.Called(record).Error(0)
}

func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

func (m *MockRunStore) GetAllImageReports() ([]schema.ImageReportRecord, error) {
	args := m.Called()
	reports, _ := args.Get(0).([]schema.ImageReportRecord)
	return reports, args.Error(1)
}

func (m *MockRunStore) Close() error {
	return m.Called().Error(0)
}
