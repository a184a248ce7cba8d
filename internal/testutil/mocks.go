package testutil

import (
	"context"
	"smd/internal/models"
	"smd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockPersister implements services.StatePersister and records saves.
type MockPersister struct {
	mu         sync.Mutex
	SaveCalls  []*models.UserMetricsState
	ClearCalls int
	SaveErr    error
	ClearErr   error
}

func (m *MockPersister) Save(state *models.UserMetricsState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, state)
	return m.SaveErr
}

func (m *MockPersister) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	return m.ClearErr
}

func (m *MockPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SaveCalls)
}

// MockExtractor implements extraction.Extractor with injectable behavior.
type MockExtractor struct {
	ExtractFn  func(ctx context.Context, text string) (*models.PartialUpdate, error)
	GenerateFn func(ctx context.Context, text string) (string, error)
}

func (m *MockExtractor) Extract(ctx context.Context, text string) (*models.PartialUpdate, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, text)
	}
	return nil, nil
}

func (m *MockExtractor) Generate(ctx context.Context, text string) (string, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, text)
	}
	return "ok", nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// extraction outcomes.
type MockMetrics struct {
	mu       sync.Mutex
	Outcomes map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Outcomes: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func (m *MockMetrics) IncExtractions(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes[outcome]++
}

func (m *MockMetrics) Outcome(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Outcomes[name]
}
