package mocks

import (
	"context"
	"sync"
)

// MockBlobStore is a mock implementation of store.BlobStore for testing
type MockBlobStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// For tracking calls in tests
	GetCalls []string
	PutCalls []PutCall
	GetErr   error
	PutErr   error
}

// PutCall records parameters passed to Put
type PutCall struct {
	Key   string
	Value []byte
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		values:   make(map[string][]byte),
		GetCalls: make([]string, 0),
		PutCalls: make([]PutCall, 0),
	}
}

// Get returns the stored value or GetErr
func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores value unless PutErr is set
func (m *MockBlobStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls = append(m.PutCalls, PutCall{Key: key, Value: append([]byte(nil), value...)})

	if m.PutErr != nil {
		return m.PutErr
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// SetData sets a value directly for testing
func (m *MockBlobStore) SetData(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
}

// Data returns the raw stored value
func (m *MockBlobStore) Data(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Reset clears all values and recorded calls
func (m *MockBlobStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string][]byte)
	m.GetCalls = make([]string, 0)
	m.PutCalls = make([]PutCall, 0)
	m.GetErr = nil
	m.PutErr = nil
}
