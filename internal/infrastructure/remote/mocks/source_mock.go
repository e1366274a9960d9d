package mocks

import (
	"context"
	"sync"

	"github.com/example/stockkeeper/internal/domain/catalog"
)

// MockSource is a mock implementation of remote.Source for testing
type MockSource struct {
	mu sync.Mutex

	Catalog    catalog.Catalog
	FetchErr   error
	FetchCalls int
}

func NewMockSource(c catalog.Catalog) *MockSource {
	return &MockSource{Catalog: c}
}

// Fetch returns a copy of Catalog, or FetchErr when set
func (m *MockSource) Fetch(ctx context.Context) (catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Catalog.Clone(), nil
}

// SetCatalog replaces the remote snapshot
func (m *MockSource) SetCatalog(c catalog.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Catalog = c
}
