package sheets

import (
	"context"
	"log"
)

// MockFeed returns a fixed set of rows for local development and tests
type MockFeed struct {
	Rows []Row
}

// NewMockFeed creates a MockFeed with a small default data set
func NewMockFeed() *MockFeed {
	return &MockFeed{
		Rows: []Row{
			{PlatformID: "player_one", WagerAmount: 12500},
			{PlatformID: "player_two", WagerAmount: 3200},
			{PlatformID: "high_roller", WagerAmount: 250000},
		},
	}
}

// Fetch returns the configured rows
func (m *MockFeed) Fetch(_ context.Context) ([]Row, error) {
	log.Printf("[MOCK] sheets: returning %d feed rows", len(m.Rows))
	return m.Rows, nil
}
