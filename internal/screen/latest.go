package screen

import (
	"sync"

	"github.com/jwchen/argus/internal/contracts"
)

// Latest holds the most recent factor table for read-side consumers
// (API handlers) while the screen job refreshes it in the background.
type Latest struct {
	mu    sync.RWMutex
	table *contracts.FactorTable
}

// Set replaces the held table.
func (l *Latest) Set(table *contracts.FactorTable) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.table = table
}

// Get returns the held table, nil before the first screen completes.
func (l *Latest) Get() *contracts.FactorTable {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table
}
