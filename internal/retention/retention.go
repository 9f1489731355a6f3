// Package retention bounds the size of the history store.
package retention

import (
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/storage"
)

// DefaultCapacity is the number of unpinned entries kept when none is configured
const DefaultCapacity = 500

// Manager evicts the least recent unpinned entries once more than Capacity of
// them are stored. Reading an entry does not refresh it; only a bump does.
type Manager struct {
	capacity int
	logger   *zap.Logger
}

func NewManager(capacity int, logger *zap.Logger) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{capacity: capacity, logger: logger}
}

// Capacity returns the configured bound on unpinned entries
func (m *Manager) Capacity() int {
	return m.capacity
}

// Enforce runs inside the caller's write transaction, after an insert, and
// returns the ids it evicted.
func (m *Manager) Enforce(tx *storage.Tx) ([]int64, error) {
	var evicted []int64
	for tx.CountUnpinned() > int64(m.capacity) {
		id, ok := tx.OldestUnpinned()
		if !ok {
			break
		}
		if err := tx.Delete(id); err != nil {
			return evicted, err
		}
		evicted = append(evicted, id)
	}

	if len(evicted) > 0 {
		m.logger.Debug("Evicted entries over capacity",
			zap.Int64s("ids", evicted),
			zap.Int("capacity", m.capacity))
	}
	return evicted, nil
}
