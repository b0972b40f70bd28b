package memory

import (
	"sync"
	"time"

	"visionlab/internal/logger"
)

// Manager records every tracked safe.Mat so leaks show up in the status bar
// and in the shutdown log.
type Manager struct {
	allocations map[uint64]*AllocationRecord
	mu          sync.RWMutex
	stats       Stats
	logger      logger.Logger
}

type AllocationRecord struct {
	Tag       string
	CreatedAt time.Time
	Size      int64
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PeakBytes      int64
}

// InUse is the number of bytes held by live Mats.
func (s Stats) InUse() int64 {
	return s.TotalAllocated - s.TotalReleased
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{
		allocations: make(map[uint64]*AllocationRecord),
		logger:      log,
	}
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocations[id] = &AllocationRecord{
		Tag:       tag,
		CreatedAt: time.Now(),
		Size:      size,
	}
	m.stats.TotalAllocated += size
	m.stats.ActiveMats++
	if inUse := m.stats.InUse(); inUse > m.stats.PeakBytes {
		m.stats.PeakBytes = inUse
	}

	m.logger.Debug("MemoryManager", "mat allocated", map[string]interface{}{
		"id":   id,
		"tag":  tag,
		"size": size,
	})
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.allocations[id]
	if !exists {
		m.logger.Warning("MemoryManager", "release of untracked mat", map[string]interface{}{
			"id":  id,
			"tag": tag,
		})
		return
	}

	delete(m.allocations, id)
	m.stats.TotalReleased += record.Size
	m.stats.ActiveMats--

	m.logger.Debug("MemoryManager", "mat released", map[string]interface{}{
		"id":       id,
		"tag":      tag,
		"lifetime": time.Since(record.CreatedAt),
	})
}

func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Shutdown logs every Mat still alive. The Mats themselves are owned by
// their holders and are not closed here.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, record := range m.allocations {
		m.logger.Warning("MemoryManager", "mat still alive at shutdown", map[string]interface{}{
			"id":   id,
			"tag":  record.Tag,
			"size": record.Size,
			"age":  time.Since(record.CreatedAt),
		})
	}

	m.logger.Info("MemoryManager", "memory manager shut down", map[string]interface{}{
		"active_mats": m.stats.ActiveMats,
		"peak_bytes":  m.stats.PeakBytes,
	})
}
