package monitor

import (
	"runtime"
	"sync"
	"time"

	"github.com/re-centris/method-extractor/internal/common/logger"
	"go.uber.org/zap"
)

// Stats represents runtime statistics of a run
type Stats struct {
	Goroutines int
	Memory     uint64
	StartTime  time.Time
	Files      uint64
	Methods    uint64
}

// Monitor periodically logs runtime statistics while a run is in progress
type Monitor struct {
	mu       sync.RWMutex
	stats    Stats
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new monitor
func New(interval time.Duration) *Monitor {
	return &Monitor{
		stats:    Stats{StartTime: time.Now()},
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start starts the monitoring loop. A non-positive interval disables it.
func (m *Monitor) Start() {
	if m.interval <= 0 {
		return
	}
	go m.monitor()
}

// Stop stops the monitoring loop. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// GetStats returns current statistics
func (m *Monitor) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// FileDone records one processed file and the number of methods it yielded
func (m *Monitor) FileDone(methods int) {
	m.mu.Lock()
	m.stats.Files++
	m.stats.Methods += uint64(methods)
	m.mu.Unlock()
}

func (m *Monitor) monitor() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.collectMetrics()
		case <-m.done:
			return
		}
	}
}

func (m *Monitor) collectMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.Lock()
	m.stats.Goroutines = runtime.NumGoroutine()
	m.stats.Memory = memStats.Alloc
	s := m.stats
	m.mu.Unlock()

	logger.Debug("Runtime metrics",
		zap.Int("goroutines", s.Goroutines),
		zap.Uint64("memory_bytes", s.Memory),
		zap.Uint64("files", s.Files),
		zap.Uint64("methods", s.Methods),
		zap.Duration("uptime", time.Since(s.StartTime)),
	)
}
