package sweeper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/taskfox/taskfox/internal/pkg/billing"
	"github.com/taskfox/taskfox/internal/pkg/env"
)

// ExpireFunc transitions stale pending orders and returns how many changed.
type ExpireFunc func(ctx context.Context) (int64, error)

// Manager periodically expires pending orders whose payment window passed.
type Manager struct {
	expire ExpireFunc
	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	running bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global order sweeper (singleton) bound to the
// billing service.
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = NewManager(func(ctx context.Context) (int64, error) {
			return billing.GetService().ExpireStaleOrders(ctx)
		})
	})
	return globalManager
}

// NewManager creates a sweeper driving the given expiry function.
func NewManager(expire ExpireFunc) *Manager {
	return &Manager{
		expire: expire,
		stopCh: make(chan struct{}),
	}
}

// Start begins the periodic sweep. Safe to call more than once.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so the manager can be
	// restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true

	interval := sweepInterval()
	log.Infof("[Sweeper] Starting order expiry sweeper (interval: %s)", interval)

	m.ticker = time.NewTicker(interval)
	m.wg.Add(1)
	go m.sweepWorker()
}

// Stop halts the sweeper and waits for the worker to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Sweeper] Stopping order expiry sweeper...")

	if m.ticker != nil {
		m.ticker.Stop()
	}

	close(m.stopCh)
	m.running = false

	m.wg.Wait()
	log.Info("[Sweeper] Stopped")
}

// IsRunning returns whether the sweeper is currently running.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RunOnce performs a single sweep outside the ticker (admin/manual use).
func (m *Manager) RunOnce(ctx context.Context) (int64, error) {
	return m.expire(ctx)
}

func (m *Manager) sweepWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[Sweeper] Sweep worker stopping")
			return
		case <-m.ticker.C:
			if _, err := m.expire(context.Background()); err != nil {
				log.Errorf("[Sweeper] Order expiry sweep failed: %v", err)
			}
		}
	}
}

func sweepInterval() time.Duration {
	minutes := 5
	if v, err := strconv.Atoi(env.GetEnv("ORDER_SWEEP_INTERVAL", "5")); err == nil && v > 0 {
		minutes = v
	}
	return time.Duration(minutes) * time.Minute
}
