package feevote

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/liamzebedee/feevote-go/core"
)

// ErrStaleCycle is returned when a cycle finishes after a newer cycle has already started.
var ErrStaleCycle = errors.New("stale fetch cycle discarded")

// SnapshotStore persists the latest snapshot so it can be shown again after a restart.
type SnapshotStore interface {
	// LoadSnapshot returns nil without an error when nothing has been saved.
	LoadSnapshot() (*Snapshot, error)
	SaveSnapshot(snapshot Snapshot) error
}

// Status describes the monitor's latest published state.
type Status struct {
	Cycle       uint64    `json:"cycle"`
	PublishedAt time.Time `json:"published_at"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`
	Restored    bool      `json:"restored"`
}

// Monitor runs fetch cycles and holds the latest aggregation.
//
// Cycles may overlap. The results of a cycle are discarded if a newer cycle
// has already started, so a stale snapshot pair never replaces a fresher one.
// Failed cycles leave the previous aggregation in place.
type Monitor struct {
	cycle *Cycle
	store SnapshotStore
	log   *log.Logger

	// Called after each published aggregation.
	OnUpdate func(agg Aggregation)

	cycleCounter atomic.Uint64
	inflight     sync.WaitGroup

	mu     sync.RWMutex
	latest *Aggregation
	status Status
}

func NewMonitor(cycle *Cycle, store SnapshotStore) *Monitor {
	return &Monitor{
		cycle: cycle,
		store: store,
		log:   core.NewLogger("monitor", ""),
	}
}

// Latest returns the most recent aggregation, or false if none has arrived yet.
func (m *Monitor) Latest() (*Aggregation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.latest != nil
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Restore publishes the stored snapshot, if any. It never replaces data from a live cycle.
func (m *Monitor) Restore() error {
	if m.store == nil {
		return nil
	}

	snapshot, err := m.store.LoadSnapshot()
	if err != nil {
		return err
	}
	if snapshot == nil {
		m.log.Println("No stored snapshot")
		return nil
	}

	agg := snapshot.Aggregate()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest != nil {
		return nil
	}
	m.latest = &agg
	m.status.Restored = true
	m.status.PublishedAt = time.Now()
	m.log.Printf("Restored snapshot ledger=%d validators=%d\n", agg.LedgerIndex, agg.Validators)
	return nil
}

// RunCycle fetches both sources, aggregates and publishes.
func (m *Monitor) RunCycle(ctx context.Context) (*Aggregation, error) {
	id := m.cycleCounter.Add(1)
	m.log.Printf("Cycle %d: fetching\n", id)

	snapshot, err := m.cycle.Fetch(ctx)
	if err != nil {
		m.recordError(id, err)
		return nil, err
	}

	agg := snapshot.Aggregate()
	agg.Cycle = id

	if !m.publish(id, &agg) {
		m.log.Printf("Cycle %d: discarded, a newer cycle has started\n", id)
		return &agg, ErrStaleCycle
	}
	m.log.Printf("Cycle %d: published ledger=%d validators=%d\n", id, agg.LedgerIndex, agg.Validators)

	if m.store != nil {
		if err := m.store.SaveSnapshot(*snapshot); err != nil {
			m.log.Printf("Cycle %d: failed to save snapshot: %s\n", id, err)
		}
	}

	if m.OnUpdate != nil {
		m.OnUpdate(agg)
	}
	return &agg, nil
}

// stale reports whether a cycle newer than id has started or published.
// Callers hold m.mu.
func (m *Monitor) stale(id uint64) bool {
	return m.status.Cycle > id || m.cycleCounter.Load() > id
}

func (m *Monitor) publish(id uint64, agg *Aggregation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stale(id) {
		return false
	}
	m.latest = agg
	m.status = Status{
		Cycle:       id,
		PublishedAt: time.Now(),
	}
	return true
}

func (m *Monitor) recordError(id uint64, err error) {
	m.log.Printf("Cycle %d: failed: %s\n", id, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stale(id) {
		return
	}
	m.status.LastError = err.Error()
	m.status.LastErrorAt = time.Now()
}

// Refresh starts a cycle in the background. The cycle is bound to ctx, and
// nothing is started once ctx is done.
func (m *Monitor) Refresh(ctx context.Context, timeout time.Duration) {
	if ctx.Err() != nil {
		return
	}
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		m.RunCycle(ctx)
	}()
}

// Wait blocks until every cycle started by Refresh has returned.
func (m *Monitor) Wait() {
	m.inflight.Wait()
}

// Start runs a cycle immediately and then every interval, until ctx is done.
// Each cycle is given at most one interval to complete.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.log.Printf("Starting monitor, interval=%s\n", interval)

	m.Refresh(ctx, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.log.Println("Monitor stopped")
			return
		case <-ticker.C:
			m.Refresh(ctx, interval)
		}
	}
}
