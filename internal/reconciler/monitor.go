// Package reconciler keeps the cash ledger consistent with the authoritative
// Orders/Payments record. One cancellable loop per tenant compares the day's
// paid orders against recorded movements and synthesizes the missing ones
// through the same write path the payment processor uses, so repairs share
// the ledger's dedup key and cannot diverge from the normal path.
package reconciler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/orders"
)

// Ledger is the slice of the movement surface the monitor needs: an existence
// check on the dedup key and the idempotent paid-order write.
// service.MovementService satisfies it.
type Ledger interface {
	BySourceRef(ctx context.Context, clientID int64, sourceRef string) (*ledger.Movement, error)
	RecordPaidOrder(ctx context.Context, clientID int64, orderID string, amount decimal.Decimal, currency string, userID uuid.UUID, customerID *uuid.UUID) (*ledger.Movement, bool, error)
}

// Clock abstracts time for deterministic interval tests
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Status is the public view of one tenant's reconciliation loop. Counters are
// monotonic within a run and reset when a stopped tenant is started again.
type Status struct {
	ClientID    int64         `json:"client_id"`
	IsRunning   bool          `json:"is_running"`
	Interval    time.Duration `json:"-"`
	StartedAt   time.Time     `json:"started_at,omitempty"`
	LastCheck   time.Time     `json:"last_check,omitempty"`
	NextCheck   time.Time     `json:"next_check,omitempty"`
	IssuesFound int64         `json:"issues_found"`
	IssuesFixed int64         `json:"issues_fixed"`
}

// Monitor owns the per-tenant reconciliation loops. All three public
// operations are safe for concurrent use.
type Monitor struct {
	ledger          Ledger
	orders          orders.Reader
	batchSize       int
	defaultInterval time.Duration
	location        *time.Location
	clock           Clock
	logger          *slog.Logger

	mu      sync.Mutex
	runners map[int64]*runner
}

// NewMonitor creates the reconciliation monitor manager
func NewMonitor(logger *slog.Logger, ledgerWriter Ledger, ordersReader orders.Reader, reconcilerCfg *config.ReconcilerConfig, ledgerCfg *config.LedgerConfig) *Monitor {
	return &Monitor{
		ledger:          ledgerWriter,
		orders:          ordersReader,
		batchSize:       reconcilerCfg.OrderBatchSize,
		defaultInterval: reconcilerCfg.DefaultInterval,
		location:        ledgerCfg.Location(),
		clock:           systemClock{},
		logger:          logger,
	}
}

// Start launches the loop for the tenant. Calling Start while the tenant's
// loop is already running is a no-op returning the current status unchanged,
// StartedAt included. A non-positive interval takes the configured default.
func (m *Monitor) Start(clientID int64, interval time.Duration) Status {
	if interval <= 0 {
		interval = m.defaultInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runners == nil {
		m.runners = make(map[int64]*runner)
	}

	if r, ok := m.runners[clientID]; ok && r.snapshot().IsRunning {
		return r.snapshot()
	}

	now := m.clock.Now().UTC()
	r := &runner{
		clientID: clientID,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		status: Status{
			ClientID:  clientID,
			IsRunning: true,
			Interval:  interval,
			StartedAt: now,
			NextCheck: now.Add(interval),
		},
	}

	m.runners[clientID] = r
	go m.loop(r)

	m.logger.Info("Reconciliation started",
		"client_id", clientID,
		"interval", interval,
	)
	return r.snapshot()
}

// Stop signals the tenant's loop to exit. The in-flight cycle, if any, runs
// to completion with its repair writes intact; only the next scheduled cycle
// is suppressed. Stopping a tenant that is not running is a no-op.
func (m *Monitor) Stop(clientID int64) Status {
	m.mu.Lock()
	r, ok := m.runners[clientID]
	m.mu.Unlock()

	if !ok {
		return Status{ClientID: clientID}
	}

	r.mu.Lock()
	wasRunning := r.status.IsRunning
	r.status.IsRunning = false
	r.mu.Unlock()

	if wasRunning {
		close(r.stop)
		m.logger.Info("Reconciliation stopped", "client_id", clientID)
	}
	return r.snapshot()
}

// Status returns a copy of the tenant's current reconciliation state
func (m *Monitor) Status(clientID int64) Status {
	m.mu.Lock()
	r, ok := m.runners[clientID]
	m.mu.Unlock()

	if !ok {
		return Status{ClientID: clientID}
	}
	return r.snapshot()
}

// StopAll cancels every running loop and waits for them to exit. Called on
// shutdown.
func (m *Monitor) StopAll() {
	m.mu.Lock()
	runners := make([]*runner, 0, len(m.runners))
	for _, r := range m.runners {
		runners = append(runners, r)
	}
	m.mu.Unlock()

	for _, r := range runners {
		m.Stop(r.clientID)
	}
	for _, r := range runners {
		<-r.done
	}
}
