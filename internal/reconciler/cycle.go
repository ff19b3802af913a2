package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

// runner is the state of one tenant's loop. The inFlight flag keeps cycles
// from overlapping when repairs outlast the interval. Shutdown travels over
// the stop channel rather than a context so a repair already talking to the
// database is never cancelled mid-write.
type runner struct {
	clientID int64
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}

	mu       sync.Mutex
	status   Status
	inFlight bool
}

func (r *runner) snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// loop ticks until the runner is stopped. Each cycle runs under its own
// context so Stop cannot reach into in-flight database work; stopping only
// keeps the next tick from starting one.
func (m *Monitor) loop(r *runner) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			r.mu.Lock()
			r.status.IsRunning = false
			r.mu.Unlock()
			return
		case <-ticker.C:
			m.runCycle(context.Background(), r)
		}
	}
}

// runCycle performs one reconciliation pass for the runner's tenant: fetch
// the operating day's paid orders, synthesize a venta movement for every
// order the ledger is missing. A failed repair is logged and skipped; it
// never aborts the cycle. Counters are only advanced after the cycle's
// repair attempts resolved, so a storage outage cannot leave them half
// updated.
func (m *Monitor) runCycle(ctx context.Context, r *runner) {
	r.mu.Lock()
	if r.inFlight || !r.status.IsRunning {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()

	now := m.clock.Now()
	from, to := shared.DayWindow(now, m.location)

	finish := func() {
		r.mu.Lock()
		r.status.LastCheck = now.UTC()
		r.status.NextCheck = now.UTC().Add(r.interval)
		r.mu.Unlock()
	}

	paidOrders, err := m.orders.PaidOrders(ctx, r.clientID, from, to, m.batchSize)
	if err != nil {
		m.logger.Error("Failed to fetch paid orders",
			"client_id", r.clientID,
			"error", err,
		)
		finish()
		return
	}

	var found, fixed int64
	for _, order := range paidOrders {
		if ctx.Err() != nil {
			break
		}

		existing, err := m.ledger.BySourceRef(ctx, r.clientID, order.OrderID)
		if err != nil {
			m.logger.Error("Failed to check ledger for order",
				"client_id", r.clientID,
				"order_id", order.OrderID,
				"error", err,
			)
			continue
		}
		if existing != nil {
			continue
		}

		found++
		_, created, err := m.ledger.RecordPaidOrder(ctx, order.ClientID, order.OrderID, order.Amount, order.Currency, order.UserID, order.CustomerID)
		if err != nil {
			m.logger.Warn("Repair failed for order, skipping",
				"client_id", r.clientID,
				"order_id", order.OrderID,
				"error", err,
			)
			continue
		}
		// created=false means another writer won the dedup race between the
		// existence check and the write; the ledger is consistent either way.
		fixed++
		if created {
			m.logger.Info("Missing cash movement synthesized",
				"client_id", r.clientID,
				"order_id", order.OrderID,
				"amount", order.Amount.String(),
			)
		}
	}

	r.mu.Lock()
	r.status.IssuesFound += found
	r.status.IssuesFixed += fixed
	r.mu.Unlock()
	finish()

	if found > 0 {
		m.logger.Info("Reconciliation cycle repaired ledger",
			"client_id", r.clientID,
			"issues_found", found,
			"issues_fixed", fixed,
		)
	}
}
