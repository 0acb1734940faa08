package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/logger"
	"github.com/vyapaari/collect-backend/pkg/metrics"
	"github.com/vyapaari/collect-backend/pkg/types"
)

// completer is the slice of the ledger the scheduler needs to settle a
// pending transaction.
type completer interface {
	Complete(ctx context.Context, id uuid.UUID, payer *types.Payer) (*models.Transaction, bool, error)
}

// Scheduler owns one timer per pending QR transaction and fabricates the
// settlement when it fires. A transaction settles at most once: the timer is
// removed from the map before the ledger is touched, and the ledger's own
// status guard covers the race with pending expiry.
type Scheduler struct {
	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	closed bool

	delay   time.Duration
	ledger  completer
	payers  PayerFactory
	metrics *metrics.PaymentMetrics
	logg    *logger.Logger
}

// SchedulerParams carries the scheduler dependencies.
type SchedulerParams struct {
	Delay   time.Duration
	Ledger  completer
	Payers  PayerFactory
	Metrics *metrics.PaymentMetrics
	Logger  *logger.Logger
}

// NewScheduler wires a settlement scheduler.
func NewScheduler(params SchedulerParams) (*Scheduler, error) {
	if params.Delay <= 0 {
		return nil, fmt.Errorf("settlement delay must be positive")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger completer required")
	}
	if params.Payers == nil {
		return nil, fmt.Errorf("payer factory required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Scheduler{
		timers:  make(map[uuid.UUID]*time.Timer),
		delay:   params.Delay,
		ledger:  params.Ledger,
		payers:  params.Payers,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Schedule arms the settlement timer for a freshly created QR transaction.
func (s *Scheduler) Schedule(txnID uuid.UUID) error {
	if txnID == uuid.Nil {
		return fmt.Errorf("transaction id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("scheduler is shut down")
	}
	if _, exists := s.timers[txnID]; exists {
		return fmt.Errorf("transaction %s already scheduled", txnID)
	}

	scheduledAt := time.Now()
	s.timers[txnID] = time.AfterFunc(s.delay, func() {
		s.fire(txnID, scheduledAt)
	})
	return nil
}

// Cancel disarms the timer for a transaction, reporting whether one was armed.
// Safe to call for unknown ids.
func (s *Scheduler) Cancel(txnID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[txnID]
	if !ok {
		return false
	}
	delete(s.timers, txnID)
	return timer.Stop()
}

// PendingCount reports how many timers are currently armed.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Shutdown disarms every timer. Pending transactions are left for the
// expiry job to sweep.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(txnID uuid.UUID, scheduledAt time.Time) {
	s.mu.Lock()
	if _, ok := s.timers[txnID]; !ok {
		// cancelled between firing and acquiring the lock
		s.mu.Unlock()
		return
	}
	delete(s.timers, txnID)
	s.mu.Unlock()

	ctx := s.logg.WithTransactionID(context.Background(), txnID.String())

	payer := s.payers.NewQRPayer()
	txn, won, err := s.ledger.Complete(ctx, txnID, &payer)
	if err != nil {
		s.logg.Error(ctx, "settling simulated payment", err)
		s.metrics.IncPayment("qr", "failed")
		return
	}
	if !won {
		s.logg.Warn(ctx, "settlement timer fired on already settled transaction")
		return
	}

	s.metrics.IncPayment("qr", "completed")
	s.metrics.ObserveSettlementDelay(time.Since(scheduledAt))
	ctx = s.logg.WithFields(ctx, map[string]any{
		"payer_name": payer.Name,
		"amount":     txn.Amount.String(),
	})
	s.logg.Info(ctx, "simulated payment settled")
}
