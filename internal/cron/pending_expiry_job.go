package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vyapaari/collect-backend/pkg/logger"
)

const defaultPendingTTL = 15 * time.Minute

// staleExpirer is the slice of the ledger the expiry job needs.
type staleExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// timerCanceller disarms settlement timers for transactions the sweep expired.
type timerCanceller interface {
	Cancel(txnID uuid.UUID) bool
}

// PendingExpiryJobParams configure the stale pending sweep.
type PendingExpiryJobParams struct {
	Logger     *logger.Logger
	Ledger     staleExpirer
	Scheduler  timerCanceller
	PendingTTL time.Duration
	Now        func() time.Time
}

type pendingExpiryJob struct {
	logg      *logger.Logger
	ledger    staleExpirer
	scheduler timerCanceller
	ttl       time.Duration
	now       func() time.Time
}

// NewPendingExpiryJob builds the job that expires QR requests whose
// settlement never landed, such as rows orphaned by a process restart.
func NewPendingExpiryJob(params PendingExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger expirer required")
	}
	ttl := params.PendingTTL
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &pendingExpiryJob{
		logg:      params.Logger,
		ledger:    params.Ledger,
		scheduler: params.Scheduler,
		ttl:       ttl,
		now:       now,
	}, nil
}

func (j *pendingExpiryJob) Name() string {
	return "pending-expiry"
}

func (j *pendingExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	expired, err := j.ledger.ExpireStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expiring stale pending transactions: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	cancelled := 0
	if j.scheduler != nil {
		for _, id := range expired {
			if j.scheduler.Cancel(id) {
				cancelled++
			}
		}
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"expired":          len(expired),
		"timers_cancelled": cancelled,
	})
	j.logg.Info(ctx, "stale pending transactions expired")
	return nil
}
