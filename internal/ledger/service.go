package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/enums"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
	"github.com/vyapaari/collect-backend/pkg/pagination"
	"github.com/vyapaari/collect-backend/pkg/types"
)

// Service exposes the append-only transaction ledger.
type Service interface {
	Append(ctx context.Context, txn *models.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, params pagination.Params) (*Page, error)
	Summary(ctx context.Context) (*Summary, error)
	Complete(ctx context.Context, id uuid.UUID, payer *types.Payer) (*models.Transaction, bool, error)
	ExpireStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	Subscribe() (uuid.UUID, <-chan Snapshot)
	Unsubscribe(id uuid.UUID)
}

// Page is one most-recent-first slice of the ledger.
type Page struct {
	Items      []models.Transaction `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// Summary aggregates the whole ledger. Totals only count settled money;
// pending and expired rows contribute to counts alone.
type Summary struct {
	TotalCollected   decimal.Decimal `json:"total_collected"`
	QRCollected      decimal.Decimal `json:"qr_collected"`
	CashCollected    decimal.Decimal `json:"cash_collected"`
	QRCount          int             `json:"qr_count"`
	CashCount        int             `json:"cash_count"`
	PayerCount       int             `json:"payer_count"`
	CompletedCount   int             `json:"completed_count"`
	PendingCount     int             `json:"pending_count"`
	ExpiredCount     int             `json:"expired_count"`
	TransactionCount int             `json:"transaction_count"`
}

type service struct {
	repo        Repository
	broadcaster *Broadcaster
	logg        *logger.Logger
}

// NewService wires a ledger service with the provided repository and broadcaster.
func NewService(repo Repository, broadcaster *Broadcaster, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if broadcaster == nil {
		return nil, fmt.Errorf("ledger broadcaster required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, broadcaster: broadcaster, logg: logg}, nil
}

func (s *service) Append(ctx context.Context, txn *models.Transaction) error {
	if txn == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction is required")
	}
	if txn.VendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if !txn.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !txn.Channel.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid channel %q", txn.Channel))
	}
	if !txn.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", txn.Status))
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending transaction")
	}
	s.publishSnapshot(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading transaction")
	}
	return txn, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions")
	}

	page := &Page{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// Summary recomputes every total from scratch on each call. The ledger is
// the single source of truth; no running counters exist to drift from it.
func (s *service) Summary(ctx context.Context) (*Summary, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scanning ledger")
	}
	summary := summarize(rows)
	return &summary, nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID, payer *types.Payer) (*models.Transaction, bool, error) {
	if id == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	won, err := s.repo.CompleteIfPending(ctx, id, payer, time.Now().UTC())
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "completing transaction")
	}
	if !won {
		txn, getErr := s.Get(ctx, id)
		if getErr != nil {
			return nil, false, getErr
		}
		return txn, false, nil
	}

	txn, err := s.Get(ctx, id)
	if err != nil {
		return nil, true, err
	}
	s.publishSnapshot(ctx)
	return txn, true, nil
}

func (s *service) ExpireStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	expired, err := s.repo.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expiring stale transactions")
	}
	if len(expired) > 0 {
		s.publishSnapshot(ctx)
	}
	return expired, nil
}

func (s *service) Subscribe() (uuid.UUID, <-chan Snapshot) {
	return s.broadcaster.Subscribe()
}

func (s *service) Unsubscribe(id uuid.UUID) {
	s.broadcaster.Unsubscribe(id)
}

func (s *service) publishSnapshot(ctx context.Context) {
	if s.broadcaster.SubscriberCount() == 0 {
		return
	}
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logg.Error(ctx, "building ledger snapshot", err)
		return
	}
	recent := rows
	if len(recent) > snapshotRecentLimit {
		recent = recent[:snapshotRecentLimit]
	}
	s.broadcaster.Publish(Snapshot{
		Recent:  recent,
		Summary: summarize(rows),
	})
}

func summarize(rows []models.Transaction) Summary {
	summary := Summary{
		TotalCollected:   decimal.Zero,
		QRCollected:      decimal.Zero,
		CashCollected:    decimal.Zero,
		TransactionCount: len(rows),
	}
	for _, row := range rows {
		if row.Payer != nil {
			summary.PayerCount++
		}
		switch row.Status {
		case enums.TransactionStatusPending:
			summary.PendingCount++
		case enums.TransactionStatusExpired:
			summary.ExpiredCount++
		case enums.TransactionStatusCompleted:
			summary.CompletedCount++
			summary.TotalCollected = summary.TotalCollected.Add(row.Amount)
			switch row.Channel {
			case enums.ChannelQR:
				summary.QRCount++
				summary.QRCollected = summary.QRCollected.Add(row.Amount)
			case enums.ChannelCash:
				summary.CashCount++
				summary.CashCollected = summary.CashCollected.Add(row.Amount)
			}
		}
	}
	return summary
}
