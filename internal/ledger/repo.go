package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/pagination"
	"github.com/vyapaari/collect-backend/pkg/types"
)

// Repository manages persistence for the transaction ledger. Rows are only
// ever inserted or moved through the single pending->terminal transition;
// nothing here updates amounts or deletes history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Transaction, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)
	CompleteIfPending(ctx context.Context, id uuid.UUID, payer *types.Payer, completedAt time.Time) (bool, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// List returns a page in most-recent-first order. The cursor points at the
// last row of the previous page; ties on created_at break by id.
func (r *repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CompleteIfPending settles a transaction exactly once. The guard on status
// makes a second settle attempt a no-op that reports false instead of
// overwriting the first outcome.
func (r *repository) CompleteIfPending(ctx context.Context, id uuid.UUID, payer *types.Payer, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, "pending").
		Updates(map[string]any{
			"status":       "completed",
			"payer":        payer,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExpirePendingBefore marks stale pending rows as expired and returns their
// ids so in-flight settlement timers can be cancelled.
func (r *repository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var expired []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.Transaction
		if err := tx.
			Select("id").
			Where("status = ? AND created_at < ?", "pending", cutoff).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		res := tx.Model(&models.Transaction{}).
			Where("id IN ? AND status = ?", ids, "pending").
			Update("status", "expired")
		if res.Error != nil {
			return res.Error
		}
		expired = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
