package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyapaari/collect-backend/pkg/enums"
	"github.com/vyapaari/collect-backend/pkg/types"
)

// Transaction is an append-only ledger record for a collected (or pending)
// payment. Amount and vendor identity are immutable after creation; the only
// mutation ever applied is the single pending->completed or pending->expired
// status transition.
type Transaction struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID    uuid.UUID               `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	VendorName  string                  `gorm:"column:vendor_name;not null" json:"vendor_name"`
	Amount      decimal.Decimal         `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	Currency    enums.Currency          `gorm:"column:currency;not null;default:'INR'" json:"currency"`
	Channel     enums.Channel           `gorm:"column:channel;not null" json:"channel"`
	Status      enums.TransactionStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	Description *string                 `gorm:"column:description" json:"description,omitempty"`
	Payer       *types.Payer            `gorm:"column:payer;type:jsonb" json:"payer,omitempty"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime;index:idx_transactions_created_at,sort:desc" json:"created_at"`
	CompletedAt *time.Time              `gorm:"column:completed_at" json:"completed_at,omitempty"`
}
