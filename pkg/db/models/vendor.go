package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a seller identity with the payout address QR requests collect to.
type Vendor struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DisplayName   string    `gorm:"column:display_name;not null" json:"display_name"`
	PayoutAddress string    `gorm:"column:payout_address;not null;uniqueIndex" json:"payout_address"`
	MerchantCode  *string   `gorm:"column:merchant_code" json:"merchant_code,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
