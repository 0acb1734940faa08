package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyapaari/collect-backend/internal/settlement"
	"github.com/vyapaari/collect-backend/pkg/config"
	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/enums"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
	"github.com/vyapaari/collect-backend/pkg/metrics"
	"github.com/vyapaari/collect-backend/pkg/upi"
)

// maxAmount caps a single collection request.
var maxAmount = decimal.New(1, 6) // 1,000,000

type vendorFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type ledgerAppender interface {
	Append(ctx context.Context, txn *models.Transaction) error
}

type settlementScheduler interface {
	Schedule(txnID uuid.UUID) error
}

// Service creates payment requests on either collection channel.
type Service interface {
	Create(ctx context.Context, input CreatePaymentInput) (*PaymentResult, error)
}

// CreatePaymentInput is a request to collect money from a customer.
type CreatePaymentInput struct {
	VendorID    uuid.UUID     `json:"vendor_id" validate:"required"`
	Amount      string        `json:"amount" validate:"required"`
	Channel     enums.Channel `json:"channel" validate:"required"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=255"`
}

// PaymentResult is the created ledger entry plus, for QR requests, the URI to
// encode into the QR code.
type PaymentResult struct {
	Transaction *models.Transaction `json:"transaction"`
	QRUri       string              `json:"qr_uri,omitempty"`
}

type service struct {
	vendors   vendorFinder
	ledger    ledgerAppender
	scheduler settlementScheduler
	metrics   *metrics.PaymentMetrics
	cfg       config.PaymentsConfig
	logg      *logger.Logger
}

// ServiceParams carries the payment service dependencies.
type ServiceParams struct {
	Vendors   vendorFinder
	Ledger    ledgerAppender
	Scheduler settlementScheduler
	Metrics   *metrics.PaymentMetrics
	Config    config.PaymentsConfig
	Logger    *logger.Logger
}

// NewService wires a payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor finder required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger appender required")
	}
	if params.Scheduler == nil {
		return nil, fmt.Errorf("settlement scheduler required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		vendors:   params.Vendors,
		ledger:    params.Ledger,
		scheduler: params.Scheduler,
		metrics:   params.Metrics,
		cfg:       params.Config,
		logg:      params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreatePaymentInput) (*PaymentResult, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !input.Channel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid channel %q", input.Channel))
	}

	vendor, err := s.vendors.GetByID(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithVendorID(ctx, vendor.ID.String())

	switch input.Channel {
	case enums.ChannelQR:
		return s.createQR(ctx, vendor, amount, input.Description)
	case enums.ChannelCash:
		return s.createCash(ctx, vendor, amount, input.Description)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid channel %q", input.Channel))
	}
}

// createQR appends a pending row, renders the collect URI, and arms the
// simulated settlement timer.
func (s *service) createQR(ctx context.Context, vendor *models.Vendor, amount decimal.Decimal, description *string) (*PaymentResult, error) {
	merchantCode := ""
	if vendor.MerchantCode != nil {
		merchantCode = *vendor.MerchantCode
	}
	uri, err := upi.BuildPayURI(upi.PayParams{
		PayeeAddress: vendor.PayoutAddress,
		PayeeName:    vendor.DisplayName,
		Amount:       amount,
		Currency:     string(s.currency()),
		Note:         derefOrEmpty(description),
		MerchantCode: merchantCode,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building payment URI")
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		VendorID:    vendor.ID,
		VendorName:  vendor.DisplayName,
		Amount:      amount,
		Currency:    s.currency(),
		Channel:     enums.ChannelQR,
		Status:      enums.TransactionStatusPending,
		Description: defaultDescription(description, "QR Payment"),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, txn); err != nil {
		return nil, err
	}
	if err := s.scheduler.Schedule(txn.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "arming settlement timer")
	}

	s.metrics.IncPayment("qr", "pending")
	ctx = s.logg.WithTransactionID(ctx, txn.ID.String())
	s.logg.Info(ctx, "qr payment request created")
	return &PaymentResult{Transaction: txn, QRUri: uri}, nil
}

// createCash records money already in hand, so the row is born settled with
// the walk-in sentinel payer.
func (s *service) createCash(ctx context.Context, vendor *models.Vendor, amount decimal.Decimal, description *string) (*PaymentResult, error) {
	now := time.Now().UTC()
	payer := settlement.WalkInPayer()
	txn := &models.Transaction{
		ID:          uuid.New(),
		VendorID:    vendor.ID,
		VendorName:  vendor.DisplayName,
		Amount:      amount,
		Currency:    s.currency(),
		Channel:     enums.ChannelCash,
		Status:      enums.TransactionStatusCompleted,
		Description: defaultDescription(description, "Cash Payment"),
		Payer:       &payer,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	if err := s.ledger.Append(ctx, txn); err != nil {
		return nil, err
	}

	s.metrics.IncPayment("cash", "completed")
	ctx = s.logg.WithTransactionID(ctx, txn.ID.String())
	s.logg.Info(ctx, "cash payment recorded")
	return &PaymentResult{Transaction: txn}, nil
}

func (s *service) currency() enums.Currency {
	if s.cfg.Currency != "" {
		return enums.Currency(s.cfg.Currency)
	}
	return enums.CurrencyINR
}

func parseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount is required")
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid amount %q", raw))
	}
	if !amount.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount supports at most two decimal places")
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount exceeds the collection limit")
	}
	return amount, nil
}

func defaultDescription(description *string, fallback string) *string {
	if description != nil && strings.TrimSpace(*description) != "" {
		trimmed := strings.TrimSpace(*description)
		return &trimmed
	}
	return &fallback
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
