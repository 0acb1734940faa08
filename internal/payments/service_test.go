package payments

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyapaari/collect-backend/pkg/config"
	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/enums"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
)

type fakeVendors struct {
	vendor *models.Vendor
}

func (f *fakeVendors) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if f.vendor != nil && f.vendor.ID == id {
		return f.vendor, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
}

type fakeLedger struct {
	appended []*models.Transaction
	err      error
}

func (f *fakeLedger) Append(ctx context.Context, txn *models.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, txn)
	return nil
}

type fakeScheduler struct {
	scheduled []uuid.UUID
}

func (f *fakeScheduler) Schedule(txnID uuid.UUID) error {
	f.scheduled = append(f.scheduled, txnID)
	return nil
}

func testVendor() *models.Vendor {
	mc := "FRESH001"
	return &models.Vendor{
		ID:            uuid.New(),
		DisplayName:   "Fresh Foods Co.",
		PayoutAddress: "freshfoods@paytm",
		MerchantCode:  &mc,
	}
}

func newTestService(t *testing.T, vendors *fakeVendors, ledger *fakeLedger, scheduler *fakeScheduler) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Vendors:   vendors,
		Ledger:    ledger,
		Scheduler: scheduler,
		Config:    config.PaymentsConfig{Currency: "INR"},
		Logger:    logger.New(logger.Options{ServiceName: "payments-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_CreateQR(t *testing.T) {
	vendor := testVendor()
	ledger := &fakeLedger{}
	scheduler := &fakeScheduler{}
	svc := newTestService(t, &fakeVendors{vendor: vendor}, ledger, scheduler)

	result, err := svc.Create(context.Background(), CreatePaymentInput{
		VendorID: vendor.ID,
		Amount:   "150.50",
		Channel:  enums.ChannelQR,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	txn := result.Transaction
	if txn.Status != enums.TransactionStatusPending {
		t.Fatalf("qr request must start pending, got %s", txn.Status)
	}
	if txn.Payer != nil {
		t.Fatal("pending qr request must not carry a payer yet")
	}
	if txn.CompletedAt != nil {
		t.Fatal("pending qr request must not be completed")
	}
	if !txn.Amount.Equal(decimal.RequireFromString("150.50")) {
		t.Fatalf("unexpected amount %s", txn.Amount)
	}
	if txn.Description == nil || *txn.Description != "QR Payment" {
		t.Fatalf("unexpected description %v", txn.Description)
	}

	if !strings.HasPrefix(result.QRUri, "upi://pay?pa=freshfoods%40paytm") {
		t.Fatalf("unexpected qr uri %q", result.QRUri)
	}
	if !strings.Contains(result.QRUri, "&am=150.50") || !strings.Contains(result.QRUri, "&cu=INR") {
		t.Fatalf("qr uri missing amount/currency: %q", result.QRUri)
	}
	if !strings.Contains(result.QRUri, "&mc=FRESH001") {
		t.Fatalf("qr uri missing merchant code: %q", result.QRUri)
	}

	if len(scheduler.scheduled) != 1 || scheduler.scheduled[0] != txn.ID {
		t.Fatalf("settlement timer not armed for %s: %v", txn.ID, scheduler.scheduled)
	}
	if len(ledger.appended) != 1 {
		t.Fatalf("expected one ledger append, got %d", len(ledger.appended))
	}
}

func TestService_CreateCash(t *testing.T) {
	vendor := testVendor()
	ledger := &fakeLedger{}
	scheduler := &fakeScheduler{}
	svc := newTestService(t, &fakeVendors{vendor: vendor}, ledger, scheduler)

	result, err := svc.Create(context.Background(), CreatePaymentInput{
		VendorID: vendor.ID,
		Amount:   "75",
		Channel:  enums.ChannelCash,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	txn := result.Transaction
	if txn.Status != enums.TransactionStatusCompleted {
		t.Fatalf("cash must settle immediately, got %s", txn.Status)
	}
	if txn.CompletedAt == nil {
		t.Fatal("cash transaction must carry completion time")
	}
	if txn.Payer == nil || txn.Payer.Name != "Walk-in Customer" {
		t.Fatalf("expected walk-in sentinel payer, got %+v", txn.Payer)
	}
	if txn.Description == nil || *txn.Description != "Cash Payment" {
		t.Fatalf("unexpected description %v", txn.Description)
	}
	if result.QRUri != "" {
		t.Fatalf("cash result must not carry a qr uri, got %q", result.QRUri)
	}
	if len(scheduler.scheduled) != 0 {
		t.Fatalf("cash must not arm a settlement timer: %v", scheduler.scheduled)
	}
}

func TestService_CreateValidation(t *testing.T) {
	vendor := testVendor()
	svc := newTestService(t, &fakeVendors{vendor: vendor}, &fakeLedger{}, &fakeScheduler{})

	tests := []struct {
		name  string
		input CreatePaymentInput
	}{
		{name: "empty amount", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "  ", Channel: enums.ChannelQR}},
		{name: "garbage amount", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "ten rupees", Channel: enums.ChannelQR}},
		{name: "zero amount", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "0", Channel: enums.ChannelQR}},
		{name: "negative amount", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "-5", Channel: enums.ChannelQR}},
		{name: "too many decimals", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "10.505", Channel: enums.ChannelQR}},
		{name: "over limit", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "1000001", Channel: enums.ChannelQR}},
		{name: "bad channel", input: CreatePaymentInput{VendorID: vendor.ID, Amount: "10", Channel: enums.Channel("card")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestService_CreateUnknownVendor(t *testing.T) {
	svc := newTestService(t, &fakeVendors{}, &fakeLedger{}, &fakeScheduler{})

	_, err := svc.Create(context.Background(), CreatePaymentInput{
		VendorID: uuid.New(),
		Amount:   "10",
		Channel:  enums.ChannelQR,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestService_CreateCustomDescription(t *testing.T) {
	vendor := testVendor()
	ledger := &fakeLedger{}
	svc := newTestService(t, &fakeVendors{vendor: vendor}, ledger, &fakeScheduler{})

	note := "  morning batch  "
	result, err := svc.Create(context.Background(), CreatePaymentInput{
		VendorID:    vendor.ID,
		Amount:      "20",
		Channel:     enums.ChannelCash,
		Description: &note,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if result.Transaction.Description == nil || *result.Transaction.Description != "morning batch" {
		t.Fatalf("description not trimmed: %v", result.Transaction.Description)
	}
}
