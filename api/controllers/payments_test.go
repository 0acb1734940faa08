package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyapaari/collect-backend/internal/payments"
	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/enums"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
)

type testPaymentsService struct {
	createFn func(ctx context.Context, input payments.CreatePaymentInput) (*payments.PaymentResult, error)
}

func (s *testPaymentsService) Create(ctx context.Context, input payments.CreatePaymentInput) (*payments.PaymentResult, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func TestPaymentCreateQR(t *testing.T) {
	vendorID := uuid.New()
	var captured payments.CreatePaymentInput
	svc := &testPaymentsService{
		createFn: func(ctx context.Context, input payments.CreatePaymentInput) (*payments.PaymentResult, error) {
			captured = input
			return &payments.PaymentResult{
				Transaction: &models.Transaction{
					ID:       uuid.New(),
					VendorID: input.VendorID,
					Amount:   decimal.RequireFromString(input.Amount),
					Channel:  input.Channel,
					Status:   enums.TransactionStatusPending,
				},
				QRUri: "upi://pay?pa=freshfoods%40paytm&pn=Fresh+Foods+Co.&am=150.50&cu=INR",
			}, nil
		},
	}

	body := `{"vendor_id":"` + vendorID.String() + `","amount":"150.50","channel":"qr"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	PaymentCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.VendorID != vendorID || captured.Channel != enums.ChannelQR {
		t.Fatalf("unexpected input %+v", captured)
	}

	var envelope struct {
		Data struct {
			Transaction map[string]any `json:"transaction"`
			QRUri       string         `json:"qr_uri"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(envelope.Data.QRUri, "upi://pay?") {
		t.Fatalf("expected upi uri, got %q", envelope.Data.QRUri)
	}
	if envelope.Data.Transaction["status"] != "pending" {
		t.Fatalf("expected pending status, got %v", envelope.Data.Transaction["status"])
	}
}

func TestPaymentCreateRejectsBadChannel(t *testing.T) {
	body := `{"vendor_id":"` + uuid.NewString() + `","amount":"10.00","channel":"card"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	PaymentCreate(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPaymentCreateRejectsBadVendorID(t *testing.T) {
	body := `{"vendor_id":"nope","amount":"10.00","channel":"qr"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	PaymentCreate(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPaymentCreatePropagatesServiceError(t *testing.T) {
	svc := &testPaymentsService{
		createFn: func(ctx context.Context, input payments.CreatePaymentInput) (*payments.PaymentResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		},
	}
	body := `{"vendor_id":"` + uuid.NewString() + `","amount":"10.00","channel":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	PaymentCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
