package vendors

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vyapaari/collect-backend/pkg/db/models"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, vendor *models.Vendor) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	listFn     func(ctx context.Context) ([]models.Vendor, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if f.createFn != nil {
		return f.createFn(ctx, vendor)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByPayoutAddress(ctx context.Context, address string) (*models.Vendor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Vendor, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func TestService_CreateNormalizesInput(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.Vendor
	repo.createFn = func(ctx context.Context, vendor *models.Vendor) error {
		created = vendor
		return nil
	}

	code := "  TECH002 "
	got, err := svc.Create(context.Background(), CreateVendorInput{
		DisplayName:   "  Tech Solutions Ltd.  ",
		PayoutAddress: "TechSolutions@GPay",
		MerchantCode:  &code,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created == nil {
		t.Fatal("expected vendor to be created")
	}
	if created.DisplayName != "Tech Solutions Ltd." {
		t.Fatalf("display name not trimmed: %q", created.DisplayName)
	}
	if created.PayoutAddress != "techsolutions@gpay" {
		t.Fatalf("payout address not lowercased: %q", created.PayoutAddress)
	}
	if created.MerchantCode == nil || *created.MerchantCode != "TECH002" {
		t.Fatalf("merchant code not trimmed: %v", created.MerchantCode)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated vendor id")
	}
	if got != created {
		t.Fatal("service should return created vendor")
	}
}

func TestService_CreateValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	tests := []struct {
		name  string
		input CreateVendorInput
	}{
		{name: "missing name", input: CreateVendorInput{PayoutAddress: "a@b"}},
		{name: "missing address", input: CreateVendorInput{DisplayName: "Shop"}},
		{name: "address without handle", input: CreateVendorInput{DisplayName: "Shop", PayoutAddress: "@upi"}},
		{name: "address without provider", input: CreateVendorInput{DisplayName: "Shop", PayoutAddress: "shop@"}},
		{name: "address with two ats", input: CreateVendorInput{DisplayName: "Shop", PayoutAddress: "a@b@c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestService_CreateDuplicateAddress(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	repo.createFn = func(ctx context.Context, vendor *models.Vendor) error {
		return errors.New(`duplicate key value violates unique constraint "uq_vendors_payout_address"`)
	}

	_, err := svc.Create(context.Background(), CreateVendorInput{
		DisplayName:   "Shop",
		PayoutAddress: "shop@upi",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestService_GetByID(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	known := uuid.New()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
		if id == known {
			return &models.Vendor{ID: known, DisplayName: "Shop", PayoutAddress: "shop@upi"}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}

	vendor, err := svc.GetByID(context.Background(), known)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if vendor.ID != known {
		t.Fatalf("unexpected vendor: %+v", vendor)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.Nil)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code for nil id, got %v", err)
	}
}
