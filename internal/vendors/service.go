package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vyapaari/collect-backend/pkg/db"
	"github.com/vyapaari/collect-backend/pkg/db/models"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
)

// Service exposes vendor registry operations.
type Service interface {
	List(ctx context.Context) ([]models.Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	Create(ctx context.Context, input CreateVendorInput) (*models.Vendor, error)
}

type service struct {
	repo Repository
}

// CreateVendorInput captures the fields needed to register a vendor.
type CreateVendorInput struct {
	DisplayName   string  `json:"display_name" validate:"required,min=1,max=120"`
	PayoutAddress string  `json:"payout_address" validate:"required,contains=@,max=255"`
	MerchantCode  *string `json:"merchant_code,omitempty" validate:"omitempty,max=64"`
}

// NewService wires a vendor service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Vendor, error) {
	return s.repo.List(ctx)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading vendor")
	}
	return vendor, nil
}

func (s *service) Create(ctx context.Context, input CreateVendorInput) (*models.Vendor, error) {
	name := strings.TrimSpace(input.DisplayName)
	address := strings.ToLower(strings.TrimSpace(input.PayoutAddress))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}
	if !isPayoutAddress(address) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout address must look like handle@provider")
	}

	vendor := &models.Vendor{
		ID:            uuid.New(),
		DisplayName:   name,
		PayoutAddress: address,
		MerchantCode:  normalizeMerchantCode(input.MerchantCode),
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "payout address already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating vendor")
	}
	return vendor, nil
}

// isPayoutAddress checks the handle@provider shape without validating the
// provider against any real registry.
func isPayoutAddress(address string) bool {
	at := strings.Index(address, "@")
	return at > 0 && at < len(address)-1 && strings.Count(address, "@") == 1
}

func normalizeMerchantCode(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
