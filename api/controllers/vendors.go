package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vyapaari/collect-backend/api/responses"
	"github.com/vyapaari/collect-backend/api/validators"
	"github.com/vyapaari/collect-backend/internal/vendors"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
)

// VendorList returns every registered vendor ordered by display name.
func VendorList(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// VendorGet returns a single vendor by ID.
func VendorGet(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		idParam := strings.TrimSpace(chi.URLParam(r, "vendorId"))
		id, err := uuid.Parse(idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		vendor, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vendor)
	}
}

type vendorCreateRequest struct {
	DisplayName   string  `json:"display_name" validate:"required,min=1,max=120"`
	PayoutAddress string  `json:"payout_address" validate:"required,contains=@,max=255"`
	MerchantCode  *string `json:"merchant_code,omitempty" validate:"omitempty,max=64"`
}

// VendorCreate registers a new vendor with its payout address.
func VendorCreate(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var payload vendorCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Create(r.Context(), vendors.CreateVendorInput{
			DisplayName:   validators.SanitizeString(payload.DisplayName, 120),
			PayoutAddress: payload.PayoutAddress,
			MerchantCode:  payload.MerchantCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}
