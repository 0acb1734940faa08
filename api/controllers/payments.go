package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vyapaari/collect-backend/api/responses"
	"github.com/vyapaari/collect-backend/api/validators"
	"github.com/vyapaari/collect-backend/internal/payments"
	"github.com/vyapaari/collect-backend/pkg/enums"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
)

type paymentCreateRequest struct {
	VendorID    string  `json:"vendor_id" validate:"required,uuid"`
	Amount      string  `json:"amount" validate:"required"`
	Channel     string  `json:"channel" validate:"required,oneof=qr cash"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

func (r paymentCreateRequest) toInput() (payments.CreatePaymentInput, error) {
	vendorID, err := uuid.Parse(strings.TrimSpace(r.VendorID))
	if err != nil {
		return payments.CreatePaymentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id")
	}
	channel, err := enums.ParseChannel(r.Channel)
	if err != nil {
		return payments.CreatePaymentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid channel")
	}
	return payments.CreatePaymentInput{
		VendorID:    vendorID,
		Amount:      r.Amount,
		Channel:     channel,
		Description: r.Description,
	}, nil
}

// PaymentCreate starts a collection: a pending QR payment request or an
// immediately settled cash entry.
func PaymentCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload paymentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
