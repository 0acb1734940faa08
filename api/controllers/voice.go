package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vyapaari/collect-backend/api/responses"
	"github.com/vyapaari/collect-backend/api/validators"
	"github.com/vyapaari/collect-backend/internal/voice"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
)

type voiceStartRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
}

// VoiceSessionStart opens a listening session for spoken payment commands.
// The body is optional; clients that retry a start send their own session id
// so the duplicate is detected.
func VoiceSessionStart(svc voice.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voice service unavailable"))
			return
		}

		id := uuid.Nil
		if r.Body != nil && r.ContentLength != 0 {
			var payload voiceStartRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if payload.SessionID != "" {
				parsed, err := uuid.Parse(payload.SessionID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id"))
					return
				}
				id = parsed
			}
		}

		session, err := svc.Start(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

type voiceResultRequest struct {
	Transcript string `json:"transcript" validate:"required,min=1,max=1024"`
	VendorID   string `json:"vendor_id" validate:"omitempty,uuid"`
}

// VoiceSessionResult submits the final transcript, runs the payment flows it
// asks for, and returns the interpreted command with the created requests.
// The session is single shot and closes on delivery.
func VoiceSessionResult(svc voice.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voice service unavailable"))
			return
		}

		id, err := voiceSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload voiceResultRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := voice.ResultInput{Transcript: payload.Transcript}
		if payload.VendorID != "" {
			vendorID, err := uuid.Parse(payload.VendorID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
				return
			}
			input.VendorID = vendorID
		}

		result, err := svc.Result(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// VoiceSessionStop returns the session to idle without interpreting anything.
func VoiceSessionStop(svc voice.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voice service unavailable"))
			return
		}

		id, err := voiceSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Stop(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

func voiceSessionID(r *http.Request) (uuid.UUID, error) {
	idParam := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	id, err := uuid.Parse(idParam)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id")
	}
	return id, nil
}
