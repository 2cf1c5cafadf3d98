// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/storage"
)

type API struct {
	service ServiceInterface

	logger logging.LoggerInterface
}

func NewAPI(service ServiceInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/onboarding/complete", a.completeOnboarding)
	mux.Get("/api/v0/onboarding/status/{id}", a.tenantStatus)
}

type successResponse struct {
	Success bool `json:"success"`
	*CompleteOnboardingResult
}

type errorResponse struct {
	Error     string `json:"error"`
	Technical string `json:"technical"`
}

func (a *API) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	var req CompleteOnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Errorf("failed to decode onboarding request: %v", err)
		writeError(w, &Error{Message: msgValidation, Technical: err.Error()})
		return
	}

	result, err := a.service.CompleteOnboarding(r.Context(), &req)
	if err != nil {
		var onboardingErr *Error
		if !errors.As(err, &onboardingErr) {
			onboardingErr = newError(msgInternal, err)
		}
		writeError(w, onboardingErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(successResponse{
		Success:                  true,
		CompleteOnboardingResult: result,
	})
}

func (a *API) tenantStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := a.service.TenantStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(errorResponse{Error: "Tenant not found"})
			return
		}

		var onboardingErr *Error
		if !errors.As(err, &onboardingErr) {
			onboardingErr = newError(msgInternal, err)
		}
		writeError(w, onboardingErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

// Every failure is terminal for the request and maps to the same generic
// client-error status, the message tells the caller what happened.
func writeError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     err.Message,
		Technical: err.Technical,
	})
}
