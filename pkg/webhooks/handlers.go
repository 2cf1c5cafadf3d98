// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/apexpro/onboarding-service/internal/logging"
)

// AccessTokenHeader carries the shared secret Asaas sends with every
// webhook delivery.
const AccessTokenHeader = "asaas-access-token"

type API struct {
	service ServiceInterface
	token   string

	logger logging.LoggerInterface
}

func NewAPI(service ServiceInterface, token string, logger logging.LoggerInterface) *API {
	if token == "" {
		logger.Warn("webhook access token not configured, incoming events will not be authenticated")
	}

	return &API{
		service: service,
		token:   token,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/webhooks/asaas", a.paymentEvent)
}

func (a *API) paymentEvent(w http.ResponseWriter, r *http.Request) {
	if a.token != "" {
		got := r.Header.Get(AccessTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.token)) != 1 {
			a.logger.Security().AuthnFailure(r.RemoteAddr, "webhook token mismatch")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var event PaymentEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		a.logger.Errorf("failed to decode webhook payload: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.service.HandlePaymentEvent(r.Context(), &event); err != nil {
		a.logger.Errorf("failed to handle payment event: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
