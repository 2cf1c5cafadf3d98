// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"errors"
	"fmt"

	"github.com/apexpro/onboarding-service/internal/asaas"
)

// Messages surfaced to the caller. The caller displays them as-is, so they
// never carry internals beyond what the payment provider itself reports.
const (
	msgValidation       = "Missing or invalid required fields"
	msgNameTaken        = "Business name already in use"
	msgLoginTaken       = "Login already in use"
	msgIdentityFailure  = "Failed to create coach account"
	msgNoActivePlan     = "No active plan is configured"
	msgProviderOffline  = "Could not reach the payment provider"
	msgInternal         = "Something went wrong while creating your account"
	prefixCustomerError = "Payment-provider customer"
)

// Error is what every failed onboarding returns: one human-readable message
// plus a technical detail string for logs.
type Error struct {
	Message   string
	Technical string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(message string, cause error) *Error {
	technical := ""
	if cause != nil {
		technical = cause.Error()
	}
	return &Error{Message: message, Technical: technical}
}

// providerError shapes a payment-provider failure: business rejections keep
// the provider's own description under the step prefix, transport failures
// collapse into a generic connectivity message.
func providerError(prefix string, err error) *Error {
	var apiErr *asaas.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Message:   fmt.Sprintf("%s: %s", prefix, apiErr.Description),
			Technical: err.Error(),
		}
	}
	return newError(msgProviderOffline, err)
}
