// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"time"

	"github.com/apexpro/onboarding-service/internal/asaas"
)

type AccountBlock struct {
	FullName     string `json:"fullName" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required"`
	BusinessName string `json:"businessName" validate:"required"`
}

type CreditCardBlock struct {
	HolderName  string `json:"holderName" validate:"required"`
	Number      string `json:"number" validate:"required"`
	ExpiryMonth string `json:"expiryMonth" validate:"required"`
	ExpiryYear  string `json:"expiryYear" validate:"required"`
	CCV         string `json:"ccv" validate:"required"`
}

type HolderInfoBlock struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone"`
}

type PaymentBlock struct {
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=CREDIT_CARD PIX"`
	CpfCnpj       string           `json:"cpfCnpj" validate:"required"`
	CreditCard    *CreditCardBlock `json:"creditCard,omitempty" validate:"required_if=PaymentMethod CREDIT_CARD"`
	HolderInfo    *HolderInfoBlock `json:"holderInfo,omitempty"`
}

type PlanBlock struct {
	Cycle string `json:"cycle" validate:"required,oneof=MENSAL ANUAL"`
}

type CompleteOnboardingRequest struct {
	Account AccountBlock `json:"account" validate:"required"`
	Payment PaymentBlock `json:"payment" validate:"required"`
	Plan    PlanBlock    `json:"plan" validate:"required"`
}

type CompleteOnboardingResult struct {
	TenantID       string           `json:"tenantId"`
	UserID         string           `json:"userId"`
	Identification string           `json:"identification"`
	PixData        *asaas.PixQRCode `json:"pixData,omitempty"`
}

// TenantStatusResult is what the checkout UI polls after a PIX signup to
// learn when the payment webhook has activated the tenant.
type TenantStatusResult struct {
	TenantID    string     `json:"tenantId"`
	Status      string     `json:"status"`
	TrialEndsAt *time.Time `json:"trialEndsAt,omitempty"`
}
