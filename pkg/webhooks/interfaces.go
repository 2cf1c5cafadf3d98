// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/apexpro/onboarding-service/internal/types"
)

// StorageInterface is the subset of the internal storage the webhook
// service needs.
type StorageInterface interface {
	GetSubscriptionByProviderID(ctx context.Context, providerID string) (*types.Subscription, error)
	SetSubscriptionState(ctx context.Context, subscriptionID, tenantID, subscriptionStatus, tenantStatus string) error
}

// ServiceInterface defines the webhook service operations.
type ServiceInterface interface {
	HandlePaymentEvent(ctx context.Context, event *PaymentEvent) error
}
