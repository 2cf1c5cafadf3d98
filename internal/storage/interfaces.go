// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"time"

	"github.com/apexpro/onboarding-service/internal/types"
)

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	SetTenantTrial(ctx context.Context, id string, trialEndsAt time.Time) error
	DeleteTenant(ctx context.Context, id string) error

	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	DeleteProfilesByTenantID(ctx context.Context, tenantID string) error

	CreateBillingCustomer(ctx context.Context, c *types.BillingCustomer) (*types.BillingCustomer, error)

	GetActivePlan(ctx context.Context) (*types.Plan, error)

	CreateSubscription(ctx context.Context, s *types.Subscription) (*types.Subscription, error)
	GetSubscriptionByProviderID(ctx context.Context, providerID string) (*types.Subscription, error)
	SetSubscriptionState(ctx context.Context, subscriptionID, tenantID, subscriptionStatus, tenantStatus string) error
}
