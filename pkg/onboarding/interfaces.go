// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"
	"time"

	"github.com/apexpro/onboarding-service/internal/asaas"
	"github.com/apexpro/onboarding-service/internal/kratos"
	"github.com/apexpro/onboarding-service/internal/types"
)

type ServiceInterface interface {
	CompleteOnboarding(ctx context.Context, req *CompleteOnboardingRequest) (*CompleteOnboardingResult, error)
	TenantStatus(ctx context.Context, id string) (*TenantStatusResult, error)
}

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
}

type IdentityClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, identity *kratos.Identity) (string, error)
	DeleteIdentity(ctx context.Context, id string) error
}

type PaymentClientInterface interface {
	CreateCustomer(ctx context.Context, req *asaas.CustomerRequest) (*asaas.Customer, error)
	CreateSubscription(ctx context.Context, req *asaas.SubscriptionRequest) (*asaas.Subscription, error)
	CreatePayment(ctx context.Context, req *asaas.PaymentRequest) (*asaas.Payment, error)
	GetPixQRCode(ctx context.Context, paymentID string) (*asaas.PixQRCode, error)
}
