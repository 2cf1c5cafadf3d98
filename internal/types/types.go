// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Tenant subscription statuses. A tenant starts as pending and only moves
// forward once billing has confirmed the first payment or trial.
const (
	TenantStatusPending   = "pending"
	TenantStatusTrialing  = "trialing"
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusCancelled = "cancelled"
)

// Subscription mirror statuses, kept aligned with the tenant statuses above.
const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusOverdue  = "overdue"
)

// Billing cycles accepted by the onboarding API.
const (
	CycleMonthly = "MENSAL"
	CycleYearly  = "ANUAL"
)

// RoleCoach is the only role provisioned through onboarding.
const RoleCoach = "coach"

type Tenant struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Slug        string     `db:"slug"`
	PlanTier    string     `db:"plan_tier"`
	Status      string     `db:"status"`
	TrialEndsAt *time.Time `db:"trial_ends_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

type Profile struct {
	ID         string    `db:"id"`
	TenantID   string    `db:"tenant_id"`
	IdentityID string    `db:"kratos_identity_id"`
	FullName   string    `db:"full_name"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
}

// BillingCustomer maps a tenant to the customer object held by the payment
// provider. At most one row per tenant.
type BillingCustomer struct {
	ID                 string    `db:"id"`
	TenantID           string    `db:"tenant_id"`
	ProviderCustomerID string    `db:"provider_customer_id"`
	CreatedAt          time.Time `db:"created_at"`
}

type Plan struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Tier         string    `db:"tier"`
	PriceMonthly float64   `db:"price_monthly"`
	PriceYearly  float64   `db:"price_yearly"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

// Price returns the plan price for the given billing cycle.
func (p *Plan) Price(cycle string) float64 {
	if cycle == CycleYearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}

// Subscription is the local mirror of the provider-side subscription or
// one-off charge. Its presence signals a fully provisioned tenant.
type Subscription struct {
	ID               string    `db:"id"`
	TenantID         string    `db:"tenant_id"`
	ProviderID       string    `db:"provider_id"`
	Status           string    `db:"status"`
	Cycle            string    `db:"cycle"`
	CurrentPeriodEnd time.Time `db:"current_period_end"`
	CreatedAt        time.Time `db:"created_at"`
}
