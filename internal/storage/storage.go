// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/apexpro/onboarding-service/internal/db"
	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/monitoring"
	"github.com/apexpro/onboarding-service/internal/tracing"
	"github.com/apexpro/onboarding-service/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *Storage) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTenant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	var newTenant types.Tenant
	err = s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "name", "slug", "plan_tier", "status").
		Values(id.String(), t.Name, t.Slug, t.PlanTier, t.Status).
		Suffix("RETURNING id, name, slug, plan_tier, status, trial_ends_at, created_at").
		QueryRowContext(ctx).
		Scan(&newTenant.ID, &newTenant.Name, &newTenant.Slug, &newTenant.PlanTier, &newTenant.Status, &newTenant.TrialEndsAt, &newTenant.CreatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return &newTenant, nil
}

func (s *Storage) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByID")
	defer span.End()

	return s.getTenant(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantBySlug")
	defer span.End()

	return s.getTenant(ctx, sq.Eq{"slug": slug})
}

func (s *Storage) getTenant(ctx context.Context, where sq.Eq) (*types.Tenant, error) {
	var t types.Tenant
	err := s.db.Statement(ctx).
		Select("id", "name", "slug", "plan_tier", "status", "trial_ends_at", "created_at").
		From("tenants").
		Where(where).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Name, &t.Slug, &t.PlanTier, &t.Status, &t.TrialEndsAt, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

// SetSubscriptionState updates a subscription mirror and its tenant's status
// in one transaction so a webhook-driven state change never half-applies.
func (s *Storage) SetSubscriptionState(ctx context.Context, subscriptionID, tenantID, subscriptionStatus, tenantStatus string) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetSubscriptionState")
	defer span.End()

	return s.db.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.db.Statement(ctx).
			Update("subscriptions").
			Set("status", subscriptionStatus).
			Where(sq.Eq{"id": subscriptionID}).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to update subscription status: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return ErrNotFound
		}

		res, err = s.db.Statement(ctx).
			Update("tenants").
			Set("status", tenantStatus).
			Where(sq.Eq{"id": tenantID}).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to update tenant status: %w", err)
		}

		rows, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return ErrNotFound
		}

		return nil
	})
}

func (s *Storage) SetTenantTrial(ctx context.Context, id string, trialEndsAt time.Time) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetTenantTrial")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("tenants").
		Set("status", types.TenantStatusTrialing).
		Set("trial_ends_at", trialEndsAt).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to set tenant trial: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) DeleteTenant(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteTenant")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("tenants").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}

func (s *Storage) CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateProfile")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile ID: %w", err)
	}

	var newProfile types.Profile
	err = s.db.Statement(ctx).
		Insert("profiles").
		Columns("id", "tenant_id", "kratos_identity_id", "full_name", "role").
		Values(id.String(), p.TenantID, p.IdentityID, p.FullName, p.Role).
		Suffix("RETURNING id, tenant_id, kratos_identity_id, full_name, role, created_at").
		QueryRowContext(ctx).
		Scan(&newProfile.ID, &newProfile.TenantID, &newProfile.IdentityID, &newProfile.FullName, &newProfile.Role, &newProfile.CreatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	return &newProfile, nil
}

// DeleteProfilesByTenantID removes every profile referencing the tenant. Used
// by compensation, which must clear profiles before the tenant row to satisfy
// foreign keys.
func (s *Storage) DeleteProfilesByTenantID(ctx context.Context, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteProfilesByTenantID")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("profiles").
		Where(sq.Eq{"tenant_id": tenantID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete profiles: %w", err)
	}
	return nil
}

func (s *Storage) CreateBillingCustomer(ctx context.Context, c *types.BillingCustomer) (*types.BillingCustomer, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateBillingCustomer")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate billing customer ID: %w", err)
	}

	var newCustomer types.BillingCustomer
	err = s.db.Statement(ctx).
		Insert("billing_customers").
		Columns("id", "tenant_id", "provider_customer_id").
		Values(id.String(), c.TenantID, c.ProviderCustomerID).
		Suffix("RETURNING id, tenant_id, provider_customer_id, created_at").
		QueryRowContext(ctx).
		Scan(&newCustomer.ID, &newCustomer.TenantID, &newCustomer.ProviderCustomerID, &newCustomer.CreatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert billing customer: %w", err)
	}

	return &newCustomer, nil
}

// GetActivePlan returns the single active plan record. Exactly one plan is
// expected to be active at any time; its absence is a configuration error.
func (s *Storage) GetActivePlan(ctx context.Context) (*types.Plan, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetActivePlan")
	defer span.End()

	var p types.Plan
	err := s.db.Statement(ctx).
		Select("id", "name", "tier", "price_monthly", "price_yearly", "active", "created_at").
		From("plans").
		Where(sq.Eq{"active": true}).
		OrderBy("created_at DESC").
		Limit(1).
		QueryRowContext(ctx).
		Scan(&p.ID, &p.Name, &p.Tier, &p.PriceMonthly, &p.PriceYearly, &p.Active, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active plan: %w", err)
	}

	return &p, nil
}

func (s *Storage) CreateSubscription(ctx context.Context, sub *types.Subscription) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateSubscription")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription ID: %w", err)
	}

	var newSub types.Subscription
	err = s.db.Statement(ctx).
		Insert("subscriptions").
		Columns("id", "tenant_id", "provider_id", "status", "cycle", "current_period_end").
		Values(id.String(), sub.TenantID, sub.ProviderID, sub.Status, sub.Cycle, sub.CurrentPeriodEnd).
		Suffix("RETURNING id, tenant_id, provider_id, status, cycle, current_period_end, created_at").
		QueryRowContext(ctx).
		Scan(&newSub.ID, &newSub.TenantID, &newSub.ProviderID, &newSub.Status, &newSub.Cycle, &newSub.CurrentPeriodEnd, &newSub.CreatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert subscription: %w", err)
	}

	return &newSub, nil
}

func (s *Storage) GetSubscriptionByProviderID(ctx context.Context, providerID string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetSubscriptionByProviderID")
	defer span.End()

	var sub types.Subscription
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "provider_id", "status", "cycle", "current_period_end", "created_at").
		From("subscriptions").
		Where(sq.Eq{"provider_id": providerID}).
		QueryRowContext(ctx).
		Scan(&sub.ID, &sub.TenantID, &sub.ProviderID, &sub.Status, &sub.Cycle, &sub.CurrentPeriodEnd, &sub.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

