// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/apexpro/onboarding-service/internal/asaas"
	"github.com/apexpro/onboarding-service/internal/kratos"
	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/monitoring"
	"github.com/apexpro/onboarding-service/internal/storage"
	"github.com/apexpro/onboarding-service/internal/tracing"
	"github.com/apexpro/onboarding-service/internal/types"
)

const (
	trialDays = 30
	// first credit-card charge falls one day after the trial ends
	creditCardDueDays = trialDays + 1
	pixDueDays        = 1
)

type Service struct {
	storage  StorageInterface
	identity IdentityClientInterface
	payments PaymentClientInterface

	accessDomain    string
	defaultPlanTier string

	validate *validator.Validate
	now      func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	identity IdentityClientInterface,
	payments PaymentClientInterface,
	accessDomain string,
	defaultPlanTier string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:         storage,
		identity:        identity,
		payments:        payments,
		accessDomain:    accessDomain,
		defaultPlanTier: defaultPlanTier,
		validate:        validator.New(),
		now:             time.Now,
		tracer:          tracer,
		monitor:         monitor,
		logger:          logger,
	}
}

// sagaState is threaded through the forward steps; each step fills in what it
// created so later steps and compensations never rely on shared variables.
type sagaState struct {
	login Login
	slug  string

	tenant     *types.Tenant
	identityID string
	customer   *asaas.Customer
	plan       *types.Plan

	providerID string
	trialing   bool
	periodEnd  time.Time
	pix        *asaas.PixQRCode
}

// CompleteOnboarding provisions a tenant, its coach identity and its billing
// subscription as one logical operation. On any failure the compensations
// accumulated so far run in reverse order, so the caller observes either a
// fully provisioned tenant or nothing at all.
func (s *Service) CompleteOnboarding(ctx context.Context, req *CompleteOnboardingRequest) (*CompleteOnboardingResult, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.Service.CompleteOnboarding")
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		return nil, newError(msgValidation, err)
	}

	state := &sagaState{
		login: ParseLogin(req.Account.Email),
		slug:  Slugify(req.Account.Email),
	}

	// Pre-check keeps the friendly message; a concurrent signup racing past
	// it is still stopped by the unique index on tenants.slug.
	if _, err := s.storage.GetTenantBySlug(ctx, state.slug); err == nil {
		return nil, newError(msgNameTaken, nil)
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Errorf("slug lookup failed: %v", err)
		return nil, newError(msgInternal, err)
	}

	// Credential emails are unique in Kratos; catching a duplicate before
	// the tenant row exists avoids a provision-then-rollback round trip.
	existingID, err := s.identity.GetIdentityIDByEmail(ctx, state.login.CredentialEmail(s.accessDomain))
	if err != nil {
		s.logger.Errorf("identity lookup failed: %v", err)
		return nil, newError(msgInternal, err)
	}
	if existingID != "" {
		return nil, newError(msgLoginTaken, nil)
	}

	comp := newCompensator(s.logger)

	result, err := s.provision(ctx, req, state, comp)
	if err != nil {
		comp.run(ctx)
		return nil, err
	}

	return result, nil
}

// TenantStatus reports the current provisioning state of a tenant. A PIX
// signup stays pending until the payment webhook arrives, so the checkout UI
// polls this until the status moves.
func (s *Service) TenantStatus(ctx context.Context, id string) (*TenantStatusResult, error) {
	ctx, span := s.tracer.Start(ctx, "onboarding.Service.TenantStatus")
	defer span.End()

	tenant, err := s.storage.GetTenantByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		s.logger.Errorf("tenant lookup failed: %v", err)
		return nil, newError(msgInternal, err)
	}

	return &TenantStatusResult{
		TenantID:    tenant.ID,
		Status:      tenant.Status,
		TrialEndsAt: tenant.TrialEndsAt,
	}, nil
}

func (s *Service) provision(ctx context.Context, req *CompleteOnboardingRequest, state *sagaState, comp *compensator) (*CompleteOnboardingResult, error) {
	if err := s.createTenant(ctx, req, state, comp); err != nil {
		return nil, err
	}

	if err := s.createCoach(ctx, req, state, comp); err != nil {
		return nil, err
	}

	if err := s.createBillingCustomer(ctx, req, state); err != nil {
		return nil, err
	}

	plan, err := s.storage.GetActivePlan(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(msgNoActivePlan, err)
		}
		s.logger.Errorf("plan lookup failed: %v", err)
		return nil, newError(msgInternal, err)
	}
	state.plan = plan

	if err := s.createCharge(ctx, req, state); err != nil {
		return nil, err
	}

	if err := s.persistSubscription(ctx, req, state); err != nil {
		return nil, err
	}

	return &CompleteOnboardingResult{
		TenantID:       state.tenant.ID,
		UserID:         state.identityID,
		Identification: state.login.CredentialEmail(s.accessDomain),
		PixData:        state.pix,
	}, nil
}

func (s *Service) createTenant(ctx context.Context, req *CompleteOnboardingRequest, state *sagaState, comp *compensator) error {
	tenant, err := s.storage.CreateTenant(ctx, &types.Tenant{
		Name:     req.Account.BusinessName,
		Slug:     state.slug,
		PlanTier: s.defaultPlanTier,
		Status:   types.TenantStatusPending,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// lost the race against a concurrent signup with the same slug
			return newError(msgNameTaken, err)
		}
		s.logger.Errorf("tenant creation failed: %v", err)
		return newError(msgInternal, err)
	}
	state.tenant = tenant

	comp.push("delete tenant", func(ctx context.Context) error {
		return s.storage.DeleteTenant(ctx, tenant.ID)
	})

	return nil
}

func (s *Service) createCoach(ctx context.Context, req *CompleteOnboardingRequest, state *sagaState, comp *compensator) error {
	identityID, err := s.identity.CreateIdentity(ctx, &kratos.Identity{
		Email:    state.login.CredentialEmail(s.accessDomain),
		Password: req.Account.Password,
		FullName: req.Account.FullName,
		TenantID: state.tenant.ID,
		Role:     types.RoleCoach,
	})
	if err != nil {
		s.logger.Errorf("identity creation failed: %v", err)
		return newError(msgIdentityFailure, err)
	}
	state.identityID = identityID

	comp.push("delete identity", func(ctx context.Context) error {
		return s.identity.DeleteIdentity(ctx, identityID)
	})

	if _, err := s.storage.CreateProfile(ctx, &types.Profile{
		TenantID:   state.tenant.ID,
		IdentityID: identityID,
		FullName:   req.Account.FullName,
		Role:       types.RoleCoach,
	}); err != nil {
		s.logger.Errorf("profile creation failed: %v", err)
		return newError(msgIdentityFailure, err)
	}

	comp.push("delete profiles", func(ctx context.Context) error {
		return s.storage.DeleteProfilesByTenantID(ctx, state.tenant.ID)
	})

	return nil
}

func (s *Service) createBillingCustomer(ctx context.Context, req *CompleteOnboardingRequest, state *sagaState) error {
	customer, err := s.payments.CreateCustomer(ctx, &asaas.CustomerRequest{
		Name:    req.Account.FullName,
		Email:   state.login.CredentialEmail(s.accessDomain),
		CpfCnpj: asaas.NormalizeTaxID(req.Payment.CpfCnpj),
	})
	if err != nil {
		return providerError(prefixCustomerError, err)
	}
	state.customer = customer

	// No compensation pushed for this row: billing_customers cascades on
	// tenant delete, and the provider exposes no customer delete we rely on.
	if _, err := s.storage.CreateBillingCustomer(ctx, &types.BillingCustomer{
		TenantID:           state.tenant.ID,
		ProviderCustomerID: customer.ID,
	}); err != nil {
		s.logger.Errorf("billing customer persistence failed: %v", err)
		return newError(msgInternal, err)
	}

	return nil
}

func (s *Service) createCharge(ctx context.Context, req *CompleteOnboardingRequest, state *sagaState) error {
	value := state.plan.Price(req.Plan.Cycle)
	now := s.now()

	switch req.Payment.PaymentMethod {
	case asaas.BillingTypeCreditCard:
		due := now.AddDate(0, 0, creditCardDueDays)
		subscription, err := s.payments.CreateSubscription(ctx, &asaas.SubscriptionRequest{
			Customer:    state.customer.ID,
			BillingType: asaas.BillingTypeCreditCard,
			Value:       value,
			NextDueDate: due.Format("2006-01-02"),
			Cycle:       providerCycle(req.Plan.Cycle),
			Description: state.plan.Name,
			CreditCard: &asaas.CreditCard{
				HolderName:  req.Payment.CreditCard.HolderName,
				Number:      req.Payment.CreditCard.Number,
				ExpiryMonth: req.Payment.CreditCard.ExpiryMonth,
				ExpiryYear:  req.Payment.CreditCard.ExpiryYear,
				CCV:         req.Payment.CreditCard.CCV,
			},
			CreditCardHolderInfo: holderInfo(req.Payment.HolderInfo),
		})
		if err != nil {
			return providerError("Payment-provider subscription", err)
		}

		state.providerID = subscription.ID
		state.trialing = true
		state.periodEnd = due

	case asaas.BillingTypePix:
		due := now.AddDate(0, 0, pixDueDays)
		payment, err := s.payments.CreatePayment(ctx, &asaas.PaymentRequest{
			Customer:    state.customer.ID,
			BillingType: asaas.BillingTypePix,
			Value:       value,
			DueDate:     due.Format("2006-01-02"),
			Description: state.plan.Name,
		})
		if err != nil {
			return providerError("Payment-provider payment", err)
		}

		state.providerID = payment.ID
		state.periodEnd = due

		// A PIX charge the customer cannot see a QR code for is as good as
		// no charge at all, so a failed fetch rolls the whole saga back.
		qr, err := s.payments.GetPixQRCode(ctx, payment.ID)
		if err != nil {
			return providerError("Payment-provider QR code", err)
		}
		state.pix = qr
	}

	return nil
}

func (s *Service) persistSubscription(ctx context.Context, req *CompleteOnboardingRequest, state *sagaState) error {
	status := types.SubscriptionStatusPending
	if state.trialing {
		status = types.SubscriptionStatusTrialing
	}

	if _, err := s.storage.CreateSubscription(ctx, &types.Subscription{
		TenantID:         state.tenant.ID,
		ProviderID:       state.providerID,
		Status:           status,
		Cycle:            req.Plan.Cycle,
		CurrentPeriodEnd: state.periodEnd,
	}); err != nil {
		s.logger.Errorf("subscription persistence failed: %v", err)
		return newError(msgInternal, err)
	}

	if state.trialing {
		trialEnd := s.now().AddDate(0, 0, trialDays)
		if err := s.storage.SetTenantTrial(ctx, state.tenant.ID, trialEnd); err != nil {
			s.logger.Errorf("tenant trial update failed: %v", err)
			return newError(msgInternal, err)
		}
	}

	return nil
}

func providerCycle(cycle string) string {
	if cycle == types.CycleYearly {
		return asaas.CycleYearly
	}
	return asaas.CycleMonthly
}

func holderInfo(block *HolderInfoBlock) *asaas.CreditCardHolderInfo {
	if block == nil {
		return nil
	}
	return &asaas.CreditCardHolderInfo{
		Name:          block.Name,
		Email:         block.Email,
		CpfCnpj:       asaas.NormalizeTaxID(block.CpfCnpj),
		PostalCode:    block.PostalCode,
		AddressNumber: block.AddressNumber,
		Phone:         block.Phone,
	}
}
