// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/monitoring"
	"github.com/apexpro/onboarding-service/internal/storage"
	"github.com/apexpro/onboarding-service/internal/tracing"
	"github.com/apexpro/onboarding-service/internal/types"
)

type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// HandlePaymentEvent mirrors a provider-side payment state change onto the
// local subscription and its tenant. Unknown events and events for unknown
// subscriptions are acknowledged without effect so the provider stops
// redelivering them.
func (s *Service) HandlePaymentEvent(ctx context.Context, event *PaymentEvent) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandlePaymentEvent")
	defer span.End()

	var subscriptionStatus, tenantStatus string
	switch event.Event {
	case EventPaymentConfirmed, EventPaymentReceived:
		subscriptionStatus = types.SubscriptionStatusActive
		tenantStatus = types.TenantStatusActive
	case EventPaymentOverdue:
		subscriptionStatus = types.SubscriptionStatusOverdue
		tenantStatus = types.TenantStatusSuspended
	default:
		s.logger.Debugf("ignoring webhook event %q", event.Event)
		return nil
	}

	subscription, err := s.storage.GetSubscriptionByProviderID(ctx, event.Payment.ProviderID())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Likely a charge from a saga that was rolled back after the
			// provider-side object was created.
			s.logger.Warnf("webhook for unknown subscription %s", event.Payment.ProviderID())
			return nil
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	if err := s.storage.SetSubscriptionState(ctx, subscription.ID, subscription.TenantID, subscriptionStatus, tenantStatus); err != nil {
		return fmt.Errorf("failed to update subscription state: %w", err)
	}

	s.logger.Infof("subscription %s moved to %s on %s", subscription.ID, subscriptionStatus, event.Event)
	return nil
}
