// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/apexpro/onboarding-service/internal/storage"
	"github.com/apexpro/onboarding-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_webhooks.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestService_HandlePaymentEvent(t *testing.T) {
	subscription := &types.Subscription{ID: "local-sub-1", TenantID: "tenant-1", ProviderID: "sub_1"}
	dbErr := errors.New("db error")

	testCases := []struct {
		name        string
		event       *PaymentEvent
		setupMocks  func(*MockStorageInterface)
		expectedErr error
	}{
		{
			name:  "confirmed payment activates subscription and tenant",
			event: &PaymentEvent{Event: EventPaymentConfirmed, Payment: EventPayment{ID: "pay_1", Subscription: "sub_1"}},
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetSubscriptionByProviderID(gomock.Any(), "sub_1").Return(subscription, nil)
				mockStorage.EXPECT().SetSubscriptionState(gomock.Any(), "local-sub-1", "tenant-1", types.SubscriptionStatusActive, types.TenantStatusActive).Return(nil)
			},
		},
		{
			name:  "received pix payment keys on the payment id",
			event: &PaymentEvent{Event: EventPaymentReceived, Payment: EventPayment{ID: "pay_1"}},
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetSubscriptionByProviderID(gomock.Any(), "pay_1").Return(subscription, nil)
				mockStorage.EXPECT().SetSubscriptionState(gomock.Any(), "local-sub-1", "tenant-1", types.SubscriptionStatusActive, types.TenantStatusActive).Return(nil)
			},
		},
		{
			name:  "overdue payment suspends the tenant",
			event: &PaymentEvent{Event: EventPaymentOverdue, Payment: EventPayment{ID: "pay_1", Subscription: "sub_1"}},
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetSubscriptionByProviderID(gomock.Any(), "sub_1").Return(subscription, nil)
				mockStorage.EXPECT().SetSubscriptionState(gomock.Any(), "local-sub-1", "tenant-1", types.SubscriptionStatusOverdue, types.TenantStatusSuspended).Return(nil)
			},
		},
		{
			name:       "unknown event is acknowledged without effect",
			event:      &PaymentEvent{Event: "PAYMENT_CREATED", Payment: EventPayment{ID: "pay_1"}},
			setupMocks: func(mockStorage *MockStorageInterface) {},
		},
		{
			name:  "unknown subscription is acknowledged without effect",
			event: &PaymentEvent{Event: EventPaymentConfirmed, Payment: EventPayment{ID: "pay_1", Subscription: "sub_gone"}},
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetSubscriptionByProviderID(gomock.Any(), "sub_gone").Return(nil, storage.ErrNotFound)
			},
		},
		{
			name:  "storage error propagates",
			event: &PaymentEvent{Event: EventPaymentConfirmed, Payment: EventPayment{ID: "pay_1", Subscription: "sub_1"}},
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetSubscriptionByProviderID(gomock.Any(), "sub_1").Return(nil, dbErr)
			},
			expectedErr: dbErr,
		},
		{
			name:  "state update error propagates",
			event: &PaymentEvent{Event: EventPaymentConfirmed, Payment: EventPayment{ID: "pay_1", Subscription: "sub_1"}},
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetSubscriptionByProviderID(gomock.Any(), "sub_1").Return(subscription, nil)
				mockStorage.EXPECT().SetSubscriptionState(gomock.Any(), "local-sub-1", "tenant-1", types.SubscriptionStatusActive, types.TenantStatusActive).Return(dbErr)
			},
			expectedErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)

			mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
			mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
			mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

			s := NewService(mockStorage, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "webhooks.Service.HandlePaymentEvent").Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage)

			err := s.HandlePaymentEvent(context.Background(), tc.event)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Errorf("expected error %v, got %v", tc.expectedErr, err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEventPayment_ProviderID(t *testing.T) {
	withSubscription := &EventPayment{ID: "pay_1", Subscription: "sub_1"}
	if got := withSubscription.ProviderID(); got != "sub_1" {
		t.Errorf("expected subscription id, got %q", got)
	}

	oneOff := &EventPayment{ID: "pay_1"}
	if got := oneOff.ProviderID(); got != "pay_1" {
		t.Errorf("expected payment id, got %q", got)
	}
}
