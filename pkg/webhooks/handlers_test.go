// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chi "github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"
)

func TestAPI_PaymentEvent(t *testing.T) {
	const token = "whsec-123"

	eventBody := `{"event": "PAYMENT_CONFIRMED", "payment": {"id": "pay_1", "subscription": "sub_1"}}`

	testCases := []struct {
		name           string
		token          string
		headerValue    string
		body           string
		setupMocks     func(*MockServiceInterface, *MockLoggerInterface)
		expectedStatus int
	}{
		{
			name:        "success",
			token:       token,
			headerValue: token,
			body:        eventBody,
			setupMocks: func(mockSvc *MockServiceInterface, _ *MockLoggerInterface) {
				mockSvc.EXPECT().HandlePaymentEvent(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, event *PaymentEvent) error {
						if event.Event != EventPaymentConfirmed {
							t.Errorf("expected event %q, got %q", EventPaymentConfirmed, event.Event)
						}
						if event.Payment.Subscription != "sub_1" {
							t.Errorf("expected subscription %q, got %q", "sub_1", event.Payment.Subscription)
						}
						return nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "wrong token",
			token:       token,
			headerValue: "wrong",
			body:        eventBody,
			setupMocks: func(_ *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockSecurity := NewMockSecurityLoggerInterface(gomock.NewController(t))
				mockSecurity.EXPECT().AuthnFailure(gomock.Any(), "webhook token mismatch")
				mockLogger.EXPECT().Security().Return(mockSecurity)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "missing token header",
			token:       token,
			headerValue: "",
			body:        eventBody,
			setupMocks: func(_ *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockSecurity := NewMockSecurityLoggerInterface(gomock.NewController(t))
				mockSecurity.EXPECT().AuthnFailure(gomock.Any(), "webhook token mismatch")
				mockLogger.EXPECT().Security().Return(mockSecurity)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "no configured token warns and skips the check",
			token:       "",
			headerValue: "",
			body:        eventBody,
			setupMocks: func(mockSvc *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Warn(gomock.Any())
				mockSvc.EXPECT().HandlePaymentEvent(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "malformed payload",
			token:       token,
			headerValue: token,
			body:        `{"event": `,
			setupMocks: func(_ *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "service error",
			token:       token,
			headerValue: token,
			body:        eventBody,
			setupMocks: func(mockSvc *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockSvc.EXPECT().HandlePaymentEvent(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockServiceInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			tc.setupMocks(mockSvc, mockLogger)

			mux := chi.NewMux()
			NewAPI(mockSvc, tc.token, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", strings.NewReader(tc.body))
			if tc.headerValue != "" {
				req.Header.Set(AccessTokenHeader, tc.headerValue)
			}
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
		})
	}
}
