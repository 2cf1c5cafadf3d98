// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chi "github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/apexpro/onboarding-service/internal/asaas"
	"github.com/apexpro/onboarding-service/internal/storage"
	"github.com/apexpro/onboarding-service/internal/types"
)

func TestAPI_CompleteOnboarding(t *testing.T) {
	requestBody := `{
		"account": {"fullName": "Felipe Silva", "email": "felipesilva", "password": "s3cret", "businessName": "Felipe Silva Assessoria"},
		"payment": {"paymentMethod": "PIX", "cpfCnpj": "12345678909"},
		"plan": {"cycle": "MENSAL"}
	}`

	successResult := &CompleteOnboardingResult{
		TenantID:       "tenant-1",
		UserID:         "identity-1",
		Identification: "felipesilva@acesso.apexpro.fit",
		PixData:        &asaas.PixQRCode{EncodedImage: "aW1hZ2U=", Payload: "00020126pix"},
	}

	testCases := []struct {
		name           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		checkResponse  func(*testing.T, []byte)
	}{
		{
			name: "success",
			body: requestBody,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().CompleteOnboarding(gomock.Any(), gomock.Any()).Return(successResult, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp struct {
					Success        bool   `json:"success"`
					TenantID       string `json:"tenantId"`
					UserID         string `json:"userId"`
					Identification string `json:"identification"`
					PixData        *struct {
						Payload string `json:"payload"`
					} `json:"pixData"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if !resp.Success {
					t.Error("expected success true")
				}
				if resp.TenantID != successResult.TenantID {
					t.Errorf("expected tenant id %q, got %q", successResult.TenantID, resp.TenantID)
				}
				if resp.Identification != successResult.Identification {
					t.Errorf("expected identification %q, got %q", successResult.Identification, resp.Identification)
				}
				if resp.PixData == nil || resp.PixData.Payload != "00020126pix" {
					t.Errorf("expected pix payload in response, got %+v", resp.PixData)
				}
			},
		},
		{
			name: "onboarding error",
			body: requestBody,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().CompleteOnboarding(gomock.Any(), gomock.Any()).
					Return(nil, &Error{Message: msgNameTaken, Technical: "duplicate key"})
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body []byte) {
				var resp errorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Error != msgNameTaken {
					t.Errorf("expected error %q, got %q", msgNameTaken, resp.Error)
				}
				if resp.Technical != "duplicate key" {
					t.Errorf("expected technical %q, got %q", "duplicate key", resp.Technical)
				}
			},
		},
		{
			name: "unshaped service error",
			body: requestBody,
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().CompleteOnboarding(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body []byte) {
				var resp errorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Error != msgInternal {
					t.Errorf("expected error %q, got %q", msgInternal, resp.Error)
				}
			},
		},
		{
			name:           "malformed json",
			body:           `{"account": `,
			setupMocks:     func(mockSvc *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body []byte) {
				var resp errorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Error != msgValidation {
					t.Errorf("expected error %q, got %q", msgValidation, resp.Error)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockServiceInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()

			tc.setupMocks(mockSvc)

			mux := chi.NewMux()
			NewAPI(mockSvc, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/onboarding/complete", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
			tc.checkResponse(t, rec.Body.Bytes())
		})
	}
}

func TestAPI_TenantStatus(t *testing.T) {
	testCases := []struct {
		name           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		checkResponse  func(*testing.T, []byte)
	}{
		{
			name: "returns the tenant state",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().TenantStatus(gomock.Any(), "tenant-1").
					Return(&TenantStatusResult{TenantID: "tenant-1", Status: types.TenantStatusActive}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp struct {
					TenantID string `json:"tenantId"`
					Status   string `json:"status"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.TenantID != "tenant-1" || resp.Status != types.TenantStatusActive {
					t.Errorf("unexpected response: %+v", resp)
				}
			},
		},
		{
			name: "unknown tenant",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().TenantStatus(gomock.Any(), "tenant-1").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, body []byte) {
				var resp errorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Error != "Tenant not found" {
					t.Errorf("expected error %q, got %q", "Tenant not found", resp.Error)
				}
			},
		},
		{
			name: "service failure",
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().TenantStatus(gomock.Any(), "tenant-1").
					Return(nil, &Error{Message: msgInternal, Technical: "db gone"})
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body []byte) {
				var resp errorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Error != msgInternal {
					t.Errorf("expected error %q, got %q", msgInternal, resp.Error)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockServiceInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()

			tc.setupMocks(mockSvc)

			mux := chi.NewMux()
			NewAPI(mockSvc, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodGet, "/api/v0/onboarding/status/tenant-1", nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
			tc.checkResponse(t, rec.Body.Bytes())
		})
	}
}
