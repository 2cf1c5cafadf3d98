// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package asaas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/tracing"
)

type stubMonitor struct{}

func (stubMonitor) GetService() string                                         { return "test" }
func (stubMonitor) SetResponseTimeMetric(map[string]string, float64) error     { return nil }
func (stubMonitor) SetDependencyAvailability(map[string]string, float64) error { return nil }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "test-api-key", tracing.NewTracer(tracing.NewNoopConfig()), stubMonitor{}, logging.NewNoopLogger())
}

func TestClient_CreateCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/customers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("access_token"); got != "test-api-key" {
			t.Errorf("expected api key header, got %q", got)
		}

		var req CustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.CpfCnpj != "12345678909" {
			t.Errorf("expected tax id %q, got %q", "12345678909", req.CpfCnpj)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Customer{ID: "cus_1"})
	})

	customer, err := client.CreateCustomer(context.Background(), &CustomerRequest{
		Name:    "Felipe Silva",
		Email:   "felipesilva@acesso.apexpro.fit",
		CpfCnpj: "12345678909",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != "cus_1" {
		t.Errorf("expected customer id %q, got %q", "cus_1", customer.ID)
	}
}

func TestClient_CreateCustomer_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors": [{"code": "invalid_cpfCnpj", "description": "O CPF/CNPJ informado é inválido."}]}`))
	})

	_, err := client.CreateCustomer(context.Background(), &CustomerRequest{Name: "x", CpfCnpj: "0"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Description != "O CPF/CNPJ informado é inválido." {
		t.Errorf("unexpected description %q", apiErr.Description)
	}
}

func TestClient_CreateCustomer_MultipleErrorDescriptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors": [{"description": "first"}, {"description": "second"}]}`))
	})

	_, err := client.CreateCustomer(context.Background(), &CustomerRequest{Name: "x"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Description != "first; second" {
		t.Errorf("expected joined descriptions, got %q", apiErr.Description)
	}
}

func TestClient_CreateCustomer_UnparsableErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	})

	_, err := client.CreateCustomer(context.Background(), &CustomerRequest{Name: "x"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Description != "unexpected provider response" {
		t.Errorf("unexpected description %q", apiErr.Description)
	}
}

func TestClient_TransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-api-key", tracing.NewTracer(tracing.NewNoopConfig()), stubMonitor{}, logging.NewNoopLogger())

	_, err := client.CreateCustomer(context.Background(), &CustomerRequest{Name: "x"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure must not be an APIError, got %v", apiErr)
	}
}

func TestClient_CreateSubscription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Cycle != CycleMonthly {
			t.Errorf("expected cycle %q, got %q", CycleMonthly, req.Cycle)
		}
		if req.CreditCard == nil {
			t.Error("expected card details in request")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Subscription{ID: "sub_1", Status: "ACTIVE"})
	})

	subscription, err := client.CreateSubscription(context.Background(), &SubscriptionRequest{
		Customer:    "cus_1",
		BillingType: BillingTypeCreditCard,
		Value:       99.9,
		NextDueDate: "2026-04-01",
		Cycle:       CycleMonthly,
		CreditCard:  &CreditCard{Number: "5162306219378829"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subscription.ID != "sub_1" {
		t.Errorf("expected subscription id %q, got %q", "sub_1", subscription.ID)
	}
}

func TestClient_GetPixQRCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/payments/pay_1/pixQrCode" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PixQRCode{
			EncodedImage:   "aW1hZ2U=",
			Payload:        "00020126pix",
			ExpirationDate: "2026-03-02 23:59:59",
		})
	})

	qr, err := client.GetPixQRCode(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qr.Payload != "00020126pix" || qr.EncodedImage != "aW1hZ2U=" {
		t.Errorf("unexpected qr code %+v", qr)
	}
}

func TestNormalizeTaxID(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"123.456.789-09", "12345678909"},
		{"12.345.678/0001-95", "12345678000195"},
		{"12345678909", "12345678909"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := NormalizeTaxID(tc.in); got != tc.expected {
			t.Errorf("NormalizeTaxID(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}
