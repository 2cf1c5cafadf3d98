// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

// Package asaas implements a thin client for the Asaas billing API. Every
// call is a single request with no retry, callers decide what a failure
// means for them.
package asaas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/monitoring"
	"github.com/apexpro/onboarding-service/internal/tracing"
)

// Billing types accepted by the provider.
const (
	BillingTypeCreditCard = "CREDIT_CARD"
	BillingTypePix        = "PIX"
)

// Provider-side billing cycles.
const (
	CycleMonthly = "MONTHLY"
	CycleYearly  = "YEARLY"
)

const dateLayout = "2006-01-02"

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CpfCnpj string `json:"cpfCnpj"`
}

type Customer struct {
	ID string `json:"id"`
}

type CreditCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CCV         string `json:"ccv"`
}

type CreditCardHolderInfo struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone"`
}

type SubscriptionRequest struct {
	Customer             string                `json:"customer"`
	BillingType          string                `json:"billingType"`
	Value                float64               `json:"value"`
	NextDueDate          string                `json:"nextDueDate"`
	Cycle                string                `json:"cycle"`
	Description          string                `json:"description,omitempty"`
	CreditCard           *CreditCard           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *CreditCardHolderInfo `json:"creditCardHolderInfo,omitempty"`
}

type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type PaymentRequest struct {
	Customer    string  `json:"customer"`
	BillingType string  `json:"billingType"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"dueDate"`
	Description string  `json:"description,omitempty"`
}

type Payment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PixQRCode is the renderable payload for a PIX charge.
type PixQRCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type apiErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// APIError is a business rejection from the provider, carrying its own
// human-readable description.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asaas: %s (status %d)", e.Description, e.StatusCode)
}

type ClientInterface interface {
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, error)
	CreateSubscription(ctx context.Context, req *SubscriptionRequest) (*Subscription, error)
	CreatePayment(ctx context.Context, req *PaymentRequest) (*Payment, error)
	GetPixQRCode(ctx context.Context, paymentID string) (*PixQRCode, error)
}

type Client struct {
	httpClient *resty.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(baseURL, apiKey string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("access_token", apiKey)

	return &Client{
		httpClient: httpClient,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

func (c *Client) CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, error) {
	ctx, span := c.tracer.Start(ctx, "asaas.CreateCustomer")
	defer span.End()

	var customer Customer
	if err := c.post(ctx, "/customers", req, &customer); err != nil {
		return nil, err
	}

	return &customer, nil
}

func (c *Client) CreateSubscription(ctx context.Context, req *SubscriptionRequest) (*Subscription, error) {
	ctx, span := c.tracer.Start(ctx, "asaas.CreateSubscription")
	defer span.End()

	var subscription Subscription
	if err := c.post(ctx, "/subscriptions", req, &subscription); err != nil {
		return nil, err
	}

	return &subscription, nil
}

func (c *Client) CreatePayment(ctx context.Context, req *PaymentRequest) (*Payment, error) {
	ctx, span := c.tracer.Start(ctx, "asaas.CreatePayment")
	defer span.End()

	var payment Payment
	if err := c.post(ctx, "/payments", req, &payment); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (c *Client) GetPixQRCode(ctx context.Context, paymentID string) (*PixQRCode, error) {
	ctx, span := c.tracer.Start(ctx, "asaas.GetPixQRCode")
	defer span.End()

	var qr PixQRCode
	var apiErr apiErrorBody

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&qr).
		SetError(&apiErr).
		Get(fmt.Sprintf("/payments/%s/pixQrCode", paymentID))

	if err != nil {
		c.setAvailability(0)
		return nil, fmt.Errorf("failed to reach payment provider: %w", err)
	}
	c.setAvailability(1)

	if resp.IsError() {
		return nil, newAPIError(resp.StatusCode(), &apiErr)
	}

	return &qr, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	var apiErr apiErrorBody

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(path)

	if err != nil {
		c.setAvailability(0)
		return fmt.Errorf("failed to reach payment provider: %w", err)
	}
	c.setAvailability(1)

	if resp.IsError() {
		return newAPIError(resp.StatusCode(), &apiErr)
	}

	return nil
}

func (c *Client) setAvailability(value float64) {
	tags := map[string]string{"dependency": "asaas"}
	if err := c.monitor.SetDependencyAvailability(tags, value); err != nil {
		c.logger.Errorf("failed to set dependency availability: %v", err)
	}
}

func newAPIError(statusCode int, body *apiErrorBody) *APIError {
	descriptions := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		if e.Description != "" {
			descriptions = append(descriptions, e.Description)
		}
	}

	description := strings.Join(descriptions, "; ")
	if description == "" {
		description = "unexpected provider response"
	}

	return &APIError{
		StatusCode:  statusCode,
		Description: description,
	}
}

// NormalizeTaxID strips everything but digits from a CPF/CNPJ before it is
// sent to the provider.
func NormalizeTaxID(taxID string) string {
	var b strings.Builder
	for _, r := range taxID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
