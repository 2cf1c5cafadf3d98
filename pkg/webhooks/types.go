// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

// Asaas webhook event names handled by this service.
const (
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentOverdue   = "PAYMENT_OVERDUE"
)

type PaymentEvent struct {
	Event   string       `json:"event"`
	Payment EventPayment `json:"payment"`
}

type EventPayment struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription,omitempty"`
	Status       string `json:"status"`
}

// ProviderID returns the identifier the local subscription mirror was keyed
// on: the subscription for recurring charges, the payment itself for one-off
// PIX charges.
func (p *EventPayment) ProviderID() string {
	if p.Subscription != "" {
		return p.Subscription
	}
	return p.ID
}
