package services

import (
	"encoding/json"
	"fmt"

	"trendora/models"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Webhook event types the platform reacts to. Everything else is acknowledged
// and ignored.
const (
	EventPaymentSucceeded    = "payment_intent.succeeded"
	EventPaymentFailed       = "payment_intent.payment_failed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaySucceeded = "invoice.payment_succeeded"
	EventInvoicePayFailed    = "invoice.payment_failed"
)

// WebhookEvent is a provider event after signature verification, with the raw
// object payload left for the type-specific parsers below.
type WebhookEvent struct {
	Type string
	Raw  json.RawMessage
}

// PaymentIntentEvent is the slice of a payment_intent.* payload checkout needs.
type PaymentIntentEvent struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// SubscriptionEvent mirrors the provider's subscription fields the local
// record tracks.
type SubscriptionEvent struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
	CanceledAt       int64  `json:"canceled_at"`
}

// InvoiceEvent carries the subscription reference off an invoice.* payload.
type InvoiceEvent struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
}

func (e *WebhookEvent) PaymentIntent() (*PaymentIntentEvent, error) {
	var pi PaymentIntentEvent
	if err := json.Unmarshal(e.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: malformed payment intent payload: %v", ErrUpstream, err)
	}
	return &pi, nil
}

func (e *WebhookEvent) Subscription() (*SubscriptionEvent, error) {
	var sub SubscriptionEvent
	if err := json.Unmarshal(e.Raw, &sub); err != nil {
		return nil, fmt.Errorf("%w: malformed subscription payload: %v", ErrUpstream, err)
	}
	return &sub, nil
}

func (e *WebhookEvent) Invoice() (*InvoiceEvent, error) {
	var inv InvoiceEvent
	if err := json.Unmarshal(e.Raw, &inv); err != nil {
		return nil, fmt.Errorf("%w: malformed invoice payload: %v", ErrUpstream, err)
	}
	return &inv, nil
}

// SubscriptionHandle is the provider-side result of creating a subscription.
type SubscriptionHandle struct {
	ID           string
	Status       string
	StartDate    int64
	PeriodEnd    int64
	ClientSecret string
}

// PaymentProvider is the payment collaborator. The core treats it as opaque:
// intents go out, signed webhook events come back.
type PaymentProvider interface {
	CreatePaymentIntent(amountCents int64, currency string, metadata map[string]string) (*models.PaymentIntentResponse, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
	EnsureCustomer(email, name string) (string, error)
	CreateSubscription(customerID, paymentMethodID, priceID string) (*SubscriptionHandle, error)
	CancelSubscriptionAtPeriodEnd(subscriptionID string) error
}

// StripeProvider implements PaymentProvider against Stripe.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, webhookSecret: webhookSecret}
}

func (p *StripeProvider) CreatePaymentIntent(amountCents int64, currency string, metadata map[string]string) (*models.PaymentIntentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String("Trendora order payment"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &models.PaymentIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &WebhookEvent{Type: string(event.Type), Raw: event.Data.Raw}, nil
}

func (p *StripeProvider) EnsureCustomer(email, name string) (string, error) {
	customer, err := p.api.Customers.New(&stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return customer.ID, nil
}

func (p *StripeProvider) CreateSubscription(customerID, paymentMethodID, priceID string) (*SubscriptionHandle, error) {
	if _, err := p.api.PaymentMethods.Attach(paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if _, err := p.api.Customers.Update(customerID, &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := p.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	handle := &SubscriptionHandle{
		ID:        sub.ID,
		Status:    string(sub.Status),
		StartDate: sub.StartDate,
		PeriodEnd: sub.CurrentPeriodEnd,
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		handle.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return handle, nil
}

func (p *StripeProvider) CancelSubscriptionAtPeriodEnd(subscriptionID string) error {
	_, err := p.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}
