package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookEventPaymentIntentParsing(t *testing.T) {
	event := &WebhookEvent{
		Type: EventPaymentSucceeded,
		Raw: json.RawMessage(`{
			"id": "pi_123",
			"amount": 17499,
			"currency": "usd",
			"metadata": {"user_id": "7", "checkout_ref": "ref-1"}
		}`),
	}

	pi, err := event.PaymentIntent()
	require.NoError(t, err)
	assert.Equal(t, "pi_123", pi.ID)
	assert.Equal(t, int64(17499), pi.Amount)
	assert.Equal(t, "7", pi.Metadata["user_id"])
}

func TestWebhookEventSubscriptionParsing(t *testing.T) {
	event := &WebhookEvent{
		Type: EventSubscriptionUpdated,
		Raw:  json.RawMessage(`{"id": "sub_1", "status": "active", "current_period_end": 1764547200}`),
	}

	sub, err := event.Subscription()
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, int64(1764547200), sub.CurrentPeriodEnd)
}

func TestWebhookEventMalformedPayload(t *testing.T) {
	event := &WebhookEvent{Type: EventPaymentSucceeded, Raw: json.RawMessage(`{not json`)}

	_, err := event.PaymentIntent()
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = event.Subscription()
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = event.Invoice()
	assert.ErrorIs(t, err, ErrUpstream)
}
