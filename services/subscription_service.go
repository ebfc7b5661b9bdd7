package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"trendora/models"
	"trendora/repositories"
)

// SubscriptionService keeps a local mirror of provider subscriptions. The
// provider owns the state machine; webhook events overwrite the mirror and
// are never re-derived locally.
type SubscriptionService struct {
	subscriptions repositories.SubscriptionStore
	users         repositories.UserStore
	provider      PaymentProvider
}

func NewSubscriptionService(subscriptions repositories.SubscriptionStore, users repositories.UserStore, provider PaymentProvider) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, provider: provider}
}

// SubscriptionCheckout is what the frontend needs to confirm the first
// payment of a newly created subscription.
type SubscriptionCheckout struct {
	Subscription *models.Subscription `json:"subscription"`
	ClientSecret string               `json:"client_secret,omitempty"`
}

// Subscribe creates a provider subscription for the user and records the
// mirror row. A provider customer is created on first use and remembered on
// the user record.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int, paymentMethodID, priceID string) (*SubscriptionCheckout, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = s.provider.EnsureCustomer(user.Email, user.FirstName+" "+user.LastName)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdateStripeCustomerID(ctx, userID, customerID); err != nil {
			return nil, err
		}
	}

	handle, err := s.provider.CreateSubscription(customerID, paymentMethodID, priceID)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:               userID,
		StripeSubscriptionID: handle.ID,
		Status:               handle.Status,
		IsActive:             handle.Status == "active",
	}
	if handle.StartDate > 0 {
		started := time.Unix(handle.StartDate, 0)
		sub.StartedAt = &started
	}
	if handle.PeriodEnd > 0 {
		expires := time.Unix(handle.PeriodEnd, 0)
		sub.ExpiresAt = &expires
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		// The provider subscription exists either way; the mirror row will be
		// recreated by the next webhook if this insert raced one.
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, err
		}
	}

	return &SubscriptionCheckout{Subscription: sub, ClientSecret: handle.ClientSecret}, nil
}

// Cancel schedules the subscription to end at the current period boundary.
// Only the owning user may cancel.
func (s *SubscriptionService) Cancel(ctx context.Context, userID int, stripeSubscriptionID string) error {
	sub, err := s.subscriptions.FindByStripeID(ctx, stripeSubscriptionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: subscription not found", ErrNotFound)
		}
		return err
	}
	if sub.UserID != userID {
		return fmt.Errorf("%w: subscription belongs to another user", ErrForbidden)
	}

	if err := s.provider.CancelSubscriptionAtPeriodEnd(stripeSubscriptionID); err != nil {
		return err
	}

	now := time.Now()
	sub.CanceledAt = &now
	return s.subscriptions.Update(ctx, sub)
}

func (s *SubscriptionService) ListUserSubscriptions(ctx context.Context, userID int) ([]models.Subscription, error) {
	return s.subscriptions.ListByUser(ctx, userID)
}

// ApplySubscriptionUpdate overwrites the mirror from a provider subscription
// event. Events for unknown subscriptions are logged and dropped, not
// retried: the provider will not resend and the mirror is best effort.
func (s *SubscriptionService) ApplySubscriptionUpdate(ctx context.Context, event *SubscriptionEvent) error {
	sub, err := s.subscriptions.FindByStripeID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("subscription webhook for unknown subscription %s, skipping", event.ID)
			return nil
		}
		return err
	}

	sub.Status = event.Status
	sub.IsActive = event.Status == "active"
	if event.CurrentPeriodEnd > 0 {
		expires := time.Unix(event.CurrentPeriodEnd, 0)
		sub.ExpiresAt = &expires
	}
	if event.CanceledAt > 0 {
		canceled := time.Unix(event.CanceledAt, 0)
		sub.CanceledAt = &canceled
	}
	return s.subscriptions.Update(ctx, sub)
}

// ApplyInvoicePaid flips an incomplete mirror row active once the first
// invoice settles.
func (s *SubscriptionService) ApplyInvoicePaid(ctx context.Context, event *InvoiceEvent) error {
	if event.Subscription == "" {
		return nil
	}
	sub, err := s.subscriptions.FindByStripeID(ctx, event.Subscription)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("invoice webhook for unknown subscription %s, skipping", event.Subscription)
			return nil
		}
		return err
	}

	sub.Status = "active"
	sub.IsActive = true
	return s.subscriptions.Update(ctx, sub)
}

// ApplyInvoiceFailed marks the mirror past due; the provider decides whether
// the subscription ultimately cancels.
func (s *SubscriptionService) ApplyInvoiceFailed(ctx context.Context, event *InvoiceEvent) error {
	if event.Subscription == "" {
		return nil
	}
	sub, err := s.subscriptions.FindByStripeID(ctx, event.Subscription)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	sub.Status = "past_due"
	sub.IsActive = false
	return s.subscriptions.Update(ctx, sub)
}
