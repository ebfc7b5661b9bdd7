package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trendora/models"
	"trendora/repositories"
)

// trialShippingLead is how long a new trial sits in shipping before the
// trial period itself begins; the period clock starts on delivery.
const trialShippingLead = 48 * time.Hour

// TrialService runs the subscriber perk: members can borrow one trial
// product at a time for its trial period. Starting a trial requires an
// active subscription, and a second trial cannot begin while one is still
// shipping or running.
type TrialService struct {
	trials        repositories.TrialStore
	trialProducts repositories.TrialProductStore
	subscriptions repositories.SubscriptionStore
	categories    *CategoryService
}

func NewTrialService(
	trials repositories.TrialStore,
	trialProducts repositories.TrialProductStore,
	subscriptions repositories.SubscriptionStore,
	categories *CategoryService,
) *TrialService {
	return &TrialService{
		trials:        trials,
		trialProducts: trialProducts,
		subscriptions: subscriptions,
		categories:    categories,
	}
}

func (s *TrialService) StartTrial(ctx context.Context, userID, trialProductID int) (*models.Trial, error) {
	active, err := s.subscriptions.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("%w: an active subscription is required to start a trial", ErrForbidden)
	}

	if _, err := s.trials.FindLiveByUser(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: a trial is already in progress", ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	product, err := s.trialProducts.FindByID(ctx, trialProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: trial product %d", ErrNotFound, trialProductID)
		}
		return nil, err
	}

	start := time.Now().Add(trialShippingLead)
	trial := &models.Trial{
		UserID:         userID,
		TrialProductID: product.ID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, product.TrialPeriodDays),
		Status:         models.TrialStatusShipping,
	}
	if err := s.trials.Create(ctx, trial); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a trial is already in progress", ErrConflict)
		}
		return nil, err
	}
	return trial, nil
}

// ActiveTrial returns the caller's live trial joined with its product, or
// ErrNotFound when nothing is shipping or running.
func (s *TrialService) ActiveTrial(ctx context.Context, userID int) (*models.TrialDetails, error) {
	details, err := s.trials.FindLiveDetails(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: no trial in progress", ErrNotFound)
	}
	return details, err
}

func (s *TrialService) ListTrialProducts(ctx context.Context, page, limit int) ([]models.TrialProduct, int, error) {
	return s.trialProducts.List(ctx, page, limit)
}

func (s *TrialService) LatestTrialProducts(ctx context.Context, limit int) ([]models.TrialProduct, error) {
	return s.trialProducts.ListLatest(ctx, limit)
}

func (s *TrialService) GetTrialProduct(ctx context.Context, id int) (*models.TrialProduct, error) {
	product, err := s.trialProducts.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: trial product %d", ErrNotFound, id)
	}
	return product, err
}

func (s *TrialService) SearchTrialProducts(ctx context.Context, query string, page, limit int) ([]models.TrialProduct, int, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, fmt.Errorf("%w: search query must not be blank", ErrValidation)
	}
	return s.trialProducts.Search(ctx, query, page, limit)
}

// TrialProductsByCategory lists trial products in the category and all of
// its descendants.
func (s *TrialService) TrialProductsByCategory(ctx context.Context, categoryID, page, limit int) ([]models.TrialProduct, int, error) {
	ids, err := s.categories.DescendantIDs(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	return s.trialProducts.ListByCategoryIDs(ctx, ids, page, limit)
}
