package services

import (
	"context"
	"errors"
	"fmt"

	"trendora/models"
	"trendora/repositories"
)

// ReviewService guards review creation behind the order lifecycle and keeps
// the product's review aggregates in step incrementally, never by a full
// recount. Aggregate writes run on the task queue after the caller has been
// answered.
type ReviewService struct {
	reviews      repositories.ReviewStore
	orders       repositories.OrderStore
	products     repositories.ProductStore
	tasks        *TaskQueue
	commentLimit int
}

func NewReviewService(
	reviews repositories.ReviewStore,
	orders repositories.OrderStore,
	products repositories.ProductStore,
	tasks *TaskQueue,
	commentLimit int,
) *ReviewService {
	return &ReviewService{
		reviews:      reviews,
		orders:       orders,
		products:     products,
		tasks:        tasks,
		commentLimit: commentLimit,
	}
}

// CreateReview validates the precondition ladder in order: the order must
// exist, belong to the caller, be delivered, and contain the product; the
// (product, order) pair must not have been reviewed yet; the comment must fit
// the configured limit.
func (s *ReviewService) CreateReview(ctx context.Context, userID int, req models.CreateReviewRequest) (*models.Review, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrForbidden
	}

	if order.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: only delivered orders can be reviewed", ErrInvalidState)
	}

	inOrder := false
	for _, item := range order.Items {
		if item.ProductID == req.ProductID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return nil, fmt.Errorf("%w: product is not part of the order", ErrInvalidState)
	}

	if len(req.Comment) > s.commentLimit {
		return nil, fmt.Errorf("%w: comment exceeds the %d character limit", ErrValidation, s.commentLimit)
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.enqueueAggregate(fmt.Sprintf("review-aggregate-add-%d", review.ID), func(ctx context.Context) error {
		return s.applyRating(ctx, review.ProductID, review.Rating)
	})

	return review, nil
}

// DeleteComment removes the author's review and backs its rating out of the
// product aggregates. Only the author may delete.
func (s *ReviewService) DeleteComment(ctx context.Context, userID, reviewID int) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if review.UserID != userID {
		return ErrForbidden
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.enqueueAggregate(fmt.Sprintf("review-aggregate-remove-%d", reviewID), func(ctx context.Context) error {
		return s.removeRating(ctx, review.ProductID, review.Rating)
	})

	return nil
}

func (s *ReviewService) ListProductReviews(ctx context.Context, productID, page, limit int) ([]models.ReviewWithAuthor, int, error) {
	return s.reviews.ListByProduct(ctx, productID, page, limit)
}

// ReviewableProducts lists products from the order the user has not reviewed
// yet.
func (s *ReviewService) ReviewableProducts(ctx context.Context, userID, orderID int) ([]models.Product, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}

	reviewed, err := s.reviews.ReviewedProductIDs(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	reviewedSet := make(map[int]bool, len(reviewed))
	for _, id := range reviewed {
		reviewedSet[id] = true
	}

	remaining := []int{}
	for _, item := range order.Items {
		if !reviewedSet[item.ProductID] {
			remaining = append(remaining, item.ProductID)
		}
	}

	return s.products.FindByIDs(ctx, remaining)
}

func (s *ReviewService) enqueueAggregate(name string, run func(ctx context.Context) error) {
	if s.tasks == nil {
		return
	}
	s.tasks.Enqueue(Task{Name: name, Run: run})
}

// applyRating folds one new rating into the running average:
// (oldAvg*oldCount + rating) / newCount. Read-modify-write; concurrent
// reviewers of the same product share the lost-update exposure the cart has.
func (s *ReviewService) applyRating(ctx context.Context, productID int, rating float64) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	newCount := product.ReviewCount + 1
	newAvg := (product.AverageRating*float64(product.ReviewCount) + rating) / float64(newCount)
	return s.products.UpdateRating(ctx, productID, newCount, newAvg)
}

// removeRating backs one rating out, resetting the average to 0 when the last
// review disappears.
func (s *ReviewService) removeRating(ctx context.Context, productID int, rating float64) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.ReviewCount <= 0 {
		return nil
	}
	newCount := product.ReviewCount - 1
	var newAvg float64
	if newCount > 0 {
		newAvg = (product.AverageRating*float64(product.ReviewCount) - rating) / float64(newCount)
	}
	return s.products.UpdateRating(ctx, productID, newCount, newAvg)
}
