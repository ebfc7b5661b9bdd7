package services

import (
	"context"
	"errors"
	"fmt"

	"trendora/repositories"
)

// LikeService records like/unlike events and keeps the product's like count
// in step through the task queue.
type LikeService struct {
	likes    repositories.LikeStore
	products repositories.ProductStore
	tasks    *TaskQueue
}

func NewLikeService(likes repositories.LikeStore, products repositories.ProductStore, tasks *TaskQueue) *LikeService {
	return &LikeService{likes: likes, products: products, tasks: tasks}
}

func (s *LikeService) LikeProduct(ctx context.Context, userID, productID int) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.likes.Create(ctx, userID, productID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrConflict
		}
		return err
	}

	s.adjustCount(productID, 1)
	return nil
}

func (s *LikeService) RemoveLike(ctx context.Context, userID, productID int) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.likes.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.adjustCount(productID, -1)
	return nil
}

func (s *LikeService) adjustCount(productID, delta int) {
	if s.tasks == nil {
		return
	}
	s.tasks.Enqueue(Task{
		Name: fmt.Sprintf("like-count-%d", productID),
		Run: func(ctx context.Context) error {
			return s.products.AdjustLikeCount(ctx, productID, delta)
		},
	})
}
