package services

import (
	"context"
	"testing"

	"trendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeProductAdjustsCount(t *testing.T) {
	likes := newMockLikeStore()
	products := newMockProductStore()
	tasks := NewTaskQueue(1, 16, 1, 0)
	svc := NewLikeService(likes, products, tasks)

	products.add(&models.Product{ID: 1, Price: 10, LikeCount: 0})

	require.NoError(t, svc.LikeProduct(context.Background(), 7, 1))
	tasks.Close()

	p, _ := products.FindByID(context.Background(), 1)
	assert.Equal(t, 1, p.LikeCount)
}

func TestLikeProductDuplicate(t *testing.T) {
	likes := newMockLikeStore()
	products := newMockProductStore()
	tasks := NewTaskQueue(1, 16, 1, 0)
	svc := NewLikeService(likes, products, tasks)

	products.add(&models.Product{ID: 1, Price: 10})

	require.NoError(t, svc.LikeProduct(context.Background(), 7, 1))
	err := svc.LikeProduct(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrConflict)
	tasks.Close()
}

func TestRemoveLikeRoundTrip(t *testing.T) {
	likes := newMockLikeStore()
	products := newMockProductStore()
	tasks := NewTaskQueue(1, 16, 1, 0)
	svc := NewLikeService(likes, products, tasks)

	products.add(&models.Product{ID: 1, Price: 10})

	require.NoError(t, svc.LikeProduct(context.Background(), 7, 1))
	require.NoError(t, svc.RemoveLike(context.Background(), 7, 1))
	tasks.Close()

	p, _ := products.FindByID(context.Background(), 1)
	assert.Equal(t, 0, p.LikeCount)
}

func TestRemoveLikeNeverLiked(t *testing.T) {
	likes := newMockLikeStore()
	products := newMockProductStore()
	tasks := NewTaskQueue(1, 16, 1, 0)
	svc := NewLikeService(likes, products, tasks)

	products.add(&models.Product{ID: 1, Price: 10})

	err := svc.RemoveLike(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	tasks.Close()
}

func TestLikeUnknownProduct(t *testing.T) {
	svc := NewLikeService(newMockLikeStore(), newMockProductStore(), nil)

	err := svc.LikeProduct(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
