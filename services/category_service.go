package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"trendora/models"
	"trendora/repositories"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CategoryService serves the category tree. Descendant sets are cached in
// Redis because listing "everything under Electronics" walks the tree on
// every category page; the singleflight group keeps a cache miss from
// fanning out into concurrent identical walks.
type CategoryService struct {
	categories repositories.CategoryStore
	rdb        *redis.Client
	cacheTTL   time.Duration
	group      singleflight.Group
}

func NewCategoryService(categories repositories.CategoryStore, rdb *redis.Client, cacheTTL time.Duration) *CategoryService {
	return &CategoryService{categories: categories, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *CategoryService) ListRootCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListRoot(ctx)
}

func (s *CategoryService) ListChildren(ctx context.Context, parentID int) ([]models.Category, error) {
	if _, err := s.categories.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, parentID)
		}
		return nil, err
	}
	return s.categories.ListChildren(ctx, parentID)
}

// DescendantIDs returns the category plus every active descendant, cached.
func (s *CategoryService) DescendantIDs(ctx context.Context, categoryID int) ([]int, error) {
	cacheKey := "category:descendants:" + strconv.Itoa(categoryID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var ids []int
			if err := json.Unmarshal([]byte(cached), &ids); err == nil {
				return ids, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Category cache read failed: %v", err)
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		ids, err := s.categories.DescendantIDs(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(ids); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
					log.Printf("Category cache write failed: %v", err)
				}
			}
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]int), nil
}
