package jobs

import (
	"context"
	"log"
	"sort"
	"time"

	"trendora/models"
	"trendora/repositories"

	"github.com/robfig/cron/v3"
)

const (
	jobAttempts    = 3
	jobRetryDelay  = 30 * time.Second
	jobTimeout     = 2 * time.Minute
	trendingWindow = 30 * 24 * time.Hour
	trendingTopN   = 5
	bestOfListSize = 10
)

// Scheduler runs the periodic aggregation jobs: weekly and monthly best
// sellers and the trending-searches top list. Each run retries a few times
// before giving up until the next tick.
type Scheduler struct {
	cron     *cron.Cron
	orders   repositories.OrderStore
	products repositories.ProductStore
	activity repositories.ActivityStore
}

func NewScheduler(orders repositories.OrderStore, products repositories.ProductStore, activity repositories.ActivityStore) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		orders:   orders,
		products: products,
		activity: activity,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("10 0 * * 1", func() {
		s.runWithRetry("best-of-week", s.refreshBestOfWeek)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 0 1 * *", func() {
		s.runWithRetry("best-of-month", s.refreshBestOfMonth)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", func() {
		s.runWithRetry("trending-searches", s.refreshTrendingSearches)
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Aggregation scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runWithRetry(name string, fn func(ctx context.Context) error) {
	for attempt := 1; attempt <= jobAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		err := fn(ctx)
		cancel()
		if err == nil {
			log.Printf("Job %s completed", name)
			return
		}
		log.Printf("Job %s attempt %d/%d failed: %v", name, attempt, jobAttempts, err)
		if attempt < jobAttempts {
			time.Sleep(jobRetryDelay)
		}
	}
	log.Printf("Job %s gave up after %d attempts", name, jobAttempts)
}

func (s *Scheduler) refreshBestOfWeek(ctx context.Context) error {
	return s.refreshBestOf(ctx, models.BestOfPeriodWeek, 7*24*time.Hour)
}

func (s *Scheduler) refreshBestOfMonth(ctx context.Context) error {
	return s.refreshBestOf(ctx, models.BestOfPeriodMonth, trendingWindow)
}

func (s *Scheduler) refreshBestOf(ctx context.Context, period string, window time.Duration) error {
	to := time.Now()
	from := to.Add(-window)

	productIDs, err := s.orders.TopOrderedProducts(ctx, from, to, bestOfListSize)
	if err != nil {
		return err
	}
	ranked, err := s.rankByRating(ctx, productIDs)
	if err != nil {
		return err
	}
	return s.activity.ReplaceBestOf(ctx, period, ranked, from)
}

// rankByRating orders the most-ordered candidates by their average rating,
// best first, before the list is stored. Ties keep their order-volume rank.
func (s *Scheduler) rankByRating(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return ids, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]float64, len(products))
	for _, p := range products {
		byID[p.ID] = p.AverageRating
	}
	ranked := append([]int{}, ids...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return byID[ranked[i]] > byID[ranked[j]]
	})
	return ranked, nil
}

// refreshTrendingSearches recomputes the top searched terms of the last
// month. Terms are lowercased and grouped by the store.
func (s *Scheduler) refreshTrendingSearches(ctx context.Context) error {
	entries, err := s.activity.AggregateSearchTerms(ctx, time.Now().Add(-trendingWindow), trendingTopN)
	if err != nil {
		return err
	}
	return s.activity.ReplaceTrendingSearches(ctx, entries)
}
