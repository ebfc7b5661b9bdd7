package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trendora/models"
	"trendora/repositories"
)

// In-memory stores for service tests. They honor the same sentinel errors as
// the pgx implementations so error-path tests exercise the real mappings.

type mockProductStore struct {
	mu       sync.RWMutex
	products map[int]*models.Product
	nextID   int

	decrementErr error
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{products: map[int]*models.Product{}, nextID: 1}
}

func (m *mockProductStore) add(p *models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	} else if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductStore) FindByID(_ context.Context, id int) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// FindByIDs returns ascending id order regardless of the requested order,
// like an unordered table scan. Callers that need rank order must restore it.
func (m *mockProductStore) FindByIDs(_ context.Context, ids []int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sorted := append([]int{}, ids...)
	sort.Ints(sorted)
	out := []models.Product{}
	for _, id := range sorted {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductStore) Create(_ context.Context, p *models.Product) error {
	m.add(p)
	return nil
}

func (m *mockProductStore) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *p
	m.products[p.ID] = &clone
	return nil
}

func (m *mockProductStore) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductStore) sorted() []models.Product {
	ids := make([]int, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.products[id])
	}
	return out
}

func (m *mockProductStore) List(_ context.Context, page, limit int) ([]models.Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sorted()
	return paginate(all, page, limit), len(all), nil
}

func (m *mockProductStore) ListByCategoryIDs(_ context.Context, categoryIDs []int, page, limit int) ([]models.Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := map[int]bool{}
	for _, id := range categoryIDs {
		set[id] = true
	}
	matched := []models.Product{}
	for _, p := range m.sorted() {
		if set[p.CategoryID] {
			matched = append(matched, p)
		}
	}
	return paginate(matched, page, limit), len(matched), nil
}

func (m *mockProductStore) Search(_ context.Context, query string, categoryID, page, limit int) ([]models.Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []models.Product{}
	for _, p := range m.sorted() {
		if !strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			continue
		}
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		matched = append(matched, p)
	}
	return paginate(matched, page, limit), len(matched), nil
}

func (m *mockProductStore) ListDeals(_ context.Context, page, limit int) ([]models.Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []models.Product{}
	for _, p := range m.sorted() {
		if p.SalePrice != nil {
			matched = append(matched, p)
		}
	}
	return paginate(matched, page, limit), len(matched), nil
}

func (m *mockProductStore) DecrementStock(_ context.Context, id, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decrementErr != nil {
		return m.decrementErr
	}
	p, ok := m.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if p.StockCount < qty {
		return repositories.ErrInsufficientStock
	}
	p.StockCount -= qty
	return nil
}

func (m *mockProductStore) AdjustStock(_ context.Context, id, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.StockCount += delta
	if p.StockCount < 0 {
		p.StockCount = 0
	}
	return nil
}

func (m *mockProductStore) UpdateRating(_ context.Context, id, reviewCount int, averageRating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.ReviewCount = reviewCount
	p.AverageRating = averageRating
	return nil
}

func (m *mockProductStore) AdjustLikeCount(_ context.Context, id, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.LikeCount += delta
	if p.LikeCount < 0 {
		p.LikeCount = 0
	}
	return nil
}

func paginate(items []models.Product, page, limit int) []models.Product {
	start := (page - 1) * limit
	if start >= len(items) {
		return []models.Product{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type mockCartStore struct {
	mu    sync.RWMutex
	carts map[int]*models.Cart

	feeErr error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: map[int]*models.Cart{}}
}

func (m *mockCartStore) GetCart(_ context.Context, ownerID int) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cart, ok := m.carts[ownerID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *cart
	clone.Items = append([]models.CartItem{}, cart.Items...)
	return &clone, nil
}

func (m *mockCartStore) CreateCart(_ context.Context, ownerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[ownerID]; !ok {
		m.carts[ownerID] = &models.Cart{OwnerID: ownerID, Items: []models.CartItem{}, UpdatedAt: time.Now()}
	}
	return nil
}

func (m *mockCartStore) UpsertItem(_ context.Context, ownerID, productID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[ownerID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (m *mockCartStore) RemoveItem(_ context.Context, ownerID, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[ownerID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *mockCartStore) SetCargoFee(_ context.Context, ownerID int, fee float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feeErr != nil {
		return m.feeErr
	}
	cart, ok := m.carts[ownerID]
	if !ok {
		return repositories.ErrNotFound
	}
	cart.CargoFee = fee
	return nil
}

func (m *mockCartStore) Clear(_ context.Context, ownerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[ownerID]
	if !ok {
		return repositories.ErrNotFound
	}
	cart.Items = []models.CartItem{}
	cart.CargoFee = 0
	return nil
}

type mockOrderStore struct {
	mu     sync.RWMutex
	orders map[int]*models.Order
	nextID int
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: map[int]*models.Order{}, nextID: 1}
}

func (m *mockOrderStore) add(o *models.Order) *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.nextID
		m.nextID++
	} else if o.ID >= m.nextID {
		m.nextID = o.ID + 1
	}
	m.orders[o.ID] = o
	return o
}

func (m *mockOrderStore) Create(_ context.Context, o *models.Order) error {
	o.CreatedAt = time.Now()
	m.add(o)
	return nil
}

func (m *mockOrderStore) FindByID(_ context.Context, id int) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (m *mockOrderStore) FindUserOrder(ctx context.Context, orderID, userID int) (*models.Order, error) {
	o, err := m.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderStore) FindByPaymentIntent(_ context.Context, userID int, paymentIntentID string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.UserID == userID && o.PaymentIntentID == paymentIntentID {
			clone := *o
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockOrderStore) ListByUser(_ context.Context, userID, page, limit int) ([]models.Order, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrderStore) TopOrderedProducts(_ context.Context, from, to time.Time, limit int) ([]int, error) {
	return []int{}, nil
}

func (m *mockOrderStore) DeliveredProductIDs(_ context.Context, userID int) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[int]bool{}
	ids := []int{}
	for _, o := range m.orders {
		if o.UserID != userID || o.Status != models.OrderStatusDelivered {
			continue
		}
		for _, item := range o.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

type mockReviewStore struct {
	mu      sync.RWMutex
	reviews map[int]*models.Review
	nextID  int
}

func newMockReviewStore() *mockReviewStore {
	return &mockReviewStore{reviews: map[int]*models.Review{}, nextID: 1}
}

func (m *mockReviewStore) Create(_ context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.ProductID == r.ProductID && existing.OrderID == r.OrderID {
			return repositories.ErrDuplicate
		}
	}
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	m.reviews[r.ID] = r
	return nil
}

func (m *mockReviewStore) FindByID(_ context.Context, id int) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *mockReviewStore) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewStore) ListByProduct(_ context.Context, productID, page, limit int) ([]models.ReviewWithAuthor, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.ReviewWithAuthor{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, models.ReviewWithAuthor{Review: *r})
		}
	}
	return out, len(out), nil
}

func (m *mockReviewStore) ReviewedProductIDs(_ context.Context, orderID, userID int) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := []int{}
	for _, r := range m.reviews {
		if r.OrderID == orderID && r.UserID == userID {
			ids = append(ids, r.ProductID)
		}
	}
	return ids, nil
}

func (m *mockReviewStore) RecentComments(_ context.Context, userID int, since time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for _, r := range m.reviews {
		if r.UserID == userID && r.Comment != "" && r.CreatedAt.After(since) {
			out = append(out, r.Comment)
		}
	}
	return out, nil
}

type mockAddressStore struct {
	mu        sync.RWMutex
	addresses map[int]*models.UserAddress
	nextID    int
}

func newMockAddressStore() *mockAddressStore {
	return &mockAddressStore{addresses: map[int]*models.UserAddress{}, nextID: 1}
}

func (m *mockAddressStore) Create(_ context.Context, a *models.UserAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.IsDefault {
		for _, existing := range m.addresses {
			if existing.UserID == a.UserID {
				existing.IsDefault = false
			}
		}
	}
	a.ID = m.nextID
	m.nextID++
	m.addresses[a.ID] = a
	return nil
}

func (m *mockAddressStore) ListByUser(_ context.Context, userID int) ([]models.UserAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.UserAddress{}
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAddressStore) FindByID(_ context.Context, id int) (*models.UserAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.addresses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockAddressStore) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.addresses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *mockAddressStore) GetDefault(_ context.Context, userID int) (*models.UserAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.addresses {
		if a.UserID == userID && a.IsDefault {
			clone := *a
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAddressStore) HasDefault(ctx context.Context, userID int) (bool, error) {
	_, err := m.GetDefault(ctx, userID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockAddressStore) SetDefault(_ context.Context, userID, addressID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.addresses {
		if a.UserID == userID {
			a.IsDefault = a.ID == addressID
		}
	}
	return nil
}

type mockUserStore struct {
	mu     sync.RWMutex
	users  map[int]*models.User
	nextID int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[int]*models.User{}, nextID: 1}
}

func (m *mockUserStore) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserStore) FindByID(_ context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserStore) UpdateStripeCustomerID(_ context.Context, userID int, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.StripeCustomerID = customerID
	return nil
}

type likeKey struct{ userID, productID int }

type mockLikeStore struct {
	mu    sync.RWMutex
	likes map[likeKey]bool
}

func newMockLikeStore() *mockLikeStore {
	return &mockLikeStore{likes: map[likeKey]bool{}}
}

func (m *mockLikeStore) Create(_ context.Context, userID, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := likeKey{userID, productID}
	if m.likes[key] {
		return repositories.ErrDuplicate
	}
	m.likes[key] = true
	return nil
}

func (m *mockLikeStore) Delete(_ context.Context, userID, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := likeKey{userID, productID}
	if !m.likes[key] {
		return repositories.ErrNotFound
	}
	delete(m.likes, key)
	return nil
}

type mockActivityStore struct {
	mu       sync.RWMutex
	searches map[int][]string
	views    map[int][]int
	trending []models.TrendingSearch
	bestOf   map[string]*models.BestOfProducts
}

func newMockActivityStore() *mockActivityStore {
	return &mockActivityStore{
		searches: map[int][]string{},
		views:    map[int][]int{},
		bestOf:   map[string]*models.BestOfProducts{},
	}
}

func (m *mockActivityStore) RecordSearchTerm(_ context.Context, userID int, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[userID] = append(m.searches[userID], term)
	return nil
}

func (m *mockActivityStore) SearchTermsSince(_ context.Context, userID int, _ time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.searches[userID]...), nil
}

func (m *mockActivityStore) RecordProductView(_ context.Context, userID, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[userID] = append(m.views[userID], productID)
	return nil
}

func (m *mockActivityStore) ViewedProductIDsSince(_ context.Context, userID int, _ time.Time) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int{}, m.views[userID]...), nil
}

func (m *mockActivityStore) AggregateSearchTerms(_ context.Context, _ time.Time, limit int) ([]models.TrendingSearch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, terms := range m.searches {
		for _, t := range terms {
			counts[strings.ToLower(t)]++
		}
	}
	out := []models.TrendingSearch{}
	for term, count := range counts {
		out = append(out, models.TrendingSearch{TrendingSearchTerm: term, OccurrenceCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurrenceCount > out[j].OccurrenceCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockActivityStore) ReplaceTrendingSearches(_ context.Context, entries []models.TrendingSearch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trending = append([]models.TrendingSearch{}, entries...)
	return nil
}

func (m *mockActivityStore) ListTrendingSearches(_ context.Context) ([]models.TrendingSearch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.TrendingSearch{}, m.trending...), nil
}

func (m *mockActivityStore) ReplaceBestOf(_ context.Context, period string, productIDs []int, startDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bestOf[period] = &models.BestOfProducts{
		Period:     period,
		ProductIDs: append([]int{}, productIDs...),
		StartDate:  startDate,
		UpdatedAt:  time.Now(),
	}
	return nil
}

func (m *mockActivityStore) GetBestOf(_ context.Context, period string) (*models.BestOfProducts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bestOf[period]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

type mockSubscriptionStore struct {
	mu     sync.RWMutex
	subs   map[string]*models.Subscription
	nextID int
}

func newMockSubscriptionStore() *mockSubscriptionStore {
	return &mockSubscriptionStore{subs: map[string]*models.Subscription{}, nextID: 1}
}

func (m *mockSubscriptionStore) Create(_ context.Context, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[sub.StripeSubscriptionID]; ok {
		return repositories.ErrDuplicate
	}
	sub.ID = m.nextID
	m.nextID++
	sub.CreatedAt = time.Now()
	m.subs[sub.StripeSubscriptionID] = sub
	return nil
}

func (m *mockSubscriptionStore) FindByStripeID(_ context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[stripeSubscriptionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *sub
	return &clone, nil
}

func (m *mockSubscriptionStore) Update(_ context.Context, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.subs[sub.StripeSubscriptionID]
	if !ok {
		return repositories.ErrNotFound
	}
	*existing = *sub
	return nil
}

func (m *mockSubscriptionStore) ListByUser(_ context.Context, userID int) ([]models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Subscription{}
	for _, sub := range m.subs {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (m *mockSubscriptionStore) HasActive(_ context.Context, userID int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.UserID == userID && sub.IsActive && sub.Status == "active" {
			return true, nil
		}
	}
	return false, nil
}

type mockTrialStore struct {
	mu     sync.RWMutex
	trials map[int]*models.Trial
	nextID int
}

func newMockTrialStore() *mockTrialStore {
	return &mockTrialStore{trials: map[int]*models.Trial{}, nextID: 1}
}

func (m *mockTrialStore) Create(_ context.Context, trial *models.Trial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trials {
		if t.UserID == trial.UserID && (t.Status == models.TrialStatusShipping || t.Status == models.TrialStatusActive) {
			return repositories.ErrDuplicate
		}
	}
	trial.ID = m.nextID
	m.nextID++
	trial.CreatedAt = time.Now()
	clone := *trial
	m.trials[trial.ID] = &clone
	return nil
}

func (m *mockTrialStore) FindLiveByUser(_ context.Context, userID int) (*models.Trial, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trials {
		if t.UserID == userID && (t.Status == models.TrialStatusShipping || t.Status == models.TrialStatusActive) {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockTrialStore) FindLiveDetails(ctx context.Context, userID int) (*models.TrialDetails, error) {
	t, err := m.FindLiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.TrialDetails{Trial: *t}, nil
}

type mockTrialProductStore struct {
	mu       sync.RWMutex
	products map[int]*models.TrialProduct
}

func newMockTrialProductStore() *mockTrialProductStore {
	return &mockTrialProductStore{products: map[int]*models.TrialProduct{}}
}

func (m *mockTrialProductStore) add(p *models.TrialProduct) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *mockTrialProductStore) FindByID(_ context.Context, id int) (*models.TrialProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockTrialProductStore) all() []models.TrialProduct {
	out := []models.TrialProduct{}
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockTrialProductStore) List(_ context.Context, page, limit int) ([]models.TrialProduct, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginateTrialProducts(m.all(), page, limit)
}

func (m *mockTrialProductStore) ListLatest(_ context.Context, limit int) ([]models.TrialProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.all()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTrialProductStore) ListByCategoryIDs(_ context.Context, categoryIDs []int, page, limit int) ([]models.TrialProduct, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := map[int]bool{}
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	matched := []models.TrialProduct{}
	for _, p := range m.all() {
		if wanted[p.CategoryID] {
			matched = append(matched, p)
		}
	}
	return paginateTrialProducts(matched, page, limit)
}

func (m *mockTrialProductStore) Search(_ context.Context, query string, page, limit int) ([]models.TrialProduct, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	matched := []models.TrialProduct{}
	for _, p := range m.all() {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
			matched = append(matched, p)
		}
	}
	return paginateTrialProducts(matched, page, limit)
}

func paginateTrialProducts(products []models.TrialProduct, page, limit int) ([]models.TrialProduct, int, error) {
	total := len(products)
	start := (page - 1) * limit
	if start >= total {
		return []models.TrialProduct{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return products[start:end], total, nil
}

type mockCategoryStore struct {
	mu            sync.RWMutex
	categories    map[int]*models.Category
	descendantsOf map[int][]int
	walkCount     int
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{
		categories:    map[int]*models.Category{},
		descendantsOf: map[int][]int{},
	}
}

func (m *mockCategoryStore) add(c *models.Category, descendants ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	m.descendantsOf[c.ID] = append([]int{c.ID}, descendants...)
}

func (m *mockCategoryStore) ListRoot(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Category{}
	for _, c := range m.categories {
		if c.ParentID == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCategoryStore) ListChildren(_ context.Context, parentID int) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Category{}
	for _, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCategoryStore) FindByID(_ context.Context, id int) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockCategoryStore) DescendantIDs(_ context.Context, id int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.walkCount++
	ids, ok := m.descendantsOf[id]
	if !ok {
		return []int{}, nil
	}
	return append([]int{}, ids...), nil
}
