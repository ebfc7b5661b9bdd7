package repositories

import (
	"context"
	"errors"
	"time"

	"trendora/models"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientStock = errors.New("insufficient stock")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ProductStore is the catalog collaborator: read-mostly source of truth for
// price, sale price and stock.
type ProductStore interface {
	FindByID(ctx context.Context, id int) (*models.Product, error)
	// FindByIDs makes no ordering guarantee; callers holding a ranked id
	// list must restore the order themselves.
	FindByIDs(ctx context.Context, ids []int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, page, limit int) ([]models.Product, int, error)
	ListByCategoryIDs(ctx context.Context, categoryIDs []int, page, limit int) ([]models.Product, int, error)
	Search(ctx context.Context, query string, categoryID, page, limit int) ([]models.Product, int, error)
	ListDeals(ctx context.Context, page, limit int) ([]models.Product, int, error)

	// DecrementStock conditionally subtracts qty and reports
	// ErrInsufficientStock when the remaining stock cannot cover it.
	DecrementStock(ctx context.Context, id, qty int) error
	AdjustStock(ctx context.Context, id, delta int) error
	UpdateRating(ctx context.Context, id, reviewCount int, averageRating float64) error
	AdjustLikeCount(ctx context.Context, id, delta int) error
}

type CartStore interface {
	GetCart(ctx context.Context, ownerID int) (*models.Cart, error)
	CreateCart(ctx context.Context, ownerID int) error
	UpsertItem(ctx context.Context, ownerID, productID, quantity int) error
	RemoveItem(ctx context.Context, ownerID, productID int) error
	SetCargoFee(ctx context.Context, ownerID int, fee float64) error
	Clear(ctx context.Context, ownerID int) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int) (*models.Order, error)
	FindUserOrder(ctx context.Context, orderID, userID int) (*models.Order, error)
	FindByPaymentIntent(ctx context.Context, userID int, paymentIntentID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	TopOrderedProducts(ctx context.Context, from, to time.Time, limit int) ([]int, error)
	DeliveredProductIDs(ctx context.Context, userID int) ([]int, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id int) (*models.Review, error)
	Delete(ctx context.Context, id int) error
	ListByProduct(ctx context.Context, productID, page, limit int) ([]models.ReviewWithAuthor, int, error)
	ReviewedProductIDs(ctx context.Context, orderID, userID int) ([]int, error)
	RecentComments(ctx context.Context, userID int, since time.Time) ([]string, error)
}

type AddressStore interface {
	Create(ctx context.Context, address *models.UserAddress) error
	ListByUser(ctx context.Context, userID int) ([]models.UserAddress, error)
	FindByID(ctx context.Context, id int) (*models.UserAddress, error)
	Delete(ctx context.Context, id int) error
	GetDefault(ctx context.Context, userID int) (*models.UserAddress, error)
	HasDefault(ctx context.Context, userID int) (bool, error)
	SetDefault(ctx context.Context, userID, addressID int) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	UpdateStripeCustomerID(ctx context.Context, userID int, customerID string) error
}

type LikeStore interface {
	Create(ctx context.Context, userID, productID int) error
	Delete(ctx context.Context, userID, productID int) error
}

type CategoryStore interface {
	ListRoot(ctx context.Context) ([]models.Category, error)
	ListChildren(ctx context.Context, parentID int) ([]models.Category, error)
	FindByID(ctx context.Context, id int) (*models.Category, error)
	DescendantIDs(ctx context.Context, id int) ([]int, error)
}

type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
	FindByStripeID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
	ListByUser(ctx context.Context, userID int) ([]models.Subscription, error)
	// HasActive reports whether the user holds a subscription that is both
	// flagged active and in the 'active' status.
	HasActive(ctx context.Context, userID int) (bool, error)
}

type TrialProductStore interface {
	FindByID(ctx context.Context, id int) (*models.TrialProduct, error)
	List(ctx context.Context, page, limit int) ([]models.TrialProduct, int, error)
	ListLatest(ctx context.Context, limit int) ([]models.TrialProduct, error)
	ListByCategoryIDs(ctx context.Context, categoryIDs []int, page, limit int) ([]models.TrialProduct, int, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.TrialProduct, int, error)
}

type TrialStore interface {
	Create(ctx context.Context, trial *models.Trial) error
	// FindLiveByUser returns the user's trial still in the shipping or
	// active status, or ErrNotFound when there is none.
	FindLiveByUser(ctx context.Context, userID int) (*models.Trial, error)
	FindLiveDetails(ctx context.Context, userID int) (*models.TrialDetails, error)
}

// ActivityStore records the user signals that feed trending-search jobs and
// the AI suggestion oracle.
type ActivityStore interface {
	RecordSearchTerm(ctx context.Context, userID int, term string) error
	SearchTermsSince(ctx context.Context, userID int, since time.Time) ([]string, error)
	RecordProductView(ctx context.Context, userID, productID int) error
	ViewedProductIDsSince(ctx context.Context, userID int, since time.Time) ([]int, error)
	AggregateSearchTerms(ctx context.Context, since time.Time, limit int) ([]models.TrendingSearch, error)
	ReplaceTrendingSearches(ctx context.Context, entries []models.TrendingSearch) error
	ListTrendingSearches(ctx context.Context) ([]models.TrendingSearch, error)
	ReplaceBestOf(ctx context.Context, period string, productIDs []int, startDate time.Time) error
	GetBestOf(ctx context.Context, period string) (*models.BestOfProducts, error)
}
