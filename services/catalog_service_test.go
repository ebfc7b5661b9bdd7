package services

import (
	"context"
	"testing"
	"time"

	"trendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *mockProductStore, *mockActivityStore) {
	t.Helper()
	products := newMockProductStore()
	activity := newMockActivityStore()

	categories := newMockCategoryStore()
	categories.add(&models.Category{ID: 1, Name: "Electronics", IsActive: true}, 2)
	categories.add(&models.Category{ID: 2, Name: "Phones", ParentID: intPtr(1), IsActive: true})

	products.add(&models.Product{ID: 1, Title: "Wireless Keyboard", CategoryID: 1, Price: 49.90, StockCount: 10})
	products.add(&models.Product{ID: 2, Title: "Budget Phone", CategoryID: 2, Price: 199, SalePrice: float64Ptr(149), StockCount: 5})
	products.add(&models.Product{ID: 3, Title: "Blender", CategoryID: 4, Price: 80, StockCount: 3})

	svc := NewCatalogService(products, activity, NewCategoryService(categories, nil, time.Minute))
	return svc, products, activity
}

func TestListByCategoryIncludesDescendants(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	items, total, err := svc.ListByCategory(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Wireless Keyboard", items[0].Title)
	assert.Equal(t, "Budget Phone", items[1].Title)
}

func TestSearchRecordsSignedInQueries(t *testing.T) {
	svc, _, activity := newCatalogFixture(t)

	items, total, err := svc.Search(context.Background(), 7, "  phone ", 0, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Budget Phone", items[0].Title)

	terms, err := activity.SearchTermsSince(context.Background(), 7, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, terms, "recorded terms are trimmed")
}

func TestSearchAnonymousIsNotRecorded(t *testing.T) {
	svc, _, activity := newCatalogFixture(t)

	_, _, err := svc.Search(context.Background(), 0, "phone", 0, 1, 10)
	require.NoError(t, err)

	terms, _ := activity.SearchTermsSince(context.Background(), 0, time.Time{})
	assert.Empty(t, terms)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, _, err := svc.Search(context.Background(), 7, "   ", 0, 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetProductRecordsView(t *testing.T) {
	svc, _, activity := newCatalogFixture(t)

	product, err := svc.GetProduct(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "Budget Phone", product.Title)

	views, _ := activity.ViewedProductIDsSince(context.Background(), 7, time.Time{})
	assert.Equal(t, []int{2}, views)

	_, err = svc.GetProduct(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDealsOnlyDiscounted(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	items, total, err := svc.ListDeals(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Budget Phone", items[0].Title)
}

func TestBestOfValidatesPeriod(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, err := svc.BestOf(context.Background(), "quarter")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBestOfEmptyBeforeFirstAggregation(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	items, err := svc.BestOf(context.Background(), models.BestOfPeriodWeek)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBestOfResolvesStoredIDs(t *testing.T) {
	svc, _, activity := newCatalogFixture(t)
	require.NoError(t, activity.ReplaceBestOf(context.Background(), models.BestOfPeriodWeek, []int{2, 1}, time.Now()))

	items, err := svc.BestOf(context.Background(), models.BestOfPeriodWeek)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Budget Phone", items[0].Title, "the stored rank order is preserved")
	assert.Equal(t, "Wireless Keyboard", items[1].Title)
}

func TestCreateProductRejectsSalePriceAtOrAbovePrice(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, err := svc.CreateProduct(context.Background(), models.CreateProductRequest{
		Title: "Bad Deal", CategoryID: 1, Price: 50, SalePrice: float64Ptr(50), StockCount: 1,
	}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProductPartialAndSaleClear(t *testing.T) {
	svc, products, _ := newCatalogFixture(t)

	updated, err := svc.UpdateProduct(context.Background(), 2, models.UpdateProductRequest{
		Title:     "Budget Phone v2",
		SalePrice: float64Ptr(0), // clears the sale
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Budget Phone v2", updated.Title)
	assert.Nil(t, updated.SalePrice)
	assert.Equal(t, float64(199), updated.Price, "untouched fields keep their value")

	stored, _ := products.FindByID(context.Background(), 2)
	assert.Nil(t, stored.SalePrice)
}

func TestDeleteProductUnknownID(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	require.NoError(t, svc.DeleteProduct(context.Background(), 3))
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), 3), ErrNotFound)
}
