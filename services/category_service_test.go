package services

import (
	"context"
	"testing"
	"time"

	"trendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newCategoryFixture(t *testing.T) (*CategoryService, *mockCategoryStore) {
	t.Helper()
	categories := newMockCategoryStore()
	categories.add(&models.Category{ID: 1, Name: "Electronics", IsActive: true}, 2, 3)
	categories.add(&models.Category{ID: 2, Name: "Phones", ParentID: intPtr(1), IsActive: true})
	categories.add(&models.Category{ID: 3, Name: "Laptops", ParentID: intPtr(1), IsActive: true})
	categories.add(&models.Category{ID: 4, Name: "Kitchen", IsActive: true})
	// nil redis client: the cache layer must degrade to direct tree walks
	return NewCategoryService(categories, nil, time.Minute), categories
}

func TestListRootCategories(t *testing.T) {
	svc, _ := newCategoryFixture(t)

	roots, err := svc.ListRootCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Electronics", roots[0].Name)
	assert.Equal(t, "Kitchen", roots[1].Name)
}

func TestListChildrenUnknownParent(t *testing.T) {
	svc, _ := newCategoryFixture(t)

	children, err := svc.ListChildren(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	_, err = svc.ListChildren(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDescendantIDsIncludesSelf(t *testing.T) {
	svc, _ := newCategoryFixture(t)

	ids, err := svc.DescendantIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, ids)

	ids, err = svc.DescendantIDs(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids, "a leaf category is its own only descendant")
}

func TestDescendantIDsUnknownCategory(t *testing.T) {
	svc, _ := newCategoryFixture(t)

	_, err := svc.DescendantIDs(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDescendantIDsWalksWithoutCache(t *testing.T) {
	svc, categories := newCategoryFixture(t)

	for i := 0; i < 3; i++ {
		_, err := svc.DescendantIDs(context.Background(), 1)
		require.NoError(t, err)
	}
	// sequential calls cannot share a singleflight flight, so each one walks
	assert.Equal(t, 3, categories.walkCount)
}
