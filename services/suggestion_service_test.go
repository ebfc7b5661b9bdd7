package services

import (
	"context"
	"testing"

	"trendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	reply      string
	err        error
	lastPrompt string
}

func (o *fakeOracle) Complete(_ context.Context, _, userPrompt string) (string, error) {
	o.lastPrompt = userPrompt
	return o.reply, o.err
}

func newSuggestionFixture(t *testing.T, oracle ChatOracle) (*SuggestionService, *mockProductStore, *mockActivityStore) {
	t.Helper()
	products := newMockProductStore()
	activity := newMockActivityStore()
	svc := NewSuggestionService(products, newMockOrderStore(), newMockReviewStore(), activity, oracle)
	return svc, products, activity
}

func TestSuggestProductsNoActivityReturnsEmpty(t *testing.T) {
	oracle := &fakeOracle{reply: `{"product_ids":[1]}`}
	svc, products, _ := newSuggestionFixture(t, oracle)
	products.add(&models.Product{ID: 1, Title: "Mug", Price: 10})

	out, err := svc.SuggestProducts(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, out.Products)
	assert.Empty(t, oracle.lastPrompt, "oracle is not consulted without activity")
}

func TestSuggestProductsFiltersUnknownIDs(t *testing.T) {
	oracle := &fakeOracle{reply: `{"product_ids":[3, 99, 1, 3], "rationale":"likes kitchenware"}`}
	svc, products, activity := newSuggestionFixture(t, oracle)
	products.add(&models.Product{ID: 1, Title: "Mug", Price: 10})
	products.add(&models.Product{ID: 3, Title: "Kettle", Price: 40})
	require.NoError(t, activity.RecordSearchTerm(context.Background(), 7, "kettle"))

	out, err := svc.SuggestProducts(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, out.Products, 2, "unknown and duplicate ids are dropped")
	assert.Equal(t, "likes kitchenware", out.Rationale)
	assert.Equal(t, 3, out.Products[0].ID, "the oracle's rank order survives hydration")
	assert.Equal(t, 1, out.Products[1].ID)
}

func TestSuggestProductsToleratesCodeFences(t *testing.T) {
	oracle := &fakeOracle{reply: "```json\n{\"product_ids\":[1]}\n```"}
	svc, products, activity := newSuggestionFixture(t, oracle)
	products.add(&models.Product{ID: 1, Title: "Mug", Price: 10})
	require.NoError(t, activity.RecordProductView(context.Background(), 7, 1))

	out, err := svc.SuggestProducts(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, 1, out.Products[0].ID)
}

func TestSuggestProductsUnparseableReply(t *testing.T) {
	oracle := &fakeOracle{reply: "sorry, I cannot help with that"}
	svc, products, activity := newSuggestionFixture(t, oracle)
	products.add(&models.Product{ID: 1, Title: "Mug", Price: 10})
	require.NoError(t, activity.RecordSearchTerm(context.Background(), 7, "mug"))

	_, err := svc.SuggestProducts(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUpstream)
}
