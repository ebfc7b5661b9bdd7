package services

import (
	"testing"

	"trendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func TestPricerCargoFee(t *testing.T) {
	pricer := NewPricer(200, 15)

	assert.Equal(t, 15.0, pricer.CargoFee(0), "empty cart pays the flat fee")
	assert.Equal(t, 15.0, pricer.CargoFee(199.99))
	assert.Equal(t, 15.0, pricer.CargoFee(200), "exactly at the threshold still pays")
	assert.Equal(t, 0.0, pricer.CargoFee(200.01), "strictly above ships free")
}

func TestPricerTotalUsesSalePrice(t *testing.T) {
	pricer := NewPricer(200, 15)

	lines := []PricedLine{
		{Product: &models.Product{ID: 1, Price: 100}, Quantity: 2},
		{Product: &models.Product{ID: 2, Price: 80, SalePrice: float64Ptr(50)}, Quantity: 1},
	}

	total, err := pricer.Total(lines)
	require.NoError(t, err)
	assert.Equal(t, 250.0, total)
}

func TestPricerPrice(t *testing.T) {
	pricer := NewPricer(200, 15)

	total, fee, err := pricer.Price([]PricedLine{
		{Product: &models.Product{ID: 1, Price: 60}, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, total)
	assert.Equal(t, 15.0, fee)

	total, fee, err = pricer.Price([]PricedLine{
		{Product: &models.Product{ID: 1, Price: 60}, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 240.0, total)
	assert.Equal(t, 0.0, fee)
}

func TestPricerTotalRejectsUnpricedProduct(t *testing.T) {
	pricer := NewPricer(200, 15)

	_, err := pricer.Total([]PricedLine{
		{Product: &models.Product{ID: 1, Price: 0}, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = pricer.Total([]PricedLine{
		{Product: nil, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPricerSaleOnlyProductIsPriced(t *testing.T) {
	pricer := NewPricer(200, 15)

	total, err := pricer.Total([]PricedLine{
		{Product: &models.Product{ID: 1, Price: 0, SalePrice: float64Ptr(25)}, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, total)
}
