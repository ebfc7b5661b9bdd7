package services

import (
	"trendora/models"
)

// Pricer computes cart totals and the tiered shipping fee. It is pure: it
// never touches storage, so callers decide when a computed fee gets persisted.
type Pricer struct {
	FreeThreshold float64
	FlatFee       float64
}

func NewPricer(freeThreshold, flatFee float64) *Pricer {
	return &Pricer{FreeThreshold: freeThreshold, FlatFee: flatFee}
}

// PricedLine pairs a cart line with the product it was resolved against at
// mutation time.
type PricedLine struct {
	Product  *models.Product
	Quantity int
}

// Total sums quantity * effective price over all lines. A line whose product
// carries neither a base nor a sale price breaks the pricing contract and is
// reported as ErrInvalidInput.
func (p *Pricer) Total(lines []PricedLine) (float64, error) {
	var total float64
	for _, line := range lines {
		if line.Product == nil {
			return 0, ErrInvalidInput
		}
		if line.Product.Price <= 0 && line.Product.SalePrice == nil {
			return 0, ErrInvalidInput
		}
		total += float64(line.Quantity) * line.Product.EffectivePrice()
	}
	return total, nil
}

// CargoFee applies the tiered shipping rule: orders strictly above the
// threshold ship free, everything else pays the flat fee.
func (p *Pricer) CargoFee(total float64) float64 {
	if total > p.FreeThreshold {
		return 0
	}
	return p.FlatFee
}

// Price resolves a whole cart in one step: total plus the fee it implies.
func (p *Pricer) Price(lines []PricedLine) (total, cargoFee float64, err error) {
	total, err = p.Total(lines)
	if err != nil {
		return 0, 0, err
	}
	return total, p.CargoFee(total), nil
}
