package domain

import (
	"math"
	"strconv"
)

// Fallback multipliers applied to RetailPrice (the 100g baseline) when a tier
// has no explicit price. These are live pricing policy, not derived values.
const (
	multiplier50g  = 0.5
	multiplier200g = 1.8
	multiplier250g = 2.2
	multiplier500g = 4.0
)

// UnitPrice resolves the price of one unit of p at the given weight. It is
// pure and total: it never fails and always returns a price.
//
// Resolution order, first match wins:
//  1. Combos use Price (RetailPrice when absent or zero); weight is ignored.
//  2. An exact hit in the per-tier price map is used verbatim.
//  3. The legacy discrete field for the tier, when present and non-zero.
//  4. RetailPrice scaled by the tier multiplier, rounded half-up.
//
// A weight outside the enumerated set resolves to RetailPrice. The UI only
// offers valid weights, so that path is a safe default rather than an error.
func UnitPrice(p *Product, weight Weight) int64 {
	if p.IsCombo {
		if p.Price != nil && *p.Price != 0 {
			return *p.Price
		}
		return p.RetailPrice
	}

	if len(p.Prices) > 0 {
		if v, ok := p.Prices[strconv.Itoa(weight.Grams())]; ok {
			return v
		}
	}

	switch weight {
	case Weight50:
		return tierOrScaled(p.Price50g, p.RetailPrice, multiplier50g)
	case Weight100:
		if p.Price100g != nil && *p.Price100g != 0 {
			return *p.Price100g
		}
		return p.RetailPrice
	case Weight200:
		return tierOrScaled(p.Price200g, p.RetailPrice, multiplier200g)
	case Weight250:
		return tierOrScaled(p.Price250g, p.RetailPrice, multiplier250g)
	case Weight500:
		return tierOrScaled(p.Price500g, p.RetailPrice, multiplier500g)
	default:
		return p.RetailPrice
	}
}

// tierOrScaled returns the explicit tier price when present and non-zero,
// otherwise the retail price scaled by the tier multiplier.
func tierOrScaled(explicit *int64, retail int64, multiplier float64) int64 {
	if explicit != nil && *explicit != 0 {
		return *explicit
	}
	return roundHalfUp(float64(retail) * multiplier)
}

// roundHalfUp rounds to the nearest integer currency unit, halves up.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
