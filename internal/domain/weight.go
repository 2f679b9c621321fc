package domain

import "strconv"

// Weight is one of the five fixed gram denominations the storefront sells in.
// It is both a pricing-tier key and part of a cart line-item key.
type Weight int

const (
	Weight50  Weight = 50
	Weight100 Weight = 100
	Weight200 Weight = 200
	Weight250 Weight = 250
	Weight500 Weight = 500
)

// DefaultWeight is the tier preselected in the storefront UI.
const DefaultWeight = Weight100

// WeightOptions returns the selectable weight tiers in ascending order.
func WeightOptions() []Weight {
	return []Weight{Weight50, Weight100, Weight200, Weight250, Weight500}
}

// Valid reports whether w is one of the enumerated weight tiers.
func (w Weight) Valid() bool {
	switch w {
	case Weight50, Weight100, Weight200, Weight250, Weight500:
		return true
	}
	return false
}

// Grams returns the weight in grams.
func (w Weight) Grams() int {
	return int(w)
}

func (w Weight) String() string {
	return strconv.Itoa(int(w)) + "g"
}

// ParseWeight parses a gram value (e.g. "250") into a Weight. The second
// return value is false if the input is not one of the enumerated tiers.
func ParseWeight(s string) (Weight, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return ParseWeightGrams(n)
}

// ParseWeightGrams converts a gram count into a Weight, rejecting values
// outside the enumerated tiers.
func ParseWeightGrams(n int) (Weight, bool) {
	w := Weight(n)
	return w, w.Valid()
}
