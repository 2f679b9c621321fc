package domain

// Catalog category constants as the commerce backend reports them.
const (
	CategoryNut      = "NUT"
	CategoryDryFruit = "DRY FRUIT"
	CategorySpice    = "SPICE"
	CategorySeeds    = "SEEDS"
)

// Product is a catalog record owned by the commerce backend. The storefront
// never mutates products; cart line items hold a snapshot taken at add time.
//
// Pricing data arrives in up to three layers: an explicit per-tier price map
// (Prices, keyed by grams), legacy discrete tier fields (Price50g..Price500g),
// and the canonical RetailPrice that all fallbacks derive from. Partially
// populated records are common, so any layer may be missing.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	SubCategory *string `json:"subCategory,omitempty"`

	RetailPrice int64            `json:"retailPrice"`
	Price50g    *int64           `json:"price50g,omitempty"`
	Price100g   *int64           `json:"price100g,omitempty"`
	Price200g   *int64           `json:"price200g,omitempty"`
	Price250g   *int64           `json:"price250g,omitempty"`
	Price500g   *int64           `json:"price500g,omitempty"`
	Prices      map[string]int64 `json:"prices,omitempty"`

	ImageURL       *string  `json:"imageUrl,omitempty"`
	ImageFilenames []string `json:"imageFilenames,omitempty"`
	Badge          string   `json:"badge,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	IsActive       bool     `json:"isActive,omitempty"`

	// Combo-specific fields. A combo is a fixed-price bundle: Price wins over
	// RetailPrice, weight never applies, and Items lists the bundle contents
	// for display only.
	SKU     string      `json:"sku,omitempty"`
	Price   *int64      `json:"price,omitempty"`
	IsCombo bool        `json:"isCombo,omitempty"`
	Items   []ComboItem `json:"items,omitempty"`
}

// ComboItem is one entry of a combo bundle.
type ComboItem struct {
	QuantityInGrams int        `json:"quantityInGrams"`
	Item            ComboEntry `json:"item"`
}

// ComboEntry is the contained-item reference inside a ComboItem.
type ComboEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	SubCategory *string `json:"subCategory,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// ComboTotalGrams sums the bundle entries' gram quantities. Informational
// only; combo pricing never depends on weight.
func (p *Product) ComboTotalGrams() int {
	var total int
	for _, it := range p.Items {
		total += it.QuantityInGrams
	}
	return total
}
