package domain

// LineItem is one (product, weight) slot in the cart. Two slots are the same
// iff both product ID and weight match, so a shopper can hold several weight
// variants of one product at once.
type LineItem struct {
	ProductID int64   `json:"id"`
	Quantity  int     `json:"quantity"`
	Weight    Weight  `json:"weight"`
	Product   *Product `json:"product,omitempty"`
}

// CartState is the published view of the cart: the line items plus the
// derived aggregates and the panel-visibility flag.
type CartState struct {
	Items       []LineItem `json:"items"`
	IsOpen      bool       `json:"isOpen"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount int64      `json:"totalAmount"`
}

// TotalItems sums the quantities across all line items.
func TotalItems(items []LineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// TotalAmount folds the line items through the price resolver. Items without
// a product snapshot (possible in snapshots written by older clients)
// contribute nothing rather than failing.
func TotalAmount(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total += UnitPrice(item.Product, item.Weight) * int64(item.Quantity)
	}
	return total
}

// FindLine returns the index of the line item matching the (productID, weight)
// key, or -1 if absent.
func FindLine(items []LineItem, productID int64, weight Weight) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].Weight == weight {
			return i
		}
	}
	return -1
}
