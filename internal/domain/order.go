package domain

// Payment methods accepted by the commerce backend.
const (
	PaymentCashOnDelivery = "COD"
	PaymentOnline         = "ONLINE"
)

// OrderItem is one cart line flattened for the checkout request. Price is the
// resolved unit price at the moment of checkout; the backend treats it as
// authoritative for the receipt.
type OrderItem struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
	Grams    int   `json:"grams"`
	Price    int64 `json:"price"`
}

// ShippingAddress is the delivery address collected at checkout.
type ShippingAddress struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Phone      string `json:"phone,omitempty"`
}

// OrderRequest is the payload posted to the backend's checkout endpoint.
type OrderRequest struct {
	CustomerID      *int64          `json:"customerId,omitempty"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Notes           string          `json:"notes,omitempty"`
}

// OrderConfirmation is the backend's acknowledgement of a placed order.
type OrderConfirmation struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
}

// OrderStatus is a tracking snapshot for a previously placed order.
type OrderStatus struct {
	OrderID   int64             `json:"orderId"`
	Status    string            `json:"status"`
	Total     int64             `json:"total"`
	PlacedAt  string            `json:"placedAt,omitempty"`
	Items     []OrderStatusItem `json:"items,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// OrderStatusItem is one line of a tracked order.
type OrderStatusItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Grams    int    `json:"grams"`
	Price    int64  `json:"price"`
}
