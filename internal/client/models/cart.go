package models

// CartItem is one line in the server-side cart.
// The booKId spelling matches the backend payload.
type CartItem struct {
	ID       int64   `json:"id"`
	BookID   int64   `json:"booKId"`
	BookName string  `json:"bookName"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	SubTotal float64 `json:"subTotal"`
	Image    string  `json:"image,omitempty"`
}

// Cart is the full cart payload returned by GetCartItems.
type Cart struct {
	Items        []CartItem `json:"items"`
	Total        float64    `json:"total"`
	DeliveryFees float64    `json:"deliveryFees"`
}
